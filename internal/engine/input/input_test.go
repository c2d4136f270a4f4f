package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		event sdl.Event
		want  Event
	}{
		{"quit", &sdl.QuitEvent{Type: sdl.QUIT}, Event{Type: EventQuit}},
		{
			"resize",
			&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_SIZE_CHANGED, Data1: 800, Data2: 600},
			Event{Type: EventWindowResize, Width: 800, Height: 600},
		},
		{
			"other window event",
			&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_MOVED},
			Event{},
		},
		{
			"escape",
			&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_ESCAPE}},
			Event{Type: EventKeyDown, Key: sdl.SCANCODE_ESCAPE, Action: ActionQuit},
		},
		{
			"screenshot",
			&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_F12}},
			Event{Type: EventKeyDown, Key: sdl.SCANCODE_F12, Action: ActionScreenshot},
		},
		{
			"repeat ignored",
			&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Repeat: 1, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_F12}},
			Event{},
		},
		{
			"key up ignored",
			&sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_F12}},
			Event{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Translate(tt.event); got != tt.want {
				t.Errorf("Translate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestActionFor(t *testing.T) {
	tests := []struct {
		key  sdl.Scancode
		want Action
	}{
		{sdl.SCANCODE_ESCAPE, ActionQuit},
		{sdl.SCANCODE_F12, ActionScreenshot},
		{sdl.SCANCODE_F5, ActionResetSync},
		{sdl.SCANCODE_F11, ActionToggleFullscreen},
		{sdl.SCANCODE_A, ActionNone},
	}
	for _, tt := range tests {
		if got := ActionFor(tt.key); got != tt.want {
			t.Errorf("ActionFor(%v) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
