// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
)

// Action is what a key press asks the application to do.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionScreenshot
	ActionResetSync
	ActionToggleFullscreen
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Action Action
	Width  int
	Height int
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// ActionFor maps a key to its action.
func ActionFor(key sdl.Scancode) Action {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		return ActionQuit
	case sdl.SCANCODE_F12:
		return ActionScreenshot
	case sdl.SCANCODE_F5:
		return ActionResetSync
	case sdl.SCANCODE_F11:
		return ActionToggleFullscreen
	}
	return ActionNone
}

// Update polls SDL events and converts them to application events.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if e := Translate(event); e.Type != EventNone {
			i.events = append(i.events, e)
			if e.Type == EventQuit || e.Action == ActionQuit {
				quit = true
			}
		}
	}
	return quit
}

// Translate converts one SDL event. Unhandled events yield EventNone.
func Translate(event sdl.Event) Event {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
			return Event{
				Type:   EventKeyDown,
				Key:    e.Keysym.Scancode,
				Action: ActionFor(e.Keysym.Scancode),
			}
		}
	}
	return Event{}
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}
