package app

import (
	"testing"
	"time"
)

func TestFPSTitle(t *testing.T) {
	tests := []struct {
		name    string
		frames  uint64
		elapsed time.Duration
		want    string
	}{
		{"one second", 60, time.Second, "Jewelbox - 60 FPS"},
		{"slow frame", 90, 1500 * time.Millisecond, "Jewelbox - 60 FPS"},
		{"no frames", 0, time.Second, "Jewelbox - 0 FPS"},
		{"no time", 10, 0, "Jewelbox"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fpsTitle("Jewelbox", tt.frames, tt.elapsed); got != tt.want {
				t.Errorf("fpsTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
