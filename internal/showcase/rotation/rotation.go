// Package rotation holds the presentation rotation shared by the animation
// clock and the scroll synchronization bridge.
//
// Both writers run on the main loop, so State carries no locking.
package rotation

import gomath "math"

// FullTurn is one revolution in radians; scroll progress 1.0 maps to it.
const FullTurn = 2 * gomath.Pi

// State is the rotation record. The zero value is the initial state:
// no idle rotation yet and synchronization not captured.
type State struct {
	IdleAngle      float64
	ScrollAngle    float64
	OffsetCaptured bool
	CapturedOffset float64
}

// Composed returns the rotation applied to the presentation anchor.
func (s *State) Composed() float64 {
	return s.ScrollAngle + s.IdleAngle
}

// AdvanceIdle adds step to the idle angle. Negative and NaN steps are
// ignored so the idle angle never decreases.
func (s *State) AdvanceIdle(step float64) {
	if !(step > 0) {
		return
	}
	s.IdleAngle += step
}

// Sync maps scroll progress to the scroll angle. The first call captures
// the current idle angle as offset so the idle contribution accumulated so
// far is not lost when synchronization begins. Progress is not clamped.
// Returns true if this call performed the capture.
func (s *State) Sync(progress float64) bool {
	captured := false
	if !s.OffsetCaptured {
		s.CapturedOffset = s.IdleAngle
		s.OffsetCaptured = true
		captured = true
	}
	s.ScrollAngle = progress*FullTurn + s.CapturedOffset
	return captured
}

// Reset returns the scroll contribution to the uncaptured state. The idle
// angle is kept, so the next Sync captures it afresh.
func (s *State) Reset() {
	s.ScrollAngle = 0
	s.OffsetCaptured = false
	s.CapturedOffset = 0
}
