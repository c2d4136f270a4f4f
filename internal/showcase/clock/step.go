package clock

import "time"

// Stepper decides how far the idle rotation advances on one tick.
type Stepper interface {
	Step(now time.Time) float64
}

// FixedStep advances by a constant angle per tick. Rotation speed follows
// the display refresh rate.
type FixedStep float64

// DefaultIdleStep is the idle rotation per frame, in radians.
const DefaultIdleStep FixedStep = 0.002

// Step returns the fixed increment.
func (s FixedStep) Step(time.Time) float64 {
	return float64(s)
}

// RateStep advances by Rate radians per second of wall-clock time elapsed
// since the previous tick, independent of the refresh rate.
type RateStep struct {
	Rate float64
	// MaxDelta caps the elapsed time credited to one tick, so a stalled
	// window does not spin the model on resume. Zero means no cap.
	MaxDelta time.Duration

	last time.Time
}

// NewRateStep returns a rate stepper capped at 100ms per tick.
func NewRateStep(rate float64) *RateStep {
	return &RateStep{Rate: rate, MaxDelta: 100 * time.Millisecond}
}

// Step returns Rate × elapsed seconds. The first tick returns 0.
func (s *RateStep) Step(now time.Time) float64 {
	if s.last.IsZero() {
		s.last = now
		return 0
	}
	dt := now.Sub(s.last)
	s.last = now
	if dt < 0 {
		return 0
	}
	if s.MaxDelta > 0 && dt > s.MaxDelta {
		dt = s.MaxDelta
	}
	return s.Rate * dt.Seconds()
}
