// Package scrollsync turns external scroll progress messages into rotation.
//
// The bridge is stateful: the first accepted message captures the idle
// rotation accumulated so far, so the model does not jump back by that
// amount when scroll-driven rotation takes over. Malformed messages are
// dropped without touching the rotation state.
package scrollsync

import (
	"go.uber.org/zap"

	"github.com/Faultbox/jewelbox/internal/logger"
	"github.com/Faultbox/jewelbox/internal/showcase/rotation"
)

// Stats counts messages seen by a bridge.
type Stats struct {
	Accepted uint64
	Ignored  uint64
}

// Bridge feeds accepted scroll progress into a rotation.State.
type Bridge struct {
	state *rotation.State
	log   *zap.Logger
	stats Stats
}

// New creates a bridge writing into state. A nil logger disables logging.
func New(state *rotation.State, log *zap.Logger) *Bridge {
	return &Bridge{
		state: state,
		log:   logger.OrNop(log),
	}
}

// OnScrollMessage handles one delivered payload. See Parse for accepted shapes.
func (b *Bridge) OnScrollMessage(payload any) {
	value, ok := Parse(payload)
	if !ok {
		b.stats.Ignored++
		b.log.Debug("ignoring sync message", zap.Uint64("ignored", b.stats.Ignored))
		return
	}

	b.stats.Accepted++
	if b.state.Sync(value) {
		b.log.Info("scroll sync captured",
			zap.Float64("offset", b.state.CapturedOffset),
			zap.Float64("progress", value),
		)
	}
}

// Captured reports whether synchronization has begun.
func (b *Bridge) Captured() bool {
	return b.state.OffsetCaptured
}

// Stats returns message counters.
func (b *Bridge) Stats() Stats {
	return b.stats
}

// Reset returns the bridge to the uncaptured state. Hosts call this when the
// page is re-entered without a reload; nothing calls it implicitly.
func (b *Bridge) Reset() {
	b.state.Reset()
	b.log.Info("scroll sync reset")
}
