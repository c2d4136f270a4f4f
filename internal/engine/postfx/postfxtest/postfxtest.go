// Package postfxtest provides in-memory implementations of the postfx
// interfaces for tests that run without a GPU.
package postfxtest

import (
	"errors"

	"github.com/Faultbox/jewelbox/internal/engine/postfx"
)

// ErrNoMemory is returned by a Device told to fail.
var ErrNoMemory = errors.New("postfxtest: out of target memory")

// Target records its size.
type Target struct {
	ID            int
	Width, Height int
	Released      bool
}

func (t *Target) Size() (int, int)         { return t.Width, t.Height }
func (t *Target) Resize(width, height int) { t.Width, t.Height = width, height }
func (t *Target) Release()                 { t.Released = true }

// Device records SetSize calls and the targets it allocates.
type Device struct {
	Ratio   float64
	Sizes   [][2]int
	Targets []*Target
	// FailAt makes the n-th NewTarget call (1-based) fail.
	FailAt int
}

// NewDevice returns a device with the given pixel ratio.
func NewDevice(ratio float64) *Device {
	return &Device{Ratio: ratio}
}

func (d *Device) PixelRatio() float64 { return d.Ratio }

func (d *Device) SetSize(width, height int) {
	d.Sizes = append(d.Sizes, [2]int{width, height})
}

// LastSize returns the most recent logical size, or zeros.
func (d *Device) LastSize() (int, int) {
	if len(d.Sizes) == 0 {
		return 0, 0
	}
	s := d.Sizes[len(d.Sizes)-1]
	return s[0], s[1]
}

func (d *Device) NewTarget(width, height int) (postfx.Target, error) {
	if d.FailAt > 0 && len(d.Targets)+1 == d.FailAt {
		return nil, ErrNoMemory
	}
	t := &Target{ID: len(d.Targets), Width: width, Height: height}
	d.Targets = append(d.Targets, t)
	return t, nil
}

// Pass counts renders and records its buffer size.
type Pass struct {
	PassName      string
	Swap          bool
	Width, Height int
	Renders       int
	ToScreen      bool

	// OnRender, if set, runs on every Render.
	OnRender func()
}

func (p *Pass) Name() string              { return p.PassName }
func (p *Pass) SetSize(width, height int) { p.Width, p.Height = width, height }
func (p *Pass) NeedsSwap() bool           { return p.Swap }

func (p *Pass) Render(_, _ postfx.Target, toScreen bool) {
	p.Renders++
	p.ToScreen = toScreen
	if p.OnRender != nil {
		p.OnRender()
	}
}
