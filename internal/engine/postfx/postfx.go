// Package postfx chains full-screen render passes over a pair of ping-pong
// render targets, the last pass drawing to the screen.
package postfx

import (
	"fmt"
	gomath "math"
)

// Target is an offscreen color buffer owned by a Device.
type Target interface {
	Size() (width, height int)
	Resize(width, height int)
	Release()
}

// Device is the drawing surface the chain renders to.
type Device interface {
	// PixelRatio is the number of backing pixels per logical pixel.
	PixelRatio() float64
	// SetSize sets the logical surface size; the backing store is size × PixelRatio.
	SetSize(width, height int)
	NewTarget(width, height int) (Target, error)
}

// Pass is one step of the chain.
type Pass interface {
	Name() string
	// SetSize receives the backing (pixel-ratio scaled) buffer size.
	SetSize(width, height int)
	// Render reads from read and writes into write, or to the screen when toScreen is set.
	Render(read, write Target, toScreen bool)
	// NeedsSwap reports whether write holds the pass output afterwards.
	NeedsSwap() bool
}

// Bloom configures a glow pass. Pixels brighter than Threshold are blurred
// over Radius and added back scaled by Strength.
type Bloom struct {
	Strength  float32
	Radius    float32
	Threshold float32
}

// Composer owns the targets and runs its passes in insertion order.
type Composer struct {
	device Device
	read   Target
	write  Target
	passes []Pass

	width  int
	height int
}

// NewComposer allocates two targets sized for width×height logical pixels.
func NewComposer(device Device, width, height int) (*Composer, error) {
	c := &Composer{device: device, width: width, height: height}
	bw, bh := c.BufferSize()

	var err error
	if c.read, err = device.NewTarget(bw, bh); err != nil {
		return nil, fmt.Errorf("creating read target: %w", err)
	}
	if c.write, err = device.NewTarget(bw, bh); err != nil {
		c.read.Release()
		return nil, fmt.Errorf("creating write target: %w", err)
	}
	return c, nil
}

// AddPass appends p to the chain and sizes it to the current buffers.
func (c *Composer) AddPass(p Pass) {
	p.SetSize(c.BufferSize())
	c.passes = append(c.passes, p)
}

// Passes returns the pass names in render order.
func (c *Composer) Passes() []string {
	names := make([]string, len(c.passes))
	for i, p := range c.passes {
		names[i] = p.Name()
	}
	return names
}

// Size returns the logical size.
func (c *Composer) Size() (width, height int) {
	return c.width, c.height
}

// BufferSize returns the logical size scaled by the device pixel ratio.
func (c *Composer) BufferSize() (width, height int) {
	return Scale(c.width, c.height, c.device.PixelRatio())
}

// SetSize resizes both targets and every pass.
func (c *Composer) SetSize(width, height int) {
	c.width, c.height = width, height
	bw, bh := c.BufferSize()
	c.read.Resize(bw, bh)
	c.write.Resize(bw, bh)
	for _, p := range c.passes {
		p.SetSize(bw, bh)
	}
}

// Render runs every pass once. The last pass renders to the screen.
func (c *Composer) Render() {
	last := len(c.passes) - 1
	for i, p := range c.passes {
		p.Render(c.read, c.write, i == last)
		if p.NeedsSwap() {
			c.read, c.write = c.write, c.read
		}
	}
}

// Release frees both targets.
func (c *Composer) Release() {
	c.read.Release()
	c.write.Release()
}

// Scale converts a logical size to backing pixels. Results are at least 1.
func Scale(width, height int, ratio float64) (int, int) {
	if !(ratio > 0) {
		ratio = 1
	}
	w := int(gomath.Round(float64(width) * ratio))
	h := int(gomath.Round(float64(height) * ratio))
	return max(w, 1), max(h, 1)
}
