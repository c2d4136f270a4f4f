// Package renderer provides OpenGL rendering functionality: the render
// device, the scene pass and the bloom/output pass used by the postfx chain.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/jewelbox/internal/engine/framebuffer"
	"github.com/Faultbox/jewelbox/internal/engine/postfx"
	"github.com/Faultbox/jewelbox/internal/logger"
)

// Init loads OpenGL function pointers and sets default state.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func Init(log *zap.Logger) error {
	log = logger.OrNop(log)
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)
	return nil
}

// Surface reports the display density of the window being drawn to.
type Surface interface {
	PixelRatio() float64
}

// Device is the postfx.Device backed by the current GL context.
type Device struct {
	surface Surface
	log     *zap.Logger

	width, height int
	backW, backH  int
}

// NewDevice creates a device for surface.
func NewDevice(surface Surface, log *zap.Logger) *Device {
	return &Device{surface: surface, log: logger.OrNop(log)}
}

// PixelRatio returns the surface pixel ratio.
func (d *Device) PixelRatio() float64 {
	return d.surface.PixelRatio()
}

// SetSize records the logical size and sets the viewport to the backing size.
func (d *Device) SetSize(width, height int) {
	d.width, d.height = width, height
	d.backW, d.backH = postfx.Scale(width, height, d.PixelRatio())
	gl.Viewport(0, 0, int32(d.backW), int32(d.backH))
	d.log.Debug("device resized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("backingWidth", d.backW),
		zap.Int("backingHeight", d.backH),
	)
}

// BackingSize returns the drawable size in pixels.
func (d *Device) BackingSize() (int, int) {
	return d.backW, d.backH
}

// NewTarget allocates an HDR offscreen target.
func (d *Device) NewTarget(width, height int) (postfx.Target, error) {
	fb, err := framebuffer.New(width, height, framebuffer.HDR)
	if err != nil {
		return nil, err
	}
	return fb, nil
}
