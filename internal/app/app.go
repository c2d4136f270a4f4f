// Package app implements the main loop of the showcase: window events, sync
// messages and asset completions are handled between frames on one thread.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/jewelbox/internal/assets"
	"github.com/Faultbox/jewelbox/internal/config"
	"github.com/Faultbox/jewelbox/internal/engine/debug"
	"github.com/Faultbox/jewelbox/internal/engine/framebuffer"
	"github.com/Faultbox/jewelbox/internal/engine/input"
	"github.com/Faultbox/jewelbox/internal/engine/renderer"
	"github.com/Faultbox/jewelbox/internal/engine/scene"
	"github.com/Faultbox/jewelbox/internal/engine/window"
	"github.com/Faultbox/jewelbox/internal/logger"
	"github.com/Faultbox/jewelbox/internal/network"
	"github.com/Faultbox/jewelbox/internal/showcase/stage"
)

// App is the running showcase.
type App struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window   *window.Window
	input    *input.Input
	device   *renderer.Device
	factory  *renderer.Factory
	stage    *stage.Stage
	assets   *assets.Manager
	loader   *assets.Loader
	sync     *network.Server
	captures *debug.ScreenshotCapture

	screenshotPending bool
	loadErr           error

	titleAt     time.Time
	titleFrames uint64
}

// New opens the window, builds the stage and starts the sync listener and
// asset loads. Loads run until ctx is cancelled or Close is called.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{
		cfg:      cfg,
		log:      logger.Named("app"),
		assets:   assets.NewManager(cfg.Assets.Roots...),
		captures: debug.NewScreenshotCapture(cfg.Graphics.ScreenshotDir, "jewelbox"),
	}

	a.log.Info("initializing",
		zap.String("title", cfg.Graphics.Title),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	// Window first: it creates the GL context everything else needs.
	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Graphics.Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    cfg.Graphics.Samples,
	}, logger.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	if err := renderer.Init(logger.Named("renderer")); err != nil {
		a.Close()
		return nil, err
	}
	a.device = renderer.NewDevice(a.window, logger.Named("renderer"))
	if a.factory, err = renderer.NewFactory(logger.Named("renderer")); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create render passes: %w", err)
	}

	width, height := a.window.GetSize()
	a.stage, err = stage.New(cfg.Scene, a.device, a.factory, stage.Options{
		Width:  width,
		Height: height,
		Logger: logger.Named("stage"),
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.input = input.New()

	if cfg.Sync.Enabled {
		a.sync = network.NewServer(network.Config{
			Listen:         cfg.Sync.Listen,
			AllowedOrigins: cfg.Sync.AllowedOrigins,
			QueueSize:      cfg.Sync.QueueSize,
		}, logger.Named("sync"))
		if err := a.sync.Start(); err != nil {
			a.Close()
			return nil, err
		}
	}

	policy, err := assets.ParseFailurePolicy(cfg.Assets.FailurePolicy)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.loader = assets.NewLoader(ctx, assets.LoaderOptions{
		Policy: policy,
		Report: func(name string, err error) {
			a.loadErr = fmt.Errorf("loading %s: %w", name, err)
		},
		Logger: logger.Named("assets"),
	})
	a.startLoads()

	a.log.Info("initialized")
	return a, nil
}

// startLoads loads the environment, then the model. The model waits for the
// environment because its materials reflect it; a failed environment still
// lets the model load.
func (a *App) startLoads() {
	ac := a.cfg.Assets

	assets.Go(a.loader, "environment", func(context.Context) (*scene.Texture, error) {
		if ac.Environment == "" && len(ac.EnvironmentFaces) == 0 {
			return nil, nil
		}
		return assets.LoadEnvironment(a.assets, ac.Environment, ac.EnvironmentFaces, ac.EnvMaxWidth)
	}, func(env assets.Result[*scene.Texture]) {
		a.stage.EnvironmentLoaded(env.Value, env.Err)

		assets.Go(a.loader, "model", func(context.Context) (*scene.Node, error) {
			return assets.LoadModelFile(a.assets, ac.Model)
		}, func(model assets.Result[*scene.Node]) {
			a.stage.ModelLoaded(model.Value, model.Err)
		})
	})
}

// Run runs the main loop until the window closes or a reported load fails.
func (a *App) Run() error {
	a.running = true
	a.log.Info("starting main loop")

	for a.running {
		if a.input.Update() {
			a.running = false
			break
		}
		for _, event := range a.input.Events() {
			a.handleEvent(event)
		}

		if a.sync != nil {
			a.sync.Drain(func(payload []byte) {
				a.stage.HandleMessage(payload)
			})
		}

		a.loader.Dispatch()
		if a.loadErr != nil {
			return a.loadErr
		}

		a.stage.Tick()

		if a.screenshotPending {
			a.screenshotPending = false
			a.screenshot()
		}

		a.window.SwapBuffers()
		a.updateTitle(time.Now())
	}

	return nil
}

// updateTitle shows the frame rate in the window title once per second.
func (a *App) updateTitle(now time.Time) {
	frames := a.stage.Clock.Frames()
	if a.titleAt.IsZero() {
		a.titleAt, a.titleFrames = now, frames
		return
	}
	elapsed := now.Sub(a.titleAt)
	if elapsed < time.Second {
		return
	}
	a.window.SetTitle(fpsTitle(a.cfg.Graphics.Title, frames-a.titleFrames, elapsed))
	a.titleAt, a.titleFrames = now, frames
}

func fpsTitle(base string, frames uint64, elapsed time.Duration) string {
	if elapsed <= 0 {
		return base
	}
	return fmt.Sprintf("%s - %.0f FPS", base, float64(frames)/elapsed.Seconds())
}

func (a *App) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		a.stage.HandleResize(event.Width, event.Height)
	case input.EventKeyDown:
		switch event.Action {
		case input.ActionQuit:
			a.running = false
		case input.ActionScreenshot:
			a.screenshotPending = true
		case input.ActionResetSync:
			a.stage.Bridge.Reset()
		case input.ActionToggleFullscreen:
			if err := a.window.SetFullscreen(!a.window.Fullscreen()); err != nil {
				a.log.Warn("toggling fullscreen", zap.Error(err))
			}
		}
	}
}

func (a *App) screenshot() {
	w, h := a.device.BackingSize()
	path, err := a.captures.CaptureFromPixels(framebuffer.ReadScreen(w, h), w, h)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// Close stops loads and the listener and releases GL resources and the window.
func (a *App) Close() {
	a.log.Info("closing")

	if a.loader != nil {
		a.loader.Close()
	}
	if a.sync != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := a.sync.Close(ctx); err != nil {
			a.log.Warn("closing sync listener", zap.Error(err))
		}
		cancel()
	}
	if a.stage != nil {
		a.stage.Release()
	}
	if a.factory != nil {
		a.factory.Release()
	}
	if a.window != nil {
		a.window.Close()
	}
	a.assets.Close()
}
