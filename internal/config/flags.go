package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagListen     = flag.String("listen", "", "Scroll sync listen address (host:port)")
	flagNoSync     = flag.Bool("no-sync", false, "Disable the scroll sync listener")
	flagModel      = flag.String("model", "", "Path to the glTF/GLB model")
	flagEnv        = flag.String("env", "", "Path to the equirectangular environment image")
	flagWrite      = flag.Bool("write-config", false, "Write the effective config to the user config directory and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteRequested reports whether --write-config was given.
func WriteRequested() bool {
	return *flagWrite
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagListen != "" {
		cfg.Sync.Listen = *flagListen
	}
	if *flagNoSync {
		cfg.Sync.Enabled = false
	}
	if *flagModel != "" {
		cfg.Assets.Model = *flagModel
	}
	if *flagEnv != "" {
		cfg.Assets.Environment = *flagEnv
		cfg.Assets.EnvironmentFaces = nil
	}
}
