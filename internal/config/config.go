// Package config handles showcase configuration loading and management.
package config

// Config holds all showcase settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Scene    SceneConfig    `yaml:"scene"`
	Assets   AssetsConfig   `yaml:"assets"`
	Sync     SyncConfig     `yaml:"sync"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Title         string `yaml:"title"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Fullscreen    bool   `yaml:"fullscreen"`
	VSync         bool   `yaml:"vsync"`
	Samples       int    `yaml:"samples"` // MSAA samples for the window surface, 0 disables
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// PoseConfig is one camera/anchor layout.
type PoseConfig struct {
	Camera [3]float32 `yaml:"camera"`
	LookAt [3]float32 `yaml:"look_at"`
	Anchor [3]float32 `yaml:"anchor"`
}

// BloomConfig holds the bloom pass parameters.
type BloomConfig struct {
	Strength  float32 `yaml:"strength"`
	Radius    float32 `yaml:"radius"`
	Threshold float32 `yaml:"threshold"`
}

// ParticleConfig holds the ambient dust settings.
type ParticleConfig struct {
	Count     int     `yaml:"count"`
	Seed      int64   `yaml:"seed"` // 0 picks a random seed
	Spread    float32 `yaml:"spread"`
	MinSize   float32 `yaml:"min_size"`
	MaxSize   float32 `yaml:"max_size"`
	Color     uint32  `yaml:"color"`
	Amplitude float64 `yaml:"amplitude"`
	Spin      float32 `yaml:"spin"`
	Bound     float32 `yaml:"bound"` // 0 leaves drift unbounded
}

// SceneConfig holds layout, motion and look settings.
type SceneConfig struct {
	Breakpoint float64    `yaml:"breakpoint"`
	Mobile     PoseConfig `yaml:"mobile"`
	Desktop    PoseConfig `yaml:"desktop"`

	IdleStep float64 `yaml:"idle_step"` // radians per frame
	IdleRate float64 `yaml:"idle_rate"` // radians per second; when > 0 replaces IdleStep

	Bloom     BloomConfig    `yaml:"bloom"`
	Particles ParticleConfig `yaml:"particles"`

	Background      uint32  `yaml:"background"`
	BackgroundAlpha float32 `yaml:"background_alpha"`
	FogNear         float32 `yaml:"fog_near"`
	FogFar          float32 `yaml:"fog_far"`
	Exposure        float32 `yaml:"exposure"`
	ModelScale      float32 `yaml:"model_scale"`

	FOV  float32 `yaml:"fov"`
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`
}

// AssetsConfig holds model and environment paths.
type AssetsConfig struct {
	Roots            []string `yaml:"roots"` // Searched last to first for relative paths
	Model            string   `yaml:"model"`
	Environment      string   `yaml:"environment"`
	EnvironmentFaces []string `yaml:"environment_faces"` // +X -X +Y -Y +Z -Z, overrides Environment
	EnvMaxWidth      int      `yaml:"env_max_width"`
	FailurePolicy    string   `yaml:"failure_policy"` // "ignore" or "report"
}

// SyncConfig holds the scroll synchronization listener settings.
type SyncConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Listen         string   `yaml:"listen"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	QueueSize      int      `yaml:"queue_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the showcase defaults.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Title:         "jewelbox",
			Width:         1280,
			Height:        720,
			Fullscreen:    false,
			VSync:         true,
			Samples:       4,
			ScreenshotDir: "screenshots",
		},
		Scene: SceneConfig{
			Breakpoint: 768,
			Mobile: PoseConfig{
				Camera: [3]float32{0, 2.5, 3},
				Anchor: [3]float32{0, 0.5, 0},
			},
			Desktop: PoseConfig{
				Camera: [3]float32{2, 2.5, 3},
				Anchor: [3]float32{1, 1, 0},
			},
			IdleStep: 0.002,
			Bloom: BloomConfig{
				Strength:  0.15,
				Radius:    0.4,
				Threshold: 0.2,
			},
			Particles: ParticleConfig{
				Count:     200,
				Spread:    4,
				MinSize:   0.002,
				MaxSize:   0.007,
				Color:     0xFF4848,
				Amplitude: 0.0003,
				Spin:      0.001,
			},
			Background:      0xFFB5B5,
			BackgroundAlpha: 1,
			FogNear:         4,
			FogFar:          7,
			Exposure:        0.7,
			ModelScale:      0.5,
			FOV:             50,
			Near:            0.1,
			Far:             100,
		},
		Assets: AssetsConfig{
			Roots:         []string{"assets"},
			Model:         "glb/diamond.glb",
			Environment:   "hdri/brown_photostudio_01_1k.png",
			EnvMaxWidth:   1024,
			FailurePolicy: "ignore",
		},
		Sync: SyncConfig{
			Enabled:   true,
			Listen:    "127.0.0.1:8787",
			QueueSize: 64,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
