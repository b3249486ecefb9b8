package runner

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/svgworld/physics"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SVGWORLD_"

// Config holds the stepping parameters of a Runner.
// Values are layered: DefaultConfig, then a YAML file, then the environment.
type Config struct {
	// Frames per simulated second.
	FrameRate float64 `yaml:"frameRate" env:"FRAME_RATE"`

	// Multiplier on the frame period; dt = TimeScale / FrameRate.
	TimeScale float64 `yaml:"timeScale" env:"TIME_SCALE"`

	GravityX float64 `yaml:"gravityX" env:"GRAVITY_X"`
	GravityY float64 `yaml:"gravityY" env:"GRAVITY_Y"`

	// Solver iterations per step.
	Iterations uint `yaml:"iterations" env:"ITERATIONS"`

	// Mouse drag max force per unit of body mass.
	DragForceScale float64 `yaml:"dragForceScale" env:"DRAG_FORCE_SCALE"`

	// Radius of the nearest-shape query behind BodyAt.
	QueryRadius float64 `yaml:"queryRadius" env:"QUERY_RADIUS"`
}

// DefaultConfig returns 60 frames per second at a time scale of 2 under
// gravity (0, 300).
func DefaultConfig() Config {
	return Config{
		FrameRate:      60,
		TimeScale:      2.0,
		GravityX:       0,
		GravityY:       physics.DefaultGravity,
		Iterations:     physics.DefaultIterations,
		DragForceScale: 300,
		QueryRadius:    0.1,
	}
}

// Timestep returns the simulated seconds per Step.
func (cfg Config) Timestep() float64 {
	return cfg.TimeScale / cfg.FrameRate
}

// Gravity returns the configured gravity vector.
func (cfg Config) Gravity() cp.Vector {
	return cp.Vector{X: cfg.GravityX, Y: cfg.GravityY}
}

// Validate performs validation on the loaded configuration.
func (cfg Config) Validate() error {
	if cfg.FrameRate <= 0 {
		return eris.New("frame rate must be positive")
	}
	if cfg.TimeScale <= 0 {
		return eris.New("time scale must be positive")
	}
	if cfg.Iterations == 0 {
		return eris.New("iterations must be positive")
	}
	if cfg.DragForceScale < 0 {
		return eris.New("drag force scale cannot be negative")
	}
	if cfg.QueryRadius < 0 {
		return eris.New("query radius cannot be negative")
	}
	return nil
}

// ApplyEnv overrides cfg with any SVGWORLD_* variables that are set.
func (cfg *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return eris.Wrap(err, "failed to parse runner config from environment")
	}
	return nil
}

// LoadConfig returns the defaults overridden by the environment.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, eris.Wrap(err, "failed to validate runner config")
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML config at path over the defaults, then
// applies the environment. An empty path skips the file.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		src, err := os.ReadFile(path)
		if err != nil {
			return cfg, eris.Wrapf(err, "failed to read runner config %s", path)
		}
		if err := yaml.Unmarshal(src, &cfg); err != nil {
			return cfg, eris.Wrapf(err, "failed to decode runner config %s", path)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, eris.Wrap(err, "failed to validate runner config")
	}
	return cfg, nil
}
