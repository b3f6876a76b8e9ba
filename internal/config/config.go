// Package config loads game settings from embedded defaults, optionally
// overridden by a YAML or TOML file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Gravinyon/internal/sim"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// EnvPath names the environment variable consulted when no -config flag is given.
const EnvPath = "GRAVINYON_CONFIG"

// Config holds all game configuration.
type Config struct {
	Window   WindowConfig   `yaml:"window" toml:"window"`
	Viewport ViewportConfig `yaml:"viewport" toml:"viewport"`
	Pools    PoolsConfig    `yaml:"pools" toml:"pools"`
	Sim      SimConfig      `yaml:"sim" toml:"sim"`
	Audio    AudioConfig    `yaml:"audio" toml:"audio"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
	Title  string `yaml:"title" toml:"title"`
	TPS    int    `yaml:"tps" toml:"tps"` // simulation steps per second
}

// ViewportConfig is the window rectangle, in pixels, the world maps onto.
type ViewportConfig struct {
	Left   int `yaml:"left" toml:"left"`
	Top    int `yaml:"top" toml:"top"`
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`
}

// PoolsConfig holds starting capacities. Pools grow past these as needed.
type PoolsConfig struct {
	Ships     int `yaml:"ships" toml:"ships"`
	Enemies   int `yaml:"enemies" toml:"enemies"`
	Bullets   int `yaml:"bullets" toml:"bullets"`
	Particles int `yaml:"particles" toml:"particles"`
}

// SimConfig holds gameplay settings.
type SimConfig struct {
	Seed         int64   `yaml:"seed" toml:"seed"`                   // 0 picks a time-based seed
	StartShips   int     `yaml:"start_ships" toml:"start_ships"`     // ships spawned at start and on respawn
	RespawnDelay int     `yaml:"respawn_delay" toml:"respawn_delay"` // ticks after the last ship dies; 0 disables
	Recoil       float64 `yaml:"recoil" toml:"recoil"`               // 0 disables
}

// AudioConfig holds sound output settings.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled" toml:"enabled"`
	SampleRate int     `yaml:"sample_rate" toml:"sample_rate"`
	Volume     float64 `yaml:"volume" toml:"volume"` // 0..1
}

// LoggingConfig selects log level and encoder.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // "json" or "console"
}

// Defaults returns the embedded default configuration.
func Defaults() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("parsing embedded defaults: %v", err))
	}
	return cfg
}

// Load reads the configuration at path over the embedded defaults. Fields
// absent from the file keep their default. An empty path returns the
// defaults. The decoder is picked by extension: .toml, or .yaml/.yml.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config %s: unsupported extension %q", path, filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ResolvePath returns flagPath if set, otherwise the EnvPath variable.
func ResolvePath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	return os.Getenv(EnvPath)
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.TPS <= 0 {
		errs = append(errs, fmt.Errorf("window.tps %d must be positive", c.Window.TPS))
	}
	v := c.Viewport
	if v.Width <= 0 || v.Height <= 0 {
		errs = append(errs, fmt.Errorf("viewport size %dx%d must be positive", v.Width, v.Height))
	} else if v.Left < 0 || v.Top < 0 || v.Left+v.Width > c.Window.Width || v.Top+v.Height > c.Window.Height {
		errs = append(errs, fmt.Errorf("viewport %d,%d %dx%d lies outside the %dx%d window",
			v.Left, v.Top, v.Width, v.Height, c.Window.Width, c.Window.Height))
	}
	p := c.Pools
	if p.Ships <= 0 || p.Enemies <= 0 || p.Bullets <= 0 || p.Particles <= 0 {
		errs = append(errs, fmt.Errorf("pool capacities %d/%d/%d/%d must be positive",
			p.Ships, p.Enemies, p.Bullets, p.Particles))
	}
	if c.Sim.StartShips < 0 || c.Sim.RespawnDelay < 0 {
		errs = append(errs, errors.New("sim.start_ships and sim.respawn_delay must not be negative"))
	}
	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.sample_rate %d must be positive", c.Audio.SampleRate))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio.volume %v must be within 0..1", c.Audio.Volume))
	}
	switch c.Logging.Format {
	case "json", "console", "":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be json or console", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// World returns the simulation settings derived from this configuration.
func (c *Config) World() sim.Config {
	return sim.Config{
		Viewport: sim.Viewport{
			Left:   float64(c.Viewport.Left),
			Top:    float64(c.Viewport.Top),
			Width:  float64(c.Viewport.Width),
			Height: float64(c.Viewport.Height),
		},
		ShipCapacity:     c.Pools.Ships,
		EnemyCapacity:    c.Pools.Enemies,
		BulletCapacity:   c.Pools.Bullets,
		ParticleCapacity: c.Pools.Particles,
		Recoil:           float32(c.Sim.Recoil),
	}
}
