package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "pulse"

// Config holds the playback engine tunables.
type Config struct {
	Engine EngineConfig `koanf:"engine"`
	Output OutputConfig `koanf:"output"`
}

// EngineConfig controls the buffer pipeline.
type EngineConfig struct {
	// Number of decoded buffers kept in flight at the output. Higher values
	// tolerate slower disks at the cost of latency on seek and stop.
	MaxBuffersInFlight int `koanf:"max_buffers_in_flight"`
	// Frames per buffer.
	BufferFrames int `koanf:"buffer_frames"`
	// How long Stop waits for in-flight buffers to drain before forcing
	// teardown, in milliseconds.
	StopTimeoutMs int `koanf:"stop_timeout_ms"`
}

// OutputConfig controls the output device.
type OutputConfig struct {
	// D-Bus reservation name for the audio device (Linux only).
	ReserveDevice string `koanf:"reserve_device"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxBuffersInFlight: 4,
			BufferFrames:       64 * 1024,
			StopTimeoutMs:      5000,
		},
		Output: OutputConfig{
			ReserveDevice: "Audio0",
		},
	}
}

// Load reads configuration files, later paths overriding earlier ones, on
// top of the built-in defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

// normalize clamps out-of-range values back to the defaults.
func (c *Config) normalize() {
	def := Default()
	if c.Engine.MaxBuffersInFlight <= 0 || c.Engine.MaxBuffersInFlight > 64 {
		c.Engine.MaxBuffersInFlight = def.Engine.MaxBuffersInFlight
	}
	if c.Engine.BufferFrames <= 0 {
		c.Engine.BufferFrames = def.Engine.BufferFrames
	}
	if c.Engine.StopTimeoutMs <= 0 {
		c.Engine.StopTimeoutMs = def.Engine.StopTimeoutMs
	}
	if c.Output.ReserveDevice == "" {
		c.Output.ReserveDevice = def.Output.ReserveDevice
	}
}

// StopTimeout returns the drain timeout as a duration.
func (c *Config) StopTimeout() time.Duration {
	return time.Duration(c.Engine.StopTimeoutMs) * time.Millisecond
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. XDG config dir (~/.config/pulse/config.toml)
	if p, err := xdg.ConfigFile(filepath.Join(appName, "config.toml")); err == nil {
		paths = append(paths, p)
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}
