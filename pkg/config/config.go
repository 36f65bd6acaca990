// Package config loads the settings of the correction pipeline and the
// lookup server.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full tool configuration. Zero MemoryGB means detect it
// from the host.
type Config struct {
	ElevationTag          string  `json:"elevation_tag" yaml:"elevation_tag"`
	SmoothingWindowM      float64 `json:"smoothing_window_m" yaml:"smoothing_window_m"`
	TunnelAnchorDistanceM float64 `json:"tunnel_anchor_distance_m" yaml:"tunnel_anchor_distance_m"`

	MemoryGB       int `json:"memory_gb" yaml:"memory_gb"`
	RelationsPerGB int `json:"relations_per_gb" yaml:"relations_per_gb"`
	WaysPerGB      int `json:"ways_per_gb" yaml:"ways_per_gb"`

	MaxStartpoints     int `json:"max_startpoints" yaml:"max_startpoints"`
	MaxUnfinished      int `json:"max_unfinished" yaml:"max_unfinished"`
	MaxRiverIterations int `json:"max_river_iterations" yaml:"max_river_iterations"`

	DenseThreshold uint64 `json:"dense_threshold" yaml:"dense_threshold"`

	MetricsFile string `json:"metrics_file" yaml:"metrics_file"`
	GeoJSONFile string `json:"geojson_file" yaml:"geojson_file"`
	IndexFile   string `json:"index_file" yaml:"index_file"`

	Server ServerConfig `json:"server" yaml:"server"`
}

// ServerConfig configures the lookup server.
type ServerConfig struct {
	Addr          string        `json:"addr" yaml:"addr"`
	ReadTimeout   time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout  time.Duration `json:"write_timeout" yaml:"write_timeout"`
	MaxConcurrent int           `json:"max_concurrent" yaml:"max_concurrent"`
	CORSOrigin    string        `json:"cors_origin" yaml:"cors_origin"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ElevationTag:          "ele",
		SmoothingWindowM:      60,
		TunnelAnchorDistanceM: 30,
		RelationsPerGB:        50_000,
		WaysPerGB:             500_000,
		MaxStartpoints:        200,
		MaxUnfinished:         10_000,
		MaxRiverIterations:    5_000,
		DenseThreshold:        1_600_000_000,
		Server: ServerConfig{
			Addr:          ":8080",
			ReadTimeout:   5 * time.Second,
			WriteTimeout:  5 * time.Second,
			MaxConcurrent: runtime.NumCPU() * 2,
		},
	}
}

// Load overlays the file at path onto Default and validates the result.
// An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	switch {
	case c.ElevationTag == "":
		return errors.New("elevation_tag must not be empty")
	case c.SmoothingWindowM < 0:
		return errors.New("smoothing_window_m must be >= 0")
	case c.TunnelAnchorDistanceM <= 0:
		return errors.New("tunnel_anchor_distance_m must be > 0")
	case c.MemoryGB < 0:
		return errors.New("memory_gb must be >= 0")
	case c.RelationsPerGB < 1:
		return errors.New("relations_per_gb must be >= 1")
	case c.WaysPerGB < 1:
		return errors.New("ways_per_gb must be >= 1")
	case c.MaxStartpoints < 0:
		return errors.New("max_startpoints must be >= 0")
	case c.MaxUnfinished < 0:
		return errors.New("max_unfinished must be >= 0")
	case c.MaxRiverIterations < 0:
		return errors.New("max_river_iterations must be >= 0")
	case c.Server.MaxConcurrent < 1:
		return errors.New("server.max_concurrent must be >= 1")
	}
	return nil
}
