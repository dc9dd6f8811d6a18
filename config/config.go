// ABOUTME: Configuration management for the step service, array, and playback settings
// ABOUTME: Handles loading/saving TOML config files with defaults and environment overrides

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of environment overrides, e.g. SORTVIZ_SERVICE_ENDPOINT
const EnvPrefix = "SORTVIZ"

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Config holds every tunable setting
type Config struct {
	Service  ServiceConfig  `toml:"service"`
	Array    ArrayConfig    `toml:"array"`
	Playback PlaybackConfig `toml:"playback"`
	Display  DisplayConfig  `toml:"display"`
	Log      LogConfig      `toml:"log"`
}

// ServiceConfig locates the step service
type ServiceConfig struct {
	Endpoint       string `toml:"endpoint" split_words:"true"`
	TimeoutMS      int    `toml:"timeout_ms" split_words:"true"`
	RetryMax       int    `toml:"retry_max" split_words:"true"`
	RetryWaitMinMS int    `toml:"retry_wait_min_ms" split_words:"true"`
	RetryWaitMaxMS int    `toml:"retry_wait_max_ms" split_words:"true"`
}

// ArrayConfig controls random array generation
type ArrayConfig struct {
	Size     int     `toml:"size" split_words:"true"`
	MinValue float64 `toml:"min_value" split_words:"true"`
	MaxValue float64 `toml:"max_value" split_words:"true"` // also the value drawn at full height
}

// PlaybackConfig controls the animation
type PlaybackConfig struct {
	DelayMS   int    `toml:"delay_ms" split_words:"true"`
	Algorithm string `toml:"algorithm" split_words:"true"`
	Seed      uint64 `toml:"seed" split_words:"true"` // 0 picks a time-based seed
}

// DisplayConfig controls bar layout
type DisplayConfig struct {
	Margin float64 `toml:"margin" split_words:"true"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level       string `toml:"level" split_words:"true"`
	File        string `toml:"file" split_words:"true"`
	Development bool   `toml:"development" split_words:"true"`
}

// Delay returns the playback delay unit
func (c PlaybackConfig) Delay() time.Duration {
	return time.Duration(c.DelayMS) * time.Millisecond
}

// Timeout returns the per-request timeout
func (c ServiceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// RetryWaitMin returns the minimum backoff between retries
func (c ServiceConfig) RetryWaitMin() time.Duration {
	return time.Duration(c.RetryWaitMinMS) * time.Millisecond
}

// RetryWaitMax returns the maximum backoff between retries
func (c ServiceConfig) RetryWaitMax() time.Duration {
	return time.Duration(c.RetryWaitMaxMS) * time.Millisecond
}

// GetConfigPath returns the default config file path
// First tries current directory, then falls back to ~/.config/sort-visualizer/config.toml
func GetConfigPath() string {
	if _, err := os.Stat("./sort-visualizer.toml"); err == nil {
		return "./sort-visualizer.toml"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./sort-visualizer.toml"
	}

	return filepath.Join(home, ".config", "sort-visualizer", "config.toml")
}

// LoadConfig loads configuration from a TOML file
// Keys missing from the file keep their defaults; a missing file yields the defaults
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}

		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overlays SORTVIZ_* environment variables onto cfg
func ApplyEnv(cfg Config) (Config, error) {
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to apply environment: %w", err)
	}

	return cfg, nil
}

// Load reads the file at path, applies environment overrides, and validates the result
func Load(path string) (Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return cfg, err
	}

	if cfg, err = ApplyEnv(cfg); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// SaveConfig saves configuration to a TOML file
func SaveConfig(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	defer func() {
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close config file: %v\n", err)
		}
	}()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Service: ServiceConfig{
			Endpoint:       "http://localhost:8080/sort",
			TimeoutMS:      10000,
			RetryMax:       2,
			RetryWaitMinMS: 100,
			RetryWaitMaxMS: 1000,
		},
		Array: ArrayConfig{
			Size:     50,
			MinValue: 5,
			MaxValue: 200,
		},
		Playback: PlaybackConfig{
			DelayMS:   10,
			Algorithm: "BubbleSort",
		},
		Display: DisplayConfig{
			Margin: 0,
		},
		Log: LogConfig{
			Level: "info",
			File:  "sort-visualizer-debug.log",
		},
	}
}

// Validate checks that the settings are usable
func (c Config) Validate() error {
	switch {
	case c.Service.Endpoint == "":
		return fmt.Errorf("%w: service.endpoint is empty", ErrInvalidConfig)
	case c.Service.TimeoutMS < 0:
		return fmt.Errorf("%w: service.timeout_ms must not be negative", ErrInvalidConfig)
	case c.Service.RetryMax < 0:
		return fmt.Errorf("%w: service.retry_max must not be negative", ErrInvalidConfig)
	case c.Array.Size < 0:
		return fmt.Errorf("%w: array.size must not be negative", ErrInvalidConfig)
	case c.Array.MinValue < 0 || c.Array.MinValue >= c.Array.MaxValue:
		return fmt.Errorf("%w: array range [%v, %v) is empty", ErrInvalidConfig, c.Array.MinValue, c.Array.MaxValue)
	case c.Playback.DelayMS < 0:
		return fmt.Errorf("%w: playback.delay_ms must not be negative", ErrInvalidConfig)
	case c.Display.Margin < 0:
		return fmt.Errorf("%w: display.margin must not be negative", ErrInvalidConfig)
	}

	return nil
}
