// ABOUTME: Application configuration loaded with koanf
// ABOUTME: Layers struct defaults, an optional YAML file and MUZIKCALAR_* environment variables
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override
	EnvPrefix = "MUZIKCALAR_"

	// PathEnvVar names a config file when no path is passed to Load
	PathEnvVar = EnvPrefix + "CONFIG"
)

// Config holds all application settings
type Config struct {
	Library   LibraryConfig   `koanf:"library"`
	Recommend RecommendConfig `koanf:"recommend"`
	Equalizer EqualizerConfig `koanf:"equalizer"`
	Playback  PlaybackConfig  `koanf:"playback"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// LibraryConfig locates the songs the shell lists
type LibraryConfig struct {
	SongsDir string `koanf:"songs_dir"`
}

// RecommendConfig configures the recommender
type RecommendConfig struct {
	CorpusPath string `koanf:"corpus_path"`
	Count      int    `koanf:"count"`
}

// EqualizerConfig configures the equalizer engine
type EqualizerConfig struct {
	ScratchDir string  `koanf:"scratch_dir"`
	GainDB     float64 `koanf:"gain_db"`
}

// PlaybackConfig configures the audio device
type PlaybackConfig struct {
	SampleRate int `koanf:"sample_rate"`
	Volume     int `koanf:"volume"`

	// AutoAdvance plays the next library song when one finishes
	AutoAdvance bool `koanf:"auto_advance"`
}

// LoggingConfig configures the log output
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	File   string `koanf:"file"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Library:   LibraryConfig{SongsDir: "songs"},
		Recommend: RecommendConfig{CorpusPath: "song_data.json", Count: 5},
		Equalizer: EqualizerConfig{GainDB: 6},
		Playback:  PlaybackConfig{SampleRate: 48000, Volume: 80, AutoAdvance: true},
		Logging:   LoggingConfig{Level: "info", Format: "console", File: "muzikcalar.log"},
	}
}

// Load builds the configuration. Precedence: env > file > defaults.
// An empty path falls back to $MUZIKCALAR_CONFIG; a missing file is only an
// error when it was named explicitly.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(PathEnvVar)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envToKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// envToKey maps MUZIKCALAR_RECOMMEND_CORPUS_PATH to recommend.corpus_path
func envToKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, rest, ok := strings.Cut(key, "_")
	if !ok {
		return key
	}
	return section + "." + rest
}

// Validate rejects values the application cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Recommend.Count <= 0 {
		errs = append(errs, fmt.Errorf("recommend.count must be positive, got %d", c.Recommend.Count))
	}
	if c.Playback.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("playback.sample_rate must be positive, got %d", c.Playback.SampleRate))
	}
	if c.Playback.Volume < 0 || c.Playback.Volume > 100 {
		errs = append(errs, fmt.Errorf("playback.volume must be within 0-100, got %d", c.Playback.Volume))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}
