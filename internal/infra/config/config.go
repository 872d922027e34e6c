// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultMusicDirName is the asset directory looked up next to the executable.
const DefaultMusicDirName = "muzakfiles"

// Config represents the application configuration.
type Config struct {
	Music    MusicConfig    `yaml:"music"`
	Player   PlayerConfig   `yaml:"player"`
	State    StateConfig    `yaml:"state"`
	Listener ListenerConfig `yaml:"listener"`
}

// MusicConfig represents the audio asset source configuration.
type MusicConfig struct {
	Dir        string           `yaml:"dir"`
	Extensions []string         `yaml:"extensions" default:"[\".mp3\",\".m4a\",\".wav\",\".aac\",\".flac\",\".ogg\"]" validate:"min=1,dive,startswith=."`
	Providers  []ProviderConfig `yaml:"providers" validate:"dive"`
}

// ProviderConfig represents a single track provider configuration.
type ProviderConfig struct {
	Type     string         `yaml:"type" validate:"required,oneof=directory playlist"`
	Settings map[string]any `yaml:"settings"`
}

// PlayerConfig represents the background player process configuration.
type PlayerConfig struct {
	Command      []string `yaml:"command" validate:"min=1,dive,required"`
	Shell        string   `yaml:"shell" default:"/bin/sh" validate:"required"`
	SweepPattern string   `yaml:"sweep_pattern"`
}

// StateConfig represents where the playback marker lives.
type StateConfig struct {
	MarkerPath string `yaml:"marker_path" validate:"required"`
}

// ListenerConfig represents keyboard listener configuration.
type ListenerConfig struct {
	PollIntervalMs int `yaml:"poll_interval_ms" default:"100" validate:"gte=10,lte=1000"`
}

// Load loads configuration from a YAML file.
// An empty path yields a configuration built from defaults and environment only.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("MUZAK_DIR"); v != "" {
		c.Music.Dir = v
	}
	if v := os.Getenv("MUZAK_MARKER"); v != "" {
		c.State.MarkerPath = v
	}
	if v := os.Getenv("MUZAK_PLAYER"); v != "" {
		c.Player.Command = strings.Fields(v)
	}
	if v := os.Getenv("MUZAK_SHELL"); v != "" {
		c.Player.Shell = v
	}
}

// applyPlatformDefaults fills the values whose defaults depend on the host
// and therefore cannot be expressed as struct tags.
func (c *Config) applyPlatformDefaults() {
	if c.Music.Dir == "" {
		c.Music.Dir = defaultMusicDir()
	}
	if len(c.Player.Command) == 0 {
		c.Player.Command = DefaultPlayerCommand(runtime.GOOS)
	}
	if c.State.MarkerPath == "" {
		c.State.MarkerPath = filepath.Join(os.TempDir(), "muzak.pid")
	}
	if len(c.Music.Providers) == 0 {
		c.Music.Providers = []ProviderConfig{{
			Type: "directory",
			Settings: map[string]any{
				"dir":        c.Music.Dir,
				"extensions": c.Music.Extensions,
			},
		}}
	}
}

// DefaultPlayerCommand returns the player invocation for the given GOOS.
func DefaultPlayerCommand(goos string) []string {
	if goos == "darwin" {
		return []string{"afplay"}
	}
	return []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"}
}

func defaultMusicDir() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultMusicDirName
	}
	return filepath.Join(filepath.Dir(exe), DefaultMusicDirName)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if c.Player.SweepPattern != "" {
		if _, err := regexp.Compile(c.Player.SweepPattern); err != nil {
			return errors.Wrap(err, "invalid sweep_pattern")
		}
	}

	return nil
}

// PollInterval returns the listener poll interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Listener.PollIntervalMs) * time.Millisecond
}

// SweepPattern returns the pattern used to find orphaned players.
// Unless configured explicitly it matches the player binary invoked on a
// file under any configured music root.
func (c *Config) SweepPattern() string {
	if c.Player.SweepPattern != "" {
		return c.Player.SweepPattern
	}
	if len(c.Player.Command) == 0 {
		return ""
	}
	roots := c.musicRoots()
	if len(roots) == 0 {
		return ""
	}

	quoted := make([]string, len(roots))
	for i, r := range roots {
		quoted[i] = regexp.QuoteMeta(r)
	}
	player := regexp.QuoteMeta(filepath.Base(c.Player.Command[0]))
	if len(quoted) == 1 {
		return player + ".*" + quoted[0]
	}
	return player + ".*(?:" + strings.Join(quoted, "|") + ")"
}

// musicRoots returns the music directory, every directory provider root and
// every playlist entry, without duplicates.
func (c *Config) musicRoots() []string {
	var roots []string
	seen := make(map[string]bool)
	add := func(r string) {
		if r == "" || seen[r] {
			return
		}
		seen[r] = true
		roots = append(roots, r)
	}

	add(c.Music.Dir)
	for _, p := range c.Music.Providers {
		var settings struct {
			Dir   string   `mapstructure:"dir"`
			Files []string `mapstructure:"files"`
		}
		if err := mapstructure.Decode(p.Settings, &settings); err != nil {
			continue
		}
		switch p.Type {
		case "directory":
			add(settings.Dir)
		case "playlist":
			for _, f := range settings.Files {
				add(f)
			}
		}
	}
	return roots
}
