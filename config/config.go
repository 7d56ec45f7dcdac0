// Package config loads Spectra's settings from defaults, an optional YAML
// file and SPECTRA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jackwu/spectra/reply"
)

const EnvPrefix = "SPECTRA"

// Config holds the complete application configuration.
type Config struct {
	Reveal RevealConfig `mapstructure:"reveal" yaml:"reveal"`
	Mouth  MouthConfig  `mapstructure:"mouth" yaml:"mouth"`
	Audio  AudioConfig  `mapstructure:"audio" yaml:"audio"`
	Reply  ReplyConfig  `mapstructure:"reply" yaml:"reply"`
	UI     UIConfig     `mapstructure:"ui" yaml:"ui"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

type RevealConfig struct {
	CharDelay time.Duration `mapstructure:"char_delay" yaml:"char_delay"`
}

type MouthConfig struct {
	TickPulse     time.Duration `mapstructure:"tick_pulse" yaml:"tick_pulse"`
	FlourishPulse time.Duration `mapstructure:"flourish_pulse" yaml:"flourish_pulse"`
}

type AudioConfig struct {
	Enabled     bool          `mapstructure:"enabled" yaml:"enabled"`
	Volume      float64       `mapstructure:"volume" yaml:"volume"` // 0-1
	SampleRate  int           `mapstructure:"sample_rate" yaml:"sample_rate"`
	OpenTimeout time.Duration `mapstructure:"open_timeout" yaml:"open_timeout"`
}

type ReplyConfig struct {
	Format      string `mapstructure:"format" yaml:"format"`
	Placeholder string `mapstructure:"placeholder" yaml:"placeholder"`
}

type UIConfig struct {
	Color       string `mapstructure:"color" yaml:"color"` // auto, truecolor, ansi256, ansi, mono
	Placeholder string `mapstructure:"placeholder" yaml:"placeholder"`
	Scanlines   bool   `mapstructure:"scanlines" yaml:"scanlines"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	Dir   string `mapstructure:"dir" yaml:"dir"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Reveal: RevealConfig{CharDelay: 18 * time.Millisecond},
		Mouth: MouthConfig{
			TickPulse:     90 * time.Millisecond,
			FlourishPulse: 110 * time.Millisecond,
		},
		Audio: AudioConfig{
			Enabled:     true,
			Volume:      1,
			SampleRate:  44100,
			OpenTimeout: 2 * time.Second,
		},
		Reply: ReplyConfig{
			Format:      reply.DefaultFormat,
			Placeholder: reply.DefaultPlaceholder,
		},
		UI: UIConfig{
			Color:       "auto",
			Placeholder: "やあ / 你好 / Hello",
			Scanlines:   true,
		},
		Log: LogConfig{
			Level: "info",
			Dir:   "~/.spectra/logs",
		},
	}
}

// Load reads configuration from path, or from the default search paths when
// path is empty. It also returns the file that was read, empty when none was
// found. A missing config file is not an error.
func Load(path string) (*Config, string, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("failed to read config file: %w", err)
		}
		return decodeFrom(v, "")
	}
	return decodeFrom(v, v.ConfigFileUsed())
}

func decodeFrom(v *viper.Viper, used string) (*Config, string, error) {
	cfg, err := decode(v)
	if err != nil {
		return nil, "", err
	}
	return cfg, used, nil
}

// Watch calls fn with the reloaded configuration whenever the config file
// changes. Reloads that fail to decode or validate are passed to onErr.
func Watch(path string, fn func(*Config), onErr func(error)) error {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := decode(v)
		if err != nil {
			onErr(fmt.Errorf("reload %s: %w", e.Name, err))
			return
		}
		fn(cfg)
	})
	v.WatchConfig()
	return nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("spectra")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join("$HOME", ".config", "spectra"))
	}
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Log.Dir = expandHome(cfg.Log.Dir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("reveal.char_delay", d.Reveal.CharDelay)
	v.SetDefault("mouth.tick_pulse", d.Mouth.TickPulse)
	v.SetDefault("mouth.flourish_pulse", d.Mouth.FlourishPulse)
	v.SetDefault("audio.enabled", d.Audio.Enabled)
	v.SetDefault("audio.volume", d.Audio.Volume)
	v.SetDefault("audio.sample_rate", d.Audio.SampleRate)
	v.SetDefault("audio.open_timeout", d.Audio.OpenTimeout)
	v.SetDefault("reply.format", d.Reply.Format)
	v.SetDefault("reply.placeholder", d.Reply.Placeholder)
	v.SetDefault("ui.color", d.UI.Color)
	v.SetDefault("ui.placeholder", d.UI.Placeholder)
	v.SetDefault("ui.scanlines", d.UI.Scanlines)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.dir", d.Log.Dir)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Reveal.CharDelay < 0 {
		return fmt.Errorf("reveal.char_delay must not be negative: %s", c.Reveal.CharDelay)
	}
	if c.Mouth.TickPulse < 0 || c.Mouth.FlourishPulse < 0 {
		return fmt.Errorf("mouth pulses must not be negative")
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume must be between 0 and 1: %v", c.Audio.Volume)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate must be positive: %d", c.Audio.SampleRate)
	}
	if strings.Count(c.Reply.Format, "%s") != 1 {
		return fmt.Errorf("reply.format must contain exactly one %%s: %q", c.Reply.Format)
	}
	switch c.UI.Color {
	case "auto", "truecolor", "ansi256", "ansi", "mono":
	default:
		return fmt.Errorf("invalid ui.color: %s (must be auto, truecolor, ansi256, ansi or mono)", c.UI.Color)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level: %s", c.Log.Level)
	}
	return nil
}

// Write saves the configuration as YAML, creating parent directories.
func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.YAML()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// YAML renders the configuration the way Write stores it.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// DefaultPath returns $HOME/.config/spectra/spectra.yaml.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "spectra", "spectra.yaml")
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}
