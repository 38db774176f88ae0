package internal

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type Config struct {
	AppName string `mapstructure:"app_name"`

	Shell struct {
		Prompt     string `mapstructure:"prompt"`
		Format     string `mapstructure:"format"` // tree, sql, json or yaml
		History    string `mapstructure:"history"`
		HistoryMax int    `mapstructure:"history_max"`
	} `mapstructure:"shell"`

	Server struct {
		Addr      string `mapstructure:"addr"`
		CacheSize int    `mapstructure:"cache_size"`
		Debug     bool   `mapstructure:"debug"`
	} `mapstructure:"server"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "novaparse")
	v.SetDefault("shell.prompt", "novaparse> ")
	v.SetDefault("shell.format", "tree")
	v.SetDefault("shell.history", "")
	v.SetDefault("shell.history_max", 1000)
	v.SetDefault("server.addr", "127.0.0.1:5544")
	v.SetDefault("server.cache_size", 256)
	v.SetDefault("server.debug", false)
	v.SetDefault("log.level", "info")
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// defaults always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func LoadConfig(path string) (*Config, error) {
	v, err := readConfig(path)
	if err != nil {
		return nil, err
	}
	return decode(v)
}

// WatchConfig loads path and calls onChange with the new configuration
// every time the file is rewritten. A change that fails to decode is logged
// and the previous configuration stays in effect.
func WatchConfig(path string, onChange func(*Config)) (*Config, error) {
	v, err := readConfig(path)
	if err != nil {
		return nil, err
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next, err := decode(v)
		if err != nil {
			slog.Warn("config reload failed", "file", e.Name, "err", err)
			return
		}
		slog.Info("config reloaded", "file", e.Name)
		onChange(next)
	})
	v.WatchConfig()

	return cfg, nil
}

func readConfig(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the shell and server cannot act on.
func (c *Config) Validate() error {
	switch c.Shell.Format {
	case "tree", "sql", "json", "yaml":
	default:
		return fmt.Errorf("config: unknown shell.format %q", c.Shell.Format)
	}
	if c.Shell.HistoryMax < 0 {
		return fmt.Errorf("config: shell.history_max must be >= 0, got %d", c.Shell.HistoryMax)
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel maps debug, info, warn and error to slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("config: unknown log.level %q", s)
	}
	return lvl, nil
}
