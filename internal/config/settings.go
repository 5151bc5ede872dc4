package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings holds the headless (CLI and server) configuration.
// The desktop front-end keeps its own copy in fyne Preferences, seeded from
// these values until the user saves them.
type Settings struct {
	OrderPolicy    string         `mapstructure:"order_policy"`
	SortPair       bool           `mapstructure:"sort_pair"`
	SilenceTimeout time.Duration  `mapstructure:"silence_timeout"`
	Language       string         `mapstructure:"language"`
	Server         ServerSettings `mapstructure:"server"`
	Source         SourceSettings `mapstructure:"source"`
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Port      string `mapstructure:"port"`
	CacheSize int    `mapstructure:"cache_size"`
}

// SourceSettings points at the vCard source used by the contacts command and the calendar feed.
type SourceSettings struct {
	Mode     string `mapstructure:"mode"`
	Path     string `mapstructure:"path"`
	URL      string `mapstructure:"url"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// NewViper returns a viper instance with defaults and AGECALC_* environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("order_policy", DefaultPolicy)
	v.SetDefault("sort_pair", DefaultSortPair)
	v.SetDefault("silence_timeout", DefaultSilenceTimeout)
	v.SetDefault("language", DefaultLanguage)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.cache_size", DefaultCacheSize)
	v.SetDefault("source.mode", SourceModeLocal)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadSettings reads the optional YAML file at path and unmarshals the merged result.
// An empty path only applies defaults and environment overrides.
func LoadSettings(v *viper.Viper, path string) (Settings, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("%s: %w", ErrSettingsLoad, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrSettingsLoad, err)
	}
	if s.SilenceTimeout <= 0 {
		s.SilenceTimeout = DefaultSilenceTimeout
	}
	if s.Server.CacheSize <= 0 {
		s.Server.CacheSize = DefaultCacheSize
	}
	return s, nil
}
