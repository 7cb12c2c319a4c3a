package miniapp

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/petrijr/miniapp/pkg/api"
)

// Settings holds process-level options read from a config file and the
// environment. Env var overrides use the prefix MINIAPP_, for example
// MINIAPP_BASE_PATH or MINIAPP_LOG_LEVEL.
type Settings struct {
	BasePath  string `mapstructure:"base_path"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// LoadSettings reads settings from, in increasing priority: built-in
// defaults, a config file, and MINIAPP_* environment variables.
//
// The config file is $MINIAPP_CONFIG if set, otherwise miniapp.toml,
// miniapp.yaml or miniapp.json in the working directory or in
// $HOME/.config/miniapp. A missing file is not an error.
func LoadSettings() (Settings, error) {
	v := viper.New()

	// default values
	v.SetDefault("base_path", api.DefaultBasePath)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	if cfgPath := os.Getenv("MINIAPP_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.SetConfigName("miniapp")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "miniapp"))
	}

	v.SetEnvPrefix("MINIAPP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if _, err := s.level(); err != nil {
		return Settings{}, err
	}
	if !s.jsonLogs() && !strings.EqualFold(s.LogFormat, "text") {
		return Settings{}, &api.InvalidArgumentError{
			Field:  "log_format",
			Reason: fmt.Sprintf("%q is not one of text, json", s.LogFormat),
		}
	}
	return s, nil
}

// Logger builds a slog.Logger writing to w in the configured format and at
// the configured level.
func (s Settings) Logger(w io.Writer) *slog.Logger {
	level, err := s.level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if s.jsonLogs() {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (s Settings) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return 0, &api.InvalidArgumentError{
			Field:  "log_level",
			Reason: fmt.Sprintf("%q is not one of debug, info, warn, error", s.LogLevel),
		}
	}
	return level, nil
}

func (s Settings) jsonLogs() bool {
	return strings.EqualFold(s.LogFormat, "json")
}
