// Package config loads sidemark configuration from file and environment.
//
// Lookup order: explicit --config path, then
// $XDG_CONFIG_HOME/sidemark/config.yaml, then environment variables with
// the SIDEMARK_ prefix (e.g. SIDEMARK_ANTHROPIC_API_KEY). Defaults are
// set in code so a missing config file is not an error.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config is the resolved runtime configuration.
type Config struct {
	// HostBookmarksFile is the browser's native bookmarks file.
	HostBookmarksFile string `mapstructure:"host_bookmarks_file"`

	// DBPath is the SQLite store location.
	DBPath string `mapstructure:"db_path"`

	// AutoClassify enables opportunistic AI enrichment after bookmark
	// creation.
	AutoClassify bool `mapstructure:"auto_classify"`

	// AnthropicAPIKey and AnthropicModel configure the classifier.
	// An empty key disables classification entirely.
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	AnthropicModel  string `mapstructure:"anthropic_model"`

	// EventPort is the sidebar WebSocket feed port.
	EventPort int `mapstructure:"event_port"`

	// LogFile, when set, sends daemon logs to a rotated file instead of
	// stderr.
	LogFile string `mapstructure:"log_file"`
}

// Load reads configuration. path may be empty to use the default
// locations.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("host_bookmarks_file", defaultBookmarksFile())
	v.SetDefault("db_path", defaultDBPath())
	v.SetDefault("auto_classify", false)
	v.SetDefault("anthropic_model", "claude-3-5-haiku-latest")
	v.SetDefault("event_port", 7161)
	// Keys need a default registered for AutomaticEnv to reach Unmarshal.
	v.SetDefault("anthropic_api_key", "")
	v.SetDefault("log_file", "")

	v.SetEnvPrefix("SIDEMARK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir())
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file in the default locations is fine; an
		// explicitly named file must exist.
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// LogWriter returns the daemon log destination: a size-rotated file when
// LogFile is set, stderr otherwise.
func (c *Config) LogWriter() io.Writer {
	if c.LogFile == "" {
		return os.Stderr
	}
	return &lumberjack.Logger{
		Filename:   c.LogFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
	}
}

// Dir returns the sidemark config directory, creating nothing.
func Dir() string {
	return configDir()
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sidemark")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "sidemark")
}

func defaultDBPath() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "sidemark", "store.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "store.db"
	}
	return filepath.Join(home, ".local", "share", "sidemark", "store.db")
}

// defaultBookmarksFile guesses the Chrome profile location per platform.
func defaultBookmarksFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Google", "Chrome", "Default", "Bookmarks")
	case "windows":
		return filepath.Join(home, "AppData", "Local", "Google", "Chrome", "User Data", "Default", "Bookmarks")
	default:
		return filepath.Join(home, ".config", "google-chrome", "Default", "Bookmarks")
	}
}
