// SPDX-License-Identifier: MPL-2.0

// Package config loads the BlendLux plugin configuration. Settings come
// from a TOML file in the platform config directory, overridable through
// BLENDLUX_* environment variables; command-line flags take precedence on
// top of both.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/blendlux/blendlux/internal/release"
)

const (
	// AppName is the application name, used for the config directory.
	AppName = "blendlux"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
)

type (
	// Config is the full plugin configuration.
	Config struct {
		Feed    FeedConfig    `mapstructure:"feed"`
		Backend BackendConfig `mapstructure:"backend"`
		Install InstallConfig `mapstructure:"install"`
		Log     LogConfig     `mapstructure:"log"`
	}

	// FeedConfig configures the release feed client.
	FeedConfig struct {
		// URL is the releases endpoint.
		URL string `mapstructure:"url"`
		// Timeout bounds the archive download.
		Timeout time.Duration `mapstructure:"timeout"`
	}

	// BackendConfig records properties of the installed renderer build.
	BackendConfig struct {
		// Accelerated reports whether the installed build carries the
		// accelerated (GPU-capable) backend. The renderer runtime knows
		// this at compile time; the plugin records it here.
		Accelerated bool `mapstructure:"accelerated"`
	}

	// InstallConfig configures where the installation lives.
	InstallConfig struct {
		// Root overrides the installation root directory. Empty means
		// derive it from the running binary's location.
		Root string `mapstructure:"root"`
	}

	// LogConfig configures diagnostics output.
	LogConfig struct {
		// Level is one of debug, info, warn, error.
		Level string `mapstructure:"level"`
	}
)

// Dir returns the blendlux configuration directory using platform
// conventions: %APPDATA% on Windows, $XDG_CONFIG_HOME (default ~/.config)
// elsewhere.
func Dir() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		return filepath.Join(appData, AppName), nil
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// Load reads the configuration. When overridePath is non-empty it must
// name an existing file; otherwise the platform config directory is
// searched and a missing file simply yields the defaults.
func Load(overridePath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("feed.url", release.DefaultFeedURL)
	v.SetDefault("feed.timeout", 60*time.Second)
	v.SetDefault("backend.accelerated", false)
	v.SetDefault("install.root", "")
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if overridePath != "" {
		v.SetConfigFile(overridePath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", overridePath, err)
		}
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(ConfigFileName)
		v.SetConfigType(ConfigFileExt)
		v.AddConfigPath(dir)

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
			// No config file: defaults and environment apply.
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return &cfg, nil
}
