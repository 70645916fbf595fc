// Package config loads the optional .hostaudit.yaml configuration file.
// CLI flags always override file values; a missing file just means defaults.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/calebmoore/hostaudit/internal/errors"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".hostaudit.yaml"
	// GlobalConfigDir is the directory for global config, under $HOME.
	GlobalConfigDir = ".config/hostaudit"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Config holds the file-configurable defaults of a run.
type Config struct {
	// Prefix is the run directory prefix (<prefix>_<host>_<timestamp>).
	Prefix string `yaml:"prefix" mapstructure:"prefix"`

	// Output is the base directory run directories are created under.
	Output string `yaml:"output" mapstructure:"output"`

	// Timeout bounds the TCP dial and SSH handshake.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// CommandTimeout bounds each remote operation. Zero disables it.
	CommandTimeout time.Duration `yaml:"command_timeout" mapstructure:"command_timeout"`

	// Configs are extra remote paths fetched in addition to the built-in
	// list.
	Configs []string `yaml:"configs" mapstructure:"configs"`

	// Color mode: "auto", "always", or "never".
	Color string `yaml:"color" mapstructure:"color"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Prefix:         "audit",
		Output:         ".",
		Timeout:        10 * time.Second,
		CommandTimeout: 60 * time.Second,
		Color:          "auto",
	}
}

// Load reads config from the specified path, merged over the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found: "+path,
				"Check the path given with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file "+path,
			"Check the file is valid YAML")
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Config file "+path+" has unexpected structure",
			"Expected keys: prefix, output, timeout, command_timeout, configs, color")
	}
	return cfg, validate(cfg)
}

// Find locates the config file:
//  1. Explicit path (from --config flag)
//  2. .hostaudit.yaml in the current directory
//  3. ~/.config/hostaudit/config.yaml
//
// Returns empty string when nothing is found, which is not an error.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Specified config file not found: "+explicit,
				"Check the path is correct")
		}
		return explicit, nil
	}

	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, ConfigFileName)
		if _, err := os.Stat(local); err == nil {
			return local, nil
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads the found config file, or returns defaults when there
// is none.
func LoadOrDefault(explicit string) (*Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func validate(cfg *Config) error {
	switch cfg.Color {
	case "", "auto", "always", "never":
	default:
		return errors.New(errors.ErrConfig,
			"Invalid color mode: "+cfg.Color,
			"Use auto, always, or never")
	}
	if cfg.Prefix == "" {
		return errors.New(errors.ErrConfig,
			"Prefix can't be empty",
			"Remove the prefix key to use the default")
	}
	return nil
}
