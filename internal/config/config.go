// Package config resolves the configuration directory, config file and environment overrides.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "taskcli"

	// ConfigFile is the settings filename inside the config directory.
	ConfigFile = "config.yaml"

	// DefaultBaseURL is the API root used when nothing overrides it.
	DefaultBaseURL = "http://localhost:3005/api/tasks"

	// DefaultTimeout bounds each API call.
	DefaultTimeout = 5 * time.Second

	// EnvURL overrides the base URL.
	EnvURL = "TASKCLI_URL"

	// EnvTimeout overrides the per-call timeout.
	EnvTimeout = "TASKCLI_TIMEOUT"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the root of the tasks API.
	BaseURL string

	// Timeout bounds each API call. Zero disables it.
	Timeout time.Duration

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Color enables coloured output.
	Color bool
}

// fileSettings is the on-disk shape of config.yaml.
type fileSettings struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// New creates a Config with the default or specified config directory and
// defaults for everything else. It does not read any files.
// If configDir is empty, uses XDG_CONFIG_HOME/taskcli or $HOME/.config/taskcli.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:     dir,
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}, nil
}

// Load creates a Config and applies, in increasing precedence, config.yaml,
// a .env file in the working directory, and the process environment.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.readFile(); err != nil {
		return nil, err
	}

	// A missing .env is normal; variables already set in the environment win.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to config.yaml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// HasFile checks if config.yaml exists.
func (c *Config) HasFile() bool {
	_, err := os.Stat(c.FilePath())
	return err == nil
}

func (c *Config) readFile() error {
	data, err := os.ReadFile(c.FilePath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "read %s", ConfigFile)
	}

	var fs fileSettings
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return errors.Wrapf(err, "invalid %s", ConfigFile)
	}
	if fs.BaseURL != "" {
		c.BaseURL = fs.BaseURL
	}
	if fs.Timeout != "" {
		d, err := parseTimeout(fs.Timeout)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", ConfigFile)
		}
		c.Timeout = d
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", EnvTimeout)
		}
		c.Timeout = d
	}
	return nil
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, errors.Errorf("negative timeout: %s", s)
	}
	return d, nil
}
