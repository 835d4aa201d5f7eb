// Package config resolves console settings from defaults, a YAML file,
// MARQUEE_* environment variables and command-line flags, in increasing
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lixenwraith/marquee/constants"
	"github.com/lixenwraith/marquee/terminal"
)

// Backend names
const (
	BackendANSI  = terminal.BackendANSI
	BackendTcell = terminal.BackendTcell
)

// EnvPrefix prefixes every environment override, e.g. MARQUEE_HEIGHT
const EnvPrefix = "MARQUEE"

// LogLevels lists the accepted log.level values
var LogLevels = []string{"trace", "debug", "info", "warn", "error"}

// Config is the resolved console configuration
type Config struct {
	Text    string        `mapstructure:"text" yaml:"text"`
	Height  int           `mapstructure:"height" yaml:"height"`
	Delay   time.Duration `mapstructure:"delay" yaml:"delay"`
	Width   int           `mapstructure:"width" yaml:"width"`
	Backend string        `mapstructure:"backend" yaml:"backend"`
	Sound   bool          `mapstructure:"sound" yaml:"sound"`
	Volume  float64       `mapstructure:"volume" yaml:"volume"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// LogConfig controls the log file; an empty File discards logs
type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() Config {
	return Config{
		Text:    constants.DefaultText,
		Height:  constants.DefaultHeight,
		Delay:   constants.DefaultFrameDelay,
		Width:   0,
		Backend: BackendANSI,
		Sound:   false,
		Volume:  0.4,
		Log: LogConfig{
			File:  "",
			Level: "info",
		},
	}
}

// DefaultConfigPath returns the per-user config file location
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "marquee", "config.yaml"), nil
}

// Validate reports every invalid field
func (c Config) Validate() error {
	var errs []error
	if c.Text == "" {
		errs = append(errs, errors.New("text must not be empty"))
	}
	if c.Height < constants.MinHeight {
		errs = append(errs, fmt.Errorf("height must be at least %d, got %d", constants.MinHeight, c.Height))
	}
	if c.Delay <= 0 {
		errs = append(errs, fmt.Errorf("delay must be positive, got %s", c.Delay))
	}
	if c.Width < 0 {
		errs = append(errs, fmt.Errorf("width must be 0 (detect) or positive, got %d", c.Width))
	}
	switch c.Backend {
	case BackendANSI, BackendTcell:
	default:
		errs = append(errs, fmt.Errorf("unsupported backend %q (want %s or %s)", c.Backend, BackendANSI, BackendTcell))
	}
	if c.Volume < 0 || c.Volume > 1 {
		errs = append(errs, fmt.Errorf("volume must be within 0..1, got %g", c.Volume))
	}
	if !validLogLevel(c.Log.Level) {
		errs = append(errs, fmt.Errorf("unsupported log.level %q (want one of %s)", c.Log.Level, strings.Join(LogLevels, ", ")))
	}
	return errors.Join(errs...)
}

func validLogLevel(level string) bool {
	for _, l := range LogLevels {
		if strings.EqualFold(level, l) {
			return true
		}
	}
	return false
}

// yamlConfig is the on-disk form; durations are written as strings
type yamlConfig struct {
	Text    string    `yaml:"text"`
	Height  int       `yaml:"height"`
	Delay   string    `yaml:"delay"`
	Width   int       `yaml:"width"`
	Backend string    `yaml:"backend"`
	Sound   bool      `yaml:"sound"`
	Volume  float64   `yaml:"volume"`
	Log     LogConfig `yaml:"log"`
}

// MarshalYAML writes Delay as a duration string such as "50ms"
func (c Config) MarshalYAML() (any, error) {
	return yamlConfig{
		Text:    c.Text,
		Height:  c.Height,
		Delay:   c.Delay.String(),
		Width:   c.Width,
		Backend: c.Backend,
		Sound:   c.Sound,
		Volume:  c.Volume,
		Log:     c.Log,
	}, nil
}
