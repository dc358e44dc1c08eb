// Package config loads the settings of the tablet driver tools from a TOML or YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/arloliu/go-tabletae/driver"
	"github.com/arloliu/go-tabletae/logger"
	"github.com/arloliu/go-tabletae/transport"
	"github.com/arloliu/go-tabletae/transport/sockchan"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat indicates a configuration file with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config format, expected .toml, .yaml or .yml")

// Config holds the connection and client settings.
type Config struct {
	// Network is "unix" or "tcp".
	Network string `toml:"network" yaml:"network"`
	// Address is the socket path or host:port of the driver.
	Address string `toml:"address" yaml:"address"`
	// DialTimeout is a duration string such as "5s".
	DialTimeout string `toml:"dial_timeout" yaml:"dial_timeout"`
	// TimeoutTicks is the call timeout in ticks of 1/60 second.
	TimeoutTicks uint32 `toml:"timeout_ticks" yaml:"timeout_ticks"`
	// Priority is "normal" or "high".
	Priority      string `toml:"priority" yaml:"priority"`
	StrictIndexes bool   `toml:"strict_indexes" yaml:"strict_indexes"`
	// LogLevel is one of debug, info, warn, error, fatal.
	LogLevel string `toml:"log_level" yaml:"log_level"`
}

// DefaultSocketPath returns the default unix socket of the simulated driver.
func DefaultSocketPath() string {
	return filepath.Join(os.TempDir(), "tabletsim.sock")
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Network:      "unix",
		Address:      DefaultSocketPath(),
		DialTimeout:  "5s",
		TimeoutTicks: uint32(transport.DefaultTimeout),
		Priority:     transport.PriorityHigh.String(),
		LogLevel:     "info",
	}
}

// Load reads path on top of Default and validates the result. The format is chosen by the
// file extension.
func Load(path string) (Config, error) {
	cfg := Default()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}

	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	switch c.Network {
	case "unix", "tcp", "tcp4", "tcp6":
	default:
		return fmt.Errorf("network must be unix or tcp, got %q", c.Network)
	}

	if strings.TrimSpace(c.Address) == "" {
		return errors.New("address is required")
	}

	if _, err := c.dialTimeout(); err != nil {
		return err
	}

	if c.TimeoutTicks == 0 {
		return errors.New("timeout_ticks must be positive")
	}

	if _, ok := transport.ParsePriority(c.Priority); !ok {
		return fmt.Errorf("priority must be normal or high, got %q", c.Priority)
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

func (c Config) dialTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(c.DialTimeout))
	if err != nil {
		return 0, fmt.Errorf("parse dial_timeout: %w", err)
	}

	if d <= 0 {
		return 0, fmt.Errorf("dial_timeout must be positive, got %s", d)
	}

	return d, nil
}

// Logger creates a logger at the configured level.
func (c Config) Logger() (logger.Logger, error) {
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	return logger.NewSlog(level, false), nil
}

// ClientOptions maps the configuration to driver client options.
func (c Config) ClientOptions() ([]driver.ClientOption, error) {
	priority, ok := transport.ParsePriority(c.Priority)
	if !ok {
		return nil, fmt.Errorf("priority must be normal or high, got %q", c.Priority)
	}

	return []driver.ClientOption{
		driver.WithTimeout(transport.Ticks(c.TimeoutTicks)),
		driver.WithPriority(priority),
		driver.WithStrictIndexes(c.StrictIndexes),
	}, nil
}

// DialOptions maps the configuration to socket channel options.
func (c Config) DialOptions() ([]sockchan.Option, error) {
	d, err := c.dialTimeout()
	if err != nil {
		return nil, err
	}

	return []sockchan.Option{sockchan.WithDialTimeout(d)}, nil
}
