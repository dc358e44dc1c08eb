package sockchan

import (
	"errors"
	"time"

	"github.com/arloliu/go-tabletae/logger"
	"github.com/google/uuid"
)

const (
	defaultDialTimeout  = 5 * time.Second
	defaultWriteTimeout = 10 * time.Second
)

// Config holds the settings shared by Conn and Server.
type Config struct {
	logger       logger.Logger
	dialTimeout  time.Duration
	writeTimeout time.Duration
	maxFrameSize uint32
	clientID     string
}

func newConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		dialTimeout:  defaultDialTimeout,
		writeTimeout: defaultWriteTimeout,
		maxFrameSize: DefaultMaxFrameSize,
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.logger == nil {
		cfg.logger = logger.GetLogger()
	}

	if cfg.clientID == "" {
		cfg.clientID = uuid.NewString()
	}

	return cfg, nil
}

// Option configures a Conn or a Server.
type Option interface {
	apply(*Config) error
}

type optFunc struct {
	name      string
	applyFunc func(*Config) error
}

func (o *optFunc) apply(cfg *Config) error { return o.applyFunc(cfg) }

func newOptFunc(name string, f func(*Config) error) *optFunc {
	return &optFunc{name: name, applyFunc: f}
}

// WithLogger sets the logger. The package default logger is used otherwise.
func WithLogger(l logger.Logger) Option {
	return newOptFunc("WithLogger", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}

		cfg.logger = l

		return nil
	})
}

// WithDialTimeout sets the timeout used by Dial. Default is 5 seconds.
func WithDialTimeout(d time.Duration) Option {
	return newOptFunc("WithDialTimeout", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}

		if d <= 0 {
			return errors.New("dial timeout must be positive")
		}
		cfg.dialTimeout = d

		return nil
	})
}

// WithWriteTimeout sets the deadline for writing a single frame. Zero disables it.
func WithWriteTimeout(d time.Duration) Option {
	return newOptFunc("WithWriteTimeout", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}

		if d < 0 {
			return errors.New("write timeout must not be negative")
		}
		cfg.writeTimeout = d

		return nil
	})
}

// WithMaxFrameSize limits the size of an encoded frame in both directions.
func WithMaxFrameSize(size uint32) Option {
	return newOptFunc("WithMaxFrameSize", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}

		if size < 64 {
			return errors.New("max frame size must be at least 64 bytes")
		}
		cfg.maxFrameSize = size

		return nil
	})
}

// WithClientID sets the identity a Conn announces to the server. A random UUID is used
// otherwise.
func WithClientID(id string) Option {
	return newOptFunc("WithClientID", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}

		if id == "" {
			return errors.New("client id must not be empty")
		}
		cfg.clientID = id

		return nil
	})
}
