package driver

import (
	"errors"
	"fmt"

	"github.com/arloliu/go-tabletae/aemsg"
	"github.com/arloliu/go-tabletae/logger"
	"github.com/arloliu/go-tabletae/transport"
)

// ClientConfig holds the immutable settings of a Client.
type ClientConfig struct {
	logger        logger.Logger
	timeout       transport.Ticks
	priority      transport.Priority
	target        aemsg.Address
	strictIndexes bool
	metrics       *transport.Metrics
}

func newClientConfig(opts ...ClientOption) (*ClientConfig, error) {
	cfg := &ClientConfig{
		timeout:  transport.DefaultTimeout,
		priority: transport.PriorityHigh,
		target:   aemsg.DriverAddress(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.logger == nil {
		cfg.logger = logger.GetLogger()
	}

	return cfg, nil
}

// Timeout returns the timeout used for every call.
func (cfg *ClientConfig) Timeout() transport.Ticks { return cfg.timeout }

// Priority returns the delivery priority used for every call.
func (cfg *ClientConfig) Priority() transport.Priority { return cfg.priority }

// Target returns the address of the driver process.
func (cfg *ClientConfig) Target() aemsg.Address { return cfg.target }

// StrictIndexes reports whether routing tables are validated before sending.
func (cfg *ClientConfig) StrictIndexes() bool { return cfg.strictIndexes }

// ClientOption configures a Client.
type ClientOption interface {
	apply(*ClientConfig) error
}

type clientOptFunc struct {
	name      string
	applyFunc func(*ClientConfig) error
}

func (o *clientOptFunc) apply(cfg *ClientConfig) error { return o.applyFunc(cfg) }

func newClientOptFunc(name string, f func(*ClientConfig) error) *clientOptFunc {
	return &clientOptFunc{name: name, applyFunc: f}
}

// WithLogger sets the logger of the client and its transport.
func WithLogger(l logger.Logger) ClientOption {
	return newClientOptFunc("WithLogger", func(cfg *ClientConfig) error {
		if cfg == nil {
			return ErrClientConfigNil
		}

		cfg.logger = l

		return nil
	})
}

// WithTimeout sets the timeout of every call. The default is transport.DefaultTimeout.
func WithTimeout(timeout transport.Ticks) ClientOption {
	return newClientOptFunc("WithTimeout", func(cfg *ClientConfig) error {
		if cfg == nil {
			return ErrClientConfigNil
		}

		if timeout == 0 {
			return errors.New("timeout must be at least one tick")
		}
		cfg.timeout = timeout

		return nil
	})
}

// WithPriority sets the delivery priority of every call. The default is transport.PriorityHigh.
func WithPriority(priority transport.Priority) ClientOption {
	return newClientOptFunc("WithPriority", func(cfg *ClientConfig) error {
		if cfg == nil {
			return ErrClientConfigNil
		}

		if priority != transport.PriorityNormal && priority != transport.PriorityHigh {
			return fmt.Errorf("invalid priority %s", priority)
		}
		cfg.priority = priority

		return nil
	})
}

// WithTarget sets the address of the driver process. The default is aemsg.DriverAddress().
func WithTarget(target aemsg.Address) ClientOption {
	return newClientOptFunc("WithTarget", func(cfg *ClientConfig) error {
		if cfg == nil {
			return ErrClientConfigNil
		}

		if target.IsZero() {
			return errors.New("target address is empty")
		}
		cfg.target = target

		return nil
	})
}

// WithStrictIndexes makes the client reject routing tables holding a zero index or context
// id before sending them, returning an error wrapping objspec.ErrInvalidIndex. By default
// indices are forwarded and the driver rejects them.
func WithStrictIndexes(strict bool) ClientOption {
	return newClientOptFunc("WithStrictIndexes", func(cfg *ClientConfig) error {
		if cfg == nil {
			return ErrClientConfigNil
		}

		cfg.strictIndexes = strict

		return nil
	})
}

// WithMetrics makes the client record its calls into m, which may be shared between clients.
func WithMetrics(m *transport.Metrics) ClientOption {
	return newClientOptFunc("WithMetrics", func(cfg *ClientConfig) error {
		if cfg == nil {
			return ErrClientConfigNil
		}

		if m == nil {
			return errors.New("metrics is nil")
		}
		cfg.metrics = m

		return nil
	})
}
