package simdriver

import (
	"errors"
	"time"

	"github.com/arloliu/go-tabletae/logger"
)

// Option configures a Driver.
type Option interface {
	apply(*Driver) error
}

type optFunc func(*Driver) error

func (f optFunc) apply(d *Driver) error { return f(d) }

// WithLogger sets the logger. The package default logger is used otherwise.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(d *Driver) error {
		d.logger = l
		return nil
	})
}

// WithTablets replaces the attached tablets. Passing no tablet simulates a driver with no
// tablet attached.
func WithTablets(tablets ...TabletConfig) Option {
	return optFunc(func(d *Driver) error {
		d.tablets = d.tablets[:0]
		for _, cfg := range tablets {
			d.tablets = append(d.tablets, newTablet(cfg))
		}

		return nil
	})
}

// WithFirstContextID sets the id handed out to the first created context.
func WithFirstContextID(id uint32) Option {
	return optFunc(func(d *Driver) error {
		if id == 0 {
			return errors.New("first context id must not be zero")
		}
		d.nextContextID.Store(id - 1)

		return nil
	})
}

// WithDriverName sets the name property of the driver object.
func WithDriverName(name string) Option {
	return optFunc(func(d *Driver) error {
		d.name = name
		return nil
	})
}

// WithReplyDelay delays every reply given through SendSync. A delay longer than the
// caller's timeout makes the call time out.
func WithReplyDelay(delay time.Duration) Option {
	return optFunc(func(d *Driver) error {
		if delay < 0 {
			return errors.New("reply delay must not be negative")
		}
		d.replyDelay = delay

		return nil
	})
}
