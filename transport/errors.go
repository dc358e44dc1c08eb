package transport

import (
	"errors"
	"fmt"

	"github.com/arloliu/go-tabletae/aedesc"
)

var (
	// ErrChannel is the sentinel matched by every *ChannelError.
	ErrChannel = errors.New("message channel failure")

	// ErrTimeout indicates that no reply arrived within the timeout.
	// Channel implementations return it (or wrap it) from SendSync.
	ErrTimeout = errors.New("reply timeout")

	// ErrNoReply indicates that a channel returned neither a reply nor an error.
	ErrNoReply = errors.New("channel returned no reply")

	// ErrChannelNil indicates that a nil Channel was provided.
	ErrChannelNil = errors.New("channel is nil")
)

// A ChannelError records a delivery failure of the message channel.
type ChannelError struct {
	Op      string
	Event   aedesc.DescType
	Timeout Ticks
	Err     error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("transport %s '%s' (timeout %d ticks): %v", e.Op, e.Event, uint32(e.Timeout), e.Err)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrChannel.
func (e *ChannelError) Is(target error) bool {
	return target == ErrChannel
}

// IsTimeout reports whether err is a reply timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
