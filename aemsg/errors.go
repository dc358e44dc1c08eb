package aemsg

import (
	"errors"
	"fmt"
)

var (
	// ErrProtocol is the sentinel matched by every *ProtocolError.
	ErrProtocol = errors.New("driver reported failure")

	// ErrInvalidMessage indicates that a binary message could not be decoded.
	ErrInvalidMessage = errors.New("invalid message encoding")
)

// A ProtocolError records a failure status reported by the driver in a reply.
type ProtocolError struct {
	Code    int32
	Message string
}

func (e *ProtocolError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("driver error %d: %s", e.Code, e.Message)
	}

	return fmt.Sprintf("driver error %d", e.Code)
}

// Is reports whether target is ErrProtocol.
func (e *ProtocolError) Is(target error) bool {
	return target == ErrProtocol
}
