package driver

import "errors"

var (
	// ErrInvalidContext indicates the driver answered a create-context request with the
	// invalid context id, or a caller passed it to an operation.
	ErrInvalidContext = errors.New("invalid context id")

	// ErrClientConfigNil indicates that an option was applied to a nil configuration.
	ErrClientConfigNil = errors.New("client config is nil")
)
