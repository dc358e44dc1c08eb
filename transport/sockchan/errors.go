package sockchan

import "errors"

var (
	// ErrConnClosed indicates the connection has been closed.
	ErrConnClosed = errors.New("sockchan: connection closed")

	// ErrFrameTooLarge indicates a frame exceeds the configured maximum size.
	ErrFrameTooLarge = errors.New("sockchan: frame too large")

	// ErrFrameEmpty indicates a zero-length frame.
	ErrFrameEmpty = errors.New("sockchan: frame is empty")

	// ErrRemote indicates the peer failed to handle a request. The error text reported by the
	// peer is appended to it.
	ErrRemote = errors.New("sockchan: remote handler failed")

	// ErrConfigNil indicates an option was applied to a nil configuration.
	ErrConfigNil = errors.New("sockchan: config is nil")

	// ErrServerClosed is returned by Server.Serve after Server.Close.
	ErrServerClosed = errors.New("sockchan: server closed")
)
