package simdriver

import (
	"errors"
	"fmt"

	"github.com/arloliu/go-tabletae/aemsg"
)

// ErrOffline is returned by the channel methods while the driver is set offline.
var ErrOffline = errors.New("simdriver: driver is offline")

func protoErr(code int32, format string, args ...any) error {
	return &aemsg.ProtocolError{Code: code, Message: fmt.Sprintf(format, args...)}
}
