package transport

import (
	"errors"

	"github.com/arloliu/go-tabletae/aemsg"
	"github.com/arloliu/go-tabletae/logger"
)

// Transport sends messages over a Channel with the synchronous call semantics of the driver
// client. It holds no per-call state and is safe for concurrent use.
type Transport struct {
	ch      Channel
	logger  logger.Logger
	metrics *Metrics
}

// New creates a Transport over ch. A nil logger selects the package default logger.
func New(ch Channel, l logger.Logger) (*Transport, error) {
	return NewWithMetrics(ch, l, nil)
}

// NewWithMetrics creates a Transport that records into m, letting several transports share
// one set of counters. A nil m allocates fresh counters.
func NewWithMetrics(ch Channel, l logger.Logger, m *Metrics) (*Transport, error) {
	if ch == nil {
		return nil, ErrChannelNil
	}

	if l == nil {
		l = logger.GetLogger()
	}

	if m == nil {
		m = &Metrics{}
	}

	return &Transport{ch: ch, logger: l, metrics: m}, nil
}

// Metrics returns the transport counters.
func (t *Transport) Metrics() *Metrics {
	return t.metrics
}

// SendNoReply hands msg to the channel without waiting for a reply.
//
// A channel failure is returned as a *ChannelError.
func (t *Transport) SendNoReply(msg *aemsg.Message, priority Priority, timeout Ticks) error {
	t.metrics.incSendCount()

	if err := t.ch.Send(msg, priority, timeout); err != nil {
		t.metrics.incChannelErrCount()
		if errors.Is(err, ErrTimeout) {
			t.metrics.incTimeoutCount()
		}
		t.logger.Debug("transport: send failed", aemsg.MsgInfo(msg, "error", err)...)

		return &ChannelError{Op: "send", Event: msg.EventID(), Timeout: timeout, Err: err}
	}

	t.logger.Debug("transport: sent", aemsg.MsgInfo(msg, "priority", priority.String())...)

	return nil
}

// SendAndWait sends msg and blocks until the reply arrives or timeout elapses.
//
// It returns a *ChannelError on delivery failure or timeout. When the reply carries a driver
// error number, the reply is returned together with an *aemsg.ProtocolError.
func (t *Transport) SendAndWait(msg *aemsg.Message, priority Priority, timeout Ticks) (*aemsg.Reply, error) {
	t.metrics.incSendSyncCount()
	t.metrics.incInflightCount()
	defer t.metrics.decInflightCount()

	reply, err := t.ch.SendSync(msg, priority, timeout)
	if err != nil {
		t.metrics.incChannelErrCount()
		if errors.Is(err, ErrTimeout) {
			t.metrics.incTimeoutCount()
			t.logger.Warn("transport: reply timeout", aemsg.MsgInfo(msg, "timeout", timeout.Duration())...)
		} else {
			t.logger.Debug("transport: send failed", aemsg.MsgInfo(msg, "error", err)...)
		}

		return nil, &ChannelError{Op: "sendSync", Event: msg.EventID(), Timeout: timeout, Err: err}
	}

	if reply == nil {
		t.metrics.incChannelErrCount()
		return nil, &ChannelError{Op: "sendSync", Event: msg.EventID(), Timeout: timeout, Err: ErrNoReply}
	}

	if err := reply.Err(); err != nil {
		t.metrics.incProtocolErrCount()
		t.logger.Debug("transport: driver reported error", aemsg.MsgInfo(msg, "error", err)...)

		return reply, err
	}

	t.metrics.incReplyCount()
	t.logger.Debug("transport: reply received", aemsg.MsgInfo(msg, "reply", reply.String())...)

	return reply, nil
}
