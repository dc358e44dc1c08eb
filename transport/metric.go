package transport

import (
	"sync/atomic"
)

// Metrics contains atomic counters for a Transport.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type Metrics struct {
	// SendCount indicates the number of fire-and-forget messages sent.
	SendCount atomic.Uint64
	// SendSyncCount indicates the number of wait-for-reply messages sent.
	SendSyncCount atomic.Uint64
	// ReplyCount indicates the number of successful replies received.
	ReplyCount atomic.Uint64
	// ChannelErrCount indicates the number of channel failures, timeouts included.
	ChannelErrCount atomic.Uint64
	// TimeoutCount indicates the number of reply timeouts.
	TimeoutCount atomic.Uint64
	// ProtocolErrCount indicates the number of replies carrying a driver error.
	ProtocolErrCount atomic.Uint64
	// InflightCount indicates the number of calls currently waiting for a reply.
	InflightCount atomic.Int64
}

func (m *Metrics) incSendCount() {
	m.SendCount.Add(1)
}

func (m *Metrics) incSendSyncCount() {
	m.SendSyncCount.Add(1)
}

func (m *Metrics) incReplyCount() {
	m.ReplyCount.Add(1)
}

func (m *Metrics) incChannelErrCount() {
	m.ChannelErrCount.Add(1)
}

func (m *Metrics) incTimeoutCount() {
	m.TimeoutCount.Add(1)
}

func (m *Metrics) incProtocolErrCount() {
	m.ProtocolErrCount.Add(1)
}

func (m *Metrics) incInflightCount() {
	m.InflightCount.Add(1)
}

func (m *Metrics) decInflightCount() {
	m.InflightCount.Add(-1)
}
