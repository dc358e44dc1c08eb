package transport

import (
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/arloliu/go-tabletae/aedesc"
	"github.com/arloliu/go-tabletae/aemsg"
	"github.com/arloliu/go-tabletae/dict"
	"github.com/arloliu/go-tabletae/logger"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestTransport(t *testing.T) (*Transport, *MockChannel) {
	t.Helper()

	ch := NewMockChannel()
	tr, err := New(ch, logger.NewSlogWithWriter(io.Discard, logger.DebugLevel, false))
	require.NoError(t, err)

	return tr, ch
}

func TestNewTransportNilChannel(t *testing.T) {
	_, err := New(nil, nil)
	require.ErrorIs(t, err, ErrChannelNil)
}

func TestSendNoReply(t *testing.T) {
	require := require.New(t)
	tr, ch := newTestTransport(t)

	msg := aemsg.NewDeleteContextRequest(aemsg.DriverAddress(), 7)
	ch.On("Send", msg, PriorityHigh, DefaultTimeout).Return(nil).Once()

	require.NoError(tr.SendNoReply(msg, PriorityHigh, DefaultTimeout))
	require.Equal(uint64(1), tr.Metrics().SendCount.Load())
	ch.AssertExpectations(t)
}

func TestSendNoReplyChannelError(t *testing.T) {
	require := require.New(t)
	tr, ch := newTestTransport(t)

	msg := aemsg.NewDeleteContextRequest(aemsg.DriverAddress(), 7)
	sendErr := errors.New("process not found")
	ch.On("Send", msg, PriorityNormal, Ticks(60)).Return(sendErr).Once()

	err := tr.SendNoReply(msg, PriorityNormal, 60)
	require.ErrorIs(err, ErrChannel)
	require.ErrorIs(err, sendErr)

	var chErr *ChannelError
	require.True(errors.As(err, &chErr))
	require.Equal("send", chErr.Op)
	require.Equal(dict.EventDelete, chErr.Event)
	require.Equal(uint64(1), tr.Metrics().ChannelErrCount.Load())
}

func TestSendNoReplyTimeout(t *testing.T) {
	require := require.New(t)
	tr, ch := newTestTransport(t)

	msg := aemsg.NewDeleteContextRequest(aemsg.DriverAddress(), 7)
	ch.On("Send", msg, PriorityHigh, Ticks(6)).Return(fmt.Errorf("%w: write stalled", ErrTimeout)).Once()

	err := tr.SendNoReply(msg, PriorityHigh, 6)
	require.True(IsTimeout(err))
	require.Equal(uint64(1), tr.Metrics().TimeoutCount.Load())
	require.Equal(uint64(1), tr.Metrics().ChannelErrCount.Load())
}

func TestSendAndWait(t *testing.T) {
	require := require.New(t)
	tr, ch := newTestTransport(t)

	reply := aemsg.NewReply()
	reply.Set(dict.KeyDirectObject, aedesc.NewUInt32(2))

	msg := aemsg.NewCountElementsRequest(aemsg.DriverAddress(), dict.ClassTablet, nil)
	ch.On("SendSync", msg, PriorityHigh, DefaultTimeout).Return(reply, nil).Once()

	got, err := tr.SendAndWait(msg, PriorityHigh, DefaultTimeout)
	require.NoError(err)
	require.Same(reply, got)
	require.Equal(uint64(1), tr.Metrics().ReplyCount.Load())
	require.Equal(int64(0), tr.Metrics().InflightCount.Load())
	ch.AssertExpectations(t)
}

func TestSendAndWaitTimeout(t *testing.T) {
	require := require.New(t)
	tr, ch := newTestTransport(t)

	msg := aemsg.NewCountElementsRequest(aemsg.DriverAddress(), dict.ClassTablet, nil)
	ch.On("SendSync", msg, PriorityHigh, Ticks(1)).Return(nil, fmt.Errorf("waiting: %w", ErrTimeout)).Once()

	reply, err := tr.SendAndWait(msg, PriorityHigh, 1)
	require.Nil(reply)
	require.ErrorIs(err, ErrChannel)
	require.ErrorIs(err, ErrTimeout)
	require.True(IsTimeout(err))
	require.Equal(uint64(1), tr.Metrics().TimeoutCount.Load())
	require.Equal(uint64(1), tr.Metrics().ChannelErrCount.Load())
}

func TestSendAndWaitNilReply(t *testing.T) {
	require := require.New(t)
	tr, ch := newTestTransport(t)

	msg := aemsg.NewCountElementsRequest(aemsg.DriverAddress(), dict.ClassTablet, nil)
	ch.On("SendSync", msg, mock.Anything, mock.Anything).Return(nil, nil).Once()

	_, err := tr.SendAndWait(msg, PriorityHigh, DefaultTimeout)
	require.ErrorIs(err, ErrNoReply)
	require.ErrorIs(err, ErrChannel)
}

func TestSendAndWaitProtocolError(t *testing.T) {
	require := require.New(t)
	tr, ch := newTestTransport(t)

	errReply := aemsg.NewErrorReply(dict.ErrNoSuchObject, "no such tablet")
	msg := aemsg.NewCountElementsRequest(aemsg.DriverAddress(), dict.ClassTransducer, nil)
	ch.On("SendSync", msg, mock.Anything, mock.Anything).Return(errReply, nil).Once()

	reply, err := tr.SendAndWait(msg, PriorityHigh, DefaultTimeout)
	require.Same(errReply, reply)
	require.ErrorIs(err, aemsg.ErrProtocol)
	require.NotErrorIs(err, ErrChannel)
	require.Equal(uint64(1), tr.Metrics().ProtocolErrCount.Load())
}

func TestTicks(t *testing.T) {
	require := require.New(t)

	require.Equal(5*time.Minute, DefaultTimeout.Duration())
	require.Equal(time.Second, Ticks(60).Duration())
	require.Equal(Ticks(60), TicksFromDuration(time.Second))
	require.Equal(Ticks(1), TicksFromDuration(time.Millisecond))
	require.Equal(Ticks(0), TicksFromDuration(0))
	require.Equal(Ticks(^uint32(0)), TicksFromDuration(time.Duration(1<<62)))
}

func TestPriority(t *testing.T) {
	require := require.New(t)

	require.Equal("high", PriorityHigh.String())
	require.Equal("normal", PriorityNormal.String())
	require.Equal("Priority(9)", Priority(9).String())

	p, ok := ParsePriority("high")
	require.True(ok)
	require.Equal(PriorityHigh, p)

	_, ok = ParsePriority("urgent")
	require.False(ok)
}

func TestSharedMetrics(t *testing.T) {
	require := require.New(t)

	shared := &Metrics{}
	ch := NewMockChannel()
	ch.On("Send", mock.Anything, PriorityNormal, DefaultTimeout).Return(nil)

	for i := 0; i < 2; i++ {
		tr, err := NewWithMetrics(ch, nil, shared)
		require.NoError(err)
		require.Same(shared, tr.Metrics())
		require.NoError(tr.SendNoReply(aemsg.NewDeleteContextRequest(aemsg.DriverAddress(), 1), PriorityNormal, DefaultTimeout))
	}

	require.Equal(uint64(2), shared.SendCount.Load())
}
