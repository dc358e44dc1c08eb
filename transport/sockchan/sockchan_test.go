package sockchan

import (
	"bytes"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/arloliu/go-tabletae/aedesc"
	"github.com/arloliu/go-tabletae/aemsg"
	"github.com/arloliu/go-tabletae/dict"
	"github.com/arloliu/go-tabletae/logger"
	"github.com/arloliu/go-tabletae/transport"
	"github.com/stretchr/testify/require"
)

// echoHandler replies with the request's direct object.
type echoHandler struct {
	mu       sync.Mutex
	received []*aemsg.Message
	gone     []string
	goneCh   chan string
	block    chan struct{}
	fail     error
}

func newEchoHandler() *echoHandler {
	return &echoHandler{goneCh: make(chan string, 4)}
}

func (h *echoHandler) HandleMessage(_ string, msg *aemsg.Message) (*aemsg.Reply, error) {
	h.mu.Lock()
	h.received = append(h.received, msg)
	block, fail := h.block, h.fail
	h.mu.Unlock()

	if block != nil {
		<-block
	}

	if fail != nil {
		return nil, fail
	}

	reply := aemsg.NewReply()
	if obj, ok := msg.Parameter(dict.KeyDirectObject); ok {
		reply.Set(dict.KeyDirectObject, obj)
	}

	return reply, nil
}

func (h *echoHandler) ClientGone(client string) {
	h.mu.Lock()
	h.gone = append(h.gone, client)
	h.mu.Unlock()
	h.goneCh <- client
}

func (h *echoHandler) receivedCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.received)
}

func quietLogger() logger.Logger {
	return logger.NewSlogWithWriter(io.Discard, logger.DebugLevel, false)
}

func startServer(t *testing.T, h Handler) (*Server, string) {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv, err := NewServer(h, WithLogger(quietLogger()))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(l) }()

	t.Cleanup(func() {
		_ = srv.Close()
		require.ErrorIs(t, <-done, ErrServerClosed)
	})

	return srv, l.Addr().String()
}

func dialTest(t *testing.T, addr string, opts ...Option) *Conn {
	t.Helper()

	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	conn, err := Dial("tcp", addr, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func textRequest(text string) *aemsg.Message {
	msg := aemsg.NewRequest(dict.SuiteCore, dict.EventGetData, aemsg.DriverAddress())
	msg.SetParameter(dict.KeyDirectObject, aedesc.NewUTF8Text(text))

	return msg
}

func TestFrameCodec(t *testing.T) {
	require := require.New(t)

	f := &frame{
		Kind:     frameRequest,
		ID:       42,
		Client:   "c1",
		Priority: uint8(transport.PriorityHigh),
		Timeout:  uint32(transport.DefaultTimeout),
		NoReply:  true,
		Payload:  []byte{1, 2, 3},
	}

	data, err := encodeFrame(f, DefaultMaxFrameSize)
	require.NoError(err)

	decoded, err := readFrame(bytes.NewReader(data), DefaultMaxFrameSize)
	require.NoError(err)
	require.Equal(f, decoded)

	_, err = encodeFrame(&frame{Kind: frameReply, Payload: make([]byte, 128)}, 64)
	require.ErrorIs(err, ErrFrameTooLarge)

	_, err = readFrame(bytes.NewReader(data), 4)
	require.ErrorIs(err, ErrFrameTooLarge)

	_, err = readFrame(bytes.NewReader([]byte{0, 0, 0, 0}), DefaultMaxFrameSize)
	require.ErrorIs(err, ErrFrameEmpty)

	_, err = readFrame(bytes.NewReader(data[:len(data)-1]), DefaultMaxFrameSize)
	require.ErrorIs(err, io.ErrUnexpectedEOF)
}

func TestOptions(t *testing.T) {
	tests := []struct {
		description string
		opt         Option
		wantErr     bool
	}{
		{"valid dial timeout", WithDialTimeout(time.Second), false},
		{"zero dial timeout", WithDialTimeout(0), true},
		{"disable write timeout", WithWriteTimeout(0), false},
		{"negative write timeout", WithWriteTimeout(-time.Second), true},
		{"valid max frame size", WithMaxFrameSize(1024), false},
		{"tiny max frame size", WithMaxFrameSize(8), true},
		{"explicit client id", WithClientID("tabletctl-1"), false},
		{"empty client id", WithClientID(""), true},
	}

	for i, test := range tests {
		t.Logf("Test #%d: %s", i, test.description)

		_, err := newConfig(test.opt)
		if test.wantErr {
			require.Error(t, err)
		} else {
			require.NoError(t, err)
		}
	}

	cfg, err := newConfig()
	require.NoError(t, err)
	require.NotEmpty(t, cfg.clientID)
	require.NotNil(t, cfg.logger)
}

func TestSendSyncRoundTrip(t *testing.T) {
	require := require.New(t)

	h := newEchoHandler()
	_, addr := startServer(t, h)
	conn := dialTest(t, addr)

	reply, err := conn.SendSync(textRequest("Intuos Pro"), transport.PriorityHigh, transport.DefaultTimeout)
	require.NoError(err)

	obj, ok := reply.Get(dict.KeyDirectObject)
	require.True(ok)
	text, err := obj.ToUTF8Text()
	require.NoError(err)
	require.Equal("Intuos Pro", text)
}

func TestSendSyncConcurrent(t *testing.T) {
	h := newEchoHandler()
	_, addr := startServer(t, h)
	conn := dialTest(t, addr)

	const callers = 16

	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			want := string(rune('a' + n))
			reply, err := conn.SendSync(textRequest(want), transport.PriorityNormal, transport.DefaultTimeout)
			if err != nil {
				errs <- err
				return
			}

			obj, _ := reply.Get(dict.KeyDirectObject)
			if got, _ := obj.ToUTF8Text(); got != want {
				errs <- errors.New("reply mismatch: " + got + " != " + want)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, callers, h.receivedCount())
}

func TestSendWithoutReply(t *testing.T) {
	require := require.New(t)

	h := newEchoHandler()
	_, addr := startServer(t, h)
	conn := dialTest(t, addr)

	require.NoError(conn.Send(textRequest("fire"), transport.PriorityHigh, transport.DefaultTimeout))

	// A following synchronous call is handled after the queued one.
	_, err := conn.SendSync(textRequest("sync"), transport.PriorityHigh, transport.DefaultTimeout)
	require.NoError(err)
	require.Equal(2, h.receivedCount())
}

func TestSendSyncTimeout(t *testing.T) {
	require := require.New(t)

	h := newEchoHandler()
	h.block = make(chan struct{})
	defer close(h.block)

	_, addr := startServer(t, h)
	conn := dialTest(t, addr)

	start := time.Now()
	_, err := conn.SendSync(textRequest("slow"), transport.PriorityHigh, transport.Ticks(3))
	require.ErrorIs(err, transport.ErrTimeout)
	require.True(transport.IsTimeout(err))
	require.Less(time.Since(start), 2*time.Second)
}

func TestSendSyncRemoteError(t *testing.T) {
	require := require.New(t)

	h := newEchoHandler()
	h.fail = errors.New("driver unavailable")
	_, addr := startServer(t, h)
	conn := dialTest(t, addr)

	_, err := conn.SendSync(textRequest("x"), transport.PriorityHigh, transport.DefaultTimeout)
	require.ErrorIs(err, ErrRemote)
	require.Contains(err.Error(), "driver unavailable")
}

func TestCloseReleasesWaiters(t *testing.T) {
	require := require.New(t)

	h := newEchoHandler()
	h.block = make(chan struct{})
	defer close(h.block)

	_, addr := startServer(t, h)
	conn := dialTest(t, addr)

	result := make(chan error, 1)
	go func() {
		_, err := conn.SendSync(textRequest("pending"), transport.PriorityHigh, transport.DefaultTimeout)
		result <- err
	}()

	require.Eventually(func() bool { return h.receivedCount() == 1 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(conn.Close())

	select {
	case err := <-result:
		require.ErrorIs(err, ErrConnClosed)
	case <-time.After(2 * time.Second):
		require.Fail("waiter was not released")
	}

	require.ErrorIs(conn.Send(textRequest("late"), transport.PriorityHigh, 0), ErrConnClosed)
}

func TestClientGone(t *testing.T) {
	require := require.New(t)

	h := newEchoHandler()
	_, addr := startServer(t, h)
	conn := dialTest(t, addr, WithClientID("client-under-test"))
	require.Equal("client-under-test", conn.ClientID())

	_, err := conn.SendSync(textRequest("hello"), transport.PriorityHigh, transport.DefaultTimeout)
	require.NoError(err)
	require.NoError(conn.Close())

	select {
	case client := <-h.goneCh:
		require.Equal("client-under-test", client)
	case <-time.After(2 * time.Second):
		require.Fail("ClientGone was not called")
	}
}

func TestNewConnOverPipe(t *testing.T) {
	require := require.New(t)

	clientSide, serverSide := net.Pipe()

	srv, err := NewServer(newEchoHandler(), WithLogger(quietLogger()), WithWriteTimeout(0))
	require.NoError(err)
	require.True(srv.trackConn(serverSide, true))
	go srv.serveConn(serverSide)
	defer srv.Close()

	conn, err := NewConn(clientSide, WithLogger(quietLogger()), WithWriteTimeout(0))
	require.NoError(err)
	defer conn.Close()

	reply, err := conn.SendSync(textRequest("pipe"), transport.PriorityNormal, transport.DefaultTimeout)
	require.NoError(err)
	obj, ok := reply.Get(dict.KeyDirectObject)
	require.True(ok)
	require.Equal(aedesc.NewUTF8Text("pipe"), obj)

	_, err = NewConn(nil)
	require.Error(err)
}

func TestHighPriorityHandledFirst(t *testing.T) {
	require := require.New(t)

	h := newEchoHandler()
	block := make(chan struct{})
	h.block = block
	_, addr := startServer(t, h)
	conn := dialTest(t, addr)

	require.NoError(conn.Send(textRequest("first"), transport.PriorityNormal, 0))
	require.Eventually(func() bool { return h.receivedCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(conn.Send(textRequest("normal"), transport.PriorityNormal, 0))
	require.NoError(conn.Send(textRequest("high"), transport.PriorityHigh, 0))
	// let the reader queue both requests behind the blocked one
	time.Sleep(100 * time.Millisecond)

	h.mu.Lock()
	h.block = nil
	h.mu.Unlock()
	close(block)

	require.Eventually(func() bool { return h.receivedCount() == 3 }, 2*time.Second, 5*time.Millisecond)

	h.mu.Lock()
	defer h.mu.Unlock()
	order := make([]string, 0, len(h.received))
	for _, msg := range h.received {
		obj, _ := msg.Parameter(dict.KeyDirectObject)
		text, _ := obj.ToUTF8Text()
		order = append(order, text)
	}
	require.Equal([]string{"first", "high", "normal"}, order)
}

func TestWriteBoundedByCallTimeout(t *testing.T) {
	require := require.New(t)

	// the peer never reads, so every write stalls
	clientSide, peer := net.Pipe()
	defer peer.Close()

	conn, err := NewConn(clientSide, WithLogger(quietLogger()), WithWriteTimeout(2*time.Second))
	require.NoError(err)
	defer conn.Close()

	start := time.Now()
	_, err = conn.SendSync(textRequest("stalled"), transport.PriorityHigh, transport.Ticks(6))
	require.True(transport.IsTimeout(err), "got %v", err)
	require.Less(time.Since(start), time.Second)

	start = time.Now()
	err = conn.Send(textRequest("stalled"), transport.PriorityHigh, transport.Ticks(6))
	require.True(transport.IsTimeout(err), "got %v", err)
	require.Less(time.Since(start), time.Second)
}

func TestWriteTimeoutShorterThanCall(t *testing.T) {
	require := require.New(t)

	clientSide, peer := net.Pipe()
	defer peer.Close()

	conn, err := NewConn(clientSide, WithLogger(quietLogger()), WithWriteTimeout(50*time.Millisecond))
	require.NoError(err)
	defer conn.Close()

	start := time.Now()
	err = conn.Send(textRequest("stalled"), transport.PriorityHigh, transport.DefaultTimeout)
	require.Error(err)
	require.False(transport.IsTimeout(err))
	require.Less(time.Since(start), time.Second)
}

func TestCloseWhileAccepting(t *testing.T) {
	require := require.New(t)

	for round := 0; round < 20; round++ {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(err)

		srv, err := NewServer(newEchoHandler(), WithLogger(quietLogger()))
		require.NoError(err)

		done := make(chan error, 1)
		go func() { done <- srv.Serve(l) }()

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if nc, err := net.Dial("tcp", l.Addr().String()); err == nil {
					_ = nc.Close()
				}
			}()
		}

		require.NoError(srv.Close())
		require.ErrorIs(<-done, ErrServerClosed)
		wg.Wait()

		// a connection accepted after Close is refused without touching the wait group
		clientSide, serverSide := net.Pipe()
		require.False(srv.trackConn(serverSide, true))
		_ = clientSide.Close()
		_ = serverSide.Close()
	}
}
