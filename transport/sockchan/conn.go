package sockchan

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arloliu/go-tabletae/aemsg"
	"github.com/arloliu/go-tabletae/internal/pool"
	"github.com/arloliu/go-tabletae/logger"
	"github.com/arloliu/go-tabletae/transport"
	"github.com/puzpuzpuz/xsync/v3"
)

// Conn is the client side of a socket channel. It implements transport.Channel and is safe
// for concurrent use.
type Conn struct {
	cfg    *Config
	conn   net.Conn
	logger logger.Logger

	writeMu sync.Mutex
	nextID  atomic.Uint32

	replyChans *xsync.MapOf[uint32, chan *frame]

	ctx       context.Context
	ctxCancel context.CancelFunc
	closeOnce sync.Once
	recvDone  chan struct{}
}

var _ transport.Channel = (*Conn)(nil)

// Dial connects to the server at address on the named network ("unix" or "tcp").
func Dial(network string, address string, opts ...Option) (*Conn, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	nc, err := net.DialTimeout(network, address, cfg.dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("sockchan: dial %s %s: %w", network, address, err)
	}

	return newConn(nc, cfg), nil
}

// NewConn wraps an established connection. The Conn takes ownership of nc.
func NewConn(nc net.Conn, opts ...Option) (*Conn, error) {
	if nc == nil {
		return nil, errors.New("sockchan: net.Conn is nil")
	}

	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return newConn(nc, cfg), nil
}

func newConn(nc net.Conn, cfg *Config) *Conn {
	c := &Conn{
		cfg:        cfg,
		conn:       nc,
		logger:     cfg.logger.With("client", cfg.clientID),
		replyChans: xsync.NewMapOf[uint32, chan *frame](),
		recvDone:   make(chan struct{}),
	}
	c.ctx, c.ctxCancel = context.WithCancel(context.Background())

	go c.receiveLoop()

	return c
}

// ClientID returns the identity announced to the server.
func (c *Conn) ClientID() string {
	return c.cfg.clientID
}

// Close closes the connection and releases every caller waiting for a reply.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.ctxCancel()
		err = c.conn.Close()
		<-c.recvDone
	})

	return err
}

// Send writes msg without waiting for a reply.
func (c *Conn) Send(msg *aemsg.Message, priority transport.Priority, timeout transport.Ticks) error {
	f, err := c.requestFrame(msg, priority, timeout)
	if err != nil {
		return err
	}
	f.NoReply = true

	return c.writeFrame(f, callDeadline(timeout))
}

// SendSync writes msg and waits for the matching reply frame.
//
// A zero timeout waits transport.DefaultTimeout. When the timeout elapses the error wraps
// transport.ErrTimeout; a reply arriving later is dropped.
func (c *Conn) SendSync(msg *aemsg.Message, priority transport.Priority, timeout transport.Ticks) (*aemsg.Reply, error) {
	f, err := c.requestFrame(msg, priority, timeout)
	if err != nil {
		return nil, err
	}

	if timeout == 0 {
		timeout = transport.DefaultTimeout
	}
	deadline := callDeadline(timeout)

	replyChan := c.addReplyExpected(f.ID)

	if err := c.writeFrame(f, deadline); err != nil {
		c.removeReplyExpected(f.ID)
		return nil, err
	}

	timer := pool.GetTimer(time.Until(deadline))
	defer pool.PutTimer(timer)

	select {
	case <-c.ctx.Done():
		c.removeReplyExpected(f.ID)
		return nil, ErrConnClosed

	case <-timer.C:
		c.removeReplyExpected(f.ID)
		c.logger.Debug("sockchan: reply timeout", aemsg.MsgInfo(msg, "frameID", f.ID)...)

		return nil, fmt.Errorf("%w after %s", transport.ErrTimeout, timeout.Duration())

	case reply := <-replyChan:
		if reply.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrRemote, reply.Error)
		}

		return aemsg.ParseReply(reply.Payload)
	}
}

func (c *Conn) requestFrame(msg *aemsg.Message, priority transport.Priority, timeout transport.Ticks) (*frame, error) {
	if c.ctx.Err() != nil {
		return nil, ErrConnClosed
	}

	payload, err := msg.MarshalBinary()
	if err != nil {
		return nil, err
	}

	return &frame{
		Kind:     frameRequest,
		ID:       c.frameID(),
		Client:   c.cfg.clientID,
		Priority: uint8(priority),
		Timeout:  uint32(timeout),
		Payload:  payload,
	}, nil
}

func (c *Conn) frameID() uint32 {
	for {
		if id := c.nextID.Add(1); id != 0 {
			return id
		}
	}
}

// callDeadline returns the point in time a call with timeout must finish by. A zero timeout
// means transport.DefaultTimeout.
func callDeadline(timeout transport.Ticks) time.Time {
	if timeout == 0 {
		timeout = transport.DefaultTimeout
	}

	return time.Now().Add(timeout.Duration())
}

// writeFrame writes f before deadline, or before the configured write timeout when that is
// shorter. A write cut off by the call deadline is reported as transport.ErrTimeout.
func (c *Conn) writeFrame(f *frame, deadline time.Time) error {
	data, err := encodeFrame(f, c.cfg.maxFrameSize)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	callBound := true
	if c.cfg.writeTimeout > 0 {
		if writeDeadline := time.Now().Add(c.cfg.writeTimeout); writeDeadline.Before(deadline) {
			deadline = writeDeadline
			callBound = false
		}
	}
	_ = c.conn.SetWriteDeadline(deadline)

	n, err := c.conn.Write(data)
	if err == nil {
		return nil
	}

	if c.ctx.Err() != nil {
		return ErrConnClosed
	}

	if n > 0 {
		// the peer would read the rest of the frame as a new one
		c.logger.Warn("sockchan: closing connection after partial write", "frameID", f.ID, "written", n, "size", len(data))
		_ = c.conn.Close()
	}

	if callBound && errors.Is(err, os.ErrDeadlineExceeded) {
		return fmt.Errorf("%w: write %s frame %d", transport.ErrTimeout, f.Kind, f.ID)
	}

	return fmt.Errorf("sockchan: write %s frame: %w", f.Kind, err)
}

func (c *Conn) addReplyExpected(id uint32) chan *frame {
	ch := make(chan *frame, 1)
	c.replyChans.Store(id, ch)

	return ch
}

func (c *Conn) removeReplyExpected(id uint32) {
	c.replyChans.Delete(id)
}

// receiveLoop reads reply frames and hands them to the waiting senders until the
// connection fails or is closed.
func (c *Conn) receiveLoop() {
	defer close(c.recvDone)
	defer c.ctxCancel()

	for {
		f, err := readFrame(c.conn, c.cfg.maxFrameSize)
		if err != nil {
			if c.ctx.Err() == nil {
				c.logger.Debug("sockchan: connection lost", "error", err)
			}

			return
		}

		if f.Kind != frameReply {
			c.logger.Warn("sockchan: dropping unexpected frame", "kind", f.Kind.String(), "frameID", f.ID)
			continue
		}

		replyChan, ok := c.replyChans.LoadAndDelete(f.ID)
		if !ok {
			c.logger.Debug("sockchan: reply has no waiting sender", "frameID", f.ID)
			continue
		}

		replyChan <- f
	}
}
