package sockchan

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arloliu/go-tabletae/aemsg"
	"github.com/arloliu/go-tabletae/internal/queue"
	"github.com/arloliu/go-tabletae/logger"
	"github.com/arloliu/go-tabletae/transport"
)

// Handler answers the requests received by a Server.
type Handler interface {
	// HandleMessage handles one request from client. The reply is discarded when the sender
	// did not ask for one. A returned error is reported to the sender as ErrRemote.
	HandleMessage(client string, msg *aemsg.Message) (*aemsg.Reply, error)

	// ClientGone is called once a client connection has ended.
	ClientGone(client string)
}

// Server accepts socket channel connections and dispatches their requests to a Handler.
//
// Requests of one connection are handled one at a time. High priority requests are handled
// before normal ones; within a priority they keep their arrival order.
type Server struct {
	cfg     *Config
	handler Handler
	logger  logger.Logger

	mu        sync.Mutex
	listeners map[net.Listener]struct{}
	conns     map[net.Conn]struct{}
	wg        sync.WaitGroup
	closed    atomic.Bool
}

// NewServer creates a Server dispatching to h.
func NewServer(h Handler, opts ...Option) (*Server, error) {
	if h == nil {
		return nil, errors.New("sockchan: handler is nil")
	}

	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:       cfg,
		handler:   h,
		logger:    cfg.logger,
		listeners: make(map[net.Listener]struct{}),
		conns:     make(map[net.Conn]struct{}),
	}, nil
}

// Serve creates a Server for h and serves l until l fails.
func Serve(l net.Listener, h Handler, opts ...Option) error {
	srv, err := NewServer(h, opts...)
	if err != nil {
		return err
	}

	return srv.Serve(l)
}

// Serve accepts connections on l and blocks until l fails or the server is closed.
// After Close it returns ErrServerClosed.
func (s *Server) Serve(l net.Listener) error {
	if !s.trackListener(l, true) {
		return ErrServerClosed
	}
	defer s.trackListener(l, false)

	s.logger.Info("sockchan: serving", "address", l.Addr().String())

	for {
		nc, err := l.Accept()
		if err != nil {
			if s.closed.Load() {
				return ErrServerClosed
			}

			return err
		}

		if !s.trackConn(nc, true) {
			_ = nc.Close()
			return ErrServerClosed
		}

		go s.serveConn(nc)
	}
}

// Close stops every listener, closes every client connection and waits for the
// connection handlers to return.
func (s *Server) Close() error {
	s.closed.Store(true)

	s.mu.Lock()
	var err error
	for l := range s.listeners {
		if cerr := l.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	for nc := range s.conns {
		_ = nc.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()

	return err
}

func (s *Server) trackListener(l net.Listener, add bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if add {
		if s.closed.Load() {
			return false
		}
		s.listeners[l] = struct{}{}
	} else {
		delete(s.listeners, l)
	}

	return true
}

// trackConn registers or removes nc. A registered connection is counted in s.wg under s.mu,
// so Close never waits on a group that is still growing.
func (s *Server) trackConn(nc net.Conn, add bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if add {
		if s.closed.Load() {
			return false
		}
		s.conns[nc] = struct{}{}
		s.wg.Add(1)
	} else {
		delete(s.conns, nc)
	}

	return true
}

func (s *Server) serveConn(nc net.Conn) {
	defer s.wg.Done()
	defer s.trackConn(nc, false)
	defer nc.Close()

	var client string
	connLogger := s.logger.With("remote", nc.RemoteAddr().String())

	inbox := queue.NewPriorityQueue[*frame](8)
	dispatchDone := make(chan struct{})
	go func() {
		defer close(dispatchDone)
		s.dispatch(nc, connLogger, inbox)
	}()

	for {
		f, err := readFrame(nc, s.cfg.maxFrameSize)
		if err != nil {
			if !s.closed.Load() {
				connLogger.Debug("sockchan: client disconnected", "client", client, "error", err)
			}

			break
		}

		if f.Kind != frameRequest {
			connLogger.Warn("sockchan: dropping unexpected frame", "kind", f.Kind.String(), "frameID", f.ID)
			continue
		}

		if client == "" && f.Client != "" {
			client = f.Client
			connLogger.Debug("sockchan: client identified", "client", client)
		}
		if f.Client == "" {
			f.Client = client
		}

		inbox.Push(f, transport.Priority(f.Priority) == transport.PriorityHigh)
	}

	inbox.Close()
	<-dispatchDone

	if client != "" {
		s.handler.ClientGone(client)
	}
}

// dispatch handles the queued requests of one connection until the inbox is closed and drained.
func (s *Server) dispatch(nc net.Conn, l logger.Logger, inbox *queue.PriorityQueue[*frame]) {
	broken := false
	for {
		f, err := inbox.Pop(context.Background())
		if err != nil {
			return
		}

		reply := s.handleRequest(l, f)
		if reply == nil || broken {
			continue
		}

		if err := s.writeFrame(nc, reply); err != nil {
			l.Warn("sockchan: failed to write reply", "frameID", f.ID, "error", err)
			broken = true
			_ = nc.Close()
		}
	}
}

// handleRequest dispatches f and returns the reply frame, or nil when none is expected.
func (s *Server) handleRequest(l logger.Logger, f *frame) *frame {
	reply := &frame{Kind: frameReply, ID: f.ID}

	msg, err := aemsg.ParseMessage(f.Payload)
	if err != nil {
		l.Warn("sockchan: invalid request payload", "frameID", f.ID, "error", err)
		reply.Error = err.Error()

		return s.replyIfExpected(f, reply)
	}

	result, err := s.handler.HandleMessage(f.Client, msg)
	if err != nil {
		l.Debug("sockchan: handler failed", aemsg.MsgInfo(msg, "error", err)...)
		reply.Error = err.Error()

		return s.replyIfExpected(f, reply)
	}

	if f.NoReply {
		return nil
	}

	if result == nil {
		result = aemsg.NewReply()
	}

	payload, err := result.MarshalBinary()
	if err != nil {
		reply.Error = err.Error()
	} else {
		reply.Payload = payload
	}

	return reply
}

func (s *Server) replyIfExpected(req *frame, reply *frame) *frame {
	if req.NoReply {
		return nil
	}

	return reply
}

func (s *Server) writeFrame(nc net.Conn, f *frame) error {
	data, err := encodeFrame(f, s.cfg.maxFrameSize)
	if errors.Is(err, ErrFrameTooLarge) {
		data, err = encodeFrame(&frame{Kind: frameReply, ID: f.ID, Error: err.Error()}, s.cfg.maxFrameSize)
	}
	if err != nil {
		return err
	}

	if s.cfg.writeTimeout > 0 {
		_ = nc.SetWriteDeadline(time.Now().Add(s.cfg.writeTimeout))
	}

	_, err = nc.Write(data)

	return err
}
