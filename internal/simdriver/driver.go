package simdriver

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arloliu/go-tabletae/aedesc"
	"github.com/arloliu/go-tabletae/aemsg"
	"github.com/arloliu/go-tabletae/dict"
	"github.com/arloliu/go-tabletae/internal/pool"
	"github.com/arloliu/go-tabletae/logger"
	"github.com/arloliu/go-tabletae/transport"
	"github.com/puzpuzpuz/xsync/v3"
)

// LocalClient is the client name used for messages delivered through the Channel methods.
const LocalClient = "local"

// Driver is a simulated tablet driver. It is safe for concurrent use.
type Driver struct {
	logger     logger.Logger
	name       string
	tablets    []*tablet
	replyDelay time.Duration

	contexts      *xsync.MapOf[uint32, *simContext]
	nextContextID atomic.Uint32
	offline       atomic.Bool

	mu     sync.Mutex
	events []dict.TabletEventType
}

var _ transport.Channel = (*Driver)(nil)

// New creates a Driver with one DefaultTablet attached unless WithTablets is given.
func New(opts ...Option) (*Driver, error) {
	d := &Driver{
		name:     "Tablet Driver",
		tablets:  []*tablet{newTablet(DefaultTablet())},
		contexts: xsync.NewMapOf[uint32, *simContext](),
	}

	for _, opt := range opts {
		if err := opt.apply(d); err != nil {
			return nil, err
		}
	}

	if d.logger == nil {
		d.logger = logger.GetLogger()
	}

	return d, nil
}

// SetOffline makes the channel methods fail with ErrOffline, simulating a driver process
// that is not running.
func (d *Driver) SetOffline(offline bool) {
	d.offline.Store(offline)
}

// ContextCount returns the number of live contexts.
func (d *Driver) ContextCount() int {
	return d.contexts.Size()
}

// ContextInfo returns the tablet index and init mode of a live context.
func (d *Driver) ContextInfo(id uint32) (tabletIndex uint32, mode dict.ContextType, ok bool) {
	ctx, ok := d.contexts.Load(id)
	if !ok {
		return 0, 0, false
	}

	return ctx.tablet, ctx.mode, true
}

// ResentEvents returns the event types requested through the resend-event request, in order.
func (d *Driver) ResentEvents() []dict.TabletEventType {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]dict.TabletEventType(nil), d.events...)
}

// Send implements transport.Channel. The reply is discarded.
func (d *Driver) Send(msg *aemsg.Message, _ transport.Priority, _ transport.Ticks) error {
	_, err := d.roundTrip(msg)
	return err
}

// SendSync implements transport.Channel. The message and its reply pass through their
// binary encodings as they would over a real channel.
func (d *Driver) SendSync(msg *aemsg.Message, _ transport.Priority, timeout transport.Ticks) (*aemsg.Reply, error) {
	if d.replyDelay > 0 {
		wait := d.replyDelay
		timedOut := timeout.Duration() < wait
		if timedOut {
			wait = timeout.Duration()
		}

		pool.Sleep(wait)

		if timedOut {
			return nil, fmt.Errorf("%w after %s", transport.ErrTimeout, timeout.Duration())
		}
	}

	return d.roundTrip(msg)
}

func (d *Driver) roundTrip(msg *aemsg.Message) (*aemsg.Reply, error) {
	if d.offline.Load() {
		return nil, ErrOffline
	}

	data, err := msg.MarshalBinary()
	if err != nil {
		return nil, err
	}

	received, err := aemsg.ParseMessage(data)
	if err != nil {
		return nil, err
	}

	reply, err := d.HandleMessage(LocalClient, received)
	if err != nil {
		return nil, err
	}

	data, err = reply.MarshalBinary()
	if err != nil {
		return nil, err
	}

	return aemsg.ParseReply(data)
}

// HandleMessage implements sockchan.Handler. Protocol failures are reported in the reply;
// the returned error is always nil.
func (d *Driver) HandleMessage(client string, msg *aemsg.Message) (*aemsg.Reply, error) {
	var (
		reply *aemsg.Reply
		err   error
	)

	switch {
	case msg.EventClass() == dict.SuiteCore && msg.EventID() == dict.EventCreateElement:
		reply, err = d.createContext(client, msg)
	case msg.EventClass() == dict.SuiteCore && msg.EventID() == dict.EventDelete:
		reply, err = d.deleteContext(msg)
	case msg.EventClass() == dict.SuiteCore && msg.EventID() == dict.EventGetData:
		reply, err = d.getData(msg)
	case msg.EventClass() == dict.SuiteCore && msg.EventID() == dict.EventSetData:
		reply, err = d.setData(msg)
	case msg.EventClass() == dict.SuiteCore && msg.EventID() == dict.EventCountElements:
		reply, err = d.countElements(msg)
	case msg.EventClass() == dict.SuiteTablet && msg.EventID() == dict.EventSendTabletEvent:
		reply, err = d.resendEvent(msg)
	default:
		err = protoErr(dict.ErrEventNotHandled, "event %s/%s not handled", msg.EventClass(), msg.EventID())
	}

	if err != nil {
		var perr *aemsg.ProtocolError
		if !errors.As(err, &perr) {
			perr = &aemsg.ProtocolError{Code: dict.ErrParamMissed, Message: err.Error()}
		}
		d.logger.Debug("simdriver: request failed", aemsg.MsgInfo(msg, "client", client, "errn", perr.Code, "error", perr.Message)...)

		return aemsg.NewErrorReply(perr.Code, perr.Message), nil
	}

	d.logger.Debug("simdriver: request handled", aemsg.MsgInfo(msg, "client", client)...)

	return reply, nil
}

// ClientGone implements sockchan.Handler. It deletes the contexts the client left behind.
func (d *Driver) ClientGone(client string) {
	released := 0
	d.contexts.Range(func(id uint32, ctx *simContext) bool {
		if ctx.client == client {
			d.contexts.Delete(id)
			released++
		}

		return true
	})

	if released > 0 {
		d.logger.Info("simdriver: released contexts of departed client", "client", client, "count", released)
	}
}

func (d *Driver) driverAttribute(attr aedesc.DescType) (aedesc.Descriptor, bool) {
	if attr == dict.PropName {
		return aedesc.NewUTF8Text(d.name), true
	}

	return aedesc.Descriptor{}, false
}
