package driver

import (
	"fmt"

	"github.com/arloliu/go-tabletae/aedesc"
	"github.com/arloliu/go-tabletae/aemsg"
	"github.com/arloliu/go-tabletae/dict"
	"github.com/arloliu/go-tabletae/logger"
	"github.com/arloliu/go-tabletae/objspec"
	"github.com/arloliu/go-tabletae/transport"
)

// Client issues requests to the tablet driver. It holds no state besides its configuration
// and is safe for concurrent use; ordering between calls that touch the same context is up
// to the caller.
type Client struct {
	cfg    *ClientConfig
	tr     *transport.Transport
	logger logger.Logger
}

// NewClient creates a Client sending over ch.
func NewClient(ch transport.Channel, opts ...ClientOption) (*Client, error) {
	cfg, err := newClientConfig(opts...)
	if err != nil {
		return nil, err
	}

	tr, err := transport.NewWithMetrics(ch, cfg.logger, cfg.metrics)
	if err != nil {
		return nil, err
	}

	return &Client{cfg: cfg, tr: tr, logger: cfg.logger}, nil
}

// Config returns the client configuration.
func (c *Client) Config() *ClientConfig {
	return c.cfg
}

// Metrics returns the call counters of the client.
func (c *Client) Metrics() *transport.Metrics {
	return c.tr.Metrics()
}

func (c *Client) call(msg *aemsg.Message) (*aemsg.Reply, error) {
	return c.tr.SendAndWait(msg, c.cfg.priority, c.cfg.timeout)
}

func (c *Client) validate(routing *objspec.Specifier) error {
	if !c.cfg.strictIndexes || routing == nil {
		return nil
	}

	return objspec.Validate(routing)
}

// GetAttribute reads attribute of the object addressed by routing. The driver converts the
// value to expectedType; a reply of any other type is a *aedesc.DecodeError.
func (c *Client) GetAttribute(attribute aedesc.DescType, expectedType aedesc.DescType, routing *objspec.Specifier) (aedesc.Descriptor, error) {
	if err := c.validate(routing); err != nil {
		return aedesc.Descriptor{}, err
	}

	reply, err := c.call(aemsg.NewGetDataRequest(c.cfg.target, attribute, expectedType, routing))
	if err != nil {
		return aedesc.Descriptor{}, err
	}

	return aemsg.DataFromReply(reply, expectedType)
}

// SetAttribute writes data, the payload of a value of dataType, to attribute of the object
// addressed by routing.
func (c *Client) SetAttribute(attribute aedesc.DescType, dataType aedesc.DescType, data []byte, routing *objspec.Specifier) error {
	if err := c.validate(routing); err != nil {
		return err
	}

	_, err := c.call(aemsg.NewSetDataRequest(c.cfg.target, attribute, dataType, data, routing))

	return err
}

// CountElements returns the number of elements of class inside the object addressed by
// routing. A nil routing counts elements of the driver object.
func (c *Client) CountElements(class aedesc.DescType, routing *objspec.Specifier) (uint32, error) {
	if err := c.validate(routing); err != nil {
		return 0, err
	}

	reply, err := c.call(aemsg.NewCountElementsRequest(c.cfg.target, class, routing))
	if err != nil {
		return 0, err
	}

	return aemsg.CountFromReply(reply)
}

// ControlCount returns the number of controls of controlType in a context.
func (c *Client) ControlCount(contextID uint32, controlType dict.ControlType) (uint32, error) {
	return c.CountElements(DescTypeFromControlType(controlType), RoutingTableForContext(contextID))
}

// FunctionCount returns the number of functions of a control in a context.
func (c *Client) FunctionCount(contextID uint32, control uint32, controlType dict.ControlType) (uint32, error) {
	return c.CountElements(dict.ClassControlFunction, RoutingTableForControl(contextID, controlType, control))
}

// TabletCount returns the number of attached tablets.
func (c *Client) TabletCount() (uint32, error) {
	return c.CountElements(dict.ClassTablet, RoutingTableForDriver())
}

// TransducerCount returns the number of transducers known for a tablet.
func (c *Client) TransducerCount(tablet uint32) (uint32, error) {
	return c.CountElements(dict.ClassTransducer, RoutingTableForTablet(tablet))
}

// ResendLastEvent asks the driver to send the last tablet event of eventType again.
// The reply is an acknowledgement only.
func (c *Client) ResendLastEvent(eventType dict.TabletEventType) error {
	_, err := c.call(aemsg.NewResendEventRequest(c.cfg.target, eventType))
	if err != nil {
		return fmt.Errorf("resend %s event: %w", eventType, err)
	}

	return nil
}
