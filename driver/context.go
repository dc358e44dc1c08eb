package driver

import (
	"fmt"

	"github.com/arloliu/go-tabletae/aemsg"
	"github.com/arloliu/go-tabletae/dict"
)

// CreateContext creates an application context on the tablet at 1-based index and returns
// its id. Every created context must be released with DestroyContext; WithContext does so
// automatically.
func (c *Client) CreateContext(tablet uint32, mode dict.ContextType) (uint32, error) {
	if err := c.validate(RoutingTableForTablet(tablet)); err != nil {
		return dict.InvalidIndex, err
	}

	reply, err := c.call(aemsg.NewCreateContextRequest(c.cfg.target, tablet, mode))
	if err != nil {
		return dict.InvalidIndex, err
	}

	id, err := aemsg.ContextIDFromReply(reply)
	if err != nil {
		return dict.InvalidIndex, err
	}

	if id == dict.InvalidIndex {
		return dict.InvalidIndex, fmt.Errorf("create context on tablet %d: %w", tablet, ErrInvalidContext)
	}

	c.logger.Debug("driver: context created", "context", id, "tablet", tablet, "mode", mode.String())

	return id, nil
}

// DestroyContext releases a context. The request is sent without waiting for a reply, so the
// caller gets no confirmation; a failure to send is logged. The invalid context id is ignored.
func (c *Client) DestroyContext(contextID uint32) {
	if contextID == dict.InvalidIndex {
		c.logger.Debug("driver: ignoring destroy of invalid context")
		return
	}

	msg := aemsg.NewDeleteContextRequest(c.cfg.target, contextID)
	if err := c.tr.SendNoReply(msg, c.cfg.priority, c.cfg.timeout); err != nil {
		c.logger.Warn("driver: failed to destroy context", "context", contextID, "error", err)
		return
	}

	c.logger.Debug("driver: context destroyed", "context", contextID)
}

// WithContext creates a context on tablet, calls fn with its id and destroys the context
// when fn returns or panics. The error of fn is returned unchanged.
func (c *Client) WithContext(tablet uint32, mode dict.ContextType, fn func(contextID uint32) error) error {
	id, err := c.CreateContext(tablet, mode)
	if err != nil {
		return err
	}
	defer c.DestroyContext(id)

	return fn(id)
}
