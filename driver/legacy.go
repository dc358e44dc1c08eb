package driver

import (
	"github.com/arloliu/go-tabletae/aedesc"
	"github.com/arloliu/go-tabletae/dict"
	"github.com/arloliu/go-tabletae/objspec"
)

// Legacy exposes the driver operations with sentinel results:
// every failure reads as the invalid context id, a zero count, a nil value or false, and is
// indistinguishable from a legitimate zero. Use it only where that behavior is required;
// failures are still logged at debug level.
type Legacy struct {
	client *Client
}

// NewLegacy wraps client.
func NewLegacy(client *Client) *Legacy {
	return &Legacy{client: client}
}

// CreateContextForTablet returns the new context id, or dict.InvalidIndex on any failure.
func (l *Legacy) CreateContextForTablet(tablet uint32, mode dict.ContextType) uint32 {
	id, err := l.client.CreateContext(tablet, mode)
	if err != nil {
		l.client.logger.Debug("driver: create context failed", "tablet", tablet, "error", err)
		return dict.InvalidIndex
	}

	return id
}

// DestroyContext releases a context without confirmation.
func (l *Legacy) DestroyContext(contextID uint32) {
	l.client.DestroyContext(contextID)
}

// DataForAttribute returns the attribute value, or nil on any failure.
func (l *Legacy) DataForAttribute(attribute aedesc.DescType, dataType aedesc.DescType, routing *objspec.Specifier) *aedesc.Descriptor {
	value, err := l.client.GetAttribute(attribute, dataType, routing)
	if err != nil {
		l.client.logger.Debug("driver: get attribute failed", "attribute", attribute.String(), "error", err)
		return nil
	}

	return &value
}

// SetBytes writes an attribute and reports whether the driver accepted it.
func (l *Legacy) SetBytes(data []byte, dataType aedesc.DescType, attribute aedesc.DescType, routing *objspec.Specifier) bool {
	if err := l.client.SetAttribute(attribute, dataType, data, routing); err != nil {
		l.client.logger.Debug("driver: set attribute failed", "attribute", attribute.String(), "error", err)
		return false
	}

	return true
}

// ControlCountOfContext returns the number of controls of controlType, or 0 on failure.
func (l *Legacy) ControlCountOfContext(contextID uint32, controlType dict.ControlType) uint32 {
	return l.count(l.client.ControlCount(contextID, controlType))
}

// FunctionCountOfControl returns the number of functions of a control, or 0 on failure.
func (l *Legacy) FunctionCountOfControl(control uint32, contextID uint32, controlType dict.ControlType) uint32 {
	return l.count(l.client.FunctionCount(contextID, control, controlType))
}

// TabletCount returns the number of attached tablets, or 0 on failure.
func (l *Legacy) TabletCount() uint32 {
	return l.count(l.client.TabletCount())
}

// TransducerCountForTablet returns the number of transducers of a tablet, or 0 on failure.
func (l *Legacy) TransducerCountForTablet(tablet uint32) uint32 {
	return l.count(l.client.TransducerCount(tablet))
}

// ResendLastTabletEvent asks the driver to resend the last event of eventType, ignoring failures.
func (l *Legacy) ResendLastTabletEvent(eventType dict.TabletEventType) {
	if err := l.client.ResendLastEvent(eventType); err != nil {
		l.client.logger.Debug("driver: resend event failed", "error", err)
	}
}

func (l *Legacy) count(n uint32, err error) uint32 {
	if err != nil {
		l.client.logger.Debug("driver: count elements failed", "error", err)
		return 0
	}

	return n
}
