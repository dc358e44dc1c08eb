package aemsg

import (
	"github.com/arloliu/go-tabletae/aedesc"
	"github.com/arloliu/go-tabletae/dict"
	"github.com/arloliu/go-tabletae/objspec"
)

// NewCreateContextRequest builds the request that creates a context on the tablet at
// tabletIndex, initialized according to contextType.
//
// The reply's direct object, a UInt32, is the new context id; see ContextIDFromReply.
func NewCreateContextRequest(target Address, tabletIndex uint32, contextType dict.ContextType) *Message {
	msg := NewRequest(dict.SuiteCore, dict.EventCreateElement, target)
	msg.SetName("CreateContext")
	msg.SetParameter(dict.KeyObjectClass, aedesc.NewType(dict.ClassContext))
	msg.SetParameter(dict.KeyInsertHere, objspec.Tablet(tabletIndex).Descriptor())
	msg.SetParameter(dict.KeyContextType, aedesc.NewEnum(aedesc.DescType(contextType)))

	return msg
}

// NewDeleteContextRequest builds the request that destroys the context with the given id.
// No reply is expected.
func NewDeleteContextRequest(target Address, contextID uint32) *Message {
	msg := NewRequest(dict.SuiteCore, dict.EventDelete, target)
	msg.SetName("DeleteContext")
	msg.SetParameter(dict.KeyDirectObject, objspec.Context(contextID).Descriptor())

	return msg
}

// NewGetDataRequest builds the request reading attribute of the object addressed by routing,
// asking the driver to return it as requestedType.
func NewGetDataRequest(target Address, attribute aedesc.DescType, requestedType aedesc.DescType, routing *objspec.Specifier) *Message {
	msg := NewRequest(dict.SuiteCore, dict.EventGetData, target)
	msg.SetName("GetData")
	msg.SetParameter(dict.KeyDirectObject, objspec.Property(attribute, routing).Descriptor())
	msg.SetParameter(dict.KeyRequestedType, aedesc.NewType(requestedType))

	return msg
}

// NewSetDataRequest builds the request writing data, tagged dataType, into attribute of the
// object addressed by routing.
func NewSetDataRequest(target Address, attribute aedesc.DescType, dataType aedesc.DescType, data []byte, routing *objspec.Specifier) *Message {
	msg := NewRequest(dict.SuiteCore, dict.EventSetData, target)
	msg.SetName("SetData")
	msg.SetParameter(dict.KeyDirectObject, objspec.Property(attribute, routing).Descriptor())
	msg.SetParameter(dict.KeyRequestedType, aedesc.NewType(dataType))
	msg.SetParameter(dict.KeyData, aedesc.New(dataType, data))

	return msg
}

// NewCountElementsRequest builds the request counting the elements of class inside container.
//
// The reply's direct object, a UInt32, is the count; see CountFromReply.
func NewCountElementsRequest(target Address, class aedesc.DescType, container *objspec.Specifier) *Message {
	msg := NewRequest(dict.SuiteCore, dict.EventCountElements, target)
	msg.SetName("CountElements")
	msg.SetParameter(dict.KeyObjectClass, aedesc.NewType(class))
	if container == nil {
		msg.SetParameter(dict.KeyDirectObject, aedesc.NewNull())
	} else {
		msg.SetParameter(dict.KeyDirectObject, container.Descriptor())
	}

	return msg
}

// NewResendEventRequest builds the vendor request asking the driver to resend the last tablet
// event of eventType. The reply is an acknowledgement only.
func NewResendEventRequest(target Address, eventType dict.TabletEventType) *Message {
	msg := NewRequest(dict.SuiteTablet, dict.EventSendTabletEvent, target)
	msg.SetName("ResendEvent")
	msg.SetParameter(dict.KeyData, aedesc.NewEnum(aedesc.DescType(eventType)))

	return msg
}

// ContextIDFromReply extracts the context id from a create-context reply.
func ContextIDFromReply(reply *Reply) (uint32, error) {
	return reply.UInt32(dict.KeyDirectObject)
}

// CountFromReply extracts the element count from a count-elements reply.
func CountFromReply(reply *Reply) (uint32, error) {
	return reply.UInt32(dict.KeyDirectObject)
}

// DataFromReply extracts the attribute value from a get-data reply, requiring expected as its tag.
func DataFromReply(reply *Reply, expected aedesc.DescType) (aedesc.Descriptor, error) {
	return reply.DirectObject(expected)
}
