// Package aemsg builds the request messages sent to the tablet driver and reads the replies it
// returns.
//
// A Message carries an event class and event id, a target Address and a set of keyword
// parameters. Parameters are unique per message; setting a keyword twice keeps the last value.
// A Reply is a keyword mapping as well; a missing keyword is meaningful and is reported by the
// extractors as an aedesc.DecodeError rather than a zero value.
//
// Request shapes:
//   - NewCreateContextRequest: core/crel, creates a context on a tablet.
//   - NewDeleteContextRequest: core/delo, destroys a context.
//   - NewGetDataRequest: core/getd, reads an attribute.
//   - NewSetDataRequest: core/setd, writes an attribute.
//   - NewCountElementsRequest: core/cnte, counts elements of a class inside a container.
//   - NewResendEventRequest: vendor event asking the driver to resend its last tablet event.
//
// Usage Example:
//
//	msg := aemsg.NewGetDataRequest(aemsg.DriverAddress(), dict.PropName, aedesc.TypeUTF8Text, objspec.Context(7))
//	reply, err := tr.SendAndWait(msg, transport.PriorityHigh, transport.DefaultTimeout)
//	...
//	name, err := aemsg.DataFromReply(reply, aedesc.TypeUTF8Text)
package aemsg
