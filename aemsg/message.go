package aemsg

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/go-tabletae/aedesc"
)

// AnyTransactionID means the message is not part of a transaction.
const AnyTransactionID int32 = 0

// Message is a request sent to the driver.
//
// Each message is independent: it carries its own auto-generated return id and is never
// correlated with other messages.
type Message struct {
	name          string
	eventClass    aedesc.DescType
	eventID       aedesc.DescType
	target        Address
	params        *aedesc.Record
	returnID      uint32
	transactionID int32
}

// NewRequest creates a request message with no parameters.
func NewRequest(eventClass aedesc.DescType, eventID aedesc.DescType, target Address) *Message {
	return &Message{
		eventClass:    eventClass,
		eventID:       eventID,
		target:        target,
		params:        aedesc.NewRecord(),
		returnID:      GenerateReturnID(),
		transactionID: AnyTransactionID,
	}
}

// Name returns the optional message name used in logs.
func (msg *Message) Name() string { return msg.name }

// SetName sets the optional message name used in logs.
func (msg *Message) SetName(name string) { msg.name = name }

// EventClass returns the event class.
func (msg *Message) EventClass() aedesc.DescType { return msg.eventClass }

// EventID returns the event id.
func (msg *Message) EventID() aedesc.DescType { return msg.eventID }

// Target returns the target address.
func (msg *Message) Target() Address { return msg.target }

// ReturnID returns the auto-generated return id.
func (msg *Message) ReturnID() uint32 { return msg.returnID }

// TransactionID returns the transaction id, always AnyTransactionID for requests built here.
func (msg *Message) TransactionID() int32 { return msg.transactionID }

// SetParameter stores value under keyword, replacing any previous value.
func (msg *Message) SetParameter(keyword aedesc.Keyword, value aedesc.Descriptor) {
	msg.params.Set(keyword, value)
}

// Parameter returns the parameter stored under keyword.
func (msg *Message) Parameter(keyword aedesc.Keyword) (aedesc.Descriptor, bool) {
	return msg.params.Get(keyword)
}

// Parameters returns a copy of the parameter record.
func (msg *Message) Parameters() *aedesc.Record {
	return msg.params.Clone()
}

// MarshalBinary encodes the message as
// `[class:4][id:4][returnID:4][transactionID:4][target descriptor][parameter record descriptor]`.
func (msg *Message) MarshalBinary() ([]byte, error) {
	target, err := msg.target.Descriptor().MarshalBinary()
	if err != nil {
		return nil, err
	}

	params, err := msg.params.Descriptor(aedesc.TypeAERecord).MarshalBinary()
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, 16+len(target)+len(params))
	data = binary.BigEndian.AppendUint32(data, uint32(msg.eventClass))
	data = binary.BigEndian.AppendUint32(data, uint32(msg.eventID))
	data = binary.BigEndian.AppendUint32(data, msg.returnID)
	data = binary.BigEndian.AppendUint32(data, uint32(msg.transactionID)) //nolint:gosec
	data = append(data, target...)
	data = append(data, params...)

	return data, nil
}

// ParseMessage decodes a message produced by Message.MarshalBinary.
func ParseMessage(data []byte) (*Message, error) {
	if len(data) < 16 {
		return nil, fmt.Errorf("%w: header too short", ErrInvalidMessage)
	}

	msg := &Message{
		eventClass:    aedesc.DescType(binary.BigEndian.Uint32(data[0:4])),
		eventID:       aedesc.DescType(binary.BigEndian.Uint32(data[4:8])),
		returnID:      binary.BigEndian.Uint32(data[8:12]),
		transactionID: int32(binary.BigEndian.Uint32(data[12:16])), //nolint:gosec
	}

	target, rest, err := splitDescriptor(data[16:])
	if err != nil {
		return nil, fmt.Errorf("%w: target: %w", ErrInvalidMessage, err)
	}
	msg.target = Address{desc: target}

	params, err := parseRecordBytes(rest)
	if err != nil {
		return nil, fmt.Errorf("%w: parameters: %w", ErrInvalidMessage, err)
	}
	msg.params = params

	return msg, nil
}

// splitDescriptor decodes the leading descriptor of data and returns the remaining bytes.
func splitDescriptor(data []byte) (aedesc.Descriptor, []byte, error) {
	if len(data) < 8 {
		return aedesc.Descriptor{}, nil, aedesc.ErrShortBuffer
	}

	end := 8 + int(binary.BigEndian.Uint32(data[4:8]))
	if end > len(data) || end < 8 {
		return aedesc.Descriptor{}, nil, aedesc.ErrShortBuffer
	}

	desc, err := aedesc.Parse(data[:end])
	if err != nil {
		return aedesc.Descriptor{}, nil, err
	}

	return desc, data[end:], nil
}

func parseRecordBytes(data []byte) (*aedesc.Record, error) {
	desc, err := aedesc.Parse(data)
	if err != nil {
		return nil, err
	}

	if desc.Type() != aedesc.TypeAERecord {
		return nil, fmt.Errorf("expected 'reco' descriptor, got '%s'", desc.Type())
	}

	return aedesc.ParseRecord(desc)
}

// MsgInfo returns structured logging fields describing msg, prefixed by keyValues.
func MsgInfo(msg *Message, keyValues ...any) []any {
	info := []any{
		"rid", msg.returnID,
		"class", msg.eventClass.String(),
		"event", msg.eventID.String(),
		"target", msg.target.String(),
	}
	if msg.name != "" {
		info = append(info, "name", msg.name)
	}

	result := make([]any, 0, len(keyValues)+len(info))
	result = append(result, keyValues...)
	result = append(result, info...)

	return result
}
