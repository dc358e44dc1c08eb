package aemsg

import (
	"github.com/arloliu/go-tabletae/aedesc"
	"github.com/arloliu/go-tabletae/dict"
)

// Reply is the keyword mapping returned by the driver for a wait-for-reply message.
type Reply struct {
	params *aedesc.Record
}

// NewReply creates an empty reply.
func NewReply() *Reply {
	return &Reply{params: aedesc.NewRecord()}
}

// NewErrorReply creates a reply carrying a driver error number and optional message.
func NewErrorReply(code int32, message string) *Reply {
	reply := NewReply()
	reply.Set(dict.KeyErrorNumber, aedesc.NewSInt32(code))
	if message != "" {
		reply.Set(dict.KeyErrorString, aedesc.NewUTF8Text(message))
	}

	return reply
}

// Set stores value under keyword, replacing any previous value.
func (r *Reply) Set(keyword aedesc.Keyword, value aedesc.Descriptor) {
	if r.params == nil {
		r.params = aedesc.NewRecord()
	}
	r.params.Set(keyword, value)
}

// Get returns the value stored under keyword; the boolean is false when it is absent.
func (r *Reply) Get(keyword aedesc.Keyword) (aedesc.Descriptor, bool) {
	if r == nil {
		return aedesc.Descriptor{}, false
	}

	return r.params.Get(keyword)
}

// Keys returns the reply keywords in insertion order.
func (r *Reply) Keys() []aedesc.Keyword {
	if r == nil {
		return nil
	}

	return r.params.Keys()
}

// Lookup returns the value under keyword if it carries the expected tag.
// A missing keyword or a mismatched tag yields an *aedesc.DecodeError.
func (r *Reply) Lookup(keyword aedesc.Keyword, expected aedesc.DescType) (aedesc.Descriptor, error) {
	if r == nil {
		return aedesc.Descriptor{}, aedesc.NewMissingKeywordError(keyword, expected)
	}

	return r.params.Lookup(keyword, expected)
}

// DirectObject returns the direct-object field decoded against expected.
func (r *Reply) DirectObject(expected aedesc.DescType) (aedesc.Descriptor, error) {
	return r.Lookup(dict.KeyDirectObject, expected)
}

// UInt32 returns the field under keyword decoded as an unsigned 32-bit integer.
func (r *Reply) UInt32(keyword aedesc.Keyword) (uint32, error) {
	desc, err := r.Lookup(keyword, aedesc.TypeUInt32)
	if err != nil {
		return 0, err
	}

	return desc.ToUInt32()
}

// Err returns a *ProtocolError when the reply carries a non-zero error number, nil otherwise.
// A malformed error number is reported as an *aedesc.DecodeError.
func (r *Reply) Err() error {
	errn, ok := r.Get(dict.KeyErrorNumber)
	if !ok {
		return nil
	}

	code, err := errn.ToSInt32()
	if err != nil {
		return err
	}

	if code == dict.ErrNoErr {
		return nil
	}

	protoErr := &ProtocolError{Code: code}
	if errs, ok := r.Get(dict.KeyErrorString); ok {
		protoErr.Message, _ = errs.ToUTF8Text()
	}

	return protoErr
}

// MarshalBinary encodes the reply as a 'reco' descriptor.
func (r *Reply) MarshalBinary() ([]byte, error) {
	if r.params == nil {
		return aedesc.NewRecord().Descriptor(aedesc.TypeAERecord).MarshalBinary()
	}

	return r.params.Descriptor(aedesc.TypeAERecord).MarshalBinary()
}

// ParseReply decodes a reply produced by Reply.MarshalBinary.
func ParseReply(data []byte) (*Reply, error) {
	params, err := parseRecordBytes(data)
	if err != nil {
		return nil, err
	}

	return &Reply{params: params}, nil
}

func (r *Reply) String() string {
	if r == nil {
		return "<nil>"
	}

	return r.params.String()
}
