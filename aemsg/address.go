package aemsg

import (
	"encoding/binary"

	"github.com/arloliu/go-tabletae/aedesc"
	"github.com/arloliu/go-tabletae/dict"
)

// Address identifies the process a message is delivered to.
type Address struct {
	desc aedesc.Descriptor
}

// NewSignatureAddress returns the address of the process with application signature sig.
func NewSignatureAddress(sig aedesc.DescType) Address {
	return Address{desc: aedesc.New(aedesc.TypeApplSignature, sig.Bytes())}
}

// DriverAddress returns the address of the tablet driver process.
func DriverAddress() Address {
	return NewSignatureAddress(dict.DriverSignature)
}

// Descriptor returns the address descriptor.
func (a Address) Descriptor() aedesc.Descriptor {
	return a.desc
}

// Signature returns the application signature, or false when the address is not signature based.
func (a Address) Signature() (aedesc.DescType, bool) {
	data, err := a.desc.Decode(aedesc.TypeApplSignature)
	if err != nil || len(data) != 4 {
		return 0, false
	}

	return aedesc.DescType(binary.BigEndian.Uint32(data)), true
}

// IsZero reports whether the address is unset.
func (a Address) IsZero() bool {
	return a.desc.IsNull()
}

// Equal reports whether both addresses are identical.
func (a Address) Equal(other Address) bool {
	return a.desc.Equal(other.desc)
}

func (a Address) String() string {
	if sig, ok := a.Signature(); ok {
		return "sign:" + sig.String()
	}

	return a.desc.String()
}
