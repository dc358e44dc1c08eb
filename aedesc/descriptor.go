package aedesc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/arloliu/go-tabletae/internal/util"
)

// MaxPayloadSize defines the maximum payload size (in bytes) of a single descriptor.
const MaxPayloadSize = 1<<24 - 1

// headerSize is the size of the binary descriptor header: 4-byte tag and 4-byte length.
const headerSize = 8

// Descriptor is an immutable typed value: a type tag and its payload.
//
// The zero value is a descriptor with tag 0 and no payload; use NewNull for an explicit
// null value. Descriptors are compared with Equal, which requires both the tag and the
// payload bytes to match.
type Descriptor struct {
	descType DescType
	data     []byte
}

// New creates a descriptor holding a raw payload with an explicit type tag.
// The data slice is copied.
func New(descType DescType, data []byte) Descriptor {
	return Descriptor{descType: descType, data: util.CloneSlice(data, 0)}
}

// NewNull creates a null descriptor.
func NewNull() Descriptor {
	return Descriptor{descType: TypeNull}
}

// NewUInt32 creates a descriptor holding an unsigned 32-bit integer.
func NewUInt32(value uint32) Descriptor {
	data := make([]byte, 4)
	binary.BigEndian.PutUint32(data, value)

	return Descriptor{descType: TypeUInt32, data: data}
}

// NewSInt32 creates a descriptor holding a signed 32-bit integer.
func NewSInt32(value int32) Descriptor {
	data := make([]byte, 4)
	binary.BigEndian.PutUint32(data, uint32(value))

	return Descriptor{descType: TypeSInt32, data: data}
}

// NewUTF8Text creates a descriptor holding UTF-8 text.
func NewUTF8Text(value string) Descriptor {
	return Descriptor{descType: TypeUTF8Text, data: []byte(value)}
}

// NewEnum creates an enumerated descriptor holding code.
func NewEnum(code DescType) Descriptor {
	return Descriptor{descType: TypeEnumerated, data: code.Bytes()}
}

// NewType creates a type descriptor holding code, e.g. an object class.
func NewType(code DescType) Descriptor {
	return Descriptor{descType: TypeType, data: code.Bytes()}
}

// NewBool creates a boolean descriptor.
func NewBool(value bool) Descriptor {
	if value {
		return Descriptor{descType: TypeBoolean, data: []byte{1}}
	}

	return Descriptor{descType: TypeBoolean, data: []byte{0}}
}

// Type returns the type tag of the descriptor.
func (d Descriptor) Type() DescType {
	return d.descType
}

// Data returns a copy of the payload.
func (d Descriptor) Data() []byte {
	return util.CloneSlice(d.data, 0)
}

// Size returns the payload size in bytes.
func (d Descriptor) Size() int {
	return len(d.data)
}

// IsNull reports whether the descriptor is a null descriptor or the zero value.
func (d Descriptor) IsNull() bool {
	return d.descType == TypeNull || (d.descType == 0 && len(d.data) == 0)
}

// Equal reports whether d and other carry the same tag and payload.
func (d Descriptor) Equal(other Descriptor) bool {
	return d.descType == other.descType && bytes.Equal(d.data, other.data)
}

// Decode returns a copy of the payload if the descriptor is tagged expected.
//
// It returns a *DecodeError when the tag does not match.
func (d Descriptor) Decode(expected DescType) ([]byte, error) {
	if d.descType != expected {
		return nil, newTagMismatch(expected, d.descType)
	}

	return d.Data(), nil
}

// ToUInt32 decodes an unsigned 32-bit integer descriptor.
func (d Descriptor) ToUInt32() (uint32, error) {
	if d.descType != TypeUInt32 {
		return 0, newTagMismatch(TypeUInt32, d.descType)
	}

	if len(d.data) != 4 {
		return 0, newMalformed(TypeUInt32, "payload is not 4 bytes")
	}

	return binary.BigEndian.Uint32(d.data), nil
}

// ToSInt32 decodes a signed 32-bit integer descriptor.
func (d Descriptor) ToSInt32() (int32, error) {
	if d.descType != TypeSInt32 {
		return 0, newTagMismatch(TypeSInt32, d.descType)
	}

	if len(d.data) != 4 {
		return 0, newMalformed(TypeSInt32, "payload is not 4 bytes")
	}

	return int32(binary.BigEndian.Uint32(d.data)), nil //nolint:gosec
}

// ToUTF8Text decodes a UTF-8 text descriptor.
func (d Descriptor) ToUTF8Text() (string, error) {
	if d.descType != TypeUTF8Text {
		return "", newTagMismatch(TypeUTF8Text, d.descType)
	}

	if !utf8.Valid(d.data) {
		return "", newMalformed(TypeUTF8Text, "payload is not valid UTF-8")
	}

	return string(d.data), nil
}

// ToEnum decodes an enumerated descriptor.
func (d Descriptor) ToEnum() (DescType, error) {
	return d.toCode(TypeEnumerated)
}

// ToType decodes a type descriptor.
func (d Descriptor) ToType() (DescType, error) {
	return d.toCode(TypeType)
}

// ToBool decodes a boolean descriptor. The 'true' and 'fals' types are accepted as well.
func (d Descriptor) ToBool() (bool, error) {
	switch d.descType {
	case TypeTrue:
		return true, nil
	case TypeFalse:
		return false, nil
	case TypeBoolean:
		if len(d.data) != 1 {
			return false, newMalformed(TypeBoolean, "payload is not 1 byte")
		}
		return d.data[0] != 0, nil
	default:
		return false, newTagMismatch(TypeBoolean, d.descType)
	}
}

func (d Descriptor) toCode(tag DescType) (DescType, error) {
	if d.descType != tag {
		return 0, newTagMismatch(tag, d.descType)
	}

	if len(d.data) != 4 {
		return 0, newMalformed(tag, "payload is not 4 bytes")
	}

	return DescType(binary.BigEndian.Uint32(d.data)), nil
}

// MarshalBinary encodes the descriptor as `[tag:4][length:4][payload]`.
func (d Descriptor) MarshalBinary() ([]byte, error) {
	if len(d.data) > MaxPayloadSize {
		return nil, ErrPayloadTooLarge
	}

	return d.appendBinary(make([]byte, 0, headerSize+len(d.data))), nil
}

func (d Descriptor) appendBinary(dst []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(d.descType))
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(d.data))) //nolint:gosec
	return append(dst, d.data...)
}

// UnmarshalBinary decodes a descriptor produced by MarshalBinary.
// Trailing bytes after the descriptor are rejected.
func (d *Descriptor) UnmarshalBinary(data []byte) error {
	desc, n, err := parse(data)
	if err != nil {
		return err
	}

	if n != len(data) {
		return fmt.Errorf("%w: %d trailing bytes", ErrShortBuffer, len(data)-n)
	}

	*d = desc

	return nil
}

// Parse decodes a binary descriptor.
func Parse(data []byte) (Descriptor, error) {
	var d Descriptor
	err := d.UnmarshalBinary(data)
	return d, err
}

// parse decodes one descriptor from the start of data and returns the number of bytes consumed.
func parse(data []byte) (Descriptor, int, error) {
	if len(data) < headerSize {
		return Descriptor{}, 0, ErrShortBuffer
	}

	tag := DescType(binary.BigEndian.Uint32(data[:4]))
	size := binary.BigEndian.Uint32(data[4:8])
	if size > MaxPayloadSize {
		return Descriptor{}, 0, ErrPayloadTooLarge
	}

	end := headerSize + int(size)
	if len(data) < end {
		return Descriptor{}, 0, ErrShortBuffer
	}

	return New(tag, data[headerSize:end]), end, nil
}

// String returns a short human readable form, e.g. `<magn 7>` or `<utf8 "Intuos Pro">`.
func (d Descriptor) String() string {
	switch d.descType {
	case TypeNull:
		return "<null>"
	case TypeUInt32:
		if v, err := d.ToUInt32(); err == nil {
			return "<magn " + strconv.FormatUint(uint64(v), 10) + ">"
		}
	case TypeSInt32:
		if v, err := d.ToSInt32(); err == nil {
			return "<long " + strconv.FormatInt(int64(v), 10) + ">"
		}
	case TypeUTF8Text:
		return "<utf8 " + strconv.Quote(string(d.data)) + ">"
	case TypeEnumerated, TypeType:
		if v, err := d.toCode(d.descType); err == nil {
			return "<" + d.descType.String() + " '" + v.String() + "'>"
		}
	case TypeBoolean, TypeTrue, TypeFalse:
		if v, err := d.ToBool(); err == nil {
			return "<bool " + strconv.FormatBool(v) + ">"
		}
	}

	return fmt.Sprintf("<%s [%d] %x>", d.descType, len(d.data), d.data)
}
