package aedesc

import (
	"encoding/binary"
	"strconv"
)

// DescType is a four-character code identifying a descriptor type, an object class,
// an event or a keyword. The code is stored with its first character in the most
// significant byte, so FourCC("magn") == 0x6d61676e.
type DescType uint32

// Keyword is a DescType used as a key in records, messages and replies.
type Keyword = DescType

// FourCC converts a four-character string into a DescType.
//
// Strings shorter than four bytes are padded with spaces, longer strings are truncated.
// It is intended for package-level constants and literals, e.g. FourCC("obj ").
func FourCC(code string) DescType {
	var buf [4]byte
	for i := range buf {
		if i < len(code) {
			buf[i] = code[i]
		} else {
			buf[i] = ' '
		}
	}

	return DescType(binary.BigEndian.Uint32(buf[:]))
}

// Bytes returns the 4-byte big-endian representation of the code.
func (t DescType) Bytes() []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(t))
	return b
}

// String returns the code as four printable characters, or as a hex literal when
// any of the bytes is not printable ASCII.
func (t DescType) String() string {
	b := t.Bytes()
	for _, ch := range b {
		if ch < 0x20 || ch > 0x7e {
			return "0x" + strconv.FormatUint(uint64(t), 16)
		}
	}

	return string(b)
}

// Primitive descriptor types understood by the codec.
const (
	TypeNull            DescType = 0x6e756c6c // 'null'
	TypeBoolean         DescType = 0x626f6f6c // 'bool'
	TypeTrue            DescType = 0x74727565 // 'true'
	TypeFalse           DescType = 0x66616c73 // 'fals'
	TypeSInt32          DescType = 0x6c6f6e67 // 'long'
	TypeUInt32          DescType = 0x6d61676e // 'magn'
	TypeUTF8Text        DescType = 0x75746638 // 'utf8'
	TypeEnumerated      DescType = 0x656e756d // 'enum'
	TypeType            DescType = 0x74797065 // 'type'
	TypeAERecord        DescType = 0x7265636f // 'reco'
	TypeObjectSpecifier DescType = 0x6f626a20 // 'obj '
	TypeApplSignature   DescType = 0x7369676e // 'sign'
	TypeData            DescType = 0x74647461 // 'tdta'
	TypeWildCard        DescType = 0x2a2a2a2a // '****'
)
