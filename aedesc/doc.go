// Package aedesc provides the typed-value codec used by the tablet driver protocol.
//
// Every value exchanged with the driver is a Descriptor: a four-character type code (DescType)
// paired with a byte payload. The package offers constructors for the primitive types the
// protocol uses and typed accessors that refuse to decode a payload carrying the wrong tag.
//
// Key Features:
//   - Primitive descriptors: unsigned/signed 32-bit integers, UTF-8 text, enumerated codes,
//     type codes, booleans, null and raw blobs with an explicit tag.
//   - Keyed records: an insertion-ordered keyword to descriptor mapping with overwrite-on-duplicate
//     semantics, used for object specifiers, message parameters and replies.
//   - Binary encoding: a self-describing `[tag][length][payload]` layout with big-endian lengths
//     and integers, suitable for any byte-oriented message channel.
//
// Usage Example:
//
//	name := aedesc.NewUTF8Text("Intuos Pro")
//
//	text, err := name.ToUTF8Text() // "Intuos Pro"
//	_, err = name.ToUInt32()       // *aedesc.DecodeError, tag is utf8 not magn
//
//	rec := aedesc.NewRecord()
//	rec.Set(aedesc.FourCC("pnam"), name)
//	desc := rec.Descriptor(aedesc.TypeAERecord)
package aedesc
