package aedesc

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Record is a keyword to descriptor mapping that preserves insertion order.
//
// Setting a keyword that is already present overwrites its value in place (last write wins),
// so each keyword appears at most once. A Record is not safe for concurrent mutation.
type Record struct {
	keys   []Keyword
	values map[Keyword]Descriptor
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[Keyword]Descriptor)}
}

// Set stores value under keyword, overwriting any previous value.
func (r *Record) Set(keyword Keyword, value Descriptor) {
	if r.values == nil {
		r.values = make(map[Keyword]Descriptor)
	}

	if _, ok := r.values[keyword]; !ok {
		r.keys = append(r.keys, keyword)
	}
	r.values[keyword] = value
}

// Get returns the value stored under keyword. The boolean is false when the keyword is absent.
func (r *Record) Get(keyword Keyword) (Descriptor, bool) {
	if r == nil {
		return Descriptor{}, false
	}

	value, ok := r.values[keyword]
	return value, ok
}

// Has reports whether keyword is present.
func (r *Record) Has(keyword Keyword) bool {
	_, ok := r.Get(keyword)
	return ok
}

// Delete removes keyword from the record.
func (r *Record) Delete(keyword Keyword) {
	if _, ok := r.values[keyword]; !ok {
		return
	}

	delete(r.values, keyword)
	for i, k := range r.keys {
		if k == keyword {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keywords in insertion order.
func (r *Record) Keys() []Keyword {
	if r == nil {
		return nil
	}

	keys := make([]Keyword, len(r.keys))
	copy(keys, r.keys)

	return keys
}

// Len returns the number of keywords in the record.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}

	return len(r.keys)
}

// Lookup returns the value stored under keyword decoded as expected.
//
// It returns a *DecodeError when the keyword is missing or carries another tag.
func (r *Record) Lookup(keyword Keyword, expected DescType) (Descriptor, error) {
	value, ok := r.Get(keyword)
	if !ok {
		return Descriptor{}, NewMissingKeywordError(keyword, expected)
	}

	if value.Type() != expected {
		err := newTagMismatch(expected, value.Type())
		err.Keyword = keyword
		return Descriptor{}, err
	}

	return value, nil
}

// Clone returns a copy of the record. Descriptors are immutable and are shared.
func (r *Record) Clone() *Record {
	cloned := NewRecord()
	if r == nil {
		return cloned
	}

	for _, k := range r.keys {
		cloned.Set(k, r.values[k])
	}

	return cloned
}

// Equal reports whether both records hold the same keywords, in the same order, with equal values.
func (r *Record) Equal(other *Record) bool {
	if r.Len() != other.Len() {
		return false
	}

	if r.Len() == 0 {
		return true
	}

	for i, k := range r.keys {
		if other.keys[i] != k {
			return false
		}

		if !r.values[k].Equal(other.values[k]) {
			return false
		}
	}

	return true
}

// Descriptor encodes the record as the payload of a descriptor tagged descType.
//
// The payload layout is `[count:4]` followed by `count` entries of `[keyword:4][descriptor]`.
func (r *Record) Descriptor(descType DescType) Descriptor {
	size := 4
	for _, k := range r.Keys() {
		size += 4 + headerSize + r.values[k].Size()
	}

	data := make([]byte, 0, size)
	data = binary.BigEndian.AppendUint32(data, uint32(r.Len())) //nolint:gosec
	for _, k := range r.Keys() {
		data = binary.BigEndian.AppendUint32(data, uint32(k))
		data = r.values[k].appendBinary(data)
	}

	return Descriptor{descType: descType, data: data}
}

// ParseRecord decodes the payload of a record-like descriptor produced by Record.Descriptor.
// The descriptor's own tag is not checked; callers that need a specific tag should check Type first.
func ParseRecord(d Descriptor) (*Record, error) {
	data := d.data
	if len(data) < 4 {
		return nil, newMalformed(d.descType, "record payload too short")
	}

	count := binary.BigEndian.Uint32(data[:4])
	data = data[4:]

	rec := NewRecord()
	for i := uint32(0); i < count; i++ {
		if len(data) < 4 {
			return nil, newMalformed(d.descType, fmt.Sprintf("record entry %d truncated", i))
		}
		keyword := Keyword(binary.BigEndian.Uint32(data[:4]))

		value, n, err := parse(data[4:])
		if err != nil {
			return nil, newMalformed(d.descType, fmt.Sprintf("record entry '%s': %v", keyword, err))
		}
		rec.Set(keyword, value)
		data = data[4+n:]
	}

	if len(data) != 0 {
		return nil, newMalformed(d.descType, "trailing bytes after record entries")
	}

	return rec, nil
}

// String renders the record as `{kw1: <...>, kw2: <...>}`.
func (r *Record) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range r.Keys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k.String())
		sb.WriteString(": ")
		sb.WriteString(r.values[k].String())
	}
	sb.WriteByte('}')

	return sb.String()
}
