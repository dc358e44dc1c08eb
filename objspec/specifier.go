package objspec

import (
	"fmt"
	"strings"

	"github.com/arloliu/go-tabletae/aedesc"
	"github.com/arloliu/go-tabletae/dict"
)

// MaxDepth is the maximum number of nodes in a specifier chain, e.g.
// property of function of control of context, or four container edges.
const MaxDepth = 5

// Specifier is an immutable object specifier.
type Specifier struct {
	class     aedesc.DescType
	form      aedesc.DescType
	key       aedesc.Descriptor
	container *Specifier
}

// Root creates a specifier with no container.
func Root(class aedesc.DescType, key aedesc.Descriptor, form aedesc.DescType) *Specifier {
	return &Specifier{class: class, form: form, key: key}
}

// Child creates a specifier addressed relative to container.
//
// The container is deep-copied; later use of the container value does not affect the child.
// A nil container yields a root specifier.
func Child(class aedesc.DescType, key aedesc.Descriptor, form aedesc.DescType, container *Specifier) *Specifier {
	return &Specifier{class: class, form: form, key: key, container: container.Clone()}
}

// Class returns the object class.
func (s *Specifier) Class() aedesc.DescType { return s.class }

// Form returns the key form.
func (s *Specifier) Form() aedesc.DescType { return s.form }

// Key returns the key descriptor.
func (s *Specifier) Key() aedesc.Descriptor { return s.key }

// Container returns the container specifier, or nil for a root specifier.
func (s *Specifier) Container() *Specifier { return s.container }

// IsRoot reports whether the specifier has no container.
func (s *Specifier) IsRoot() bool { return s.container == nil }

// Depth returns the number of nodes in the chain, counting s itself.
func (s *Specifier) Depth() int {
	depth := 0
	for node := s; node != nil; node = node.container {
		depth++
	}

	return depth
}

// Index returns the key as an unsigned 32-bit index or id.
// The boolean is false when the key is not a UInt32 descriptor.
func (s *Specifier) Index() (uint32, bool) {
	v, err := s.key.ToUInt32()
	return v, err == nil
}

// Clone returns a deep copy of the chain.
func (s *Specifier) Clone() *Specifier {
	if s == nil {
		return nil
	}

	return &Specifier{class: s.class, form: s.form, key: s.key, container: s.container.Clone()}
}

// Equal reports whether both chains are node-for-node identical.
func (s *Specifier) Equal(other *Specifier) bool {
	a, b := s, other
	for a != nil && b != nil {
		if a.class != b.class || a.form != b.form || !a.key.Equal(b.key) {
			return false
		}
		a, b = a.container, b.container
	}

	return a == nil && b == nil
}

// Descriptor encodes the specifier as an object specifier descriptor.
//
// The descriptor is an 'obj ' record holding want (class), form (key form), seld (key) and
// from (container, or null for a root).
func (s *Specifier) Descriptor() aedesc.Descriptor {
	rec := aedesc.NewRecord()
	rec.Set(dict.KeyDesiredClass, aedesc.NewType(s.class))
	rec.Set(dict.KeyKeyForm, aedesc.NewEnum(s.form))
	rec.Set(dict.KeyKeyData, s.key)

	if s.container == nil {
		rec.Set(dict.KeyContainer, aedesc.NewNull())
	} else {
		rec.Set(dict.KeyContainer, s.container.Descriptor())
	}

	return rec.Descriptor(aedesc.TypeObjectSpecifier)
}

// Parse decodes an object specifier descriptor produced by Specifier.Descriptor.
func Parse(d aedesc.Descriptor) (*Specifier, error) {
	return parse(d, 1)
}

func parse(d aedesc.Descriptor, depth int) (*Specifier, error) {
	if depth > MaxDepth {
		return nil, ErrTooDeep
	}

	if d.Type() != aedesc.TypeObjectSpecifier {
		return nil, fmt.Errorf("%w: got '%s'", ErrNotSpecifier, d.Type())
	}

	rec, err := aedesc.ParseRecord(d)
	if err != nil {
		return nil, err
	}

	classDesc, err := rec.Lookup(dict.KeyDesiredClass, aedesc.TypeType)
	if err != nil {
		return nil, err
	}
	class, err := classDesc.ToType()
	if err != nil {
		return nil, err
	}

	formDesc, err := rec.Lookup(dict.KeyKeyForm, aedesc.TypeEnumerated)
	if err != nil {
		return nil, err
	}
	form, err := formDesc.ToEnum()
	if err != nil {
		return nil, err
	}

	key, ok := rec.Get(dict.KeyKeyData)
	if !ok {
		return nil, aedesc.NewMissingKeywordError(dict.KeyKeyData, aedesc.TypeWildCard)
	}

	spec := &Specifier{class: class, form: form, key: key}

	from, ok := rec.Get(dict.KeyContainer)
	if !ok || from.IsNull() {
		return spec, nil
	}

	spec.container, err = parse(from, depth+1)
	if err != nil {
		return nil, err
	}

	return spec, nil
}

// Validate checks every node of the chain: absolute-position keys must be UInt32 indices >= 1,
// unique-id keys must be non-zero UInt32 ids, and the chain must not exceed MaxDepth.
//
// It returns an *IndexError wrapping ErrInvalidIndex for the first invalid node.
func Validate(s *Specifier) error {
	if s.Depth() > MaxDepth {
		return ErrTooDeep
	}

	for node := s; node != nil; node = node.container {
		if node.form != dict.FormAbsolutePosition && node.form != dict.FormUniqueID {
			continue
		}

		index, ok := node.Index()
		if !ok || index == dict.InvalidIndex {
			return &IndexError{Class: node.class, Form: node.form, Key: node.key}
		}
	}

	return nil
}

// String renders the chain innermost first, e.g. `Func 1 of TRng 2 of CNTX id 7`.
func (s *Specifier) String() string {
	if s == nil {
		return "<nil>"
	}

	parts := make([]string, 0, s.Depth())
	for node := s; node != nil; node = node.container {
		parts = append(parts, node.nodeString())
	}

	return strings.Join(parts, " of ")
}

func (s *Specifier) nodeString() string {
	switch s.form {
	case dict.FormAbsolutePosition:
		if index, ok := s.Index(); ok {
			return fmt.Sprintf("%s %d", s.class, index)
		}
	case dict.FormUniqueID:
		if id, ok := s.Index(); ok {
			return fmt.Sprintf("%s id %d", s.class, id)
		}
	case dict.FormPropertyID:
		if prop, err := s.key.ToType(); err == nil {
			return fmt.Sprintf("property '%s'", prop)
		}
	}

	return fmt.Sprintf("%s %s %s", s.class, s.form, s.key)
}
