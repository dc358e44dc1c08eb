package objspec

import (
	"errors"
	"fmt"

	"github.com/arloliu/go-tabletae/aedesc"
)

var (
	// ErrInvalidIndex indicates that a 1-based index or a context id is zero.
	ErrInvalidIndex = errors.New("invalid object index")

	// ErrTooDeep indicates that a specifier chain exceeds MaxDepth.
	ErrTooDeep = errors.New("object specifier chain too deep")

	// ErrNotSpecifier indicates that a descriptor is not an object specifier.
	ErrNotSpecifier = errors.New("descriptor is not an object specifier")
)

// An IndexError records an invalid key found by Validate.
type IndexError struct {
	Class aedesc.DescType
	Form  aedesc.DescType
	Key   aedesc.Descriptor
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("invalid key %s for class '%s' (form '%s')", e.Key, e.Class, e.Form)
}

func (e *IndexError) Unwrap() error {
	return ErrInvalidIndex
}
