package aedesc

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode is the sentinel matched by every *DecodeError, so callers can test
	// errors.Is(err, aedesc.ErrDecode) regardless of the failure detail.
	ErrDecode = errors.New("descriptor decode failed")

	// ErrShortBuffer indicates that a binary descriptor or record ended before its declared length.
	ErrShortBuffer = errors.New("descriptor buffer too short")

	// ErrPayloadTooLarge indicates that a payload exceeds MaxPayloadSize.
	ErrPayloadTooLarge = errors.New("descriptor payload too large")
)

// A DecodeError records a failed attempt to read a typed value out of a descriptor.
//
// Expected is the tag the caller asked for; Actual is the tag carried by the descriptor.
// When the tags match but the payload is malformed, Reason describes the problem.
type DecodeError struct {
	Expected DescType
	Actual   DescType
	Keyword  Keyword // optional, set when the value was looked up by keyword
	Reason   string
}

func newTagMismatch(expected, actual DescType) *DecodeError {
	return &DecodeError{Expected: expected, Actual: actual, Reason: "type tag mismatch"}
}

func newMalformed(tag DescType, reason string) *DecodeError {
	return &DecodeError{Expected: tag, Actual: tag, Reason: reason}
}

// NewMissingKeywordError returns a DecodeError for a record or reply that lacks the
// expected keyword.
func NewMissingKeywordError(keyword Keyword, expected DescType) *DecodeError {
	return &DecodeError{Expected: expected, Keyword: keyword, Reason: "missing keyword"}
}

func (e *DecodeError) Error() string {
	if e.Keyword != 0 {
		return fmt.Sprintf("decode '%s' as '%s': %s (actual '%s')", e.Keyword, e.Expected, e.Reason, e.Actual)
	}

	return fmt.Sprintf("decode '%s' as '%s': %s", e.Actual, e.Expected, e.Reason)
}

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}
