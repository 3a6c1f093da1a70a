package ontology

import (
	"errors"
	"fmt"
)

// Sentinel causes carried by [DecodeError]. Match them with errors.Is.
//
// All of them mean the decoder and the engine disagree about the protocol.
// None is recoverable by retrying the same record.
var (
	// ErrUnknownDiscriminant: a tagged value (slot value kind, grain,
	// precision) does not match any known variant.
	ErrUnknownDiscriminant = errors.New("unknown discriminant")

	// ErrNullPointer: a field documented as always present was null.
	ErrNullPointer = errors.New("null pointer for required field")

	// ErrInvalidLength: an element count was negative.
	ErrInvalidLength = errors.New("invalid element count")

	// ErrMalformed: a value was present but not of the expected type.
	ErrMalformed = errors.New("malformed value")
)

// DecodeError reports which foreign field failed to decode and why.
type DecodeError struct {
	// Field is the dotted path of the offending field, e.g.
	// "instant_time.grain" or "slot.raw_value".
	Field string

	// Discriminant is the raw tag that was rejected. Empty unless Err is
	// ErrUnknownDiscriminant or ErrInvalidLength.
	Discriminant string

	// Err is one of the sentinel errors of this package, possibly joined
	// with the underlying parse error.
	Err error
}

func (e *DecodeError) Error() string {
	if e.Discriminant != "" {
		return fmt.Sprintf("ontology: decode %s: %v %s", e.Field, e.Err, e.Discriminant)
	}
	return fmt.Sprintf("ontology: decode %s: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Reason returns a short, stable label for the error cause, suitable as a
// metric attribute.
func (e *DecodeError) Reason() string {
	switch {
	case errors.Is(e.Err, ErrUnknownDiscriminant):
		return "unknown_discriminant"
	case errors.Is(e.Err, ErrNullPointer):
		return "null_pointer"
	case errors.Is(e.Err, ErrInvalidLength):
		return "invalid_length"
	case errors.Is(e.Err, ErrMalformed):
		return "malformed"
	}
	return "other"
}

// UnknownDiscriminant builds the error for a rejected tag.
func UnknownDiscriminant(field string, discriminant any) *DecodeError {
	return &DecodeError{
		Field:        field,
		Discriminant: fmt.Sprint(discriminant),
		Err:          ErrUnknownDiscriminant,
	}
}

// NullPointer builds the error for a missing required field.
func NullPointer(field string) *DecodeError {
	return &DecodeError{Field: field, Err: ErrNullPointer}
}

// InvalidLength builds the error for a negative element count.
func InvalidLength(field string, n any) *DecodeError {
	return &DecodeError{
		Field:        field,
		Discriminant: fmt.Sprint(n),
		Err:          ErrInvalidLength,
	}
}

// Malformed builds the error for a value of the wrong type. cause is kept in
// the chain.
func Malformed(field string, cause error) *DecodeError {
	return &DecodeError{Field: field, Err: fmt.Errorf("%w: %w", ErrMalformed, cause)}
}
