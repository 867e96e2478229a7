package pipeline

import (
	"errors"
	"fmt"

	"github.com/siherrmann/kgview/model"
)

// Sentinel errors for programmatic error checking via errors.Is().
var (
	// ErrEnvelope indicates a transport envelope without a usable payload.
	ErrEnvelope = errors.New("envelope error")

	// ErrSchema indicates a payload that is not an object or lacks a
	// required array.
	ErrSchema = errors.New("schema error")

	// ErrMalformedRecord indicates a single record that had to be skipped.
	// It is reported, never returned from a conversion.
	ErrMalformedRecord = errors.New("malformed record")
)

// EnvelopeError is returned when no payload can be taken from an envelope.
// Err carries the underlying parse failure, if any.
type EnvelopeError struct {
	Msg string
	Err error
}

func (e *EnvelopeError) Error() string {
	if e == nil {
		return ""
	}
	msg := ErrEnvelope.Error()
	if e.Msg != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *EnvelopeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrEnvelope}
	}
	return []error{ErrEnvelope, e.Err}
}

// SchemaError is returned for a structurally broken payload.
type SchemaError struct {
	Field string // Missing or mistyped top-level field, empty for the root
	Msg   string
}

func (e *SchemaError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", ErrSchema.Error(), e.Field, e.Msg)
	}
	if e.Msg == "" {
		return ErrSchema.Error()
	}
	return fmt.Sprintf("%s: %s", ErrSchema.Error(), e.Msg)
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// MalformedRecordError describes a skipped record.
type MalformedRecordError struct {
	Path   string // Position in the payload, e.g. "entities[3]"
	Kind   model.RecordKind
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s: %s", ErrMalformedRecord.Error(), e.Path, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error { return ErrMalformedRecord }
