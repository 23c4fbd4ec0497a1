package beam

import (
	"errors"
	"fmt"
)

// Error kinds. Client input problems wrap one of the first three; a broken
// section model is a configuration error and stops the service at startup.
var (
	ErrInvalidGeometry     = errors.New("invalid geometry")
	ErrInvalidLoad         = errors.New("invalid load")
	ErrUnknownSupportType  = errors.New("unknown support type")
	ErrInvalidSamples      = errors.New("invalid sample count")
	ErrInvalidSectionModel = errors.New("invalid section model")
)

// ValidationError reports which input was rejected and why.
type ValidationError struct {
	Kind  error
	Field string
	msg   string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func invalid(kind error, field, format string, args ...any) error {
	return &ValidationError{Kind: kind, Field: field, msg: fmt.Sprintf(format, args...)}
}

// Code maps err to a stable machine-readable code. Errors outside the
// taxonomy map to "".
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidGeometry):
		return "invalid_geometry"
	case errors.Is(err, ErrInvalidLoad):
		return "invalid_load"
	case errors.Is(err, ErrUnknownSupportType):
		return "unknown_support_type"
	case errors.Is(err, ErrInvalidSamples):
		return "invalid_samples"
	case errors.Is(err, ErrInvalidSectionModel):
		return "invalid_section_model"
	}
	return ""
}

// IsClientError reports whether err was caused by request input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidGeometry) ||
		errors.Is(err, ErrInvalidLoad) ||
		errors.Is(err, ErrUnknownSupportType) ||
		errors.Is(err, ErrInvalidSamples)
}
