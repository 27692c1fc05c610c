package core

import (
	"errors"
	"fmt"
)

// ErrorKind discriminates pipeline failures for the transport layer.
type ErrorKind string

const (
	// KindUnsupportedFormat means the declared file kind is not one of
	// text, pdf or eml. Surfaced to the caller.
	KindUnsupportedFormat ErrorKind = "unsupported_format"
	// KindDecode means the bytes could not be parsed as the declared kind.
	// Surfaced to the caller.
	KindDecode ErrorKind = "decode_error"
	// KindUnsupportedLanguage means no reply template exists for the
	// detected language. Only surfaced in strict-language mode.
	KindUnsupportedLanguage ErrorKind = "unsupported_language"
	// KindExternalModelUnavailable means the external strategy failed.
	// Never surfaced; always triggers the heuristic fallback.
	KindExternalModelUnavailable ErrorKind = "external_model_unavailable"
)

// PipelineError is a structured failure with a kind and a human-readable
// message.
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewUnsupportedFormat reports an unknown file kind.
func NewUnsupportedFormat(kind string) *PipelineError {
	return &PipelineError{
		Kind:    KindUnsupportedFormat,
		Message: fmt.Sprintf("unsupported file kind %q (expected text, pdf or eml)", kind),
	}
}

// NewDecodeError reports bytes that could not be parsed as the declared kind.
func NewDecodeError(format SourceFormat, err error) *PipelineError {
	return &PipelineError{
		Kind:    KindDecode,
		Message: fmt.Sprintf("failed to decode %s input", format),
		Err:     err,
	}
}

// NewUnsupportedLanguage reports a language with no reply template.
func NewUnsupportedLanguage(language string) *PipelineError {
	return &PipelineError{
		Kind:    KindUnsupportedLanguage,
		Message: fmt.Sprintf("no response template for language %q", language),
	}
}

// NewExternalModelUnavailable wraps an external strategy failure.
func NewExternalModelUnavailable(err error) *PipelineError {
	return &PipelineError{
		Kind:    KindExternalModelUnavailable,
		Message: "external model unavailable",
		Err:     err,
	}
}

// IsKind reports whether err is a PipelineError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var pe *PipelineError
	return errors.As(err, &pe) && pe.Kind == kind
}
