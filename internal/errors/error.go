package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryProtocol Category = "protocol"
	CategoryDocument Category = "document"
	CategoryConfig   Category = "config"
	CategoryCapture  Category = "capture"
)

// RenderError is a structured error with a code, category and optional
// detail and hint.
type RenderError struct {
	// Code is a unique error identifier (e.g., "E200").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail names the offending values (ids, selectors, indices).
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RenderError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a RenderError with the same code.
func (e *RenderError) Is(target error) bool {
	t, ok := target.(*RenderError)
	return ok && t.Code != "" && t.Code == e.Code
}

// WithDetail adds the offending values to the error.
func (e *RenderError) WithDetail(d string) *RenderError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail to the error.
func (e *RenderError) WithDetailf(format string, args ...any) *RenderError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *RenderError) WithSuggestion(s string) *RenderError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *RenderError) Wrap(err error) *RenderError {
	e.Wrapped = err
	return e
}

// New creates a RenderError from a registered error code.
func New(code string) *RenderError {
	template, ok := registry[code]
	if !ok {
		return &RenderError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &RenderError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a RenderError with a formatted message and no code.
func Newf(category Category, format string, args ...any) *RenderError {
	return &RenderError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps err in a RenderError with code, unless err already is one.
func FromError(err error, code string) *RenderError {
	if err == nil {
		return nil
	}
	var re *RenderError
	if stderrors.As(err, &re) {
		return re
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err or any error it wraps is a RenderError with
// the given code.
func HasCode(err error, code string) bool {
	var re *RenderError
	for err != nil {
		if !stderrors.As(err, &re) {
			return false
		}
		if re.Code == code {
			return true
		}
		err = re.Wrapped
	}
	return false
}

// CodeOf returns the code of the outermost RenderError in err's chain.
func CodeOf(err error) string {
	var re *RenderError
	if stderrors.As(err, &re) {
		return re.Code
	}
	return ""
}
