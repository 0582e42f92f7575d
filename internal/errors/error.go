package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryHooks    Category = "hooks"
	CategoryRenderer Category = "renderer"
	CategoryRuntime  Category = "runtime"
	CategoryNode     Category = "node"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// ReactorError is a structured error with the component path it occurred at
// and a suggestion on how to fix it.
type ReactorError struct {
	// Code is a unique error identifier (e.g., "RE001").
	Code string

	// Category is the error type (hooks, renderer, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Path is the chain of type names from the root to the failing node.
	Path []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ReactorError) Error() string {
	var b strings.Builder
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(e.PathString())
	}
	if e.Wrapped != nil {
		b.WriteString(": ")
		b.WriteString(e.Wrapped.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *ReactorError) Unwrap() error {
	return e.Wrapped
}

// PathString joins the component path for display.
func (e *ReactorError) PathString() string {
	return strings.Join(e.Path, " > ")
}

// WithSuggestion adds a fix suggestion to the error.
func (e *ReactorError) WithSuggestion(s string) *ReactorError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *ReactorError) WithDetail(d string) *ReactorError {
	e.Detail = d
	return e
}

// WithPath records where in the tree the error occurred.
func (e *ReactorError) WithPath(path []string) *ReactorError {
	e.Path = path
	return e
}

// Wrap wraps another error.
func (e *ReactorError) Wrap(err error) *ReactorError {
	e.Wrapped = err
	return e
}

// New creates a ReactorError from a registered error code.
func New(code string) *ReactorError {
	template, ok := registry[code]
	if !ok {
		return &ReactorError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &ReactorError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new ReactorError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *ReactorError {
	return &ReactorError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a ReactorError. Errors that already
// carry a code are returned unchanged.
func FromError(err error, code string) *ReactorError {
	if err == nil {
		return nil
	}
	var re *ReactorError
	if errors.As(err, &re) {
		return re
	}
	return New(code).Wrap(err)
}

// Code returns the code of the first ReactorError in err's chain, or "".
func Code(err error) string {
	var re *ReactorError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}
