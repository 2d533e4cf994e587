// Package errors defines the diagnostic error type produced while loading
// a scene description document.
package errors

import (
	"errors"
	"fmt"
)

// Code identifies the kind of failure independent of its message, so
// callers can branch with errors.As instead of matching strings.
type Code string

const (
	// ErrSyntax covers malformed documents, scalars, and versions.
	ErrSyntax Code = "mtsxml-syntax"
	// ErrUnknownTag indicates an element name with no registered tag kind or class.
	ErrUnknownTag Code = "mtsxml-unknown-tag"
	// ErrAttribute indicates an unexpected, missing, or malformed attribute.
	ErrAttribute Code = "mtsxml-attribute"
	// ErrMisplacedTag indicates a tag appearing where its kind is not allowed.
	ErrMisplacedTag Code = "mtsxml-misplaced-tag"
	// ErrNoVersion indicates the root element has no version attribute.
	ErrNoVersion Code = "mtsxml-no-version"
	// ErrReservedName indicates a user-supplied id or name begins with an underscore.
	ErrReservedName Code = "mtsxml-reserved-name"
	// ErrDuplicateID indicates two descriptors were declared under the same id.
	ErrDuplicateID Code = "mtsxml-duplicate-id"
	// ErrUnknownRef indicates a named reference or alias target id does not exist.
	ErrUnknownRef Code = "mtsxml-unknown-ref"
	// ErrSemantic covers spectrum/transform value errors (NaN, range, spacing).
	ErrSemantic Code = "mtsxml-semantic"
	// ErrResource covers include resolution and write-back I/O failures.
	ErrResource Code = "mtsxml-resource"
	// ErrIncludeDepth indicates the include recursion limit was exceeded.
	ErrIncludeDepth Code = "mtsxml-include-depth"
	// ErrInstantiate covers factory failures and unqueried properties.
	ErrInstantiate Code = "mtsxml-instantiate"
	// ErrCycle indicates a reference cycle was detected during instantiation.
	ErrCycle Code = "mtsxml-cycle"
)

// LoadError is the error type returned by every failing load. Error renders
// the "Error while loading ..." template exactly once; nested LoadErrors
// pass through unchanged so an error crossing an include boundary keeps the
// location of its innermost occurrence.
type LoadError struct {
	Code     Code
	Message  string
	SourceID string
	Line     int
	Column   int
	Err      error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e == nil {
		return "load error <nil>"
	}
	loc := "byte offset 0"
	if e.Line > 0 {
		loc = fmt.Sprintf("line %d, col %d", e.Line, e.Column)
	}
	return fmt.Sprintf(`Error while loading "%s" (at %s): %s.`, e.SourceID, loc, e.Message)
}

// Unwrap returns the wrapped error, if any.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// New builds a LoadError with no location; Locate attaches one later.
func New(code Code, format string, args ...any) *LoadError {
	return &LoadError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a LoadError that carries an underlying cause.
func Wrap(code Code, err error, format string, args ...any) *LoadError {
	return &LoadError{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// Locate attaches source-id and location to err if it is not already
// located, and returns it unchanged otherwise. This implements the
// "wrapped once" propagation policy: an error that already carries a
// location keeps its innermost one as it unwinds through outer calls.
func Locate(err error, sourceID string, line, column int) error {
	if err == nil {
		return nil
	}
	var le *LoadError
	if errors.As(err, &le) && le.Located() {
		return err
	}
	var le2 *LoadError
	if errors.As(err, &le2) {
		le2.SourceID = sourceID
		le2.Line = line
		le2.Column = column
		return le2
	}
	return &LoadError{Code: ErrSyntax, Message: err.Error(), SourceID: sourceID, Line: line, Column: column, Err: err}
}

// Located reports whether e already has a source id and location attached.
func (e *LoadError) Located() bool {
	return e != nil && e.SourceID != ""
}

// List aggregates independent load errors for callers that want every
// problem in a document rather than fail-fast. The loader itself never
// returns one.
type List []*LoadError

// Error summarizes the list, matching the singular/plural shape used
// elsewhere in this module's error formatting.
func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no load errors"
	case 1:
		return l[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", l[0].Error(), len(l)-1)
	}
}
