// Package errors defines the error taxonomy shared by the reconciliation core.
//
// Every failure raised while comparing or synchronizing a device category falls into
// one of four classes:
//
//   - NotFound: a named table, constant, block or array is missing in the target.
//   - ParseFailure: an exported document lacks an expected section or member.
//   - ExternalCallFailure: a target repository call returned an error.
//   - CriticalUnexpected: an uncaught fault during a sync or compare run.
//
// Callers test the class with errors.Is against the sentinels below, or extract
// details with errors.As on the typed errors.
package errors

import (
	"errors"
	"fmt"
)

// New is the standard library errors.New.
var New = errors.New

// Is, As and Unwrap mirror the standard library so callers need one import.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

// Sentinel errors for the error classes.
var (
	// ErrNotFound indicates a named table, constant, block or array is missing.
	ErrNotFound = errors.New("not found")

	// ErrParseFailure indicates a document is missing an expected section or member.
	ErrParseFailure = errors.New("parse failure")

	// ErrExternalCall indicates the target repository call itself failed.
	ErrExternalCall = errors.New("external call failure")

	// ErrCritical indicates an unexpected fault caught at the top level.
	ErrCritical = errors.New("critical unexpected failure")

	// ErrUnknownCategory indicates a category key that is not registered.
	ErrUnknownCategory = errors.New("unknown category")
)

// NotFoundError reports a missing named object in the target.
type NotFoundError struct {
	// Kind is the object kind, e.g. "constant", "table", "block", "array".
	Kind string
	// Name is the object name.
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// Is implements errors.Is support.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(kind, name string) *NotFoundError {
	return &NotFoundError{Kind: kind, Name: name}
}

// ParseError reports a structural problem in an exported document.
type ParseError struct {
	Document string
	Reason   string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.Document, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.Document, e.Reason)
}

// Is implements errors.Is support.
func (e *ParseError) Is(target error) bool {
	return target == ErrParseFailure
}

// Unwrap returns the underlying cause, if any.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError.
func NewParseError(document, reason string, err error) *ParseError {
	return &ParseError{Document: document, Reason: reason, Err: err}
}

// ExternalCallError wraps a failing target repository call.
type ExternalCallError struct {
	// Op is the repository operation, e.g. "WriteConstant".
	Op string
	// Target names the table, constant or block the call addressed.
	Target string
	Err    error
}

func (e *ExternalCallError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
}

// Is implements errors.Is support. A wrapped NotFound still reports as NotFound.
func (e *ExternalCallError) Is(target error) bool {
	return target == ErrExternalCall
}

// Unwrap returns the underlying repository error.
func (e *ExternalCallError) Unwrap() error {
	return e.Err
}

// NewExternalCallError creates a new ExternalCallError.
func NewExternalCallError(op, target string, err error) *ExternalCallError {
	return &ExternalCallError{Op: op, Target: target, Err: err}
}

// CriticalError is a fault recovered at the top of a sync or compare run.
type CriticalError struct {
	Op    string
	Cause any
}

func (e *CriticalError) Error() string {
	return fmt.Sprintf("critical failure during %s: %v", e.Op, e.Cause)
}

// Is implements errors.Is support.
func (e *CriticalError) Is(target error) bool {
	return target == ErrCritical
}

// Unwrap returns the cause when it is an error.
func (e *CriticalError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// NewCriticalError creates a new CriticalError.
func NewCriticalError(op string, cause any) *CriticalError {
	return &CriticalError{Op: op, Cause: cause}
}

// UnknownCategory returns an error for an unregistered category key.
func UnknownCategory(key string) error {
	return fmt.Errorf("%w: %q", ErrUnknownCategory, key)
}
