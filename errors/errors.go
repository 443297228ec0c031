// Package errors defines the build-time error type used across the core
// (§7 of the spec: build-time errors are raised and not recoverable
// within the language; runtime failures are first-class Values and never
// pass through this package).
package errors

import (
	"errors"
	"fmt"
	"strings"

	"comp-lang.dev/comp/token"
)

// Error is the common interface for build-time diagnostics: undefined or
// ambiguous references, duplicate incompatible definitions, malformed
// AST, shape self-cycles.
type Error interface {
	error
	Position() token.Position
	Path() []string
	Msg() (format string, args []any)
}

// New wraps a plain message with no position, for contexts that don't yet
// carry one (e.g. programmatic construction in tests).
func New(msg string) error {
	return errors.New(msg)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain assignable to target.
func As(err error, target any) bool { return errors.As(err, target) }

// Unwrap returns the result of calling Unwrap on err, if it has one.
func Unwrap(err error) error { return errors.Unwrap(err) }

type posError struct {
	pos    token.Position
	path   []string
	format string
	args   []any
}

// Newf creates a positioned Error for the given path (e.g. a tag or
// shape's dotted path) with a printf-style message.
func Newf(pos token.Position, path []string, format string, args ...any) Error {
	return &posError{pos: pos, path: path, format: format, args: args}
}

func (e *posError) Error() string        { return fmt.Sprintf(e.format, e.args...) }
func (e *posError) Position() token.Position { return e.pos }
func (e *posError) Path() []string       { return e.path }
func (e *posError) Msg() (string, []any) { return e.format, e.args }

// Undefined builds the "Undefined <kind> reference" error mandated by
// spec.md §4.5 phase 4.
func Undefined(pos token.Position, kind, path string) Error {
	return Newf(pos, nil, "Undefined %s reference: %s", kind, path)
}

// Ambiguous builds the "Ambiguous <kind> reference" error mandated by
// spec.md §4.5 phase 4 / §4.3.
func Ambiguous(pos token.Position, kind, path string, candidates []string) Error {
	return Newf(pos, nil, "Ambiguous %s reference: %s matches [%s]", kind, path, strings.Join(candidates, ", "))
}

// List is a flattened collection of Errors, itself satisfying error.
type List []Error

func (l List) Error() string {
	parts := make([]string, len(l))
	for i, e := range l {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "\n")
}

// Append adds err to the list; a nil err leaves the list unchanged.
func Append(l List, err Error) List {
	if err == nil {
		return l
	}
	return append(l, err)
}
