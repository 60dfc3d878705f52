package metalisp

import (
	"github.com/pkg/errors"
)

var (
	// ErrParse is returned for a malformed token stream.
	ErrParse = errors.New("parse error")

	// EOF is returned when input ends where an expression was expected.
	EOF = errors.Wrap(ErrParse, "unexpected end of input")

	// ErrUndefinedOperation is returned when an elementary function is
	// applied outside its contract, a special form is malformed, or cond
	// finds no true clause.
	ErrUndefinedOperation = errors.New("undefined operation")

	// ErrRedefinition is returned when defn or label names an elementary
	// function.
	ErrRedefinition = errors.New("redefinition of elementary function")

	// ErrLookup is returned for unknown functions and arity mismatches.
	ErrLookup = errors.New("lookup error")

	// ErrResource is returned when a file cannot be loaded or the call
	// depth limit is hit.
	ErrResource = errors.New("resource error")
)
