package reconcile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInputNotFound is matched by InputNotFoundError.
	ErrInputNotFound = errors.New("input not found")
	// ErrSchemaMismatch is matched by SchemaMismatchError.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrDuplicateKey is matched by DuplicateKeyError.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrCoercion is matched by CoercionError.
	ErrCoercion = errors.New("type coercion failure")
)

// InputNotFoundError reports that one side's dataset could not be located.
type InputNotFoundError struct {
	Side     Side
	Location string
	// Hint names the upstream step that produces the missing input.
	Hint string
}

func (e *InputNotFoundError) Error() string {
	msg := fmt.Sprintf("%s dataset not found at %q", e.Side, e.Location)
	if e.Hint != "" {
		msg += ": " + e.Hint
	}
	return msg
}

func (e *InputNotFoundError) Is(target error) bool {
	return target == ErrInputNotFound
}

// SchemaMismatchError reports a dataset whose columns do not match the
// adapter schema.
type SchemaMismatchError struct {
	Side       Side
	Missing    []string
	Unexpected []string
}

func (e *SchemaMismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing columns ["+strings.Join(e.Missing, ", ")+"]")
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, "unexpected columns ["+strings.Join(e.Unexpected, ", ")+"]")
	}
	return fmt.Sprintf("%s schema mismatch: %s", e.Side, strings.Join(parts, "; "))
}

func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// DuplicateKeyError reports a repeated key under the reject policy.
type DuplicateKeyError struct {
	Side Side
	Key  int64
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %d in %s dataset", e.Key, e.Side)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// CoercionError reports a cell that could not be normalized to its field's
// type. Line is the 1-based input line, or zero when unknown.
type CoercionError struct {
	Side  Side
	Line  int
	Key   string
	Field string
	Raw   string
	Err   error
}

func (e *CoercionError) Error() string {
	loc := string(e.Side)
	if e.Line > 0 {
		loc = fmt.Sprintf("%s line %d", e.Side, e.Line)
	}
	msg := fmt.Sprintf("%s: key %s field %s: cannot coerce %q", loc, e.Key, e.Field, e.Raw)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CoercionError) Is(target error) bool {
	return target == ErrCoercion
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}
