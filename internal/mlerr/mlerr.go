// Package mlerr defines the store's error taxonomy: sentinel errors
// for the conditions callers need to branch on, wrapped with operation
// context the way database/sql errors are normally surfaced.
package mlerr

import (
	"database/sql"
	"errors"
	"fmt"
)

// Sentinel errors. Callers should match with errors.Is/errors.As, not
// string comparison.
var (
	// ErrTypeNotFound is returned when an item references a type_id
	// that has no corresponding row in Type.
	ErrTypeNotFound = errors.New("type not found")

	// ErrUndefinedProperty is returned when a typed property's value
	// tag does not match the declared type for that name, or the
	// name isn't declared on the type at all.
	ErrUndefinedProperty = errors.New("undefined property")

	// ErrNameAlreadyExists is returned by POST when (type_id, name) is
	// already taken or by a Context POST that collides on name.
	ErrNameAlreadyExists = errors.New("name already exists")

	// ErrTypeAlreadyExists is returned by PutType when the declared
	// properties conflict with, or can't be reconciled against, an
	// existing Type of the same (kind, name).
	ErrTypeAlreadyExists = errors.New("type already exists")

	// ErrNotFound is returned by PUT/relation operations that
	// reference a row (item, context, artifact, execution) that does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedDatabase is returned when a database URI's scheme
	// doesn't match a registered dialect.
	ErrUnsupportedDatabase = errors.New("unsupported database")

	// ErrConvert is returned when a stored row holds an out-of-range
	// enum value, or a property row does not have exactly one non-null
	// value column.
	ErrConvert = errors.New("conversion error")
)

// NotFoundError names the entity kind that was missing, e.g.
// NotFound{Target: "Context"}.
type NotFoundError struct {
	Target string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d: %v", e.Target, e.ID, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound builds a NotFoundError for the given entity kind and id.
func NotFound(target string, id int64) error {
	return &NotFoundError{Target: target, ID: id}
}

// TooManyMlmdEnvRecordsError is returned by the schema bootstrapper
// when MLMDEnv holds more than one row.
type TooManyMlmdEnvRecordsError struct {
	Count int
}

func (e *TooManyMlmdEnvRecordsError) Error() string {
	return fmt.Sprintf("too many MLMDEnv records: got %d, want 1", e.Count)
}

// UnsupportedSchemaVersionError is returned when MLMDEnv.schema_version
// doesn't match the version this store implements.
type UnsupportedSchemaVersionError struct {
	Actual, Expected int
}

func (e *UnsupportedSchemaVersionError) Error() string {
	return fmt.Sprintf("unsupported schema version: got %d, want %d", e.Actual, e.Expected)
}

// Wrap adds operation context to err, normalizing sql.ErrNoRows to
// ErrNotFound along the way.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Wrapf is Wrap with a formatted operation description.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(fmt.Sprintf(format, args...), err)
}

// Is reports whether err wraps target; thin re-export so call sites
// that already import mlerr don't also need the stdlib errors import
// for the common case.
func Is(err, target error) bool { return errors.Is(err, target) }

// As reports whether err wraps a value assignable to target, as
// errors.As.
func As(err error, target any) bool { return errors.As(err, target) }
