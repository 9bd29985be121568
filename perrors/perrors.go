// Package perrors defines the error taxonomy shared by every layer of the
// write path: shredding, encoding, compression, encryption, and the file
// writer's lifecycle state machine.
//
// Every sentinel here is fatal to the writer that raised it unless its doc
// comment says otherwise; the write path never retries internally.
package perrors

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaMismatch is returned when a record does not match the
	// schema the writer was constructed with (field name, type, or
	// cardinality).
	ErrSchemaMismatch = errors.New("parquet: schema mismatch")

	// ErrUnexpectedEndOfGroup is returned when StartGroup/EndGroup calls
	// are unbalanced.
	ErrUnexpectedEndOfGroup = errors.New("parquet: unexpected end of group")

	// ErrEncoding is returned when a value cannot be represented by the
	// encoding currently selected for its column (e.g. a byte array
	// longer than 2^31-1 bytes).
	ErrEncoding = errors.New("parquet: encoding error")

	// ErrCompression is returned when a compression codec fails; it is
	// never retried.
	ErrCompression = errors.New("parquet: compression error")

	// ErrChecksumMismatch is returned by the page self-verification
	// (WriterConfig.VerifyChecksums) when a compressed page does not
	// decode back to its uncompressed bytes, or by a verifying reader when
	// a page's CRC32 does not match its payload.
	ErrChecksumMismatch = errors.New("parquet: checksum mismatch")

	// ErrKeyUnavailable is returned by a KeyRetriever that cannot resolve
	// a key identifier.
	ErrKeyUnavailable = errors.New("parquet: key unavailable")

	// ErrAadMismatch is returned when an AAD prefix is required but was
	// not supplied, or AAD verification fails.
	ErrAadMismatch = errors.New("parquet: aad mismatch")

	// ErrTagMismatch is returned when AES-GCM authentication fails.
	ErrTagMismatch = errors.New("parquet: authentication tag mismatch")

	// ErrAlgorithmMismatch is returned when a file or request names an
	// encryption algorithm the implementation does not support.
	ErrAlgorithmMismatch = errors.New("parquet: algorithm mismatch")

	// ErrIllegalState is returned when an operation is invoked while the
	// file writer's state machine is not in the state that operation
	// requires.
	ErrIllegalState = errors.New("parquet: illegal state")

	// ErrInternal indicates an invariant violation: a bug in this module,
	// not a caller error.
	ErrInternal = errors.New("parquet: internal error")
)

// SchemaError carries context for ErrSchemaMismatch.
type SchemaError struct {
	Path string
	Want string
	Got  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("parquet: schema mismatch at %q: want %s, got %s", e.Path, e.Want, e.Got)
}

func (e *SchemaError) Unwrap() error { return ErrSchemaMismatch }

// NewSchemaError constructs a *SchemaError.
func NewSchemaError(path, want, got string) error {
	return &SchemaError{Path: path, Want: want, Got: got}
}

// EncodingError carries context for ErrEncoding.
type EncodingError struct {
	Column string
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("parquet: encoding error in column %q: %s", e.Column, e.Reason)
}

func (e *EncodingError) Unwrap() error { return ErrEncoding }

// NewEncodingError constructs an *EncodingError.
func NewEncodingError(column, reason string) error {
	return &EncodingError{Column: column, Reason: reason}
}

// StateError carries context for ErrIllegalState.
type StateError struct {
	Op    string
	State string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("parquet: %s called in state %s", e.Op, e.State)
}

func (e *StateError) Unwrap() error { return ErrIllegalState }

// NewStateError constructs a *StateError.
func NewStateError(op, state string) error {
	return &StateError{Op: op, State: state}
}

// Wrapf wraps err with a formatted message, preserving Unwrap/Is/As
// semantics (mirrors the %w pattern used throughout the teacher's
// json.go/merge.go).
func Wrapf(err error, format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, err)...)
}
