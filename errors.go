package pwsafer

import (
	"errors"
	"fmt"
)

// Error types represent different categories of errors

// FormatError represents a malformed database container: a wrong magic tag
// or a header that cannot be parsed.
type FormatError struct {
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format error: %s", e.Message)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// AuthenticationError represents a rejected passphrase: the stretched key
// does not match the stored verification hash.
type AuthenticationError struct {
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication error: %s", e.Message)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// IntegrityError represents a trailing HMAC mismatch: the field stream was
// corrupted, reordered or truncated.
type IntegrityError struct {
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity error: %s", e.Message)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// LengthError represents a field whose declared length is inconsistent with
// the bytes available in the stream.
type LengthError struct {
	Declared uint32 // Length declared in the field header
	Got      int    // Payload bytes actually collected
	Err      error  // Underlying error, if any
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("length error: field declares %d bytes, stream yielded %d", e.Declared, e.Got)
}

func (e *LengthError) Unwrap() error {
	return e.Err
}

// IOError represents a transport failure while reading or writing the
// database stream.
type IOError struct {
	Operation string // "read", "write", etc.
	Message   string // Human-readable error message
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error: %s: %s", e.Operation, e.Message)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// FieldError represents a semantic field decode failure: a numeric or UUID
// field with the wrong size, or text that is not valid UTF-8. It belongs to
// the field catalogs, not to the streaming core.
type FieldError struct {
	Tag     byte   // The field type tag
	Message string // Human-readable error message
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field error: tag 0x%02x: %s", e.Tag, e.Message)
}

// Common sentinel errors
var (
	ErrInvalidTag           = errors.New("not a password safe v3 database")
	ErrInvalidPassword      = errors.New("invalid password")
	ErrInvalidHeader        = errors.New("invalid header (mandatory version field missing or malformed)")
	ErrIntegrityCheckFailed = errors.New("integrity check failed - data may be corrupted or tampered")
	ErrWriterFinished       = errors.New("writer already finished")
	ErrFieldTooLong         = errors.New("field payload exceeds maximum length")
)

// Helper functions for creating structured errors

// NewFormatError creates a new format error
func NewFormatError(message string, err error) error {
	return &FormatError{Message: message, Err: err}
}

// NewAuthenticationError creates a new authentication error
func NewAuthenticationError(err error) error {
	return &AuthenticationError{Message: err.Error(), Err: err}
}

// NewIntegrityError creates a new integrity error
func NewIntegrityError(err error) error {
	return &IntegrityError{Message: err.Error(), Err: err}
}

// NewIOError creates a new I/O error
func NewIOError(operation string, err error) error {
	return &IOError{Operation: operation, Message: err.Error(), Err: err}
}

// Error checking helpers

// IsFormatError checks if an error is a format error
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsAuthenticationError checks if an error is an authentication error
func IsAuthenticationError(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}

// IsIntegrityError checks if an error is an integrity error
func IsIntegrityError(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}

// IsLengthError checks if an error is a length error
func IsLengthError(err error) bool {
	var le *LengthError
	return errors.As(err, &le)
}

// IsIOError checks if an error is an I/O error
func IsIOError(err error) bool {
	var ie *IOError
	return errors.As(err, &ie)
}

// IsFieldError checks if an error is a field decode error
func IsFieldError(err error) bool {
	var fe *FieldError
	return errors.As(err, &fe)
}
