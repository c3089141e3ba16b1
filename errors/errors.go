// Package errors provides standardized error handling for the OBDM
// URI-replacement toolkit. It defines the domain error taxonomy (unknown
// prefixes, duplicate records, malformed mapping lines, registry conflicts,
// allocator exhaustion) together with helper functions for consistent
// error wrapping and classification across the system.
package errors

import (
	"errors"
	"fmt"
)

// Standard error variables for common conditions
var (
	// ErrKeyNotFound indicates a lookup for a subject that has no record.
	ErrKeyNotFound = errors.New("key not found")

	// ErrNotRegistered indicates a domain or domain code lookup miss.
	ErrNotRegistered = errors.New("not registered")

	// ErrMissingObjectID indicates a record without the mandatory object_id column.
	ErrMissingObjectID = errors.New("record has no object_id")

	// ErrInvalidConfig indicates invalid caller-supplied configuration.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UnknownPrefixError is returned when a URI or CURIE cannot be understood
// because its namespace or prefix is not registered.
type UnknownPrefixError struct {
	Value string
}

func (e *UnknownPrefixError) Error() string {
	return fmt.Sprintf("missing prefix for %q", e.Value)
}

// RecordExistsError is returned when an insert would overwrite an existing
// record with a different value. Key is the expanded subject identifier.
type RecordExistsError struct {
	Key string
}

func (e *RecordExistsError) Error() string {
	return fmt.Sprintf("record for key %q already exists", e.Key)
}

// InvalidURIError is returned when a value matches a registered namespace
// but does not satisfy general URI syntax.
type InvalidURIError struct {
	Value string
}

func (e *InvalidURIError) Error() string {
	return fmt.Sprintf("%q is not a valid URI", e.Value)
}

// InvalidLineError is returned when a row in a mapping file cannot be read.
// LineNr is 1-based; zero means the line number is unknown.
type InvalidLineError struct {
	Line   string
	LineNr int
}

func (e *InvalidLineError) Error() string {
	if e.LineNr > 0 {
		return fmt.Sprintf("line %d: %q in mapping file could not be read", e.LineNr, e.Line)
	}
	return fmt.Sprintf("line %q in mapping file could not be read", e.Line)
}

// DomainConflictError is returned when registering a domain/code pair would
// violate the bijection between domain names and domain codes. Exactly one
// of ExistingCode or ExistingDomain is set, depending on which side of the
// bijection collided.
type DomainConflictError struct {
	Domain         string
	Code           string
	ExistingCode   string
	ExistingDomain string
}

func (e *DomainConflictError) Error() string {
	if e.ExistingCode != "" {
		return fmt.Sprintf("domain %q is already registered with domain code %s", e.Domain, e.ExistingCode)
	}
	return fmt.Sprintf("domain code %s is already registered for domain %q", e.Code, e.ExistingDomain)
}

// MintCeilingError is returned when the identifier allocator has exhausted
// the serial space below its configured ceiling.
type MintCeilingError struct {
	Ceiling int
}

func (e *MintCeilingError) Error() string {
	return fmt.Sprintf("mint ceiling exceeded: no serial available below %d", e.Ceiling)
}

// IsUnknownPrefix reports whether err is (or wraps) an UnknownPrefixError.
func IsUnknownPrefix(err error) bool {
	var target *UnknownPrefixError
	return errors.As(err, &target)
}

// IsRecordExists reports whether err is (or wraps) a RecordExistsError.
func IsRecordExists(err error) bool {
	var target *RecordExistsError
	return errors.As(err, &target)
}

// IsInvalidLine reports whether err is (or wraps) an InvalidLineError.
func IsInvalidLine(err error) bool {
	var target *InvalidLineError
	return errors.As(err, &target)
}

// IsDomainConflict reports whether err is (or wraps) a DomainConflictError.
func IsDomainConflict(err error) bool {
	var target *DomainConflictError
	return errors.As(err, &target)
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// Invalid creates an error for invalid caller input in the standard
// "component.method: detail" form, wrapping ErrInvalidConfig so callers
// can classify it.
func Invalid(component, method, detail string) error {
	return fmt.Errorf("%s.%s: %s: %w", component, method, detail, ErrInvalidConfig)
}

// New returns an error with the given text. Mirror of the standard library
// so callers need only one errors import.
func New(text string) error { return errors.New(text) }

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return errors.As(err, target) }
