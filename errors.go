package dt0

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrCoercion indicates a raw value could not be coerced into its logical type.
	ErrCoercion = errors.New("coercion failed")

	// ErrCollection indicates an element of a collection failed coercion.
	ErrCollection = errors.New("collection coercion failed")

	// ErrParse indicates structured text input could not be parsed.
	ErrParse = errors.New("parse failed")

	// ErrDecrypt indicates an encrypted payload was malformed or sealed with another key.
	ErrDecrypt = errors.New("decrypt failed")

	// ErrValidation indicates one or more field rules were violated.
	ErrValidation = errors.New("validation failed")

	// ErrConfig indicates a definition, key, cipher or config reference could not be resolved.
	ErrConfig = errors.New("invalid configuration")

	// ErrNotNullable indicates a non-nullable field received no value.
	ErrNotNullable = errors.New("field is not nullable")

	// ErrInvalidKey indicates an encryption key has invalid size or format.
	ErrInvalidKey = errors.New("invalid key")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")
)

// CoercionError reports a raw value whose shape is incompatible with the target type.
type CoercionError struct {
	Field  string // Field name, empty when coercing outside a definition
	Target string // Target logical type (e.g. "int", "enum(Status)")
	Value  any    // Offending raw value
	Cause  error  // Underlying error, if any
}

func (e *CoercionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cannot coerce %T(%v) to %s", e.Value, e.Value, e.Target)
	if e.Field != "" {
		fmt.Fprintf(&b, " (field %s)", e.Field)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *CoercionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrCoercion, e.Cause}
	}
	return []error{ErrCoercion}
}

// CollectionError reports the first element of a collection that failed coercion.
type CollectionError struct {
	Field string // Field name, empty when coercing outside a definition
	Index int    // Position of the offending element
	Value any    // Offending element
	Err   error  // Element failure
}

func (e *CollectionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("collection element %d of field %s: %v", e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("collection element %d: %v", e.Index, e.Err)
}

func (e *CollectionError) Unwrap() []error {
	return []error{ErrCollection, e.Err}
}

// ParseError reports malformed structured text.
type ParseError struct {
	ContentType string // Codec used to parse
	Cause       error  // Original error from the codec
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrParse.Error(), e.ContentType, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// DecryptError reports a payload that could not be decrypted.
type DecryptError struct {
	Reason string // Short description of what was wrong
	Cause  error  // Original error, if any
}

func (e *DecryptError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", ErrDecrypt.Error(), e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrDecrypt.Error(), e.Reason)
}

func (e *DecryptError) Unwrap() error {
	return ErrDecrypt
}

// ValidationError carries every violated rule, grouped by field.
type ValidationError struct {
	Type   string              // DTO type name
	Fields map[string][]string // Field name -> violation messages
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], ", ")))
	}
	return fmt.Sprintf("%s for %s: %s", ErrValidation.Error(), e.Type, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ConfigError represents a definition or key configuration error.
// It wraps a sentinel error with additional context about the field and reference.
type ConfigError struct {
	Err   error  // Underlying sentinel error (ErrConfig, ErrInvalidKey)
	Field string // Field name that triggered the error
	Name  string // Key, cipher, config name or algorithm that was missing/invalid
	Cause error  // Original error, if any
}

func (e *ConfigError) Error() string {
	msg := e.Err.Error()
	if e.Name != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Name)
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s (field %s)", msg, e.Field)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NullabilityError reports a non-nullable field that received no value.
type NullabilityError struct {
	Type  string // DTO type name
	Field string // Field name
}

func (e *NullabilityError) Error() string {
	return fmt.Sprintf("field %s is not nullable in %s", e.Field, e.Type)
}

func (e *NullabilityError) Unwrap() error {
	return ErrNotNullable
}

// newConfigError creates a ConfigError for unresolved references.
func newConfigError(sentinel error, name, field string, cause error) error {
	return &ConfigError{
		Err:   sentinel,
		Name:  name,
		Field: field,
		Cause: cause,
	}
}

// withField attaches a field name to coercion errors that lack one.
func withField(err error, field string) error {
	switch e := err.(type) {
	case *CoercionError:
		if e.Field == "" {
			e.Field = field
		}
	case *CollectionError:
		if e.Field == "" {
			e.Field = field
		}
	}
	return err
}
