package evilclient

import (
	"errors"
	"fmt"
)

// Error type constants used in Error.Type.
const (
	// ErrorTypeResolution marks a failure to resolve an address against the
	// configured API bindings.
	ErrorTypeResolution = "Resolution"

	// ErrorTypeReservedName marks an option or memoized-attribute declaration
	// that collides with a reserved identifier.
	ErrorTypeReservedName = "ReservedName"

	// ErrorTypeValidation marks a failed settings construction: a bad raw key,
	// a missing required option, a coercion error, or a validator failure.
	ErrorTypeValidation = "Validation"

	// ErrorTypeSchema marks a malformed schema declaration other than a
	// reserved-name collision (bad identifier, nil body, unknown target).
	ErrorTypeSchema = "Schema"
)

// Sentinel errors for common failure scenarios
var (
	// ErrNoMatchingAPI is returned when no configured binding resolves an address
	ErrNoMatchingAPI = errors.New("evilclient: no matching api")

	// ErrReservedName is returned when a declaration uses a reserved identifier
	ErrReservedName = errors.New("evilclient: reserved name")
)

// newResolutionError builds the error returned when every binding declined an address.
func newResolutionError(address string) *Error {
	return &Error{
		Type:    ErrorTypeResolution,
		Message: fmt.Sprintf("no configured api resolves address %q", address),
		Address: address,
	}
}

// newReservedNameError builds the declaration-time error for a reserved identifier.
func newReservedNameError(schema, name string) *Error {
	return &Error{
		Type:    ErrorTypeReservedName,
		Message: fmt.Sprintf("name %q is reserved by the settings surface", name),
		Schema:  schema,
		Option:  name,
	}
}

// newValidationError wraps a construction-time failure into the single
// validation error kind surfaced by Schema.New.
func newValidationError(schema, option, message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeValidation,
		Message: message,
		Cause:   cause,
		Schema:  schema,
		Option:  option,
	}
}

// newSchemaError builds a declaration-time error that is not a name collision.
func newSchemaError(schema, option, message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeSchema,
		Message: message,
		Cause:   cause,
		Schema:  schema,
		Option:  option,
	}
}

// Error implements error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	}
	if e.Schema != "" {
		msg = fmt.Sprintf("[%s] %s", e.Schema, msg)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is. The sentinels map onto their error
// type so callers can test errors.Is(err, ErrNoMatchingAPI) without digging
// for the concrete struct.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrNoMatchingAPI:
		return e.Type == ErrorTypeResolution
	case ErrReservedName:
		return e.Type == ErrorTypeReservedName
	}
	if targetErr, ok := target.(*Error); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// IsResolutionError reports whether err is an address-resolution failure.
func IsResolutionError(err error) bool {
	return hasErrorType(err, ErrorTypeResolution)
}

// IsReservedNameError reports whether err is a reserved-identifier collision.
func IsReservedNameError(err error) bool {
	return hasErrorType(err, ErrorTypeReservedName)
}

// IsValidationError reports whether err is a settings-construction failure.
func IsValidationError(err error) bool {
	return hasErrorType(err, ErrorTypeValidation)
}

// IsSchemaError reports whether err is a schema-declaration failure.
func IsSchemaError(err error) bool {
	return hasErrorType(err, ErrorTypeSchema)
}

func hasErrorType(err error, errorType string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == errorType
	}
	return false
}

// DebugInfo renders a multi-line string with diagnostic context.
func (e *Error) DebugInfo() string {
	if e == nil {
		return "Error: <nil>"
	}
	info := fmt.Sprintf("Error Type: %s\n", e.Type)
	info += fmt.Sprintf("Message: %s\n", e.Message)
	if e.Schema != "" {
		info += fmt.Sprintf("Schema: %s\n", e.Schema)
	}
	if e.Option != "" {
		info += fmt.Sprintf("Option: %s\n", e.Option)
	}
	if e.Address != "" {
		info += fmt.Sprintf("Address: %s\n", e.Address)
	}
	if e.Cause != nil {
		info += fmt.Sprintf("Cause: %v\n", e.Cause)
	}
	return info
}
