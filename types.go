package evilclient

// Coercer converts a raw option value into its declared type. A nil Coercer
// on a declaration means the raw value is kept as provided.
type Coercer func(value any) (any, error)

// CheckFunc inspects a constructed Settings instance and reports a problem.
// A nil return means the check passed.
type CheckFunc func(s *Settings) error

// ComputeFunc produces the value of a memoized attribute. It runs at most
// once per instance; the first successful result is kept.
type ComputeFunc func(s *Settings) (any, error)

// ReaderVisibility controls how an assigned option is exposed on the
// settings instance.
type ReaderVisibility int

const (
	// ReaderPublic exposes the option through Get. The default.
	ReaderPublic ReaderVisibility = iota

	// ReaderProtected and ReaderPrivate record the declared visibility for
	// inspection. Go draws no caller boundary, so Get still serves the value;
	// the distinction is metadata for surfaces generated on top of a schema.
	ReaderProtected
	ReaderPrivate

	// ReaderNone hides the option from Get. The value still participates in
	// validation and appears in Options, OptionNames and String.
	ReaderNone
)

// String returns a human-readable representation of the visibility.
func (r ReaderVisibility) String() string {
	switch r {
	case ReaderPublic:
		return "public"
	case ReaderProtected:
		return "protected"
	case ReaderPrivate:
		return "private"
	case ReaderNone:
		return "none"
	default:
		return "unknown"
	}
}

// OptionSpec describes one declared option of a schema.
type OptionSpec struct {
	// Name is the canonical declared name, the key looked up in raw input.
	Name string

	// As is the exposed name on the instance. Defaults to Name.
	As string

	// Coerce converts the raw value. Nil keeps the value as provided.
	Coerce Coercer

	// Required reports whether construction fails when the option is absent
	// and has no default. Declarations are required unless marked Optional
	// or given a default.
	Required bool

	// Default produces the fallback value when the option is absent. Nil
	// means no default. The produced value passes through Coerce.
	Default func() any

	// Reader controls visibility of the assigned value through Get.
	Reader ReaderVisibility
}

// MemoSpec describes one memoized attribute of a schema.
type MemoSpec struct {
	Name    string
	Compute ComputeFunc
}

// Validator is a named check attached to a schema. Option records which
// declared option the check guards; failures are reported against it.
type Validator struct {
	Option string
	Check  CheckFunc
}

// Error represents an error from the toolkit
type Error struct {
	Type    string
	Message string
	Cause   error

	// Address carries the unresolved address on resolution failures.
	Address string

	// Schema carries the owning schema name on declaration and
	// construction failures.
	Schema string

	// Option carries the offending option or attribute name when one is known.
	Option string
}

// SchemaOption configures a schema builder at creation time.
type SchemaOption func(*Builder)

// OptionOpt refines a single option declaration.
type OptionOpt func(*OptionSpec)

// APIsOption configures an APIs collection.
type APIsOption func(*APIs)
