package evilclient

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/HolyWalley/evil-client/internal/ident"
)

// defaultReservedNames are identifiers claimed by the settings surface
// itself. Declaring an option, alias or memoized attribute under one of
// these fails Build. WithReservedNames extends the set per schema.
var defaultReservedNames = []string{
	"build",
	"datetime",
	"get",
	"logger",
	"memo",
	"options",
	"schema",
	"string",
	"validate",
}

// Builder accumulates option, memoized-attribute and validator declarations
// and produces an immutable Schema. Declaration methods chain and never
// fail on their own; every problem is collected and reported together by
// Build.
type Builder struct {
	name       string
	parent     *Schema
	options    []OptionSpec
	memos      []MemoSpec
	validators []Validator
	reserved   []string
	metrics    *MetricsCollector
}

// NewSchema starts a schema declaration under the given display name.
func NewSchema(name string, opts ...SchemaOption) *Builder {
	b := &Builder{name: strings.TrimSpace(name)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Extend declares parent as the base schema. Its options, memoized
// attributes and validators are inherited; inherited validators run before
// the ones declared here. Calling Extend again replaces the parent.
func (b *Builder) Extend(parent *Schema) *Builder {
	b.parent = parent
	return b
}

// Option declares a named option. Raw input under name is passed through
// coerce (nil keeps the value as provided). Options are required unless
// marked Optional or given a default.
func (b *Builder) Option(name string, coerce Coercer, opts ...OptionOpt) *Builder {
	spec := OptionSpec{Name: name, Coerce: coerce, Required: true, Reader: ReaderPublic}
	for _, opt := range opts {
		opt(&spec)
	}
	b.options = append(b.options, spec)
	return b
}

// Let declares a memoized attribute. Its compute function runs on the first
// Memo call per instance; a successful result is kept for the instance
// lifetime.
func (b *Builder) Let(name string, compute ComputeFunc) *Builder {
	b.memos = append(b.memos, MemoSpec{Name: name, Compute: compute})
	return b
}

// Validate attaches a check guarding the named option or attribute. Checks
// run at the end of Schema.New, inherited ones first, each group in
// declaration order.
func (b *Builder) Validate(option string, check CheckFunc) *Builder {
	b.validators = append(b.validators, Validator{Option: option, Check: check})
	return b
}

// Build composes the inherited and own declarations into an immutable
// Schema. Own declarations override inherited ones with the same name while
// keeping the inherited position. All declaration problems are reported
// together in one error.
func (b *Builder) Build() (*Schema, error) {
	var errs *multierror.Error

	if b.name == "" {
		errs = multierror.Append(errs, newSchemaError("", "", "schema name must not be empty", nil))
	}

	s := &Schema{
		name:     b.name,
		parent:   b.parent,
		metrics:  b.metrics,
		reserved: make(map[string]struct{}, len(defaultReservedNames)+len(b.reserved)),
	}
	for _, r := range defaultReservedNames {
		s.reserved[r] = struct{}{}
	}
	if b.parent != nil {
		s.options = append(s.options, b.parent.options...)
		s.memos = append(s.memos, b.parent.memos...)
		s.validators = append(s.validators, b.parent.validators...)
		for r := range b.parent.reserved {
			s.reserved[r] = struct{}{}
		}
		if s.metrics == nil {
			s.metrics = b.parent.metrics
		}
	}
	for _, r := range b.reserved {
		canonical, err := ident.Normalize(r)
		if err != nil {
			errs = multierror.Append(errs, newSchemaError(b.name, r, "invalid reserved name", err))
			continue
		}
		s.reserved[canonical] = struct{}{}
	}

	for _, spec := range b.options {
		canonical, err := b.checkName(s, spec.Name)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		spec.Name = canonical
		if spec.As == "" {
			spec.As = spec.Name
		} else {
			exposed, err := b.checkName(s, spec.As)
			if err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
			spec.As = exposed
		}
		if i, ok := optionIndex(s.options, spec.Name); ok {
			s.options[i] = spec
		} else {
			s.options = append(s.options, spec)
		}
	}

	for _, m := range b.memos {
		canonical, err := b.checkName(s, m.Name)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		m.Name = canonical
		if m.Compute == nil {
			errs = multierror.Append(errs, newSchemaError(b.name, m.Name, "memoized attribute needs a compute function", nil))
			continue
		}
		if i, ok := memoIndexOf(s.memos, m.Name); ok {
			s.memos[i] = m
		} else {
			s.memos = append(s.memos, m)
		}
	}

	for _, v := range b.validators {
		canonical, err := ident.Normalize(v.Option)
		if err != nil {
			errs = multierror.Append(errs, newSchemaError(b.name, v.Option, "invalid validator target", err))
			continue
		}
		v.Option = canonical
		if v.Check == nil {
			errs = multierror.Append(errs, newSchemaError(b.name, v.Option, "validator needs a check function", nil))
			continue
		}
		s.validators = append(s.validators, v)
	}

	s.byName = make(map[string]int, len(s.options))
	s.byAs = make(map[string]int, len(s.options))
	for i, spec := range s.options {
		s.byName[spec.Name] = i
		if j, ok := s.byAs[spec.As]; ok {
			errs = multierror.Append(errs, newSchemaError(b.name, spec.As,
				fmt.Sprintf("options %q and %q both expose name %q", s.options[j].Name, spec.Name, spec.As), nil))
			continue
		}
		s.byAs[spec.As] = i
	}

	s.memoIndex = make(map[string]int, len(s.memos))
	for i, m := range s.memos {
		if _, ok := s.byName[m.Name]; ok {
			errs = multierror.Append(errs, newSchemaError(b.name, m.Name,
				fmt.Sprintf("memoized attribute %q collides with an option", m.Name), nil))
			continue
		}
		if _, ok := s.byAs[m.Name]; ok {
			errs = multierror.Append(errs, newSchemaError(b.name, m.Name,
				fmt.Sprintf("memoized attribute %q collides with an exposed option name", m.Name), nil))
			continue
		}
		s.memoIndex[m.Name] = i
	}

	for _, v := range s.validators {
		if _, ok := s.byName[v.Option]; ok {
			continue
		}
		if _, ok := s.byAs[v.Option]; ok {
			continue
		}
		if _, ok := s.memoIndex[v.Option]; ok {
			continue
		}
		errs = multierror.Append(errs, newSchemaError(b.name, v.Option,
			fmt.Sprintf("validator targets unknown option %q", v.Option), nil))
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return s, nil
}

// MustBuild is Build for schemas declared at package init, where a broken
// declaration is fatal. It panics on error.
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// checkName normalizes a declared name and rejects reserved identifiers.
func (b *Builder) checkName(s *Schema, raw string) (string, error) {
	canonical, err := ident.Normalize(raw)
	if err != nil {
		return "", newSchemaError(b.name, raw, "invalid name", err)
	}
	if _, ok := s.reserved[canonical]; ok {
		return "", newReservedNameError(b.name, canonical)
	}
	return canonical, nil
}

func optionIndex(specs []OptionSpec, name string) (int, bool) {
	for i, spec := range specs {
		if spec.Name == name {
			return i, true
		}
	}
	return 0, false
}

func memoIndexOf(memos []MemoSpec, name string) (int, bool) {
	for i, m := range memos {
		if m.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Schema is an immutable settings declaration: the effective options,
// memoized attributes and validators after inheritance. Safe for concurrent
// use; instances are produced with New.
type Schema struct {
	name       string
	parent     *Schema
	options    []OptionSpec
	memos      []MemoSpec
	validators []Validator
	byName     map[string]int
	byAs       map[string]int
	memoIndex  map[string]int
	reserved   map[string]struct{}
	metrics    *MetricsCollector
}

// Name returns the schema display name.
func (s *Schema) Name() string { return s.name }

// Parent returns the schema this one extends, or nil.
func (s *Schema) Parent() *Schema { return s.parent }

// Options returns the effective option specs in declaration order,
// inherited ones first. The slice is a copy.
func (s *Schema) Options() []OptionSpec {
	return append([]OptionSpec(nil), s.options...)
}

// Memos returns the effective memoized-attribute specs in declaration
// order. The slice is a copy.
func (s *Schema) Memos() []MemoSpec {
	return append([]MemoSpec(nil), s.memos...)
}

// Validators returns the effective validators in execution order. The slice
// is a copy.
func (s *Schema) Validators() []Validator {
	return append([]Validator(nil), s.validators...)
}

// ReservedNames returns the effective reserved identifiers, sorted.
func (s *Schema) ReservedNames() []string {
	names := make([]string, 0, len(s.reserved))
	for r := range s.reserved {
		names = append(names, r)
	}
	sort.Strings(names)
	return names
}
