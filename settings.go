package evilclient

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/HolyWalley/evil-client/internal/ident"
	"github.com/HolyWalley/evil-client/internal/once"
)

// Settings is one constructed instance of a Schema: coerced option values,
// a logger, and memoized attributes. Option values are frozen at
// construction; reads are safe for concurrent use.
type Settings struct {
	schema *Schema
	id     string
	values map[string]any
	order  []string
	memo   *once.Group

	mu     sync.RWMutex
	logger Logger
}

// New constructs a Settings instance from raw values. Keys are normalized
// the same way declared names are; unknown keys are ignored. Each declared
// option is resolved from raw input or its default, coerced, and finally
// checked by the schema validators. The first failure is returned as a
// validation error naming the offending option.
func (s *Schema) New(logger Logger, raw map[string]any) (*Settings, error) {
	start := time.Now()

	inst := &Settings{
		schema: s,
		id:     uuid.NewString(),
		values: make(map[string]any, len(s.options)),
		memo:   once.New(),
		logger: logger,
	}

	norm := make(map[string]any, len(raw))
	var ignored []string
	for key, value := range raw {
		canonical, err := ident.Normalize(key)
		if err != nil {
			s.metrics.RecordBuild(s.name, "failure", time.Since(start))
			return nil, newValidationError(s.name, key, fmt.Sprintf("invalid option key %q", key), err)
		}
		if _, known := s.byName[canonical]; !known {
			ignored = append(ignored, canonical)
			continue
		}
		if _, dup := norm[canonical]; dup {
			s.metrics.RecordBuild(s.name, "failure", time.Since(start))
			return nil, newValidationError(s.name, canonical,
				fmt.Sprintf("multiple keys normalize to %q", canonical), nil)
		}
		norm[canonical] = value
	}

	for _, spec := range s.options {
		value, present := norm[spec.Name]
		if !present {
			switch {
			case spec.Default != nil:
				value = spec.Default()
			case spec.Required:
				s.metrics.RecordValidationFailure(s.name, spec.Name)
				s.metrics.RecordBuild(s.name, "failure", time.Since(start))
				return nil, newValidationError(s.name, spec.Name,
					fmt.Sprintf("missing required option %q", spec.Name), nil)
			default:
				continue
			}
		}
		if spec.Coerce != nil {
			coerced, err := spec.Coerce(value)
			if err != nil {
				s.metrics.RecordValidationFailure(s.name, spec.Name)
				s.metrics.RecordBuild(s.name, "failure", time.Since(start))
				return nil, newValidationError(s.name, spec.Name,
					fmt.Sprintf("cannot coerce option %q", spec.Name), err)
			}
			value = coerced
		}
		inst.values[spec.As] = value
		inst.order = append(inst.order, spec.As)
	}

	for _, v := range s.validators {
		if err := v.Check(inst); err != nil {
			s.metrics.RecordValidationFailure(s.name, v.Option)
			s.metrics.RecordBuild(s.name, "failure", time.Since(start))
			if logger != nil {
				logger.Warn("settings validation failed",
					"schema", s.name, "option", v.Option, "error", err)
			}
			return nil, newValidationError(s.name, v.Option,
				fmt.Sprintf("validation of %q failed", v.Option), err)
		}
	}

	elapsed := time.Since(start)
	s.metrics.RecordBuild(s.name, "success", elapsed)
	if logger != nil {
		logger.Debug("settings built",
			"schema", s.name, "id", inst.id, "options", len(inst.order), "duration", elapsed)
		if len(ignored) > 0 {
			sort.Strings(ignored)
			logger.Debug("ignored unknown options", "schema", s.name, "keys", strings.Join(ignored, ","))
		}
	}
	return inst, nil
}

// MustNew is New for wiring done at program start, where bad settings are
// fatal. It panics on error.
func (s *Schema) MustNew(logger Logger, raw map[string]any) *Settings {
	inst, err := s.New(logger, raw)
	if err != nil {
		panic(err)
	}
	return inst
}

// ID returns the unique identifier assigned to this instance.
func (s *Settings) ID() string { return s.id }

// Schema returns the schema this instance was built from.
func (s *Settings) Schema() *Schema { return s.schema }

// SchemaName returns the owning schema's display name.
func (s *Settings) SchemaName() string {
	if s.schema == nil {
		return ""
	}
	return s.schema.name
}

// Options returns the assigned option values keyed by exposed name. The map
// is a copy.
func (s *Settings) Options() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// OptionNames returns the exposed names of assigned options in declaration
// order. The slice is a copy.
func (s *Settings) OptionNames() []string {
	return append([]string(nil), s.order...)
}

// Get returns the assigned value under the exposed name. The second result
// is false when the name is unknown, the option was never assigned, or the
// declaration hides it with ReaderNone.
func (s *Settings) Get(name string) (any, bool) {
	if s.schema == nil {
		return nil, false
	}
	i, ok := s.schema.byAs[name]
	if !ok {
		return nil, false
	}
	if s.schema.options[i].Reader == ReaderNone {
		return nil, false
	}
	v, ok := s.values[name]
	return v, ok
}

// GetString is Get narrowed to string values.
func (s *Settings) GetString(name string) (string, bool) {
	v, ok := s.Get(name)
	if !ok {
		return "", false
	}
	out, err := cast.ToStringE(v)
	return out, err == nil
}

// GetInt is Get narrowed to int values.
func (s *Settings) GetInt(name string) (int, bool) {
	v, ok := s.Get(name)
	if !ok {
		return 0, false
	}
	out, err := cast.ToIntE(v)
	return out, err == nil
}

// GetBool is Get narrowed to bool values.
func (s *Settings) GetBool(name string) (bool, bool) {
	v, ok := s.Get(name)
	if !ok {
		return false, false
	}
	out, err := cast.ToBoolE(v)
	return out, err == nil
}

// GetDuration is Get narrowed to time.Duration values.
func (s *Settings) GetDuration(name string) (time.Duration, bool) {
	v, ok := s.Get(name)
	if !ok {
		return 0, false
	}
	out, err := cast.ToDurationE(v)
	return out, err == nil
}

// Logger returns the instance logger.
func (s *Settings) Logger() Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logger
}

// SetLogger swaps the instance logger. Safe for concurrent use.
func (s *Settings) SetLogger(l Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = l
}

// Datetime renders v in the RFC 2822 form HTTP clients put into Date
// headers, e.g. "Mon, 02 Jan 2006 15:04:05 -0700". Nil renders as the empty
// string. Non-time values go through the time coercions first, so RFC 3339
// strings and unix timestamps work.
func (s *Settings) Datetime(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	t, ok := v.(time.Time)
	if !ok {
		parsed, err := cast.ToTimeE(v)
		if err != nil {
			return "", newValidationError(s.SchemaName(), "",
				fmt.Sprintf("cannot render %v as a datetime", v), err)
		}
		t = parsed
	}
	return t.Format(time.RFC1123Z), nil
}

// String renders the instance as "Name:id key=value, ..." with options in
// declaration order. The id is shortened to its first eight characters.
func (s *Settings) String() string {
	name := s.SchemaName()
	if name == "" {
		name = "Settings"
	}
	head := name
	switch {
	case len(s.id) >= 8:
		head = name + ":" + s.id[:8]
	case s.id != "":
		head = name + ":" + s.id
	}
	if len(s.order) == 0 {
		return head
	}
	parts := make([]string, 0, len(s.order))
	for _, key := range s.order {
		parts = append(parts, fmt.Sprintf("%s=%v", key, s.values[key]))
	}
	return head + " " + strings.Join(parts, ", ")
}
