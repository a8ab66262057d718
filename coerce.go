package evilclient

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Built-in coercers for common option types. All of them are plain Coercer
// functions, so they can be passed to Builder.Option directly or combined
// with Chain.

// ToString coerces the value to a string.
func ToString(value any) (any, error) {
	return cast.ToStringE(value)
}

// ToInt coerces the value to an int.
func ToInt(value any) (any, error) {
	return cast.ToIntE(value)
}

// ToInt64 coerces the value to an int64.
func ToInt64(value any) (any, error) {
	return cast.ToInt64E(value)
}

// ToFloat64 coerces the value to a float64.
func ToFloat64(value any) (any, error) {
	return cast.ToFloat64E(value)
}

// ToBool coerces the value to a bool.
func ToBool(value any) (any, error) {
	return cast.ToBoolE(value)
}

// ToDuration coerces the value to a time.Duration. Strings use the
// "300ms"/"2h45m" syntax, numbers count nanoseconds.
func ToDuration(value any) (any, error) {
	return cast.ToDurationE(value)
}

// ToTime coerces the value to a time.Time. Strings are tried against the
// usual layouts, RFC 3339 first.
func ToTime(value any) (any, error) {
	return cast.ToTimeE(value)
}

// ToStringSlice coerces the value to a []string.
func ToStringSlice(value any) (any, error) {
	return cast.ToStringSliceE(value)
}

// ToStringMap coerces the value to a map[string]any.
func ToStringMap(value any) (any, error) {
	return cast.ToStringMapE(value)
}

// NonEmptyString coerces to a string and rejects empty results.
func NonEmptyString(value any) (any, error) {
	s, err := cast.ToStringE(value)
	if err != nil {
		return nil, err
	}
	if s == "" {
		return nil, fmt.Errorf("value must be a non-empty string")
	}
	return s, nil
}

// Chain combines coercers left to right, feeding each result into the next.
func Chain(coercers ...Coercer) Coercer {
	return func(value any) (any, error) {
		var err error
		for _, c := range coercers {
			if c == nil {
				continue
			}
			value, err = c(value)
			if err != nil {
				return nil, err
			}
		}
		return value, nil
	}
}

// Enum coerces to a string and requires it to be one of the allowed values.
func Enum(allowed ...string) Coercer {
	return func(value any) (any, error) {
		s, err := cast.ToStringE(value)
		if err != nil {
			return nil, err
		}
		for _, a := range allowed {
			if s == a {
				return s, nil
			}
		}
		return nil, fmt.Errorf("value %q is not one of [%s]", s, strings.Join(allowed, ", "))
	}
}
