// Package ident canonicalizes option identifiers. Raw option keys may arrive
// from code, YAML documents or other loosely formatted sources; schemas match
// them against declared names only after both sides pass through Normalize.
package ident

import (
	"fmt"
	"strings"
)

// Normalize converts a raw key into canonical identifier form: surrounding
// whitespace is trimmed and dashes or inner spaces become underscores. The
// result must start with a letter or underscore and continue with letters,
// digits or underscores. Case is preserved; normalization never folds it.
func Normalize(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	name = strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return '_'
		}
		return r
	}, name)

	if name == "" {
		return "", fmt.Errorf("empty option identifier")
	}
	for i, r := range name {
		if isLetter(r) || r == '_' {
			continue
		}
		if i > 0 && isDigit(r) {
			continue
		}
		return "", fmt.Errorf("%q is not a valid option identifier", raw)
	}
	return name, nil
}

// IsCanonical reports whether name is already in canonical form.
func IsCanonical(name string) bool {
	normalized, err := Normalize(name)
	return err == nil && normalized == name
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
