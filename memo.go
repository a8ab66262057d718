package evilclient

import "fmt"

// Memo returns the value of the named memoized attribute, computing it on
// first access. A successful computation is pinned for the instance
// lifetime and concurrent callers share it. A failed computation is not
// cached; the next call runs the compute function again.
func (s *Settings) Memo(name string) (any, error) {
	if s.schema == nil {
		return nil, newSchemaError("", name, fmt.Sprintf("unknown memoized attribute %q", name), nil)
	}
	i, ok := s.schema.memoIndex[name]
	if !ok {
		return nil, newSchemaError(s.schema.name, name, fmt.Sprintf("unknown memoized attribute %q", name), nil)
	}
	spec := s.schema.memos[i]

	return s.memo.Do(name, func() (any, error) {
		value, err := spec.Compute(s)
		if err != nil {
			if l := s.Logger(); l != nil {
				l.Warn("memo compute failed", "schema", s.schema.name, "attribute", name, "error", err)
			}
			return nil, err
		}
		s.schema.metrics.RecordMemoCompute(s.schema.name, name)
		if l := s.Logger(); l != nil {
			l.Debug("memo computed", "schema", s.schema.name, "attribute", name)
		}
		return value, nil
	})
}

// Memoized reports whether the named attribute already holds a pinned or
// in-flight computation.
func (s *Settings) Memoized(name string) bool {
	if s.schema == nil {
		return false
	}
	return s.memo.Has(name)
}

// MemoNames returns the memoized attribute names in declaration order,
// inherited ones first.
func (s *Settings) MemoNames() []string {
	if s.schema == nil {
		return nil
	}
	names := make([]string, 0, len(s.schema.memos))
	for _, m := range s.schema.memos {
		names = append(names, m.Name)
	}
	return names
}
