// Package evilclient provides the two building blocks for constructing
// declarative HTTP API clients:
//
//   - APIs: an ordered collection of base-URL bindings that resolves
//     relative addresses first-match-wins
//   - Schema / Settings: declarative, typed option containers with coercion,
//     defaults, required options, inheritance-aware validation and memoized
//     attributes
//
// Design goals:
//   - Declarations are immutable – a Builder collects them, Build freezes them
//   - Small surface area – functional options configure everything
//   - Safe concurrent use of a single *Schema and the *Settings it produces
//   - Extensibility via user supplied coercers, checks and pluggable
//     logging / metrics
//
// Typical usage:
//
//	schema := evilclient.NewSchema("CatsClient").
//	    Option("token", evilclient.NonEmptyString).
//	    Option("version", evilclient.ToInt, evilclient.Default(1)).
//	    Let("auth_header", func(s *evilclient.Settings) (any, error) {
//	        token, _ := s.Get("token")
//	        return fmt.Sprintf("Bearer %v", token), nil
//	    }).
//	    MustBuild()
//
//	settings, err := schema.New(logger, map[string]any{"token": "abc"})
//
//	apis := evilclient.SingleAPI("https://api.example.com/v1")
//	url, err := apis.Resolve("cats/42")
//
// Construction surfaces one validation error at a time with the offending
// option named; declaration problems are aggregated and reported together by
// Build. The library avoids opinionated logging: provide a Logger (e.g.
// NewSimpleLogger, or the zap / slog adapters) for insight without noise.
package evilclient
