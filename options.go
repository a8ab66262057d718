package evilclient

// Option declaration refinements, passed to Builder.Option.

// Required marks the option as mandatory: construction fails when raw input
// has no value for it
func Required() OptionOpt {
	return func(spec *OptionSpec) {
		spec.Required = true
	}
}

// Optional marks the option as skippable: when absent it is simply left
// unassigned
func Optional() OptionOpt {
	return func(spec *OptionSpec) {
		spec.Required = false
	}
}

// Default sets a fallback value used when the option is absent. The value
// still passes through the option's coercer. Implies Optional
func Default(value any) OptionOpt {
	return func(spec *OptionSpec) {
		spec.Default = func() any { return value }
		spec.Required = false
	}
}

// DefaultFunc sets a fallback produced at construction time, for defaults
// that must be fresh per instance. Implies Optional
func DefaultFunc(f func() any) OptionOpt {
	return func(spec *OptionSpec) {
		spec.Default = f
		spec.Required = false
	}
}

// As exposes the option on the instance under a different name
func As(name string) OptionOpt {
	return func(spec *OptionSpec) {
		spec.As = name
	}
}

// Reader sets the visibility of the assigned value through Get
func Reader(v ReaderVisibility) OptionOpt {
	return func(spec *OptionSpec) {
		spec.Reader = v
	}
}

// Hidden keeps the option out of Get entirely. Shorthand for Reader(ReaderNone)
func Hidden() OptionOpt {
	return func(spec *OptionSpec) {
		spec.Reader = ReaderNone
	}
}

// Schema declaration options, passed to NewSchema.

// WithMetrics enables Prometheus metrics collection on the default registerer
func WithMetrics() SchemaOption {
	return func(b *Builder) {
		b.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector
func WithMetricsCollector(collector *MetricsCollector) SchemaOption {
	return func(b *Builder) {
		b.metrics = collector
	}
}

// WithReservedNames extends the set of identifiers Build rejects
func WithReservedNames(names ...string) SchemaOption {
	return func(b *Builder) {
		b.reserved = append(b.reserved, names...)
	}
}

// Resolver options, passed to NewAPIs and SingleAPI.

// WithResolverLogger sets a logger for resolution outcomes
func WithResolverLogger(logger Logger) APIsOption {
	return func(a *APIs) {
		a.logger = logger
	}
}

// WithResolverMetrics sets a metrics collector for resolution outcomes
func WithResolverMetrics(collector *MetricsCollector) APIsOption {
	return func(a *APIs) {
		a.metrics = collector
	}
}
