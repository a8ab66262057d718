package evilclient

import (
	"net/url"
	"strings"
)

// API is a single base-URL binding. It resolves relative addresses against
// BaseURL, optionally gated by a Match predicate.
type API struct {
	// BaseURL is the absolute URL prefix joined in front of addresses.
	// An empty BaseURL never resolves anything.
	BaseURL string

	// Match restricts which addresses the binding accepts. Nil accepts all.
	Match func(address string) bool
}

// NewAPI returns a binding for baseURL that accepts every address.
func NewAPI(baseURL string) API {
	return API{BaseURL: baseURL}
}

// Resolve joins the binding's base URL with address using exactly one slash.
// The second result is false when the binding does not apply: empty base URL,
// a declining matcher, or a joined value that is not an absolute URL.
func (a API) Resolve(address string) (string, bool) {
	if a.BaseURL == "" {
		return "", false
	}
	if a.Match != nil && !a.Match(address) {
		return "", false
	}
	joined := strings.TrimRight(a.BaseURL, "/")
	if trimmed := strings.TrimLeft(address, "/"); trimmed != "" {
		joined += "/" + trimmed
	}
	u, err := url.Parse(joined)
	if err != nil || !u.IsAbs() {
		return "", false
	}
	return joined, true
}

// APIs is an ordered collection of bindings. Resolution walks the bindings
// in insertion order and takes the first that applies. The collection is
// immutable after construction, so it is safe for concurrent use.
type APIs struct {
	list    []API
	logger  Logger
	metrics *MetricsCollector
}

// NewAPIs builds a collection from bindings, preserving their order.
func NewAPIs(apis []API, opts ...APIsOption) *APIs {
	a := &APIs{list: append([]API(nil), apis...)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SingleAPI is a convenience constructor for the common one-binding case.
func SingleAPI(baseURL string, opts ...APIsOption) *APIs {
	return NewAPIs([]API{NewAPI(baseURL)}, opts...)
}

// Resolve maps address to an absolute URL using the first binding that
// applies. When no binding applies it returns an error carrying the address
// that satisfies errors.Is(err, ErrNoMatchingAPI).
func (a *APIs) Resolve(address string) (string, error) {
	for i, api := range a.list {
		resolved, ok := api.Resolve(address)
		if !ok || resolved == "" {
			if a.logger != nil {
				a.logger.Debug("binding declined", "address", address, "binding", i)
			}
			continue
		}
		a.metrics.RecordResolution("resolved")
		if a.logger != nil {
			a.logger.Debug("address resolved", "address", address, "binding", i, "url", resolved)
		}
		return resolved, nil
	}

	a.metrics.RecordResolution("unresolved")
	if a.logger != nil {
		a.logger.Warn("address did not resolve", "address", address, "bindings", len(a.list))
	}
	return "", newResolutionError(address)
}

// List returns the bindings in insertion order. The slice is a copy.
func (a *APIs) List() []API {
	return append([]API(nil), a.list...)
}

// Append returns a new collection with more bindings placed after the
// existing ones. The receiver is left untouched.
func (a *APIs) Append(apis ...API) *APIs {
	list := make([]API, 0, len(a.list)+len(apis))
	list = append(list, a.list...)
	list = append(list, apis...)
	return &APIs{list: list, logger: a.logger, metrics: a.metrics}
}

// Len returns the number of bindings.
func (a *APIs) Len() int {
	return len(a.list)
}
