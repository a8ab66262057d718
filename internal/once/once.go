// Package once provides a keyed compute-once group. Unlike a plain
// singleflight, successful results are pinned for the lifetime of the group
// so later calls return the cached value without re-running the function;
// failed computes are forgotten and retried on the next call.
package once

import "sync"

// Group coalesces concurrent computes per key and caches the first
// successful result. It is safe for concurrent use.
type Group struct {
	mu sync.Mutex
	m  map[string]*cell
}

// cell represents an in-flight or completed compute for one key.
type cell struct {
	wg  sync.WaitGroup
	val any
	err error
}

// New creates an empty Group.
func New() *Group {
	return &Group{
		m: make(map[string]*cell),
	}
}

// Do returns the pinned result for key, or runs fn to produce it. Concurrent
// callers for the same key wait for the owner and receive the same result.
// A result with a non-nil error is not pinned; the next Do runs fn again.
func (g *Group) Do(key string, fn func() (any, error)) (any, error) {
	g.mu.Lock()
	if c, ok := g.m[key]; ok {
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err
	}

	c := &cell{}
	c.wg.Add(1)
	g.m[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()
	if c.err != nil {
		g.mu.Lock()
		if g.m[key] == c {
			delete(g.m, key)
		}
		g.mu.Unlock()
	}
	c.wg.Done()

	return c.val, c.err
}

// Has reports whether key currently holds a pinned or in-flight compute.
func (g *Group) Has(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.m[key]
	return ok
}

// Forget drops the pinned result for key so the next Do recomputes it.
// Callers relying on compute-once semantics should not use this casually.
func (g *Group) Forget(key string) {
	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()
}
