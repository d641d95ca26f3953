// Package discovery provides node-address sources for seeding and refreshing the
// connection pool: a static list and a Redis-set-backed registry.
package discovery

import "context"

// Discoverer yields the current set of node base URLs.
type Discoverer interface {
	Discover(ctx context.Context) ([]string, error)
}

// Static is a fixed address list.
type Static struct {
	urls []string
}

// NewStatic creates a static discoverer over the given base URLs.
func NewStatic(urls ...string) *Static {
	cp := make([]string, len(urls))
	copy(cp, urls)

	return &Static{urls: cp}
}

// Discover returns the configured addresses.
func (s *Static) Discover(_ context.Context) ([]string, error) {
	out := make([]string, len(s.urls))
	copy(out, s.urls)

	return out, nil
}
