// Package constants defines default configuration values for the failover
// transport: pool health and retry settings, connection timeouts, ring layout,
// and the management HTTP server.
package constants

import "time"

const (
	// DefaultMaxRetries is the default pool retry budget: the number of failed
	// attempts tolerated after the first before a request settles as failed.
	DefaultMaxRetries = 3
	// DefaultDeadTimeout is the base interval a node stays dead before the pool
	// considers resurrecting it. The effective interval doubles with consecutive
	// failures.
	DefaultDeadTimeout = 1 * time.Minute
	// DefaultVirtualNodes is the number of hash spots each node claims on the ring.
	DefaultVirtualNodes = 64
	// DefaultConnTimeout is the per-attempt HTTP client timeout.
	DefaultConnTimeout = 10 * time.Second
	// DefaultMgmtReadTimeout is the management HTTP server read timeout.
	DefaultMgmtReadTimeout = 5 * time.Second
	// DefaultMgmtWriteTimeout is the management HTTP server write timeout.
	DefaultMgmtWriteTimeout = 5 * time.Second
)
