// Package failover implements a request transport with connection-pool-driven retry
// and failover for multi-node service clusters.
//
// A Transport delivers one logical request against one node of the cluster: it asks
// the ConnectionPool for a candidate Connection, delegates the attempt to it, and on
// transient failure asks the pool whether to retry on another node, repeating until
// success, budget exhaustion, or a non-retryable error. The retry limit, health
// tracking, and node selection are entirely the pool's responsibility; the transport
// only executes the pool's decision and reports every stage through the Logger
// contract.
//
// The root package holds the orchestration logic and the collaborator contracts
// (Connection, ConnectionPool, Logger). Reference implementations live under pkg/:
// pkg/pool (health-tracked round-robin pool over cluster nodes), pkg/conn (HTTP
// connection), pkg/logging (zerolog sink), pkg/middleware (observability
// decorators), and pkg/discovery (node address sources).
package failover
