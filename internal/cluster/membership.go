// Package cluster contains primitives for node identity, health tracking and
// consistent hashing used by the connection pool.
package cluster

import (
	"sync"
	"time"
)

// Membership tracks the current cluster nodes and their health states.
type Membership struct {
	mu    sync.RWMutex
	nodes map[NodeID]*Node
	ring  *Ring
	ver   MembershipVersion
}

// NewMembership creates a new membership container bound to a ring.
func NewMembership(ring *Ring) *Membership { return &Membership{nodes: map[NodeID]*Node{}, ring: ring} }

// Upsert adds or updates a node and rebuilds the ring.
func (m *Membership) Upsert(n *Node) {
	m.mu.Lock()

	n.LastSeen = time.Now()
	m.nodes[n.ID] = n

	m.ver.Next()
	m.mu.Unlock()

	m.rebuildRing()
}

// Get returns a snapshot copy of the node with the given id, or nil.
func (m *Membership) Get(id NodeID) *Node {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.nodes[id]
	if !ok {
		return nil
	}

	cp := *n

	return &cp
}

// MarkSuspect flags a node under trial resurrection. Returns true if the node exists.
func (m *Membership) MarkSuspect(id NodeID) bool {
	m.mu.Lock()

	n, ok := m.nodes[id]
	if ok {
		n.State = NodeSuspect
		m.ver.Next()
	}

	m.mu.Unlock()

	return ok
}

// List returns a snapshot of the current nodes.
func (m *Membership) List() []*Node {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Node, 0, len(m.nodes))
	for _, v := range m.nodes {
		if v == nil {
			continue
		}

		cp := *v

		out = append(out, &cp)
	}

	return out
}

// Ring returns the underlying ring reference.
func (m *Membership) Ring() *Ring { return m.ring }

// Remove deletes a node from membership and rebuilds the ring. Returns true if removed.
func (m *Membership) Remove(id NodeID) bool {
	m.mu.Lock()

	_, ok := m.nodes[id]
	if !ok {
		m.mu.Unlock()

		return false
	}

	delete(m.nodes, id)

	m.ver.Next()
	m.mu.Unlock()

	m.rebuildRing()

	return true
}

// MarkDead records a failure on the node, benching it until its resurrection deadline.
// Returns true if the node exists.
func (m *Membership) MarkDead(id NodeID) bool {
	m.mu.Lock()

	n, ok := m.nodes[id]
	if ok {
		n.MarkDead(time.Now())
		m.ver.Next()
	}

	m.mu.Unlock()

	if ok {
		m.rebuildRing()
	}

	return ok
}

// MarkAlive restores the node and clears its failure history. Returns true if the node exists.
func (m *Membership) MarkAlive(id NodeID) bool {
	m.mu.Lock()

	n, ok := m.nodes[id]
	if ok {
		changed := n.State != NodeAlive

		n.MarkAlive(time.Now())

		if changed {
			m.ver.Next()
		}
	}

	m.mu.Unlock()

	if ok {
		m.rebuildRing()
	}

	return ok
}

// Version returns current membership version.
func (m *Membership) Version() uint64 { return m.ver.Get() }

// rebuildRing rebuilds ring ownership from the nodes that are not dead.
func (m *Membership) rebuildRing() {
	m.mu.RLock()

	nodes := make([]*Node, 0, len(m.nodes))
	for _, v := range m.nodes { // exclude dead nodes from ring ownership
		if v.State != NodeDead {
			nodes = append(nodes, v)
		}
	}

	m.mu.RUnlock()

	m.ring.Build(nodes)
}
