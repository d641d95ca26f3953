// Package pool implements the connection pool contract of the failover transport:
// node selection, health tracking, and the retry budget. Selection is round-robin
// over alive nodes, with optional consistent-hash affinity; failed nodes are benched
// with an exponentially growing resurrection deadline and brought back either when
// the deadline passes or, as a last resort, when nothing else is alive.
package pool

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/failover"
	"github.com/hyp3rd/failover/internal/cluster"
	"github.com/hyp3rd/failover/internal/constants"
	"github.com/hyp3rd/failover/internal/sentinel"
)

// Factory builds the connection serving one cluster node.
type Factory func(node *cluster.Node) (failover.Connection, error)

// Discoverer yields the current set of node base URLs. Satisfied by the
// implementations in pkg/discovery.
type Discoverer interface {
	Discover(ctx context.Context) ([]string, error)
}

// Pool selects connections for the transport and owns all health bookkeeping.
type Pool struct {
	mu         sync.Mutex
	membership *cluster.Membership
	conns      map[cluster.NodeID]failover.Connection
	ids        map[string]cluster.NodeID // connection ID -> node, for notifications
	factory    Factory

	rr            uint64 // round-robin cursor
	maxRetries    int
	deadTimeout   time.Duration
	ringAffinity  bool
	consecFails   int // consecutive failures since the last success, budget input
}

// New creates a pool over the given node base URLs. The factory is invoked once per
// node, lazily on first selection.
func New(urls []string, factory Factory, options ...Option) (*Pool, error) {
	if factory == nil {
		return nil, ewrap.Wrap(sentinel.ErrParamCannotBeEmpty, "factory")
	}

	p := &Pool{
		membership:  cluster.NewMembership(cluster.NewRing()),
		conns:       map[cluster.NodeID]failover.Connection{},
		ids:         map[string]cluster.NodeID{},
		factory:     factory,
		maxRetries:  constants.DefaultMaxRetries,
		deadTimeout: constants.DefaultDeadTimeout,
	}

	// Apply options
	for _, option := range options {
		option(p)
	}

	if p.maxRetries < 0 {
		return nil, sentinel.ErrInvalidMaxRetries
	}

	err := p.Update(urls)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Update reconciles membership against a fresh snapshot of node URLs: new nodes are
// added alive, vanished nodes are removed along with their connections. Health state
// of surviving nodes is preserved.
func (p *Pool) Update(urls []string) error {
	fresh := make(map[string]struct{}, len(urls))

	for _, u := range urls {
		node := cluster.NewNode("", u)

		err := node.Validate()
		if err != nil {
			return ewrap.Wrap(err, u)
		}

		fresh[string(node.ID)] = struct{}{}

		if p.membership.Get(node.ID) == nil {
			p.membership.Upsert(node)
		}
	}

	for _, n := range p.membership.List() {
		if _, ok := fresh[string(n.ID)]; ok {
			continue
		}

		p.membership.Remove(n.ID)

		p.mu.Lock()

		if conn, ok := p.conns[n.ID]; ok {
			delete(p.ids, conn.ID())
			delete(p.conns, n.ID)
		}

		p.mu.Unlock()
	}

	return nil
}

// Next selects a connection for the next attempt. Preference order: the ring owner
// when affinity is enabled and a routing key is on the context, then round-robin over
// alive nodes, then the dead node whose resurrection deadline has passed, then, as a
// last resort, the least-recently-dead node. Fails with the no-nodes sentinel only
// when membership is empty.
func (p *Pool) Next(ctx context.Context) (failover.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, ewrap.Wrap(sentinel.ErrTimeoutOrCanceled, err.Error())
	}

	node := p.selectNode(ctx)
	if node == nil {
		return nil, sentinel.ErrNoNodesAvailable
	}

	return p.connFor(node)
}

// RequestOK notifies the pool that the connection served a request successfully.
func (p *Pool) RequestOK(conn failover.Connection) {
	if conn == nil {
		return
	}

	p.mu.Lock()
	p.consecFails = 0
	id, ok := p.ids[conn.ID()]
	p.mu.Unlock()

	if ok {
		p.membership.MarkAlive(id)
	}
}

// RequestFailed marks the connection's node dead and decides whether the transport
// should retry on another connection. The budget is consecutive failures since the
// last success: once it exceeds the configured maximum, the error propagates.
// Internal-kind errors are caller mistakes: the node is left untouched and the
// error propagates without a retry.
func (p *Pool) RequestFailed(conn failover.Connection, err error) bool {
	var classified *failover.Error
	if errors.As(err, &classified) && classified.Kind == failover.KindInternal {
		return false
	}

	p.mu.Lock()
	p.consecFails++
	fails := p.consecFails
	id, ok := p.ids[conn.ID()]
	p.mu.Unlock()

	if ok {
		p.membership.MarkDead(id)
	}

	return fails <= p.maxRetries
}

// selectNode picks the node for the next attempt, or nil when membership is empty.
func (p *Pool) selectNode(ctx context.Context) *cluster.Node {
	nodes := p.membership.List()
	if len(nodes) == 0 {
		return nil
	}

	if p.ringAffinity {
		if key, ok := routingKeyFrom(ctx); ok {
			if owner, found := p.membership.Ring().Owner(key); found {
				if n := p.membership.Get(owner); n != nil && n.State != cluster.NodeDead {
					return n
				}
			}
		}
	}

	alive := make([]*cluster.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.State != cluster.NodeDead {
			alive = append(alive, n)
		}
	}

	if len(alive) > 0 {
		p.mu.Lock()
		idx := int(p.rr % uint64(len(alive)))
		p.rr++
		p.mu.Unlock()

		return alive[idx]
	}

	return p.resurrect(nodes)
}

// resurrect returns the best dead candidate: the one whose deadline expired longest
// ago, or, when none has expired, the least-recently-dead one. The node is marked
// suspect; the outcome of its trial attempt settles its state.
func (p *Pool) resurrect(nodes []*cluster.Node) *cluster.Node {
	var candidate *cluster.Node

	for _, n := range nodes {
		if candidate == nil {
			candidate = n

			continue
		}

		if n.ResurrectAt(p.deadTimeout).Before(candidate.ResurrectAt(p.deadTimeout)) {
			candidate = n
		}
	}

	if candidate == nil {
		return nil
	}

	p.membership.MarkSuspect(candidate.ID)
	candidate.State = cluster.NodeSuspect

	return candidate
}

// connFor returns the cached connection for the node, building it on first use.
func (p *Pool) connFor(node *cluster.Node) (failover.Connection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if conn, ok := p.conns[node.ID]; ok {
		return conn, nil
	}

	conn, err := p.factory(node)
	if err != nil {
		return nil, ewrap.Wrap(err, "build connection")
	}

	if conn == nil {
		return nil, sentinel.ErrNilConnection
	}

	p.conns[node.ID] = conn
	p.ids[conn.ID()] = node.ID

	return conn, nil
}

// StartDiscovery refreshes membership from the discoverer at the given interval
// until the context ends. Discovery failures leave the current membership in place.
func (p *Pool) StartDiscovery(ctx context.Context, d Discoverer, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				urls, err := d.Discover(ctx)
				if err != nil {
					continue
				}

				_ = p.Update(urls)
			}
		}
	}()
}

// MembershipSnapshot exposes the current nodes for the management endpoints.
func (p *Pool) MembershipSnapshot() (
	members []struct {
		ID       string
		URL      string
		State    string
		Failures int
	},
	version uint64,
) {
	for _, n := range p.membership.List() {
		members = append(members, struct {
			ID       string
			URL      string
			State    string
			Failures int
		}{ID: string(n.ID), URL: n.URL, State: n.State.String(), Failures: n.Failures})
	}

	return members, p.membership.Version()
}

// RingHashSpots exposes the ring layout for the management endpoints (debug only).
func (p *Pool) RingHashSpots() []string {
	return p.membership.Ring().VNodeHashes()
}
