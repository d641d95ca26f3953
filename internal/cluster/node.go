package cluster

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/failover/internal/sentinel"
)

// NodeState represents the health state of a node.
type NodeState int

// Node state enumeration.
const (
	NodeAlive NodeState = iota
	NodeSuspect
	NodeDead
)

// internal constants.
const (
	nodeIDBytes = 8
	byteShift   = 8 // bits per byte for id derivation

	maxDeadDoublings = 6 // caps the resurrection backoff growth
)

func (s NodeState) String() string {
	switch s {
	case NodeAlive:
		return "alive"
	case NodeSuspect:
		return "suspect"
	case NodeDead:
		return "dead"
	}

	return "unknown"
}

// NodeID is a stable identifier for a node.
type NodeID string

// Node holds identity & health bookkeeping for one cluster endpoint.
type Node struct {
	ID        NodeID
	URL       string // base URL (scheme://host:port) for requests
	State     NodeState
	Failures  int // accumulated consecutive failures, reset on success
	DeadSince time.Time
	LastSeen  time.Time
}

// NewNode creates a node from a base URL. If id empty, derive a short hex id using xxhash64.
func NewNode(id string, rawURL string) *Node {
	if id == "" {
		hv := xxhash.Sum64String(rawURL)

		b := make([]byte, nodeIDBytes)
		for i := 0; i < nodeIDBytes; i++ { //nolint:intrange
			b[i] = byte(hv >> (byteShift * i))
		}

		id = hex.EncodeToString(b)
	}

	return &Node{ID: NodeID(id), URL: rawURL, State: NodeAlive, LastSeen: time.Now()}
}

// Validate basic fields.
func (n *Node) Validate() error {
	if strings.TrimSpace(n.URL) == "" {
		return sentinel.ErrEmptyAddress
	}

	u, err := url.Parse(n.URL)
	if err != nil {
		return ewrap.Wrap(err, "parse node url")
	}

	if u.Scheme == "" || u.Host == "" {
		return ewrap.Wrap(sentinel.ErrEmptyAddress, n.URL)
	}

	return nil
}

// MarkDead flips the node to dead, incrementing the failure count and stamping DeadSince.
func (n *Node) MarkDead(now time.Time) {
	n.State = NodeDead
	n.Failures++
	n.DeadSince = now
}

// MarkAlive restores the node and clears its failure history.
func (n *Node) MarkAlive(now time.Time) {
	n.State = NodeAlive
	n.Failures = 0
	n.DeadSince = time.Time{}
	n.LastSeen = now
}

// ResurrectAt returns the instant the node becomes eligible for another attempt.
// The deadline grows exponentially with accumulated failures, capped so a flapping
// node is never benched for more than base<<maxDeadDoublings.
func (n *Node) ResurrectAt(base time.Duration) time.Time {
	doublings := n.Failures - 1
	if doublings < 0 {
		doublings = 0
	}

	if doublings > maxDeadDoublings {
		doublings = maxDeadDoublings
	}

	return n.DeadSince.Add(base << doublings)
}

// String renders the node for logs.
func (n *Node) String() string {
	return fmt.Sprintf("%s(%s)[%s]", n.ID, n.URL, n.State)
}
