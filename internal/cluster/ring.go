package cluster

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/hyp3rd/failover/internal/constants"
)

// Ring implements a consistent hashing ring with virtual nodes. The pool uses it
// for affinity selection: requests with the same routing key land on the same node
// while it stays healthy.
type Ring struct {
	mu        sync.RWMutex
	vnodes    []vnode
	vnPerNode int
}

type vnode struct {
	hash uint64
	nid  NodeID
}

// RingOption configures ring.
type RingOption func(*Ring)

// WithVirtualNodes sets the number of virtual nodes per physical node.
func WithVirtualNodes(n int) RingOption {
	return func(r *Ring) {
		if n > 0 {
			r.vnPerNode = n
		}
	}
}

// NewRing constructs a new Ring applying provided options.
func NewRing(opts ...RingOption) *Ring {
	r := &Ring{vnPerNode: constants.DefaultVirtualNodes}
	for _, o := range opts {
		o(r)
	}

	return r
}

// Build rebuilds the ring using the supplied node list (copy-on-write).
func (r *Ring) Build(nodes []*Node) {
	vn := make([]vnode, 0, len(nodes)*r.vnPerNode)
	for _, node := range nodes {
		base := []byte(node.ID)
		for i := 0; i < r.vnPerNode; i++ { //nolint:intrange
			// combine node id and vnode index (allocate new slice to avoid touching base backing array)
			buf := make([]byte, len(base)+1)
			copy(buf, base)

			buf[len(base)] = byte(i)

			hv := xxhash.Sum64(buf)

			vn = append(vn, vnode{hash: hv, nid: node.ID})
		}
	}

	sort.Slice(vn, func(i, j int) bool { return vn[i].hash < vn[j].hash })
	r.mu.Lock()

	r.vnodes = vn
	r.mu.Unlock()
}

// Owner returns the node owning the key, and false when the ring is empty.
func (r *Ring) Owner(key string) (NodeID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.vnodes) == 0 {
		return "", false
	}

	target := xxhash.Sum64String(key)

	idx := sort.Search(len(r.vnodes), func(i int) bool { return r.vnodes[i].hash >= target })
	if idx == len(r.vnodes) {
		idx = 0
	}

	return r.vnodes[idx].nid, true
}

// VirtualNodesPerNode returns configured virtual nodes per physical node.
func (r *Ring) VirtualNodesPerNode() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.vnPerNode
}

// VNodeHashes returns a copy of vnode hash values as hex strings (debug only).
func (r *Ring) VNodeHashes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.vnodes))
	for _, v := range r.vnodes {
		out = append(out, fmt.Sprintf("%016x:%s", v.hash, v.nid))
	}

	return out
}
