package cluster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNode_DerivesID(t *testing.T) {
	a := NewNode("", "http://a:9200")
	b := NewNode("", "http://b:9200")

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)

	// Same URL, same derived id.
	assert.Equal(t, a.ID, NewNode("", "http://a:9200").ID)
}

func TestNode_Validate(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "valid", url: "http://a:9200", wantErr: false},
		{name: "empty", url: "", wantErr: true},
		{name: "no scheme", url: "a:9200", wantErr: true},
		{name: "whitespace", url: "   ", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := NewNode("", test.url).Validate()
			if test.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNode_DeadLifecycle(t *testing.T) {
	n := NewNode("", "http://a:9200")
	now := time.Now()

	n.MarkDead(now)
	assert.Equal(t, NodeDead, n.State)
	assert.Equal(t, 1, n.Failures)
	assert.Equal(t, now, n.DeadSince)

	n.MarkAlive(now)
	assert.Equal(t, NodeAlive, n.State)
	assert.Equal(t, 0, n.Failures)
	assert.True(t, n.DeadSince.IsZero())
}

func TestNode_ResurrectAtBacksOff(t *testing.T) {
	n := NewNode("", "http://a:9200")
	base := time.Minute
	now := time.Now()

	n.MarkDead(now)
	first := n.ResurrectAt(base)
	assert.Equal(t, now.Add(base), first)

	n.MarkDead(now)
	second := n.ResurrectAt(base)
	assert.Equal(t, now.Add(2*base), second)

	// Growth is capped.
	for range 20 {
		n.MarkDead(now)
	}

	assert.Equal(t, now.Add(base<<maxDeadDoublings), n.ResurrectAt(base))
}

func TestMembership_Lifecycle(t *testing.T) {
	m := NewMembership(NewRing())

	a := NewNode("", "http://a:9200")
	b := NewNode("", "http://b:9200")

	m.Upsert(a)
	m.Upsert(b)
	assert.Len(t, m.List(), 2)

	v := m.Version()

	require.True(t, m.MarkDead(a.ID))
	assert.Greater(t, m.Version(), v)

	got := m.Get(a.ID)
	require.NotNil(t, got)
	assert.Equal(t, NodeDead, got.State)

	require.True(t, m.MarkAlive(a.ID))
	assert.Equal(t, NodeAlive, m.Get(a.ID).State)

	require.True(t, m.Remove(a.ID))
	assert.Nil(t, m.Get(a.ID))
	assert.False(t, m.Remove(a.ID))
}

func TestMembership_GetReturnsCopy(t *testing.T) {
	m := NewMembership(NewRing())
	a := NewNode("", "http://a:9200")
	m.Upsert(a)

	cp := m.Get(a.ID)
	cp.State = NodeDead

	assert.Equal(t, NodeAlive, m.Get(a.ID).State)
}

func TestRing_OwnerStability(t *testing.T) {
	ring := NewRing()
	nodes := []*Node{
		NewNode("", "http://a:9200"),
		NewNode("", "http://b:9200"),
		NewNode("", "http://c:9200"),
	}
	ring.Build(nodes)

	owner, ok := ring.Owner("tenant-42")
	require.True(t, ok)

	for range 10 {
		again, _ := ring.Owner("tenant-42")
		assert.Equal(t, owner, again)
	}
}

func TestRing_Empty(t *testing.T) {
	_, ok := NewRing().Owner("tenant-42")
	assert.False(t, ok)
}

func TestRing_RebuildDropsNode(t *testing.T) {
	ring := NewRing(WithVirtualNodes(16))
	a := NewNode("", "http://a:9200")
	b := NewNode("", "http://b:9200")

	ring.Build([]*Node{a, b})
	assert.Len(t, ring.VNodeHashes(), 32)

	ring.Build([]*Node{b})

	owner, ok := ring.Owner("anything")
	require.True(t, ok)
	assert.Equal(t, b.ID, owner)
}
