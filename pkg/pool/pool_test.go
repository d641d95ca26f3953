package pool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyp3rd/failover"
	"github.com/hyp3rd/failover/internal/cluster"
	"github.com/hyp3rd/failover/internal/sentinel"
)

type stubConn struct {
	id string
}

func (c *stubConn) Perform(context.Context, *failover.Request) (*failover.Response, error) {
	return &failover.Response{StatusCode: 200}, nil
}

func (c *stubConn) ID() string { return c.id }

func stubFactory(node *cluster.Node) (failover.Connection, error) {
	return &stubConn{id: node.URL}, nil
}

func TestNew_Validation(t *testing.T) {
	_, err := New([]string{"http://a:9200"}, nil)
	require.ErrorIs(t, err, sentinel.ErrParamCannotBeEmpty)

	_, err = New([]string{"not-a-url"}, stubFactory)
	require.Error(t, err)

	_, err = New([]string{"http://a:9200"}, stubFactory, WithMaxRetries(-1))
	require.ErrorIs(t, err, sentinel.ErrInvalidMaxRetries)
}

func TestNext_RoundRobin(t *testing.T) {
	p, err := New([]string{"http://a:9200", "http://b:9200", "http://c:9200"}, stubFactory)
	require.NoError(t, err)

	seen := map[string]int{}

	for range 6 {
		conn, nerr := p.Next(context.Background())
		require.NoError(t, nerr)

		seen[conn.ID()]++
	}

	// Every node served an equal share.
	assert.Len(t, seen, 3)
	for _, count := range seen {
		assert.Equal(t, 2, count)
	}
}

func TestNext_EmptyMembership(t *testing.T) {
	p, err := New(nil, stubFactory)
	require.NoError(t, err)

	_, err = p.Next(context.Background())
	require.ErrorIs(t, err, sentinel.ErrNoNodesAvailable)
}

func TestNext_ContextCanceled(t *testing.T) {
	p, err := New([]string{"http://a:9200"}, stubFactory)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Next(ctx)
	require.ErrorIs(t, err, sentinel.ErrTimeoutOrCanceled)
}

func TestRequestFailed_BenchesNode(t *testing.T) {
	p, err := New([]string{"http://a:9200", "http://b:9200"}, stubFactory)
	require.NoError(t, err)

	conn, err := p.Next(context.Background())
	require.NoError(t, err)

	retry := p.RequestFailed(conn, errors.New("boom"))
	assert.True(t, retry)

	// The failed node is dead; selection sticks to the survivor.
	for range 4 {
		next, nerr := p.Next(context.Background())
		require.NoError(t, nerr)
		assert.True(t, next.ID() != conn.ID())
	}
}

func TestRequestFailed_BudgetExhaustion(t *testing.T) {
	p, err := New([]string{"http://a:9200"}, stubFactory, WithMaxRetries(2))
	require.NoError(t, err)

	conn, err := p.Next(context.Background())
	require.NoError(t, err)

	assert.True(t, p.RequestFailed(conn, errors.New("boom")))
	assert.True(t, p.RequestFailed(conn, errors.New("boom")))
	assert.False(t, p.RequestFailed(conn, errors.New("boom")))
}

func TestRequestFailed_InternalNeverRetries(t *testing.T) {
	p, err := New([]string{"http://a:9200", "http://b:9200"}, stubFactory)
	require.NoError(t, err)

	conn, err := p.Next(context.Background())
	require.NoError(t, err)

	internal := failover.NewInternalError(&failover.Request{}, sentinel.ErrMissingPath)
	assert.False(t, p.RequestFailed(conn, internal))

	// The caller's mistake leaves the node's health untouched: it keeps serving.
	seen := map[string]int{}

	for range 4 {
		next, nerr := p.Next(context.Background())
		require.NoError(t, nerr)

		seen[next.ID()]++
	}

	assert.Len(t, seen, 2)
}

func TestRequestOK_ResetsBudget(t *testing.T) {
	p, err := New([]string{"http://a:9200"}, stubFactory, WithMaxRetries(1))
	require.NoError(t, err)

	conn, err := p.Next(context.Background())
	require.NoError(t, err)

	assert.True(t, p.RequestFailed(conn, errors.New("boom")))
	p.RequestOK(conn)

	// Fresh budget after a success.
	assert.True(t, p.RequestFailed(conn, errors.New("boom")))
}

func TestNext_ResurrectsWhenAllDead(t *testing.T) {
	p, err := New([]string{"http://a:9200"}, stubFactory, WithDeadTimeout(time.Hour))
	require.NoError(t, err)

	conn, err := p.Next(context.Background())
	require.NoError(t, err)

	p.RequestFailed(conn, errors.New("boom"))

	// Sole node is dead with an unexpired deadline: still offered as last resort.
	again, err := p.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, conn.ID(), again.ID())

	members, _ := p.MembershipSnapshot()
	require.Len(t, members, 1)
	assert.Equal(t, cluster.NodeSuspect.String(), members[0].State)
}

func TestRequestOK_RevivesNode(t *testing.T) {
	p, err := New([]string{"http://a:9200"}, stubFactory)
	require.NoError(t, err)

	conn, err := p.Next(context.Background())
	require.NoError(t, err)

	p.RequestFailed(conn, errors.New("boom"))
	p.RequestOK(conn)

	members, _ := p.MembershipSnapshot()
	require.Len(t, members, 1)
	assert.Equal(t, cluster.NodeAlive.String(), members[0].State)
	assert.Equal(t, 0, members[0].Failures)
}

func TestUpdate_ReconcilesMembership(t *testing.T) {
	p, err := New([]string{"http://a:9200", "http://b:9200"}, stubFactory)
	require.NoError(t, err)

	require.NoError(t, p.Update([]string{"http://b:9200", "http://c:9200"}))

	members, _ := p.MembershipSnapshot()
	require.Len(t, members, 2)

	urls := map[string]bool{}
	for _, m := range members {
		urls[m.URL] = true
	}

	assert.True(t, urls["http://b:9200"])
	assert.True(t, urls["http://c:9200"])
	assert.False(t, urls["http://a:9200"])
}

func TestUpdate_PreservesHealthState(t *testing.T) {
	p, err := New([]string{"http://a:9200", "http://b:9200"}, stubFactory)
	require.NoError(t, err)

	conn, err := p.Next(context.Background())
	require.NoError(t, err)

	p.RequestFailed(conn, errors.New("boom"))

	require.NoError(t, p.Update([]string{"http://a:9200", "http://b:9200"}))

	members, _ := p.MembershipSnapshot()

	dead := 0
	for _, m := range members {
		if m.State == cluster.NodeDead.String() {
			dead++
		}
	}

	assert.Equal(t, 1, dead)
}

func TestRingAffinity(t *testing.T) {
	p, err := New([]string{"http://a:9200", "http://b:9200", "http://c:9200"}, stubFactory, WithRingAffinity())
	require.NoError(t, err)

	ctx := ContextWithRoutingKey(context.Background(), "tenant-42")

	first, err := p.Next(ctx)
	require.NoError(t, err)

	// Same key lands on the same node while it stays healthy.
	for range 5 {
		conn, nerr := p.Next(ctx)
		require.NoError(t, nerr)
		assert.Equal(t, first.ID(), conn.ID())
	}

	// Without a key, selection falls back to round-robin over all nodes.
	seen := map[string]bool{}
	for range 6 {
		conn, nerr := p.Next(context.Background())
		require.NoError(t, nerr)

		seen[conn.ID()] = true
	}

	assert.Len(t, seen, 3)
}

func TestStartDiscovery_RefreshesMembership(t *testing.T) {
	p, err := New([]string{"http://a:9200"}, stubFactory)
	require.NoError(t, err)

	d := &stubDiscoverer{urls: []string{"http://a:9200", "http://b:9200"}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.StartDiscovery(ctx, d, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		members, _ := p.MembershipSnapshot()

		return len(members) == 2
	}, time.Second, 10*time.Millisecond)
}

type stubDiscoverer struct {
	urls []string
}

func (d *stubDiscoverer) Discover(context.Context) ([]string, error) {
	return d.urls, nil
}
