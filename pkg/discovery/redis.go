package discovery

import (
	"context"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/failover/internal/constants"
	"github.com/hyp3rd/failover/internal/sentinel"
)

// setReader is the slice of the redis client surface the discoverer needs.
// Satisfied by *redis.Client, *redis.ClusterClient and redis.UniversalClient.
type setReader interface {
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
}

// Redis reads node base URLs from a Redis set acting as a lightweight service
// registry: nodes register themselves under the key, the pool discovers them here.
type Redis struct {
	client setReader
	key    string
}

// NewRedis creates a discoverer over the given client and registry key. An empty
// key falls back to the default registry set.
func NewRedis(client redis.UniversalClient, key string) (*Redis, error) {
	if client == nil {
		return nil, ewrap.Wrap(sentinel.ErrParamCannotBeEmpty, "client")
	}

	if key == "" {
		key = constants.RedisDiscoveryKey
	}

	return &Redis{client: client, key: key}, nil
}

// Discover returns the registered addresses, sorted for stable membership diffs.
func (r *Redis) Discover(ctx context.Context) ([]string, error) {
	urls, err := r.client.SMembers(ctx, r.key).Result()
	if err != nil {
		return nil, ewrap.Wrap(err, "smembers")
	}

	sort.Strings(urls)

	return urls, nil
}
