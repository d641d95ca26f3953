package constants

const (
	// RedisDiscoveryKey is the default Redis set holding the advertised node URLs.
	RedisDiscoveryKey = "failover:nodes"
)
