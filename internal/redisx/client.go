package redisx

import "github.com/redis/go-redis/v9"

// New returns a Redis client, or nil when no address is configured. Callers
// treat a nil client as "cache disabled".
func New(addr string) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr})
}
