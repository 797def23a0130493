package history

import (
	"fmt"
	"time"

	"github.com/albatrocity/radio-room-server-sub000/pkg/rule"
	"github.com/go-redis/redis/v8"
)

// Supported ledger backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

var (
	_ rule.Ledger = (*MemoryLedger)(nil)
	_ rule.Ledger = (*RedisLedger)(nil)
)

// New returns the ledger for the configured backend.
func New(backend string, client *redis.Client, ttl time.Duration) (rule.Ledger, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryLedger(), nil
	case BackendRedis:
		if client == nil {
			return nil, fmt.Errorf("redis ledger requires a redis client")
		}
		return NewRedisLedger(client, ttl), nil
	}
	return nil, fmt.Errorf("unknown ledger backend %q", backend)
}
