package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client is the subset of go-redis the repositories use. Any single-node,
// cluster or failover client satisfies it.
type Client interface {
	redis.UniversalClient
}
