package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/anatolia-commerce/cargo-gateway/internal/core/ports"
)

const (
	lockKeyPrefix = "shipcreate:"
	// lockTTL caps how long an abandoned lock can block an order. A
	// creation attempt finishes well inside this window.
	lockTTL = 30 * time.Second
)

// CreationLock is the Redis-backed per-order advisory lock for shipment
// creation. Best effort: the carrier's duplicate detection remains the
// correctness guarantee when Redis is unavailable.
type CreationLock struct {
	client *redis.Client
	log    zerolog.Logger
}

var _ ports.CreationLock = (*CreationLock)(nil)

func NewCreationLock(client *redis.Client, log zerolog.Logger) *CreationLock {
	return &CreationLock{client: client, log: log}
}

func (l *CreationLock) Acquire(ctx context.Context, orderID string) (bool, error) {
	return l.client.SetNX(ctx, lockKeyPrefix+orderID, "1", lockTTL).Result()
}

func (l *CreationLock) Release(ctx context.Context, orderID string) {
	if err := l.client.Del(ctx, lockKeyPrefix+orderID).Err(); err != nil {
		l.log.Warn().Err(err).Str("order_id", orderID).Msg("creation lock release failed, TTL will expire it")
	}
}
