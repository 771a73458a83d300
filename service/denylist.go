// file: service/denylist.go

package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ITokenDenylist records access tokens revoked before their natural expiry.
type ITokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// ICacheClient is the subset of the Redis client the denylist needs. It keeps
// the service decoupled from a concrete client for testing.
type ICacheClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisDenylist stores one expiring key per revoked token id, so the set
// never outlives the tokens it describes.
type RedisDenylist struct {
	client ICacheClient
	prefix string
}

func NewRedisDenylist(client ICacheClient) *RedisDenylist {
	return &RedisDenylist{client: client, prefix: "denylist:"}
}

func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, d.prefix+tokenID, 1, ttl).Err()
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.prefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
