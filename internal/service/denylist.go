package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "auth:denylist:"

// TokenDenylist holds revoked access tokens until they expire on their own
type TokenDenylist interface {
	Deny(ctx context.Context, token string, ttl time.Duration) error
	IsDenied(ctx context.Context, token string) bool
}

type redisDenylist struct {
	client *redis.Client
}

// NewTokenDenylist creates a redis-backed denylist
func NewTokenDenylist(client *redis.Client) TokenDenylist {
	return &redisDenylist{client: client}
}

// denylistKey hashes the token so raw credentials never land in redis
func denylistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return denylistPrefix + hex.EncodeToString(sum[:])
}

func (d *redisDenylist) Deny(ctx context.Context, token string, ttl time.Duration) error {
	return d.client.Set(ctx, denylistKey(token), "revoked", ttl).Err()
}

func (d *redisDenylist) IsDenied(ctx context.Context, token string) bool {
	n, err := d.client.Exists(ctx, denylistKey(token)).Result()
	if err != nil {
		// Fail open: an unreachable redis must not lock every user out
		return false
	}
	return n > 0
}
