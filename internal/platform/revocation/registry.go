// Package revocation implements the TTL-bounded denylist of invalidated
// tokens backed by Redis, plus the per-user index of outstanding tokens
// needed for bulk revocation.
package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTLSource reports how long a token would stay naturally valid. Denylist
// entries self-expire exactly when the token would have, which bounds the
// registry size without a sweep.
type TTLSource interface {
	RemainingTTL(token string) time.Duration
}

// Registry is the Redis-backed revocation registry.
type Registry struct {
	client *redis.Client
	prefix string
	ttls   TTLSource

	// indexTTL caps the lifetime of each per-user index set. It must be at
	// least the refresh-token TTL so the index outlives every token in it.
	indexTTL time.Duration
}

// NewRegistry creates a registry. indexTTL should be the refresh-token TTL.
func NewRegistry(client *redis.Client, prefix string, ttls TTLSource, indexTTL time.Duration) *Registry {
	return &Registry{
		client:   client,
		prefix:   prefix,
		ttls:     ttls,
		indexTTL: indexTTL,
	}
}

// deniedKey returns the Redis key for a denied token.
func (r *Registry) deniedKey(token string) string {
	return fmt.Sprintf("%s:denied:%s", r.prefix, token)
}

// userKey returns the Redis key for a user's outstanding-token set.
func (r *Registry) userKey(userID uint) string {
	return fmt.Sprintf("%s:user:%d", r.prefix, userID)
}

// Deny upserts a denylist entry whose TTL equals the token's remaining
// natural lifetime. A token with no remaining lifetime needs no entry.
func (r *Registry) Deny(ctx context.Context, tok string) error {
	ttl := r.ttls.RemainingTTL(tok)
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.deniedKey(tok), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to deny token: %w", err)
	}
	return nil
}

// IsDenied reports whether the token has been explicitly invalidated.
func (r *Registry) IsDenied(ctx context.Context, tok string) (bool, error) {
	n, err := r.client.Exists(ctx, r.deniedKey(tok)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check denylist: %w", err)
	}
	return n > 0, nil
}

// Register records freshly issued tokens in the user's outstanding-token
// index. It must run before the tokens are handed to the caller, so a
// concurrent revoke-all either captures them or they belong to a session
// created strictly after it.
func (r *Registry) Register(ctx context.Context, userID uint, tokens ...string) error {
	if len(tokens) == 0 {
		return nil
	}
	key := r.userKey(userID)
	members := make([]interface{}, len(tokens))
	for i, t := range tokens {
		members[i] = t
	}
	if err := r.client.SAdd(ctx, key, members...).Err(); err != nil {
		return fmt.Errorf("failed to index tokens: %w", err)
	}
	// Push the index expiry out on every issuance so it outlives the tokens.
	if err := r.client.Expire(ctx, key, r.indexTTL).Err(); err != nil {
		return fmt.Errorf("failed to expire token index: %w", err)
	}
	return nil
}

// DenyAllForUser denies every outstanding token recorded for the user and
// clears the index. Returns the number of tokens denied.
func (r *Registry) DenyAllForUser(ctx context.Context, userID uint) (int, error) {
	key := r.userKey(userID)
	tokens, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read token index: %w", err)
	}

	denied := 0
	for _, tok := range tokens {
		if err := r.Deny(ctx, tok); err != nil {
			return denied, err
		}
		denied++
	}

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return denied, fmt.Errorf("failed to clear token index: %w", err)
	}
	return denied, nil
}
