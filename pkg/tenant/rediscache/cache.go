// Package rediscache implements the tenant cache on Redis.
//
// Entries are stored as a versioned JSON envelope carrying the tenant and
// its expiry instant. Anything that fails to decode, carries the wrong
// version, or has expired is treated as a miss, so readers never see a
// partially valid tenant. Connectivity failures are surfaced as errors and
// kept distinct from misses.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/saasengine/tenantkit/pkg/tenant"
)

// envelopeVersion guards against decoding entries written by an
// incompatible release.
const envelopeVersion = 1

type envelope struct {
	Version   int            `json:"v"`
	Tenant    *tenant.Tenant `json:"tenant"`
	ExpiresAt time.Time      `json:"expires_at"`
}

func (e *envelope) valid(now time.Time) bool {
	return e.Version == envelopeVersion && e.Tenant != nil && now.Before(e.ExpiresAt)
}

// Cache stores tenants in Redis with per-entry TTL.
type Cache struct {
	client redis.UniversalClient
}

// New creates a Cache on the given Redis client. The client's lifecycle
// belongs to the caller; Close is a no-op.
func New(client redis.UniversalClient) *Cache {
	return &Cache{client: client}
}

// Get retrieves a tenant by key. Malformed or expired entries are misses.
func (c *Cache) Get(ctx context.Context, key string) (*tenant.Tenant, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var e envelope
	if err := json.Unmarshal(data, &e); err != nil || !e.valid(time.Now()) {
		return nil, false, nil
	}

	return e.Tenant, true, nil
}

// Set stores a tenant under key. The Redis key TTL and the envelope expiry
// are both set, so entries expire even if a reader ignores the envelope.
func (c *Cache) Set(ctx context.Context, key string, t *tenant.Tenant, ttl time.Duration) error {
	data, err := json.Marshal(envelope{
		Version:   envelopeVersion,
		Tenant:    t,
		ExpiresAt: time.Now().Add(ttl),
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes an entry.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Close is a no-op; the Redis client is owned by the caller.
func (c *Cache) Close() error {
	return nil
}
