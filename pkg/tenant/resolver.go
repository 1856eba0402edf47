package tenant

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Cache key namespaces. Id- and domain-keyed entries are independent; a
// tenant may be cached under both at once after resolving via either path.
const (
	CacheKeyID     = "tenant:id:"
	CacheKeyDomain = "tenant:domain:"
)

// DefaultCacheTTL bounds how long a resolved tenant is served from cache
// before the store is consulted again.
const DefaultCacheTTL = 5 * time.Minute

// Resolver turns identity candidates into a resolved tenant using a
// cache-aside strategy: cache by id, cache by domain, store by id or
// domain, then a single subdomain retry.
//
// No locking is performed: concurrent resolutions for the same identity
// may each miss the cache, query the store, and write back. Write-backs
// are idempotent overwrites, so last-write-wins is acceptable.
type Resolver struct {
	store  Store
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithCache sets the cache implementation. Defaults to an in-memory cache.
func WithCache(cache Cache) ResolverOption {
	return func(r *Resolver) {
		if cache != nil {
			r.cache = cache
		}
	}
}

// WithCacheTTL sets the TTL applied to cache write-backs.
func WithCacheTTL(ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithResolverLogger sets the logger used for cache write-back warnings.
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a resolver backed by the given store.
func NewResolver(store Store, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:  store,
		ttl:    DefaultCacheTTL,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = NewMemoryCache()
	}
	return r
}

// Resolve walks the fallback chain over the ordered candidates and returns
// the matching active tenant.
//
// Returns ErrIdentityMissing for an empty candidate list,
// ErrTenantNotFound when no candidate matches an active tenant, and
// ErrDependencyUnavailable when the cache or store fails for
// infrastructure reasons.
func (r *Resolver) Resolve(ctx context.Context, candidates []Identity) (*Tenant, error) {
	if len(candidates) == 0 {
		return nil, ErrIdentityMissing
	}

	var id, domain, subdomain string
	for _, c := range candidates {
		switch c.Kind {
		case IdentityID:
			if id == "" {
				id = c.Value
			}
		case IdentityDomain:
			if domain == "" {
				domain = c.Value
			}
		case IdentitySubdomain:
			if subdomain == "" {
				subdomain = c.Value
			}
		}
	}
	if id == "" && domain == "" && subdomain == "" {
		return nil, ErrIdentityMissing
	}

	// Id-based identity takes precedence over domain-based when both are present.
	if id != "" {
		if t, ok, err := r.cache.Get(ctx, CacheKeyID+id); err != nil {
			return nil, errors.Join(ErrDependencyUnavailable, err)
		} else if ok {
			return t, nil
		}
	}

	if domain != "" {
		if t, ok, err := r.cache.Get(ctx, CacheKeyDomain+domain); err != nil {
			return nil, errors.Join(ErrDependencyUnavailable, err)
		} else if ok {
			return t, nil
		}
	}

	// Single store call: by id when an id candidate exists, else by domain.
	var (
		t   *Tenant
		err error
	)
	switch {
	case id != "":
		t, err = r.store.FindActiveByID(ctx, id)
	case domain != "":
		t, err = r.store.FindActiveByDomain(ctx, domain)
	default:
		t, err = r.store.FindActiveByDomain(ctx, subdomain)
		subdomain = ""
	}
	if err != nil && !errors.Is(err, ErrTenantNotFound) {
		return nil, errors.Join(ErrDependencyUnavailable, err)
	}

	// One retry with the derived subdomain before declaring not found.
	if t == nil && subdomain != "" && subdomain != domain {
		t, err = r.store.FindActiveByDomain(ctx, subdomain)
		if err != nil && !errors.Is(err, ErrTenantNotFound) {
			return nil, errors.Join(ErrDependencyUnavailable, err)
		}
	}

	if t == nil {
		return nil, ErrTenantNotFound
	}

	key := CacheKeyDomain + t.Domain
	if id != "" {
		key = CacheKeyID + id
	}
	// The resolution already succeeded; a failed write-back only costs the
	// next request a store round-trip.
	if err := r.cache.Set(ctx, key, t, r.ttl); err != nil {
		r.logger.WarnContext(ctx, "tenant cache write-back failed",
			slog.String("key", key), slog.Any("error", err))
	}

	return t, nil
}

// Invalidate evicts the tenant's id- and domain-keyed cache entries. The
// CRUD collaborator should call it after mutating a tenant so that stale
// domain or status values do not survive until TTL expiry.
func (r *Resolver) Invalidate(ctx context.Context, t *Tenant) error {
	if t == nil {
		return nil
	}
	return errors.Join(
		r.cache.Delete(ctx, CacheKeyID+t.ID.String()),
		r.cache.Delete(ctx, CacheKeyDomain+t.Domain),
	)
}
