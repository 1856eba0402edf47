// Package tenant resolves the owning tenant for every inbound request in a
// multi-tenant service and propagates it through the request context.
//
// The package implements a cache-aside resolution pipeline: identity
// candidates are extracted from the request (explicit header, full host,
// derived subdomain), checked against a TTL-bound cache, and only on a
// miss does the durable store get queried, with the result written back to
// the cache for subsequent requests.
//
// # Architecture
//
// The pipeline is built from four pieces:
//
// 1. ExtractIdentities - derives ordered identity candidates from a request
// 2. Resolver - walks the fallback chain over cache and store
// 3. Middleware - runs the pipeline once per request and handles failures
// 4. Context helpers - carry the resolved tenant to downstream handlers
//
// The Store and Cache interfaces are the boundary to the persistence and
// cache collaborators; adapters for pgx and go-redis live in
// modules/tenant.
//
// # Fallback chain
//
// Resolution short-circuits on the first success:
//
//  1. cache under tenant:id:<uuid> when an id candidate exists
//  2. cache under tenant:domain:<host>
//  3. store by id (preferred) or by domain, one call
//  4. store by derived subdomain, one retry
//
// Only tenants with active status resolve; the store contract filters
// status itself so suspended tenants behave exactly like absent ones.
//
// # Usage
//
//	store := tenantmodule.NewPGStore(pool)
//	resolver := tenant.NewResolver(store,
//		tenant.WithCache(tenantmodule.NewRedisCache(redisClient)),
//		tenant.WithCacheTTL(10*time.Minute),
//	)
//
//	router.Use(tenant.Middleware(resolver,
//		tenant.WithSkipPaths([]string{"/healthz"}),
//	))
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		t, ok := tenant.FromContext(r.Context())
//		if !ok {
//			return
//		}
//		_ = t
//	}
//
// # Concurrency
//
// Requests are handled concurrently; the resolved tenant lives only in the
// per-request context, never in process-wide state, so one request's
// tenant cannot leak into another's. The resolver performs no locking:
// concurrent resolutions for the same identity may each query the store
// and write back, which is an idempotent overwrite.
//
// # Error handling
//
// Absence and infrastructure failure are kept distinct:
//
//   - ErrIdentityMissing: no usable candidate on the request (404)
//   - ErrTenantNotFound: candidates matched no active tenant (404)
//   - ErrDependencyUnavailable: cache or store failed (503)
//
// Failure responses carry the JSON body {"error": "<message>"}.
package tenant
