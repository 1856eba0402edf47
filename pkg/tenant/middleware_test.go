package tenant_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saasengine/tenantkit/pkg/tenant"
)

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("adds tenant to context when resolved by header", func(t *testing.T) {
		t.Parallel()

		stored := createTestTenant("acme.example.com", tenant.StatusActive)
		resolver := tenant.NewResolver(newMockStore(stored), tenant.WithCache(tenant.NewNoOpCache()))
		middleware := tenant.Middleware(resolver)

		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resolved, ok := tenant.FromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, stored.ID, resolved.ID)
			assert.Equal(t, stored.Domain, resolved.Domain)
			assert.Equal(t, tenant.StatusActive, resolved.Status)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/dashboard", nil)
		req.Header.Set("X-Tenant", stored.ID.String())
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("store fallback populates the cache", func(t *testing.T) {
		t.Parallel()

		id := uuid.MustParse("11111111-1111-1111-1111-111111111111")
		stored := createTestTenant("acme.example.com", tenant.StatusActive)
		stored.ID = id
		cache := tenant.NewMemoryCache()
		t.Cleanup(func() { _ = cache.Close() })
		resolver := tenant.NewResolver(newMockStore(stored), tenant.WithCache(cache))
		middleware := tenant.Middleware(resolver)

		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resolved, ok := tenant.FromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, id, resolved.ID)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/dashboard", nil)
		req.Header.Set("X-Tenant", id.String())
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		_, ok, err := cache.Get(req.Context(), tenant.CacheKeyID+id.String())
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("skip paths bypass resolution and leave context empty", func(t *testing.T) {
		t.Parallel()

		store := newMockStore()
		resolver := tenant.NewResolver(store, tenant.WithCache(tenant.NewNoOpCache()))
		middleware := tenant.Middleware(resolver, tenant.WithSkipPaths([]string{"/healthz"}))

		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := tenant.FromContext(r.Context())
			assert.False(t, ok)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/healthz", nil)
		req.Host = ""
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		byID, byDomain := store.calls()
		assert.Zero(t, byID)
		assert.Zero(t, byDomain)
	})

	t.Run("missing identity yields 404 with structured body", func(t *testing.T) {
		t.Parallel()

		resolver := tenant.NewResolver(newMockStore(), tenant.WithCache(tenant.NewNoOpCache()))
		middleware := tenant.Middleware(resolver)

		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		}))

		req := httptest.NewRequest("GET", "/dashboard", nil)
		req.Host = ""
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, map[string]string{"error": "Tenant identification missing"}, decodeErrorBody(t, w))
	})

	t.Run("unknown host yields 404 tenant not found", func(t *testing.T) {
		t.Parallel()

		resolver := tenant.NewResolver(newMockStore(), tenant.WithCache(tenant.NewNoOpCache()))
		middleware := tenant.Middleware(resolver)

		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		}))

		req := httptest.NewRequest("GET", "/dashboard", nil)
		req.Host = "unknown.test"
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, map[string]string{"error": "Tenant not found"}, decodeErrorBody(t, w))
	})

	t.Run("resolves via subdomain retry", func(t *testing.T) {
		t.Parallel()

		stored := createTestTenant("acme", tenant.StatusActive)
		resolver := tenant.NewResolver(newMockStore(stored), tenant.WithCache(tenant.NewNoOpCache()))
		middleware := tenant.Middleware(resolver)

		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resolved, ok := tenant.FromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, stored.ID, resolved.ID)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/dashboard", nil)
		req.Host = "acme.example.com"
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("dependency failure yields 503, not 404", func(t *testing.T) {
		t.Parallel()

		store := newMockStore()
		store.err = errors.New("dial tcp: connection refused")
		resolver := tenant.NewResolver(store, tenant.WithCache(tenant.NewNoOpCache()))
		middleware := tenant.Middleware(resolver)

		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		}))

		req := httptest.NewRequest("GET", "/dashboard", nil)
		req.Host = "acme.example.com"
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, map[string]string{"error": "Tenant resolution unavailable"}, decodeErrorBody(t, w))
	})

	t.Run("custom header name", func(t *testing.T) {
		t.Parallel()

		stored := createTestTenant("acme.example.com", tenant.StatusActive)
		resolver := tenant.NewResolver(newMockStore(stored), tenant.WithCache(tenant.NewNoOpCache()))
		middleware := tenant.Middleware(resolver, tenant.WithHeader("X-Org-ID"))

		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resolved, ok := tenant.FromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, stored.ID, resolved.ID)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/dashboard", nil)
		req.Host = ""
		req.Header.Set("X-Org-ID", stored.ID.String())
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("custom error handler", func(t *testing.T) {
		t.Parallel()

		resolver := tenant.NewResolver(newMockStore(), tenant.WithCache(tenant.NewNoOpCache()))
		middleware := tenant.Middleware(resolver,
			tenant.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
				assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
				w.WriteHeader(http.StatusTeapot)
			}))

		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		req := httptest.NewRequest("GET", "/dashboard", nil)
		req.Host = "unknown.test"
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTeapot, w.Code)
	})
}

func TestRequireTenant(t *testing.T) {
	t.Parallel()

	t.Run("passes through with tenant in context", func(t *testing.T) {
		t.Parallel()

		stored := createTestTenant("acme.example.com", tenant.StatusActive)
		guard := tenant.RequireTenant(nil)

		handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, stored.ID, tenant.MustFromContext(r.Context()).ID)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/dashboard", nil)
		req = req.WithContext(tenant.WithTenant(req.Context(), stored))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("blocks without tenant in context", func(t *testing.T) {
		t.Parallel()

		guard := tenant.RequireTenant(nil)

		handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		}))

		req := httptest.NewRequest("GET", "/dashboard", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
