package tenant_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saasengine/tenantkit/pkg/tenant"
)

func TestExtractIdentities(t *testing.T) {
	t.Parallel()

	t.Run("header takes precedence", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "https://acme.example.com/dashboard", nil)
		req.Header.Set("X-Tenant", "11111111-1111-1111-1111-111111111111")

		ids := tenant.ExtractIdentities(req, "")
		require.Len(t, ids, 3)
		assert.Equal(t, tenant.IdentityID, ids[0].Kind)
		assert.Equal(t, "11111111-1111-1111-1111-111111111111", ids[0].Value)
		assert.Equal(t, tenant.IdentityDomain, ids[1].Kind)
		assert.Equal(t, "acme.example.com", ids[1].Value)
		assert.Equal(t, tenant.IdentitySubdomain, ids[2].Kind)
		assert.Equal(t, "acme", ids[2].Value)
	})

	t.Run("host only", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "https://example.com/", nil)
		req.Host = "example.com"

		ids := tenant.ExtractIdentities(req, "")
		require.Len(t, ids, 1)
		assert.Equal(t, tenant.IdentityDomain, ids[0].Kind)
		assert.Equal(t, "example.com", ids[0].Value)
	})

	t.Run("no subdomain candidate for two-label host", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "https://example.com/", nil)
		req.Host = "example.com"

		for _, id := range tenant.ExtractIdentities(req, "") {
			assert.NotEqual(t, tenant.IdentitySubdomain, id.Kind)
		}
	})

	t.Run("subdomain candidate for three-label host", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "https://acme.example.com/", nil)

		ids := tenant.ExtractIdentities(req, "")
		require.Len(t, ids, 2)
		assert.Equal(t, tenant.Identity{Kind: tenant.IdentitySubdomain, Value: "acme"}, ids[1])
	})

	t.Run("strips port from host", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "http://acme.app.localhost:8080/", nil)
		req.Host = "acme.app.localhost:8080"

		ids := tenant.ExtractIdentities(req, "")
		require.Len(t, ids, 2)
		assert.Equal(t, "acme.app.localhost", ids[0].Value)
		assert.Equal(t, "acme", ids[1].Value)
	})

	t.Run("custom header name", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "https://example.com/", nil)
		req.Header.Set("X-Org", "22222222-2222-2222-2222-222222222222")

		ids := tenant.ExtractIdentities(req, "X-Org")
		require.NotEmpty(t, ids)
		assert.Equal(t, tenant.IdentityID, ids[0].Kind)
		assert.Equal(t, "22222222-2222-2222-2222-222222222222", ids[0].Value)
	})

	t.Run("blank header value is ignored", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "https://example.com/", nil)
		req.Host = "example.com"
		req.Header.Set("X-Tenant", "   ")

		ids := tenant.ExtractIdentities(req, "")
		require.Len(t, ids, 1)
		assert.Equal(t, tenant.IdentityDomain, ids[0].Kind)
	})

	t.Run("empty host and no header yields nothing", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "/", nil)
		req.Host = ""

		assert.Empty(t, tenant.ExtractIdentities(req, ""))
	})
}
