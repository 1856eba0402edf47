package tenant_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saasengine/tenantkit/pkg/tenant"
)

func TestContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		stored := createTestTenant("acme.example.com", tenant.StatusActive)
		ctx := tenant.WithTenant(context.Background(), stored)

		got, ok := tenant.FromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, stored, got)
	})

	t.Run("absent tenant", func(t *testing.T) {
		t.Parallel()

		got, ok := tenant.FromContext(context.Background())
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("id from context", func(t *testing.T) {
		t.Parallel()

		stored := createTestTenant("acme.example.com", tenant.StatusActive)
		ctx := tenant.WithTenant(context.Background(), stored)

		id, ok := tenant.IDFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, stored.ID, id)
	})

	t.Run("id from empty context", func(t *testing.T) {
		t.Parallel()

		id, ok := tenant.IDFromContext(context.Background())
		assert.False(t, ok)
		assert.Equal(t, uuid.UUID{}, id)
	})

	t.Run("must panics without tenant", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			tenant.MustFromContext(context.Background())
		})
	})

	t.Run("contexts are independent", func(t *testing.T) {
		t.Parallel()

		first := createTestTenant("first.example.com", tenant.StatusActive)
		second := createTestTenant("second.example.com", tenant.StatusActive)

		ctx1 := tenant.WithTenant(context.Background(), first)
		ctx2 := tenant.WithTenant(context.Background(), second)

		got1, _ := tenant.FromContext(ctx1)
		got2, _ := tenant.FromContext(ctx2)
		assert.Equal(t, first.ID, got1.ID)
		assert.Equal(t, second.ID, got2.ID)
	})
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	t.Run("extracts tenant id", func(t *testing.T) {
		t.Parallel()

		stored := createTestTenant("acme.example.com", tenant.StatusActive)
		ctx := tenant.WithTenant(context.Background(), stored)

		attr, ok := tenant.LoggerExtractor()(ctx)
		require.True(t, ok)
		assert.Equal(t, "tenant_id", attr.Key)
		assert.Equal(t, stored.ID.String(), attr.Value.String())
	})

	t.Run("reports nothing without tenant", func(t *testing.T) {
		t.Parallel()

		_, ok := tenant.LoggerExtractor()(context.Background())
		assert.False(t, ok)
	})
}
