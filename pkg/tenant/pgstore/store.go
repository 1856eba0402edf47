// Package pgstore implements the tenant store on a PostgreSQL pool.
//
// Both lookups filter on active status in SQL, so suspended and inactive
// tenants are indistinguishable from absent ones at this boundary.
package pgstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saasengine/tenantkit/pkg/tenant"
)

const selectTenant = `
SELECT id, name, domain, status, settings, created_at, updated_at
FROM tenants
WHERE status = 'active' AND `

// Store loads tenants from PostgreSQL via pgx.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by the given pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// FindActiveByID looks up an active tenant by UUID string. An unparsable
// id matches no row and reports tenant.ErrTenantNotFound.
func (s *Store) FindActiveByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, tenant.ErrTenantNotFound
	}
	return s.queryOne(ctx, selectTenant+"id = $1", parsed)
}

// FindActiveByDomain looks up an active tenant by its unique domain.
func (s *Store) FindActiveByDomain(ctx context.Context, domain string) (*tenant.Tenant, error) {
	return s.queryOne(ctx, selectTenant+"domain = $1", domain)
}

func (s *Store) queryOne(ctx context.Context, query string, arg any) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&t.ID, &t.Name, &t.Domain, &t.Status, &t.Settings, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, tenant.ErrTenantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
