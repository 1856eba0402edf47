package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a tenant. Only active tenants are
// eligible for request resolution.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// Tenant represents a customer/organization boundary within the
// multi-tenant service. The struct carries everything downstream request
// handling needs; heavier relations stay behind the CRUD collaborator.
type Tenant struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Domain    string         `json:"domain"`
	Status    Status         `json:"status"`
	Settings  map[string]any `json:"settings,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Active reports whether the tenant may be resolved for request routing.
func (t *Tenant) Active() bool {
	return t != nil && t.Status == StatusActive
}

// Store loads tenant records from the durable data source. Implementations
// must filter on active status themselves so that suspended or inactive
// tenants never reach the resolver.
//
// Absence is reported as ErrTenantNotFound; any other error is treated as
// an infrastructure failure and surfaced to the client as a 5xx.
type Store interface {
	// FindActiveByID looks up an active tenant by its UUID string.
	// An unparsable id matches no tenant and yields ErrTenantNotFound.
	FindActiveByID(ctx context.Context, id string) (*Tenant, error)

	// FindActiveByDomain looks up an active tenant by its unique domain.
	FindActiveByDomain(ctx context.Context, domain string) (*Tenant, error)
}
