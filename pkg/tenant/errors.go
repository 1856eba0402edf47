package tenant

import "errors"

var (
	// ErrIdentityMissing is returned when no usable tenant identity can be
	// extracted from a request.
	ErrIdentityMissing = errors.New("tenant identification missing")

	// ErrTenantNotFound is returned when identity candidates were extracted
	// but no active tenant matches in cache or store.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrDependencyUnavailable is returned when the cache or store fails for
	// infrastructure reasons. It is never conflated with ErrTenantNotFound.
	ErrDependencyUnavailable = errors.New("tenant resolution dependency unavailable")

	// ErrNoTenantInContext is returned when no tenant is found in context.
	ErrNoTenantInContext = errors.New("no tenant in context")
)
