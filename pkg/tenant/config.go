package tenant

import "time"

// Config carries the resolution settings read from the environment.
type Config struct {
	Header    string        `env:"TENANT_HEADER" envDefault:"X-Tenant"`                      // Header carrying the explicit tenant UUID.
	CacheTTL  time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`                         // TTL for cached resolutions.
	SkipPaths []string      `env:"TENANT_SKIP_PATHS" envSeparator:"," envDefault:"/healthz"` // Path prefixes that bypass resolution.
}
