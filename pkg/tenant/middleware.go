package tenant

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// Middleware creates HTTP middleware that resolves the tenant for each
// inbound request and stores it in the request context for downstream
// handlers.
//
// Requests whose path matches the skip list bypass resolution entirely.
// Requests without any identity candidate, or whose candidates match no
// active tenant, are answered with a 404 JSON body and never reach the
// next handler.
func Middleware(resolver *Resolver, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		header:       DefaultHeader,
		skipPaths:    []string{"/healthz"},
		errorHandler: defaultErrorHandler,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			candidates := ExtractIdentities(r, cfg.header)

			resolved, err := resolver.Resolve(r.Context(), candidates)
			if err != nil {
				if errors.Is(err, ErrDependencyUnavailable) {
					cfg.logger.ErrorContext(r.Context(), "tenant resolution failed",
						slog.String("path", r.URL.Path), slog.Any("error", err))
				}
				cfg.errorHandler(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), resolved)))
		})
	}
}

// RequireTenant ensures a tenant is present in the request context. Mount
// it on routes that sit behind a router where the resolution middleware is
// optional or skippable.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if t, ok := FromContext(r.Context()); !ok || t == nil {
				errorHandler(w, r, ErrNoTenantInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RespondError writes the structured JSON error body used by the default
// error handler: {"error": "<message>"}.
func RespondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrIdentityMissing):
		RespondError(w, http.StatusNotFound, "Tenant identification missing")
	case errors.Is(err, ErrTenantNotFound), errors.Is(err, ErrNoTenantInContext):
		RespondError(w, http.StatusNotFound, "Tenant not found")
	case errors.Is(err, ErrDependencyUnavailable):
		RespondError(w, http.StatusServiceUnavailable, "Tenant resolution unavailable")
	default:
		RespondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
