// Command tenantd runs the tenant resolution service: every inbound request
// is mapped to its owning tenant via the cache-aside resolution pipeline
// before reaching application handlers.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/saasengine/tenantkit/pkg/config"
	"github.com/saasengine/tenantkit/pkg/httpserver"
	"github.com/saasengine/tenantkit/pkg/logger"
	"github.com/saasengine/tenantkit/pkg/pg"
	"github.com/saasengine/tenantkit/pkg/redis"
	"github.com/saasengine/tenantkit/pkg/tenant"
	"github.com/saasengine/tenantkit/pkg/tenant/pgstore"
	"github.com/saasengine/tenantkit/pkg/tenant/rediscache"
)

func main() {
	ctx := context.Background()

	log := logger.New(
		logger.WithEnvironment(os.Getenv("APP_ENV"), "tenantd"),
		logger.WithContextExtractors(tenant.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	if err := run(ctx, log); err != nil {
		log.ErrorContext(ctx, "tenantd exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	var (
		pgCfg     pg.Config
		redisCfg  redis.Config
		httpCfg   httpserver.Config
		tenantCfg tenant.Config
	)
	if err := config.Load(&pgCfg); err != nil {
		return err
	}
	if err := config.Load(&redisCfg); err != nil {
		return err
	}
	if err := config.Load(&httpCfg); err != nil {
		return err
	}
	if err := config.Load(&tenantCfg); err != nil {
		return err
	}

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return err
	}

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	resolver := tenant.NewResolver(
		pgstore.New(pool),
		tenant.WithCache(rediscache.New(redisClient)),
		tenant.WithCacheTTL(tenantCfg.CacheTTL),
		tenant.WithResolverLogger(log),
	)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", httpserver.HealthCheckHandler(log,
		pg.Healthcheck(pool),
		redis.Healthcheck(redisClient),
	))

	r.Group(func(r chi.Router) {
		r.Use(tenant.Middleware(resolver,
			tenant.WithHeader(tenantCfg.Header),
			tenant.WithSkipPaths(tenantCfg.SkipPaths),
			tenant.WithLogger(log),
		))

		// Echoes the resolved tenant for the current request.
		r.Get("/whoami", whoamiHandler)
	})

	return httpserver.New(httpCfg, log).Run(ctx, r)
}

func whoamiHandler(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		tenant.RespondError(w, http.StatusNotFound, "Tenant not found")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(t)
}
