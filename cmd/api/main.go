package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Overland-East-Bay/people-directory/internal/adapters/httpapi"
	memidempotency "github.com/Overland-East-Bay/people-directory/internal/adapters/memory/idempotency"
	mempersonrepo "github.com/Overland-East-Bay/people-directory/internal/adapters/memory/personrepo"
	postgres "github.com/Overland-East-Bay/people-directory/internal/adapters/postgres"
	pgidempotency "github.com/Overland-East-Bay/people-directory/internal/adapters/postgres/idempotency"
	pgpersonrepo "github.com/Overland-East-Bay/people-directory/internal/adapters/postgres/personrepo"
	"github.com/Overland-East-Bay/people-directory/internal/app/people"
	platformclock "github.com/Overland-East-Bay/people-directory/internal/platform/clock"
	"github.com/Overland-East-Bay/people-directory/internal/platform/config"
	idempotencyport "github.com/Overland-East-Bay/people-directory/internal/ports/out/idempotency"
	personrepoport "github.com/Overland-East-Bay/people-directory/internal/ports/out/personrepo"
)

func main() {
	cfg, err := config.LoadAPIConfigFromEnv()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := platformclock.NewSystemClock()

	var (
		personRepo personrepoport.Repository
		idemStore  idempotencyport.Store
		cleanup    func()
	)

	switch cfg.StorageBackend {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{
			MaxConns:        cfg.DBMaxConns,
			MinConns:        cfg.DBMinConns,
			MaxConnLifetime: cfg.DBMaxConnLifetime,
		})
		if err != nil {
			log.Fatalf("invalid postgres config: %v", err)
		}
		cleanup = pool.Close

		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			log.Fatalf("migrate: %v", err)
		}

		personRepo = pgpersonrepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool, clk, cfg.IdempotencyTTL)
	default:
		personRepo = mempersonrepo.NewRepo()
		idemStore = memidempotency.NewStore(clk, cfg.IdempotencyTTL)
	}

	if cleanup != nil {
		defer cleanup()
	}

	peopleSvc := people.NewService(personRepo, clk)
	peopleSvc.ListLimit = cfg.SearchLimit

	api := httpapi.NewServer(peopleSvc, idemStore)
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{RequestLogging: cfg.RequestLogging})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("api listening on :%s (storage=%s)", cfg.Port, cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
