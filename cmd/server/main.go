package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/config"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/infra"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/repository"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/router"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/scheduler"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/seed"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/service"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/worker"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		infra.SetupLogger("development", "info")
		log.Fatal().Err(err).Msg("failed to load config")
	}
	infra.SetupLogger(cfg.Env, cfg.LogLevel)

	db, err := infra.NewDatabase(cfg.DatabaseURL, infra.DatabaseOptions{MaxOpenConns: cfg.DBMaxOpenConns})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	log.Info().Str("dialect", db.Dialector.Name()).Msg("store ready")

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	userRepo := repository.NewUserRepository(db)
	receivingRepo := repository.NewReceivingRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	// ── Async alerts (only with Redis) ───────────────────────────────────────
	var alerts service.AlertPublisher
	waitWorkers := func() {}
	if rdb != nil {
		dispatcher := worker.NewDispatcher(rdb)
		alerts = dispatcher

		var mailer worker.TextMailer
		if m := infra.NewMailer(cfg); m != nil {
			mailer = m
		}
		handlers := &worker.WorkerHandlers{
			LowStock: worker.NewLowStockWorker(mailer, cfg.AlertEmailTo),
		}
		waitWorkers = worker.StartWorkerPool(ctx, rdb, handlers, cfg.WorkerPoolSize)
	} else {
		log.Info().Msg("REDIS_URL not set, low-stock alerts disabled")
	}

	// ── Services ─────────────────────────────────────────────────────────────
	breaker := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	authSvc, err := service.NewAuthService(userRepo, cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init auth")
	}
	catalogSvc := service.NewCatalogService(productRepo, supplierRepo, customerRepo)
	ledger := service.NewStockLedger(productRepo, supplierRepo, customerRepo, receivingRepo, saleRepo, service.LedgerOptions{
		Retry:   infra.RetryPolicy{Attempts: cfg.StoreRetryAttempts, BaseDelay: cfg.StoreRetryBaseDelay()},
		Breaker: breaker,
		Alerts:  alerts,
	})
	reconcileSvc := service.NewReconcileService(productRepo, receivingRepo, saleRepo)

	if cfg.SeedDemoData {
		seeder := &seed.Seeder{
			Users:         userRepo,
			Products:      productRepo,
			Suppliers:     supplierRepo,
			Customers:     customerRepo,
			Auth:          authSvc,
			AdminPassword: cfg.SeedAdminPassword,
		}
		if err := seeder.Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to seed demo data")
		}
	}

	sched := scheduler.NewScheduler(reconcileSvc, cfg.ReconcileSchedule)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}

	r := router.New(cfg, router.Deps{
		DB:        db,
		Redis:     rdb,
		Breaker:   breaker,
		Auth:      authSvc,
		Catalog:   catalogSvc,
		Ledger:    ledger,
		Reconcile: reconcileSvc,
	})

	srv := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("inventory service listening on %s", cfg.ListenAddr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	sched.Stop()
	cancel()
	waitWorkers()
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}
