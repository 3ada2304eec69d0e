package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/lunaria-crm/lunaria/internal/activities"
	"github.com/lunaria-crm/lunaria/internal/app"
	"github.com/lunaria-crm/lunaria/internal/auth"
	"github.com/lunaria-crm/lunaria/internal/catalog"
	"github.com/lunaria-crm/lunaria/internal/customers"
	"github.com/lunaria-crm/lunaria/internal/events"
	"github.com/lunaria-crm/lunaria/internal/leads"
	"github.com/lunaria-crm/lunaria/internal/listeners"
	"github.com/lunaria-crm/lunaria/internal/observability"
	"github.com/lunaria-crm/lunaria/internal/orders"
	"github.com/lunaria-crm/lunaria/internal/platform/cache"
	"github.com/lunaria-crm/lunaria/internal/platform/db"
	"github.com/lunaria-crm/lunaria/internal/shared"
	"github.com/lunaria-crm/lunaria/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	bus := events.NewMemoryBus()
	auditLogger := shared.NewAuditLogger(dbpool)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	listeners.Register(bus, logger, jobClient)

	leadsRepo := leads.NewRepository(dbpool)
	leadsService := leads.NewService(leadsRepo, bus, auditLogger)
	leadsHandler := leads.NewHandler(logger, leadsService)

	customersRepo := customers.NewRepository(dbpool)
	customersService := customers.NewService(customersRepo, bus, auditLogger)
	customersHandler := customers.NewHandler(logger, customersService)

	ordersRepo := orders.NewRepository(dbpool)
	ordersService := orders.NewService(ordersRepo, bus, auditLogger)
	ordersHandler := orders.NewHandler(logger, ordersService)

	catalogRepo := catalog.NewRepository(dbpool)
	catalogCache := catalog.NewCache(redisClient, cfg.CacheTTL)
	catalogService := catalog.NewService(catalogRepo, bus, catalogCache, logger)
	catalogService.SubscribeInvalidation(bus)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	activitiesRepo := activities.NewRepository(dbpool)
	activitiesService := activities.NewService(activitiesRepo, bus)
	activitiesHandler := activities.NewHandler(logger, activitiesService)

	authenticator := auth.NewAuthenticator(auth.NewRepository(dbpool), logger)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		Authenticator:     authenticator,
		LeadsHandler:      leadsHandler,
		CustomersHandler:  customersHandler,
		OrdersHandler:     ordersHandler,
		CatalogHandler:    catalogHandler,
		ActivitiesHandler: activitiesHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
