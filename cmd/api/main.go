package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-storefront/internal/auth"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/httpx"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/logging"
	"github.com/ariefcatur/go-storefront/internal/ordercache"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/stores"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel, cfg.ServiceName)
	slog.SetDefault(log)
	if err := cfg.RequireAPI(); err != nil {
		log.Error("config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("db connect", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if cfg.Migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Error("db migrate", "error", err)
			os.Exit(1)
		}
		log.Info("schema applied")
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	pCreated := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	pCreated.Start(ctx)
	pStatus := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatus, 1024)
	pStatus.Start(ctx)

	storeRepo := &stores.PGRepo{DB: db}
	catalogRepo := &catalog.PGRepo{DB: db}
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)

	srv := &httpx.Server{
		Orders: &orders.Service{
			Orders:    &orders.PGRepo{DB: db},
			Customers: &orders.PGCustomers{DB: db},
			Stores:    storeRepo,
			Lines:     catalog.NewReader(catalogRepo),
			Events:    &orders.KafkaSink{Created: pCreated, Status: pStatus, Producer: cfg.ServiceName},
			TTL:       cfg.OrderTTL,
		},
		Catalog:  catalogRepo,
		Products: catalogRepo,
		Stores:   storeRepo,
		Auth:     &auth.Service{Admins: &auth.PGAdmins{DB: db}, Tokens: tokens},
		Tokens:   tokens,
		Cache:    ordercache.New(rdb, cfg.OrderCacheTTL),
		Checks: map[string]httpx.Check{
			"postgres": db.Ping,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Log: log,
		Dev: cfg.Development(),
	}

	// HTTP server
	hs := &http.Server{Addr: cfg.HTTPAddr, Handler: httpx.NewRouter(srv), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen", "error", err)
			cancel()
		}
	}()

	// wait for a signal or a listener failure
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()
	log.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = hs.Shutdown(shutdownCtx)
	cancel()
	pCreated.WaitClosed()
	pStatus.WaitClosed()
}
