package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/config"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/logging"
	"github.com/ariefcatur/go-storefront/internal/ordercache"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/stores"
	"github.com/ariefcatur/go-storefront/internal/sweeper"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel, cfg.ServiceName+"-worker")
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("db connect", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// expiries publish status events like any other transition
	pStatus := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatus, 1024)
	pStatus.Start(ctx)

	repo := &orders.PGRepo{DB: db}
	engine := &orders.Service{
		Orders:    repo,
		Customers: &orders.PGCustomers{DB: db},
		Stores:    &stores.PGRepo{DB: db},
		Lines:     catalog.NewReader(&catalog.PGRepo{DB: db}),
		Events:    &orders.KafkaSink{Status: pStatus, Producer: cfg.ServiceName + "-worker"},
		TTL:       cfg.OrderTTL,
	}
	cache := ordercache.New(rdb, cfg.OrderCacheTTL)
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.Worker.Group, orders.TopicOrderStatus, cfg.Worker.Count)
	sw := &sweeper.Sweeper{
		Orders:   repo,
		Engine:   engine,
		Interval: cfg.Worker.SweepInterval,
		Batch:    cfg.Worker.SweepBatch,
		Log:      log.With("component", "sweeper"),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("cache consumer started", "group", cfg.Worker.Group, "topic", orders.TopicOrderStatus, "workers", cfg.Worker.Count)
		return cons.Start(logging.IntoContext(gctx, log.With("component", "ordercache")), cache.HandleStatusChanged)
	})
	g.Go(func() error {
		log.Info("sweeper started", "interval", cfg.Worker.SweepInterval.String(), "batch", cfg.Worker.SweepBatch)
		return sw.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		log.Error("worker exit", "error", err)
	}
	stop()
	pStatus.Close()
	pStatus.WaitClosed()
	log.Info("worker stopped")
}
