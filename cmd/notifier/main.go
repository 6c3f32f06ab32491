package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/cupify/storefront/internal/config"
	kafkax "github.com/cupify/storefront/internal/kafka"
	"github.com/cupify/storefront/internal/notify"
	"github.com/cupify/storefront/internal/postgres"
	"github.com/cupify/storefront/internal/redisx"
	"github.com/cupify/storefront/internal/store"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("KAFKA_BROKERS must be set for the notifier")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notify.Notifier{
		Redis:     rdb,
		Inventory: &store.InventoryRepo{DB: db},
		Settings:  &store.SettingsRepo{DB: db, Redis: rdb},
		Log:       log.Named("notifier"),
	}

	group := getenv("NOTIFIER_GROUP", "order-notifier")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), 4)
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, store.TopicOrderCreated, workers, log)

	go func() {
		log.Info("notifier consumer started",
			zap.String("group", group),
			zap.String("topic", store.TopicOrderCreated),
			zap.Int("workers", workers))
		if err := cons.Start(ctx, svc.HandleOrderCreated); err != nil {
			log.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down notifier...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
