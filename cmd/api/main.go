package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cupify/storefront/internal/auth"
	"github.com/cupify/storefront/internal/config"
	"github.com/cupify/storefront/internal/httpx"
	kafkax "github.com/cupify/storefront/internal/kafka"
	"github.com/cupify/storefront/internal/objstore"
	"github.com/cupify/storefront/internal/postgres"
	"github.com/cupify/storefront/internal/redisx"
	"github.com/cupify/storefront/internal/store"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := newLogger(cfg.Env)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal("db migrate", zap.Error(err))
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Order event stream (optional)
	var events *kafkax.Producer
	if len(cfg.KafkaBrokers) > 0 {
		events = kafkax.NewProducer(cfg.KafkaBrokers, store.TopicOrderCreated, 1024, log)
		events.Start(ctx)
	}

	// Object storage (optional)
	var uploads httpx.UploadURLIssuer
	if cfg.S3Bucket != "" {
		up, err := objstore.New(ctx, cfg.S3Bucket, cfg.UploadURLTTL)
		if err != nil {
			log.Fatal("object storage", zap.Error(err))
		}
		uploads = up
	}

	inventory := &store.InventoryRepo{DB: db}
	orders := &store.OrderRepo{DB: db}
	packs := &store.PackRepo{DB: db}
	settings := &store.SettingsRepo{DB: db, Redis: rdb}
	images := &store.ImageRepo{DB: db}
	activity := &store.ActivityFeed{Orders: orders, Inventory: inventory, Redis: rdb}

	sessions := &auth.Service{
		Redis:        rdb,
		Secret:       []byte(cfg.SessionSecret),
		TTL:          cfg.SessionTTL,
		Username:     cfg.AdminUsername,
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
	}

	router := httpx.NewRouter(log)
	ph := &httpx.PublicHandler{
		Inventory: inventory,
		Orders:    orders,
		Packs:     packs,
		Settings:  settings,
		Activity:  activity,
		Images:    images,
		Uploads:   uploads,
		Events:    events,
		Service:   cfg.ServiceName,
		Log:       log,
	}
	ph.Register(router)
	ah := &httpx.AdminHandler{
		Auth:      sessions,
		Orders:    orders,
		Inventory: inventory,
		Packs:     packs,
		Settings:  settings,
		Images:    images,
		Log:       log,
	}
	ah.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if events != nil {
		events.Close() // flush buffered events
		cancel()
		events.WaitClosed()
	}
}

func newLogger(env string) *zap.Logger {
	if env == "production" {
		log, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return log
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return log
}
