package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dermawan/storefront/internal/cart"
	"github.com/dermawan/storefront/internal/catalog"
	"github.com/dermawan/storefront/internal/config"
	"github.com/dermawan/storefront/internal/httpx"
	kafkax "github.com/dermawan/storefront/internal/kafka"
	"github.com/dermawan/storefront/internal/orders"
	"github.com/dermawan/storefront/internal/postgres"
	"github.com/dermawan/storefront/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		slog.Error("db connect", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	pCreated := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	pCreated.Start(ctx)
	pStatus := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusChanged, 1024)
	pStatus.Start(ctx)
	bus := &kafkax.EventBus{Created: pCreated, StatusChanged: pStatus}

	// Engine wiring
	orderSvc := &orders.Service{
		Store:    &orders.Repo{DB: db},
		Bus:      bus,
		Producer: cfg.ServiceName,
	}
	catalogRepo := &catalog.Repo{DB: db}
	cartStore := cart.NewRedisStore(rdb, cfg.CartTTL)

	router := httpx.NewRouter()
	(&httpx.CatalogHandler{Store: catalogRepo}).Register(router)
	(&httpx.CartHandler{Carts: cartStore, Catalog: catalogRepo}).Register(router)
	(&httpx.OrdersHandler{Service: orderSvc, Carts: cartStore, Redis: rdb}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		slog.Info("HTTP listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen", "error", err)
			os.Exit(1)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	slog.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	pCreated.Close() // close inbox -> flush & close writer
	pStatus.Close()
	cancel() // stop producer loops
	pCreated.WaitClosed()
	pStatus.WaitClosed()
}
