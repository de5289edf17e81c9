package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-outbound-inventory/internal/config"
	"github.com/ariefcatur/go-outbound-inventory/internal/httpx"
	"github.com/ariefcatur/go-outbound-inventory/internal/inventory"
	kafkax "github.com/ariefcatur/go-outbound-inventory/internal/kafka"
	"github.com/ariefcatur/go-outbound-inventory/internal/logger"
	"github.com/ariefcatur/go-outbound-inventory/internal/outbound"
	"github.com/ariefcatur/go-outbound-inventory/internal/postgres"
	"github.com/ariefcatur/go-outbound-inventory/internal/redisx"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.ServiceName, cfg.LogPretty)
	logger.SetLevel(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage
	kv, closeKV, err := openKV(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open store")
	}
	defer closeKV()

	store := inventory.NewStore(kv)
	if err := store.Initialize(ctx); err != nil {
		log.Fatal().Err(err).Msg("initialize store")
	}

	// Service & handler
	svc := &outbound.Service{Repo: store, ServiceName: cfg.ServiceName}
	var producers []*kafkax.Producer
	if len(cfg.KafkaBrokers) > 0 {
		pOrders := kafkax.NewProducer(cfg.KafkaBrokers, outbound.TopicOutboundOrders, 1024)
		pOrders.Start(ctx)
		pStock := kafkax.NewProducer(cfg.KafkaBrokers, outbound.TopicStockAdjusted, 1024)
		pStock.Start(ctx)
		svc.Orders, svc.Stock = pOrders, pStock
		producers = append(producers, pOrders, pStock)
	} else {
		log.Warn().Msg("kafka disabled, outbound events are not published")
	}

	router := httpx.NewRouter()
	h := &httpx.InventoryHandler{Repo: store, Outbound: svc}
	h.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.StoreDriver).Msg("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	for _, p := range producers {
		p.Close() // tutup inbox -> flush & close writer
	}
	for _, p := range producers {
		p.WaitClosed()
	}
}

func openKV(ctx context.Context, cfg config.Config) (inventory.KV, func(), error) {
	switch cfg.StoreDriver {
	case "memory":
		return inventory.NewMemoryKV(), func() {}, nil
	case "redis":
		rdb := redisx.New(cfg.RedisAddr)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, err
		}
		return redisx.NewKV(rdb, cfg.RedisKeyPrefix), func() { _ = rdb.Close() }, nil
	case "postgres":
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return &postgres.KV{DB: db}, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
