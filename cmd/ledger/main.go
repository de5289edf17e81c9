package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/go-outbound-inventory/internal/config"
	kafkax "github.com/ariefcatur/go-outbound-inventory/internal/kafka"
	"github.com/ariefcatur/go-outbound-inventory/internal/ledger"
	"github.com/ariefcatur/go-outbound-inventory/internal/logger"
	"github.com/ariefcatur/go-outbound-inventory/internal/outbound"
	"github.com/ariefcatur/go-outbound-inventory/internal/redisx"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	name := cfg.ServiceName + "-ledger"
	logger.Init(name, cfg.LogPretty)
	logger.SetLevel(cfg.LogLevel)

	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal().Msg("ledger needs KAFKA_BROKERS")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &ledger.Service{
		Tracker: redisx.NewTracker(rdb, name),
		Log:     logger.Logger,
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.LedgerGroup, outbound.TopicStockAdjusted, cfg.LedgerWorkers)
	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info().
			Str("group", cfg.LedgerGroup).
			Str("topic", outbound.TopicStockAdjusted).
			Int("workers", cfg.LedgerWorkers).
			Msg("ledger consumer started")
		if err := cons.Start(ctx, svc.HandleStockAdjusted); err != nil {
			log.Error().Err(err).Msg("consumer exit")
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down consumer...")
	cancel()
	<-done
}
