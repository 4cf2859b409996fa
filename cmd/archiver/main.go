package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joao-fontenele/pos-receipts/internal/archiver"
	"github.com/joao-fontenele/pos-receipts/internal/config"
	"github.com/joao-fontenele/pos-receipts/internal/logger"
	"github.com/joao-fontenele/pos-receipts/internal/messaging"
	"github.com/joao-fontenele/pos-receipts/internal/receipt"
	"github.com/joao-fontenele/pos-receipts/internal/telemetry"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "receipt-archiver", Level: cfg.LogLevel})

	if len(cfg.KafkaBrokers) == 0 {
		log.Error("KAFKA_BROKERS environment variable is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.TracingEnabled {
		shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint, "receipt-archiver", "0.1.0")
		if err != nil {
			log.Error("failed to initialize tracer", "error", err)
			os.Exit(1)
		}
		defer func() { _ = shutdownTracer(context.Background()) }()
	} else {
		telemetry.InstallPropagator()
	}

	location, err := cfg.Location()
	if err != nil {
		log.Error("invalid receipt timezone", "error", err)
		os.Exit(1)
	}

	// Archived copies are PDF only; no printer is attached.
	receipts := receipt.NewService(receipt.Config{
		Header: receipt.Header{
			Name:   cfg.BusinessName,
			Slogan: cfg.BusinessSlogan,
			Social: cfg.BusinessSocial,
			Phone:  cfg.BusinessPhone,
		},
		Currency: cfg.CurrencySymbol,
		Location: location,
		Dir:      cfg.ReceiptDir,
	}, nil, log)

	consumer := messaging.NewConsumer(cfg.KafkaBrokers, cfg.ReceiptTopic, "receipt-archiver")
	defer func() { _ = consumer.Close() }()

	handler := archiver.NewReceiptHandler(receipts, log)

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		log.Info("shutting down")
		cancel()
	}()

	log.Info("starting receipt archiver", "brokers", cfg.KafkaBrokers, "topic", cfg.ReceiptTopic, "dir", cfg.ReceiptDir)

	if err := consumer.Consume(ctx, handler.Handle); err != nil {
		if ctx.Err() == context.Canceled {
			log.Info("consumer stopped")
			return
		}
		log.Error("consumer error", "error", err)
		os.Exit(1)
	}
}
