package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/joao-fontenele/pos-receipts/internal/logger"
	"github.com/joao-fontenele/pos-receipts/internal/printagent"
	"github.com/joao-fontenele/pos-receipts/internal/printer"
	"github.com/joao-fontenele/pos-receipts/internal/telemetry"
)

func main() {
	log := logger.New(logger.Options{Service: "print-agent", Level: os.Getenv("LOG_LEVEL")})

	device := os.Getenv("PRINTER_DEVICE")
	if device == "" {
		log.Error("PRINTER_DEVICE environment variable is required")
		os.Exit(1)
	}

	sender, err := printer.Open(device)
	if err != nil {
		log.Error("failed to open printer", "device", device, "error", err)
		os.Exit(1)
	}

	handler := printagent.NewHandler(sender, log)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /jobs", telemetry.WithHTTPRoute(handler.HandleJob))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8085"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      otelhttp.NewHandler(mux, "print-agent", otelhttp.WithSpanNameFormatter(telemetry.SpanName)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting print agent", "port", port, "device", device)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
