package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/joao-fontenele/pos-receipts/internal/cart"
	"github.com/joao-fontenele/pos-receipts/internal/catalog"
	"github.com/joao-fontenele/pos-receipts/internal/config"
	"github.com/joao-fontenele/pos-receipts/internal/logger"
	"github.com/joao-fontenele/pos-receipts/internal/messaging"
	"github.com/joao-fontenele/pos-receipts/internal/orders"
	"github.com/joao-fontenele/pos-receipts/internal/printer"
	"github.com/joao-fontenele/pos-receipts/internal/receipt"
	"github.com/joao-fontenele/pos-receipts/internal/storage"
	"github.com/joao-fontenele/pos-receipts/internal/telemetry"
)

const version = "0.1.0"

func main() {
	ctx := context.Background()
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "pos", Level: cfg.LogLevel})

	if cfg.TracingEnabled {
		shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint, "pos", version)
		if err != nil {
			log.Error("failed to initialize tracer", "error", err)
			os.Exit(1)
		}
		defer func() { _ = shutdownTracer(ctx) }()
	} else {
		telemetry.InstallPropagator()
	}

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider("pos", version)
	if err != nil {
		log.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	sales, err := telemetry.NewSalesMetrics()
	if err != nil {
		log.Error("failed to create sales metrics", "error", err)
		os.Exit(1)
	}

	driver, err := storage.ParseDriver(cfg.DBDriver)
	if err != nil {
		log.Error("invalid database driver", "error", err)
		os.Exit(1)
	}

	db, err := storage.Open(driver, cfg.DSN())
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := storage.Migrate(db, driver); err != nil {
		log.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	location, err := cfg.Location()
	if err != nil {
		log.Error("invalid receipt timezone", "error", err)
		os.Exit(1)
	}

	var jobs printer.JobSender
	if cfg.PrinterAddr != "" {
		jobs, err = printer.Open(cfg.PrinterAddr)
		if err != nil {
			log.Error("failed to open printer", "error", err)
			os.Exit(1)
		}
	} else {
		log.Warn("no printer configured, thermal printing disabled")
	}

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
	}, jobs, log)

	products := catalog.NewService(catalog.NewProductRepository(db))
	productHandler := catalog.NewHandler(products, log)

	orderRepo := orders.NewOrderRepository(db, log)
	orderHandler := orders.NewHandler(orderRepo, location, log)

	carts := cart.NewRegistry()
	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go carts.Janitor(janitorCtx, cfg.CartRetention, time.Minute, log)

	cartHandler := cart.NewHandler(carts, products, orderRepo, receipts, sales, log)
	if len(cfg.KafkaBrokers) > 0 {
		producer := messaging.NewProducer(cfg.KafkaBrokers, cfg.ReceiptTopic)
		defer func() { _ = producer.Close() }()
		cartHandler = cartHandler.WithEvents(producer)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", telemetry.WithHTTPRoute(productHandler.HandleList))
	mux.HandleFunc("POST /products", telemetry.WithHTTPRoute(productHandler.HandleCreate))
	mux.HandleFunc("DELETE /products", telemetry.WithHTTPRoute(productHandler.HandleRemove))
	mux.HandleFunc("GET /products/{id}", telemetry.WithHTTPRoute(productHandler.HandleGet))
	mux.HandleFunc("PUT /products/{id}", telemetry.WithHTTPRoute(productHandler.HandleUpdate))

	mux.HandleFunc("GET /orders", telemetry.WithHTTPRoute(orderHandler.HandleList))
	mux.HandleFunc("GET /orders/{id}", telemetry.WithHTTPRoute(orderHandler.HandleGet))
	mux.HandleFunc("DELETE /orders/{id}", telemetry.WithHTTPRoute(orderHandler.HandleDelete))
	mux.HandleFunc("GET /sales/total", telemetry.WithHTTPRoute(orderHandler.HandleTotalSales))

	mux.HandleFunc("POST /carts", telemetry.WithHTTPRoute(cartHandler.HandleCreate))
	mux.HandleFunc("GET /carts/{id}", telemetry.WithHTTPRoute(cartHandler.HandleGet))
	mux.HandleFunc("DELETE /carts/{id}", telemetry.WithHTTPRoute(cartHandler.HandleDelete))
	mux.HandleFunc("POST /carts/{id}/lines", telemetry.WithHTTPRoute(cartHandler.HandleAddLine))
	mux.HandleFunc("DELETE /carts/{id}/lines", telemetry.WithHTTPRoute(cartHandler.HandleRemoveLine))
	mux.HandleFunc("POST /carts/{id}/checkout", telemetry.WithHTTPRoute(cartHandler.HandleCheckout))
	mux.HandleFunc("GET /carts/{id}/receipt", telemetry.WithHTTPRoute(cartHandler.HandleReceipt))
	mux.HandleFunc("POST /carts/{id}/receipt/print", telemetry.WithHTTPRoute(cartHandler.HandlePrint))
	mux.HandleFunc("POST /carts/{id}/receipt/pdf", telemetry.WithHTTPRoute(cartHandler.HandleSavePDF))
	mux.HandleFunc("GET /carts/{id}/receipt/preview", telemetry.WithHTTPRoute(cartHandler.HandlePreview))

	mux.Handle("GET /metrics", metricsHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(mux, "pos", otelhttp.WithSpanNameFormatter(telemetry.SpanName)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting pos service", "port", cfg.Port, "driver", driver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
}
