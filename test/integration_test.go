//go:build integration

package test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/pos-receipts/internal/archiver"
	"github.com/joao-fontenele/pos-receipts/internal/cart"
	"github.com/joao-fontenele/pos-receipts/internal/catalog"
	"github.com/joao-fontenele/pos-receipts/internal/domain"
	"github.com/joao-fontenele/pos-receipts/internal/messaging"
	"github.com/joao-fontenele/pos-receipts/internal/orders"
	"github.com/joao-fontenele/pos-receipts/internal/receipt"
)

func newPOSMux(t *testing.T, products *catalog.Service, orderRepo *orders.OrderRepository, events cart.EventPublisher) *http.ServeMux {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	receipts := receipt.NewService(receipt.Config{
		Header:   receipt.DefaultHeader,
		Currency: "Rp",
		Dir:      t.TempDir(),
	}, nil, logger)

	cartHandler := cart.NewHandler(cart.NewRegistry(), products, orderRepo, receipts, nil, logger)
	if events != nil {
		cartHandler = cartHandler.WithEvents(events)
	}
	orderHandler := orders.NewHandler(orderRepo, time.UTC, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /carts", cartHandler.HandleCreate)
	mux.HandleFunc("POST /carts/{id}/lines", cartHandler.HandleAddLine)
	mux.HandleFunc("POST /carts/{id}/checkout", cartHandler.HandleCheckout)
	mux.HandleFunc("GET /orders", orderHandler.HandleList)
	return mux
}

func do(t *testing.T, mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func checkout(t *testing.T, mux http.Handler, lines map[int64]int) {
	t.Helper()

	rec := do(t, mux, http.MethodPost, "/carts", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create cart: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode cart: %v", err)
	}

	for id, qty := range lines {
		body, _ := json.Marshal(map[string]any{"product_id": id, "quantity": qty})
		rec = do(t, mux, http.MethodPost, "/carts/"+created.ID+"/lines", string(body))
		if rec.Code != http.StatusOK {
			t.Fatalf("add line: expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec = do(t, mux, http.MethodPost, "/carts/"+created.ID+"/checkout", `{"tender":"500000","method":"CASH"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkout: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCheckoutFlow_Postgres(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := SetupPostgres(ctx, t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	products := catalog.NewService(catalog.NewProductRepository(db))
	tart, err := products.Add(ctx, domain.Product{Type: domain.ProductTypeTart, Variant: "Choco", Price: decimal.NewFromInt(150000)})
	if err != nil {
		t.Fatalf("failed to add product: %v", err)
	}
	pudding, err := products.Add(ctx, domain.Product{Type: domain.ProductTypePudding, Variant: "Mango", Price: decimal.NewFromInt(20000)})
	if err != nil {
		t.Fatalf("failed to add product: %v", err)
	}

	orderRepo := orders.NewOrderRepository(db, logger)
	mux := newPOSMux(t, products, orderRepo, nil)

	checkout(t, mux, map[int64]int{tart.ID: 2, pudding.ID: 1})

	history, err := orderRepo.History(ctx, orders.Period{})
	if err != nil {
		t.Fatalf("failed to load history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 order, got %d", len(history))
	}
	if !history[0].Total.Equal(decimal.NewFromInt(304000)) {
		t.Fatalf("expected total 304000, got %s", history[0].Total)
	}
	if len(history[0].Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(history[0].Items))
	}

	total, err := orderRepo.TotalSales(ctx, orders.Day(time.Now()))
	if err != nil {
		t.Fatalf("failed to total sales: %v", err)
	}
	if !total.Equal(decimal.NewFromInt(304000)) {
		t.Fatalf("expected today's sales 304000, got %s", total)
	}

	rec := do(t, mux, http.MethodGet, "/orders", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list orders: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestKafkaConnection(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	brokers := SetupKafka(ctx, t)
	if len(brokers) == 0 {
		t.Fatal("expected at least one broker")
	}

	t.Logf("kafka brokers: %v", brokers)
}

func TestReceiptArchiveFlow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	db := SetupPostgres(ctx, t)
	brokers := SetupKafka(ctx, t)

	const topic = "receipts"
	if err := CreateTopic(brokers[0], topic); err != nil {
		t.Fatalf("failed to create topic: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	products := catalog.NewService(catalog.NewProductRepository(db))
	tart, err := products.Add(ctx, domain.Product{Type: domain.ProductTypeTart, Variant: "Choco", Price: decimal.NewFromInt(150000)})
	if err != nil {
		t.Fatalf("failed to add product: %v", err)
	}

	producer := messaging.NewProducer(brokers, topic)
	defer func() { _ = producer.Close() }()

	mux := newPOSMux(t, products, orders.NewOrderRepository(db, logger), producer)
	checkout(t, mux, map[int64]int{tart.ID: 1})

	archiveDir := t.TempDir()
	archive := archiver.NewReceiptHandler(
		receipt.NewService(receipt.Config{Header: receipt.DefaultHeader, Currency: "Rp", Dir: archiveDir}, nil, logger),
		logger,
	)

	consumer := messaging.NewConsumer(brokers, topic, "receipt-archiver-test", messaging.WithStartOffset(kafka.FirstOffset))
	defer func() { _ = consumer.Close() }()

	consumeCtx, stop := context.WithCancel(ctx)
	defer stop()

	done := make(chan error, 1)
	go func() {
		done <- consumer.Consume(consumeCtx, func(ctx context.Context, msg messaging.Message) error {
			if err := archive.Handle(ctx, msg); err != nil {
				return err
			}
			stop()
			return nil
		})
	}()

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("timed out waiting for receipt event")
	}

	files, err := filepath.Glob(filepath.Join(archiveDir, receipt.KindArchive+"_*.pdf"))
	if err != nil {
		t.Fatalf("failed to list archive: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 archived receipt, got %d", len(files))
	}

	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatalf("failed to read archive: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Fatal("archived receipt is not a pdf")
	}
}
