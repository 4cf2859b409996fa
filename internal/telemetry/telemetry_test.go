package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSalesMetrics_NilIsNoop(t *testing.T) {
	var m *SalesMetrics
	m.RecordCheckout(context.Background(), "committed", decimal.NewFromInt(1))
	m.RecordReceipt(context.Background(), "pdf", nil)
}

func TestInitMeterProvider_ExposesSalesMetrics(t *testing.T) {
	handler, shutdown, err := InitMeterProvider("pos-test", "test")
	if err != nil {
		t.Fatalf("init meter provider: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	m, err := NewSalesMetrics()
	if err != nil {
		t.Fatalf("sales metrics: %v", err)
	}
	m.RecordCheckout(context.Background(), "committed", decimal.NewFromInt(285000))
	m.RecordReceipt(context.Background(), "thermal", nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, name := range []string{"pos_checkouts", "pos_sales_amount", "pos_receipts"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("expected %s in metrics output", name)
		}
	}
}

func TestSpanName(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/carts/abc", nil)
	if got := SpanName("", req); got != "GET /carts/abc" {
		t.Errorf("unexpected span name %q", got)
	}

	req.Pattern = "GET /carts/{id}"
	if got := SpanName("", req); got != "GET /carts/{id}" {
		t.Errorf("unexpected span name %q", got)
	}
}
