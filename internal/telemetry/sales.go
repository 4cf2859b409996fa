package telemetry

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SalesMetrics records till activity on the global meter provider. A nil
// *SalesMetrics records nothing.
type SalesMetrics struct {
	checkouts metric.Int64Counter
	amount    metric.Float64Counter
	receipts  metric.Int64Counter
}

func NewSalesMetrics() (*SalesMetrics, error) {
	meter := otel.Meter("pos")

	checkouts, err := meter.Int64Counter("pos.checkouts",
		metric.WithDescription("Checkouts by outcome"),
	)
	if err != nil {
		return nil, err
	}

	amount, err := meter.Float64Counter("pos.sales.amount",
		metric.WithDescription("Total value of committed sales"),
	)
	if err != nil {
		return nil, err
	}

	receipts, err := meter.Int64Counter("pos.receipts",
		metric.WithDescription("Receipts delivered by sink and outcome"),
	)
	if err != nil {
		return nil, err
	}

	return &SalesMetrics{checkouts: checkouts, amount: amount, receipts: receipts}, nil
}

// RecordCheckout counts a checkout attempt. total is only added to the sales
// amount when outcome is "committed".
func (m *SalesMetrics) RecordCheckout(ctx context.Context, outcome string, total decimal.Decimal) {
	if m == nil {
		return
	}
	m.checkouts.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	if outcome == "committed" {
		m.amount.Add(ctx, total.InexactFloat64())
	}
}

func (m *SalesMetrics) RecordReceipt(ctx context.Context, sink string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.receipts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("sink", sink),
		attribute.String("outcome", outcome),
	))
}
