// Package archiver keeps a PDF copy of every issued receipt.
package archiver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/joao-fontenele/pos-receipts/internal/domain"
	"github.com/joao-fontenele/pos-receipts/internal/messaging"
	"github.com/joao-fontenele/pos-receipts/internal/receipt"
)

type ReceiptHandler struct {
	receipts *receipt.Service
	logger   *slog.Logger
}

func NewReceiptHandler(receipts *receipt.Service, logger *slog.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		receipts: receipts,
		logger:   logger,
	}
}

// Handle archives receipt.issued events. Other event types and undecodable
// payloads are skipped so they are committed and never redelivered; a failed
// write is returned so the message is retried.
func (h *ReceiptHandler) Handle(ctx context.Context, msg messaging.Message) error {
	if msg.Type != domain.EventReceiptIssued {
		h.logger.DebugContext(ctx, "skipping event", "type", msg.Type, "key", msg.Key)
		return nil
	}

	var event domain.ReceiptIssuedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.ErrorContext(ctx, "dropping undecodable receipt event", "error", err, "key", msg.Key)
		return nil
	}

	h.logger.InfoContext(ctx, "archiving receipt", "order_id", event.OrderID, "event_id", event.EventID)

	rec := h.receipts.Build(event.Order, event.Payment)
	path, err := h.receipts.SavePDF(ctx, rec, receipt.KindArchive)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to archive receipt", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("archive order %d: %w", event.OrderID, err)
	}

	h.logger.InfoContext(ctx, "receipt archived", "order_id", event.OrderID, "path", path)
	return nil
}
