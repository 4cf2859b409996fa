package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/pos-receipts/internal/domain"
	"github.com/joao-fontenele/pos-receipts/internal/httpapi"
	"github.com/joao-fontenele/pos-receipts/internal/receipt"
	"github.com/joao-fontenele/pos-receipts/internal/telemetry"
)

type ProductLookup interface {
	Get(ctx context.Context, id int64) (domain.Product, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, event any) error
}

type Handler struct {
	carts    *Registry
	products ProductLookup
	orders   Committer
	receipts *receipt.Service
	events   EventPublisher
	metrics  *telemetry.SalesMetrics
	logger   *slog.Logger
}

func NewHandler(carts *Registry, products ProductLookup, orders Committer, receipts *receipt.Service, metrics *telemetry.SalesMetrics, logger *slog.Logger) *Handler {
	return &Handler{
		carts:    carts,
		products: products,
		orders:   orders,
		receipts: receipts,
		metrics:  metrics,
		logger:   logger,
	}
}

// WithEvents publishes a receipt.issued event after every committed sale.
func (h *Handler) WithEvents(events EventPublisher) *Handler {
	h.events = events
	return h
}

type cartResponse struct {
	ID    string             `json:"id"`
	State State              `json:"state"`
	Lines []domain.OrderLine `json:"lines"`
	Quote domain.Quote       `json:"quote"`
	Sale  *Sale              `json:"sale,omitempty"`
}

func view(id string, c *Cart) cartResponse {
	snap := c.Snapshot()
	return cartResponse{
		ID:    id,
		State: snap.State,
		Lines: snap.Lines,
		Quote: snap.Quote,
		Sale:  snap.Sale,
	}
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, c := h.carts.Create()

	h.logger.Info("cart opened", "cart_id", id)
	h.writeJSON(w, http.StatusCreated, view(id, c))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, c, err := h.cart(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, view(id, c))
}

// HandleDelete cancels a session and discards its cart.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.carts.Delete(id) {
		h.writeError(w, fmt.Errorf("%w: cart %s", domain.ErrNotFound, id))
		return
	}

	h.logger.Info("cart discarded", "cart_id", id)
	w.WriteHeader(http.StatusNoContent)
}

type addLineRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (h *Handler) HandleAddLine(w http.ResponseWriter, r *http.Request) {
	id, c, err := h.cart(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req addLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}
	if req.ProductID <= 0 {
		h.writeError(w, fmt.Errorf("%w: a product must be selected", domain.ErrValidation))
		return
	}
	if req.Quantity <= 0 || req.Quantity > MaxLineQuantity {
		h.writeError(w, fmt.Errorf("%w: quantity must be between 1 and %d", domain.ErrValidation, MaxLineQuantity))
		return
	}

	product, err := h.products.Get(r.Context(), req.ProductID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := c.Add(product, req.Quantity); err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.Info("line added", "cart_id", id, "product_id", product.ID, "quantity", req.Quantity)
	h.writeJSON(w, http.StatusOK, view(id, c))
}

// HandleRemoveLine removes the line for ?type=&variant=.
func (h *Handler) HandleRemoveLine(w http.ResponseWriter, r *http.Request) {
	id, c, err := h.cart(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	t, err := domain.ParseProductType(r.URL.Query().Get("type"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	key := domain.ProductKey{Type: t, Variant: r.URL.Query().Get("variant")}

	if err := c.Remove(key); err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.Info("line removed", "cart_id", id, "type", key.Type, "variant", key.Variant)
	h.writeJSON(w, http.StatusOK, view(id, c))
}

type checkoutRequest struct {
	Tender decimal.Decimal `json:"tender"`
	Method string          `json:"method"`
}

type checkoutResponse struct {
	CartID  string   `json:"cart_id"`
	Sale    *Sale    `json:"sale"`
	Receipt []string `json:"receipt"`
}

// HandleCheckout settles the cart. When persistence fails the sale is kept
// on the cart so its receipt can still be printed.
func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, c, err := h.cart(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	method, err := domain.ParsePaymentMethod(req.Method)
	if err != nil {
		h.writeError(w, err)
		return
	}

	sale, err := c.Checkout(ctx, req.Tender, method, h.orders)
	if err != nil {
		if sale != nil {
			h.metrics.RecordCheckout(ctx, "unsaved", sale.Order.Quote.Total)
			h.logger.Error("failed to persist sale", "error", err, "cart_id", id)
		} else {
			h.metrics.RecordCheckout(ctx, "rejected", decimal.Zero)
			h.logger.Warn("checkout rejected", "error", err, "cart_id", id)
		}
		h.writeError(w, err)
		return
	}

	h.metrics.RecordCheckout(ctx, "committed", sale.Order.Quote.Total)
	h.publish(ctx, sale)

	h.logger.Info("sale committed",
		"cart_id", id,
		"order_id", sale.OrderID,
		"total", sale.Order.Quote.Total.String(),
		"method", sale.Payment.Method,
	)

	rec := h.receipts.Build(sale.Order, sale.Payment)
	h.writeJSON(w, http.StatusCreated, checkoutResponse{
		CartID:  id,
		Sale:    sale,
		Receipt: receipt.Text(receipt.Render(rec)),
	})
}

func (h *Handler) publish(ctx context.Context, sale *Sale) {
	if h.events == nil {
		return
	}

	event := domain.ReceiptIssuedEvent{
		EventID:   uuid.NewString(),
		OrderID:   sale.OrderID,
		Order:     sale.Order,
		Payment:   sale.Payment,
		Timestamp: time.Now().UTC(),
	}
	key := strconv.FormatInt(sale.OrderID, 10)
	if err := h.events.Publish(ctx, domain.EventReceiptIssued, key, event); err != nil {
		h.logger.Error("failed to publish receipt issued event", "error", err, "order_id", sale.OrderID)
	}
}

func (h *Handler) HandleReceipt(w http.ResponseWriter, r *http.Request) {
	_, rec, err := h.receipt(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string][]string{"lines": receipt.Text(receipt.Render(rec))})
}

func (h *Handler) HandlePrint(w http.ResponseWriter, r *http.Request) {
	id, rec, err := h.receipt(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	err = h.receipts.Print(r.Context(), rec)
	h.metrics.RecordReceipt(r.Context(), "thermal", err)
	if err != nil {
		h.logger.Error("failed to print receipt", "error", err, "cart_id", id)
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleSavePDF(w http.ResponseWriter, r *http.Request) {
	id, rec, err := h.receipt(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	path, err := h.receipts.SavePDF(r.Context(), rec, receipt.KindReceipt)
	h.metrics.RecordReceipt(r.Context(), "pdf", err)
	if err != nil {
		h.logger.Error("failed to save receipt", "error", err, "cart_id", id, "path", path)
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]string{"path": path})
}

// HandlePreview returns the receipt as a PNG, scaled by ?scale= (default 2).
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	id, rec, err := h.receipt(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	scale := 2.0
	if raw := r.URL.Query().Get("scale"); raw != "" {
		scale, err = strconv.ParseFloat(raw, 64)
		if err != nil || scale <= 0 || scale > 8 {
			h.writeError(w, fmt.Errorf("%w: scale must be between 0 and 8", domain.ErrValidation))
			return
		}
	}

	w.Header().Set("Content-Type", "image/png")
	err = h.receipts.WritePNG(w, rec, scale)
	h.metrics.RecordReceipt(r.Context(), "png", err)
	if err != nil {
		h.logger.Error("failed to render preview", "error", err, "cart_id", id)
	}
}

func (h *Handler) cart(r *http.Request) (string, *Cart, error) {
	id := r.PathValue("id")
	c, ok := h.carts.Get(id)
	if !ok {
		return id, nil, fmt.Errorf("%w: cart %s", domain.ErrNotFound, id)
	}
	return id, c, nil
}

func (h *Handler) receipt(r *http.Request) (string, receipt.Receipt, error) {
	id, c, err := h.cart(r)
	if err != nil {
		return id, receipt.Receipt{}, err
	}

	sale := c.Sale()
	if sale == nil {
		return id, receipt.Receipt{}, fmt.Errorf("%w: cart %s has not been checked out", domain.ErrNotFound, id)
	}
	return id, h.receipts.Build(sale.Order, sale.Payment), nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status, code := httpapi.Status(err)
	h.writeJSON(w, status, map[string]string{"error": httpapi.Message(err), "code": code})
}
