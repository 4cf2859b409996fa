package orders

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/pos-receipts/internal/domain"
	"github.com/joao-fontenele/pos-receipts/internal/httpapi"
)

const dateLayout = "2006-01-02"

type Handler struct {
	repo     *OrderRepository
	location *time.Location
	logger   *slog.Logger
}

// NewHandler serves order history. Date filters are interpreted as calendar
// days in location.
func NewHandler(repo *OrderRepository, location *time.Location, logger *slog.Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		repo:     repo,
		location: location,
		logger:   logger,
	}
}

type historyResponse struct {
	Orders []domain.PersistedOrder `json:"orders"`
	Total  decimal.Decimal         `json:"total"`
}

// HandleList returns order history, optionally restricted to ?date=YYYY-MM-DD,
// along with the summed total of the listed orders.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	period, err := h.period(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	orders, err := h.repo.History(r.Context(), period)
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		h.writeError(w, err)
		return
	}

	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Total)
	}

	h.logger.Info("orders listed", "count", len(orders))
	h.writeJSON(w, http.StatusOK, historyResponse{Orders: orders, Total: total})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	order, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get order", "error", err, "id", id)
		h.writeError(w, err)
		return
	}

	if order == nil {
		h.writeError(w, fmt.Errorf("%w: order %d", domain.ErrNotFound, id))
		return
	}

	h.logger.Info("order retrieved", "order_id", order.ID)
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.logger.Warn("failed to delete order", "error", err, "id", id)
		h.writeError(w, err)
		return
	}

	h.logger.Info("order deleted", "order_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleTotalSales(w http.ResponseWriter, r *http.Request) {
	period, err := h.period(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	total, err := h.repo.TotalSales(r.Context(), period)
	if err != nil {
		h.logger.Error("failed to total sales", "error", err)
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"total": total})
}

func (h *Handler) period(r *http.Request) (Period, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return Period{}, nil
	}

	day, err := time.ParseInLocation(dateLayout, raw, h.location)
	if err != nil {
		return Period{}, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrValidation)
	}
	return Day(day), nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid order id %q", domain.ErrValidation, r.PathValue("id"))
	}
	return id, nil
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
