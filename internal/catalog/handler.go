package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/pos-receipts/internal/domain"
	"github.com/joao-fontenele/pos-receipts/internal/httpapi"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

type productRequest struct {
	Type    string          `json:"type"`
	Variant string          `json:"variant"`
	Price   decimal.Decimal `json:"price"`
}

func (req productRequest) product() (domain.Product, error) {
	t, err := domain.ParseProductType(req.Type)
	if err != nil {
		return domain.Product{}, err
	}
	return domain.Product{Type: t, Variant: req.Variant, Price: req.Price}, nil
}

type productResponse struct {
	domain.Product
	Display string `json:"display"`
}

func toResponse(p domain.Product) productResponse {
	return productResponse{Product: p, Display: p.String()}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.writeError(w, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toResponse(p))
	}

	h.logger.Info("products listed", "count", len(out))
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toResponse(product))
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	p, err := req.product()
	if err != nil {
		h.writeError(w, err)
		return
	}

	created, err := h.service.Add(r.Context(), p)
	if err != nil {
		h.logger.Warn("failed to add product", "error", err, "type", p.Type, "variant", p.Variant)
		h.writeError(w, err)
		return
	}

	h.logger.Info("product added", "product_id", created.ID, "type", created.Type, "variant", created.Variant)
	h.writeJSON(w, http.StatusCreated, toResponse(created))
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	p, err := req.product()
	if err != nil {
		h.writeError(w, err)
		return
	}
	p.ID = id

	updated, err := h.service.Update(r.Context(), p)
	if err != nil {
		h.logger.Warn("failed to update product", "error", err, "product_id", id)
		h.writeError(w, err)
		return
	}

	h.logger.Info("product updated", "product_id", updated.ID)
	h.writeJSON(w, http.StatusOK, toResponse(updated))
}

// HandleRemove deletes by full value: the body must carry the current price.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	t, err := domain.ParseProductType(req.Type)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.service.Remove(r.Context(), t, req.Variant, req.Price); err != nil {
		h.logger.Warn("failed to remove product", "error", err, "type", t, "variant", req.Variant)
		h.writeError(w, err)
		return
	}

	h.logger.Info("product removed", "type", t, "variant", req.Variant)
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid product id %q", domain.ErrValidation, r.PathValue("id"))
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
