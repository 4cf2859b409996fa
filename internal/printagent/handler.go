// Package printagent exposes a locally attached printer over HTTP.
package printagent

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/joao-fontenele/pos-receipts/internal/printer"
)

const maxJobBytes = 1 << 20

type Handler struct {
	mu     sync.Mutex
	device printer.JobSender
	logger *slog.Logger
}

func NewHandler(device printer.JobSender, logger *slog.Logger) *Handler {
	return &Handler{
		device: device,
		logger: logger,
	}
}

type jobResponse struct {
	Status string `json:"status"`
	Bytes  int    `json:"bytes"`
}

// HandleJob forwards a raw ESC/POS job to the device. Jobs are written one
// at a time so receipts never interleave on paper.
func (h *Handler) HandleJob(w http.ResponseWriter, r *http.Request) {
	job, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJobBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "job too large")
			return
		}
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(job) == 0 {
		h.writeError(w, http.StatusBadRequest, "empty job")
		return
	}

	h.mu.Lock()
	err = h.device.Send(r.Context(), job)
	h.mu.Unlock()

	if err != nil {
		h.logger.Error("failed to print job", "error", err, "bytes", len(job))
		h.writeError(w, http.StatusBadGateway, "printer unavailable")
		return
	}

	h.logger.Info("job printed", "bytes", len(job))
	h.writeJSON(w, http.StatusAccepted, jobResponse{Status: "printed", Bytes: len(job)})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
