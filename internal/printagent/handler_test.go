package printagent

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joao-fontenele/pos-receipts/internal/printer"
)

type fakeDevice struct {
	jobs [][]byte
	err  error
}

func (d *fakeDevice) Send(_ context.Context, job []byte) error {
	d.jobs = append(d.jobs, job)
	return d.err
}

func newHandler(d *fakeDevice) *Handler {
	return NewHandler(d, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandler_HandleJob(t *testing.T) {
	t.Run("forwards job", func(t *testing.T) {
		device := &fakeDevice{}
		h := newHandler(device)

		job := []byte{0x1b, 0x40, 'h', 'i', 0x0a, 0x1d, 0x56, 0x00}
		req := httptest.NewRequest(http.MethodPost, "/jobs", bytes.NewReader(job))
		rec := httptest.NewRecorder()
		h.HandleJob(rec, req)

		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected status 202, got %d", rec.Code)
		}
		if len(device.jobs) != 1 || !bytes.Equal(device.jobs[0], job) {
			t.Errorf("job not forwarded intact: %x", device.jobs)
		}
	})

	t.Run("empty job", func(t *testing.T) {
		device := &fakeDevice{}
		h := newHandler(device)

		rec := httptest.NewRecorder()
		h.HandleJob(rec, httptest.NewRequest(http.MethodPost, "/jobs", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
		if len(device.jobs) != 0 {
			t.Error("device should not be called")
		}
	})

	t.Run("device failure", func(t *testing.T) {
		h := newHandler(&fakeDevice{err: errors.New("out of paper")})

		rec := httptest.NewRecorder()
		h.HandleJob(rec, httptest.NewRequest(http.MethodPost, "/jobs", bytes.NewReader([]byte("x"))))

		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected status 502, got %d", rec.Code)
		}
	})

	t.Run("oversized job", func(t *testing.T) {
		h := newHandler(&fakeDevice{})

		rec := httptest.NewRecorder()
		h.HandleJob(rec, httptest.NewRequest(http.MethodPost, "/jobs", bytes.NewReader(make([]byte, maxJobBytes+1))))

		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("expected status 413, got %d", rec.Code)
		}
	})
}

func TestAgentRoundTrip(t *testing.T) {
	device := &fakeDevice{}
	h := newHandler(device)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /jobs", h.HandleJob)
	server := httptest.NewServer(mux)
	defer server.Close()

	client := printer.NewAgentClient(server.URL, server.Client())
	if err := client.Send(context.Background(), []byte("receipt")); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(device.jobs) != 1 || string(device.jobs[0]) != "receipt" {
		t.Errorf("unexpected jobs: %q", device.jobs)
	}
}
