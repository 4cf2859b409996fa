package receipt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joao-fontenele/pos-receipts/internal/domain"
	"github.com/joao-fontenele/pos-receipts/internal/printer"
)

const (
	KindReceipt = "receipt"
	KindArchive = "archive"
)

type Config struct {
	Header   Header
	Currency string
	Location *time.Location
	Layout   PageLayout
	Dir      string
}

// Service builds receipts and delivers them to the configured sinks.
type Service struct {
	cfg     Config
	printer printer.JobSender
	logger  *slog.Logger
}

// NewService creates a receipt service. jobs may be nil when no printer is
// attached; Print then fails with domain.ErrIO.
func NewService(cfg Config, jobs printer.JobSender, logger *slog.Logger) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Layout == (PageLayout{}) {
		cfg.Layout = DefaultPageLayout
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	return &Service{cfg: cfg, printer: jobs, logger: logger}
}

func (s *Service) Build(order domain.Order, payment domain.Payment) Receipt {
	return Receipt{
		Header:   s.cfg.Header,
		Currency: s.cfg.Currency,
		Order:    order,
		Payment:  payment,
		IssuedAt: order.CreatedAt.In(s.cfg.Location),
	}
}

func (s *Service) Print(ctx context.Context, r Receipt) error {
	if s.printer == nil {
		return fmt.Errorf("%w: no printer configured", domain.ErrIO)
	}

	job, err := Encode(Render(r))
	if err != nil {
		return err
	}

	if err := s.printer.Send(ctx, job); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "receipt printed", "bytes", len(job))
	return nil
}

// SavePDF writes r into the receipts directory and returns the file path.
// A file that fails mid-write is left in place.
func (s *Service) SavePDF(ctx context.Context, r Receipt, kind string) (string, error) {
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create receipt dir: %w", domain.ErrIO, err)
	}

	f, path, err := s.create(kind, r.IssuedAt, "pdf")
	if err != nil {
		return "", err
	}

	page := s.cfg.Layout.Place(Render(r))
	if err := WritePDF(f, page, s.cfg.Header.Name+" receipt"); err != nil {
		_ = f.Close()
		return path, err
	}

	if err := f.Close(); err != nil {
		return path, fmt.Errorf("%w: close %s: %w", domain.ErrIO, path, err)
	}

	s.logger.InfoContext(ctx, "receipt saved", "path", path, "kind", kind)
	return path, nil
}

// WritePNG writes a preview image of r.
func (s *Service) WritePNG(w io.Writer, r Receipt, scale float64) error {
	return WritePNG(w, s.cfg.Layout.Place(Render(r)), scale)
}

// create opens a fresh file named by NextFileName. A name claimed between
// the lookup and the open is retried.
func (s *Service) create(kind string, t time.Time, ext string) (*os.File, string, error) {
	for range 5 {
		path, err := NextFileName(s.cfg.Dir, kind, t, ext)
		if err != nil {
			return nil, "", err
		}

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("%w: create %s: %w", domain.ErrIO, path, err)
		}
		return f, path, nil
	}

	return nil, "", fmt.Errorf("%w: no free file name for %s", domain.ErrIO, kind)
}
