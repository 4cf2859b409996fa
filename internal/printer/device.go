package printer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/joao-fontenele/pos-receipts/internal/domain"
)

// JobSender delivers a complete ESC/POS job to a printer.
type JobSender interface {
	Send(ctx context.Context, job []byte) error
}

// Open resolves a printer address:
//
//	tcp://host:9100          raw socket printer
//	file:///dev/usb/lp0      local device node
//	http://printagent:8085   print agent service
func Open(addr string) (JobSender, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("parse printer address: %w", err)
	}

	switch u.Scheme {
	case "tcp":
		host := u.Host
		if u.Port() == "" {
			host = net.JoinHostPort(u.Hostname(), "9100")
		}
		return &NetworkPrinter{addr: host, timeout: 5 * time.Second}, nil
	case "file":
		return &DevicePrinter{path: u.Path}, nil
	case "http", "https":
		client := &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		}
		return NewAgentClient(strings.TrimRight(addr, "/"), client), nil
	}

	return nil, fmt.Errorf("unsupported printer address %q", addr)
}

type NetworkPrinter struct {
	addr    string
	timeout time.Duration
}

func (p *NetworkPrinter) Send(ctx context.Context, job []byte) error {
	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.addr)
	if err != nil {
		return fmt.Errorf("%w: connect to printer %s: %w", domain.ErrIO, p.addr, err)
	}
	defer func() { _ = conn.Close() }()

	_ = conn.SetWriteDeadline(time.Now().Add(p.timeout))
	if _, err := conn.Write(job); err != nil {
		return fmt.Errorf("%w: write to printer %s: %w", domain.ErrIO, p.addr, err)
	}

	return nil
}

type DevicePrinter struct {
	path string
}

func (p *DevicePrinter) Send(_ context.Context, job []byte) error {
	f, err := os.OpenFile(p.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open printer device: %w", domain.ErrIO, err)
	}

	if _, err := f.Write(job); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: write printer device: %w", domain.ErrIO, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close printer device: %w", domain.ErrIO, err)
	}
	return nil
}

// AgentClient forwards jobs to a printagent over HTTP.
type AgentClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAgentClient(baseURL string, client *http.Client) *AgentClient {
	return &AgentClient{baseURL: baseURL, httpClient: client}
}

func (c *AgentClient) Send(ctx context.Context, job []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/jobs", bytes.NewReader(job))
	if err != nil {
		return fmt.Errorf("create print request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: print agent unavailable: %w", domain.ErrIO, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: print agent returned status %d", domain.ErrIO, resp.StatusCode)
	}

	return nil
}
