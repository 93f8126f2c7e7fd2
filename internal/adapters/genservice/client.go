// Package genservice is the HTTP client adapter for the external
// PDF-generation service: a lightweight /health probe plus the
// schedule-specific generate endpoints. One request per call, no retries;
// the user re-triggers submission after a failure.
package genservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/taxdesk/schedule-generator/internal/domain"
)

// ServerError is a non-2xx response from the generation endpoint, carrying
// whatever detail text the service put in the body.
type ServerError struct {
	Status int
	Detail string
}

func (e *ServerError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server error (%d)", e.Status)
	}
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Detail)
}

// ContentError is a 2xx response that violates the PDF contract: wrong
// content type or an empty body.
type ContentError struct {
	ContentType string
	Empty       bool
}

func (e *ContentError) Error() string {
	if e.Empty {
		return "received empty PDF file"
	}
	return fmt.Sprintf("server did not return a PDF file (content type %q)", e.ContentType)
}

// TransportError is a network failure during the generate call itself,
// distinct from a pre-flight probe failure.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "cannot reach generation service: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client talks to one service origin, e.g. "http://localhost:9000".
type Client struct {
	origin string
	http   *http.Client
}

// New builds a client for origin. A nil httpClient means
// http.DefaultClient, the platform default timeout behavior, matching the
// single best-effort request model.
func New(origin string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{origin: strings.TrimRight(origin, "/"), http: httpClient}
}

// Origin returns the configured service origin, for diagnostics.
func (c *Client) Origin() string { return c.origin }

// Health performs the reachability probe. Repeatable and stateless: every
// call is one GET with the response body fully drained and closed.
func (c *Client) Health(ctx context.Context) (domain.ServerInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.origin+"/health", nil)
	if err != nil {
		return domain.ServerInfo{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return domain.ServerInfo{}, fmt.Errorf("health check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return domain.ServerInfo{}, fmt.Errorf("health check: status %d", resp.StatusCode)
	}
	var info domain.ServerInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return domain.ServerInfo{}, fmt.Errorf("health check: decode body: %w", err)
	}
	return info, nil
}

// Generate POSTs the flat JSON form payload and returns the PDF bytes.
// The success contract checks, in order: 2xx status, a PDF content type,
// and a non-empty body. Each violation maps to its own error type so the
// pipeline can surface a specific diagnostic.
func (c *Client) Generate(ctx context.Context, schedule domain.ScheduleType, payload []byte) ([]byte, error) {
	url := c.origin + schedule.GeneratePath()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &ServerError{Status: resp.StatusCode, Detail: strings.TrimSpace(string(detail))}
	}

	ct := resp.Header.Get("Content-Type")
	if !strings.Contains(ct, "application/pdf") {
		io.Copy(io.Discard, resp.Body)
		return nil, &ContentError{ContentType: ct}
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if len(pdf) == 0 {
		return nil, &ContentError{Empty: true}
	}
	return pdf, nil
}
