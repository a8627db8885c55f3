// Package telemetry fetches thermostat telemetry from the remote endpoint.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"thermostat_dashboard/internal/models"
)

const (
	maxBodyBytes = 32 << 20 // 32 MiB
	maxErrorBody = 100
	acceptHeader = "application/json"
)

var errNotArray = errors.New("expected a JSON array of records")

// Client performs the single GET of a render cycle.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient builds a client for endpoint. A zero timeout disables the
// request deadline; callers still bound requests through ctx.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Endpoint returns the configured URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Fetch downloads and decodes the record set. It fails with *FetchError on
// transport errors and non-2xx statuses, and with *ParseError on a body that
// does not decode.
func (c *Client) Fetch(ctx context.Context) ([]models.TelemetryRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{StatusCode: resp.StatusCode, Body: truncate(data, maxErrorBody)}
	}

	return Decode(data)
}

// Decode parses a telemetry body. Only a JSON array is accepted.
func Decode(data []byte) ([]models.TelemetryRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &ParseError{Err: errNotArray}
	}

	var records []models.TelemetryRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, &ParseError{Err: err}
	}
	return records, nil
}

// truncate shortens b to at most maxLen bytes without splitting a rune.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(b[cut]) {
		cut--
	}
	return string(b[:cut]) + "..."
}
