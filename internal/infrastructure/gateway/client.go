package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/retailflow/plm-console/internal/core/domain"
	"github.com/retailflow/plm-console/internal/core/ports"
	"github.com/retailflow/plm-console/internal/pkg/metrics"
)

const headerRequestID = "X-Request-ID"

// Client implements ports.Gateway over net/http against a fixed base URL.
// It makes exactly one attempt per call and sets no timeout of its own.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient returns a Client for baseURL. A nil httpClient uses a zero-value
// http.Client (transport defaults apply).
func NewClient(baseURL string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log,
	}
}

var _ ports.Gateway = (*Client)(nil)

// Call sends req and returns the fully read 2xx response.
func (c *Client) Call(ctx context.Context, req ports.Request) (*ports.Response, error) {
	op := req.Op
	if op == "" {
		op = "call"
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode body: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+req.Path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range req.Header {
		httpReq.Header.Set(k, v)
	}
	if req.Credentials != nil {
		httpReq.SetBasicAuth(req.Credentials.Username, req.Credentials.Secret)
	}
	if httpReq.Header.Get(headerRequestID) == "" {
		httpReq.Header.Set(headerRequestID, uuid.NewString())
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	metrics.GatewayRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(op, "network_error").Inc()
		c.log.Warn().Err(err).Str("op", op).Str("method", method).Str("path", req.Path).Msg("api call failed")
		return nil, &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	metrics.GatewayRequestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	c.log.Debug().
		Str("op", op).
		Str("method", method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Str("request_id", httpReq.Header.Get(headerRequestID)).
		Dur("took", time.Since(start)).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.RequestError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(resp.StatusCode, raw),
		}
	}

	return &ports.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       raw,
	}, nil
}

// Reachable reports whether the API answers HTTP at all. Any status counts.
func (c *Client) Reachable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: "reachable", Err: err}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// extractMessage prefers a JSON "message" then "error" field, falling back to
// the raw body text, then the status text for an empty body.
func extractMessage(code int, raw []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err == nil {
		for _, key := range []string{"message", "error"} {
			if s, ok := payload[key].(string); ok && s != "" {
				return s
			}
		}
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return http.StatusText(code)
	}
	return text
}
