// Package invoker posts single queries to the search API and normalizes the outcome.
package invoker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/dtnitsch/sheet-query-runner/models"
)

// HTTPError is returned for responses outside the 2xx range.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
}

type Client struct {
	client     *http.Client
	endpoint   string
	authHeader string
	token      string
	userAgent  string
	headers    map[string]string
	timeout    time.Duration
}

// NewClient builds a client for cfg.URL that sends token in cfg.AuthHeader.
func NewClient(cfg models.APIConfig, token string) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = models.DefaultTimeout
	}
	authHeader := cfg.AuthHeader
	if authHeader == "" {
		authHeader = models.DefaultAuthHeader
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = models.DefaultUserAgent
	}

	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		endpoint:   cfg.URL,
		authHeader: authHeader,
		token:      token,
		userAgent:  userAgent,
		headers:    cfg.Headers,
		timeout:    timeout,
	}
}

// Invoke sends one query and always returns an outcome; failures are
// reported through Success=false rather than an error.
func (c *Client) Invoke(ctx context.Context, query string) models.ApiOutcome {
	status, data, err := c.post(ctx, query)
	if err != nil {
		return c.failure(query, err)
	}
	return models.ApiOutcome{
		Success: true,
		Data:    data,
		Status:  models.HTTPStatus(status),
		Query:   query,
	}
}

func (c *Client) post(ctx context.Context, query string) (int, any, error) {
	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set(c.authHeader, c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return resp.StatusCode, decodeBody(body), nil
}

func (c *Client) failure(query string, err error) models.ApiOutcome {
	outcome := models.ApiOutcome{
		Success: false,
		Status:  models.NetworkErrorStatus(),
		Error:   err.Error(),
		Query:   query,
	}

	var httpErr *HTTPError
	switch {
	case errors.As(err, &httpErr):
		outcome.Status = models.HTTPStatus(httpErr.StatusCode)
	case isTimeout(err):
		outcome.Error = fmt.Sprintf("timeout of %dms exceeded", c.timeout.Milliseconds())
	}
	return outcome
}

// decodeBody keeps JSON bodies as raw JSON so key order survives into the
// archive. Anything else is kept as text. An empty body carries no data.
func decodeBody(body []byte) any {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	return string(body)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
