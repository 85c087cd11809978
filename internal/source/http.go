package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tagcalc/internal/ctxlog"
	"tagcalc/internal/tag"
)

// HTTP fetches a JSON array of tags with a single GET request.
type HTTP struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

// HTTPOption configures the HTTP source.
type HTTPOption func(*HTTP)

// WithTimeout bounds the whole request. Zero keeps the default.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(h *HTTP) {
		if timeout > 0 {
			h.Timeout = timeout
		}
	}
}

// WithClient sets the HTTP client used for the request.
func WithClient(c *http.Client) HTTPOption {
	return func(h *HTTP) { h.Client = c }
}

// NewHTTP creates an HTTP source for url.
func NewHTTP(url string, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		URL:     url,
		Timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HTTP) String() string { return h.URL }

// Fetch performs the request and decodes the tag list.
func (h *HTTP) Fetch(ctx context.Context) ([]tag.Tag, error) {
	logger := ctxlog.FromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, h.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, &FetchError{Source: h.URL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: h.URL, Err: err}
	}
	defer resp.Body.Close()
	logger.Debug("Received tag source response.", "status", resp.Status)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &FetchError{Source: h.URL, Err: fmt.Errorf("unexpected status %s: %s", resp.Status, body)}
	}

	var tags []tag.Tag
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, &FetchError{Source: h.URL, Err: fmt.Errorf("invalid response: %w", err)}
	}
	for i, t := range tags {
		if t.ID == "" {
			return nil, &FetchError{Source: h.URL, Err: fmt.Errorf("invalid response: tag %d has no id", i)}
		}
	}
	return tags, nil
}
