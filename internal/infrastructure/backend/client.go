// Package backend forwards the normalized catalog to the recommendation service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"multimodal-product-discovery/internal/domain"
	"multimodal-product-discovery/internal/ports"

	"github.com/rs/zerolog"
)

// DefaultURL is the receive endpoint of a locally running backend
const DefaultURL = "http://127.0.0.1:8000/receive-products/"

// maxReplyBytes caps how much of the backend reply is kept
const maxReplyBytes = 4 << 20

// Client posts product batches as JSON
type Client struct {
	url        string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a backend client; a nil httpClient gets a 60s timeout client
func NewClient(url string, httpClient *http.Client, logger zerolog.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{url: url, httpClient: httpClient, logger: logger}
}

var _ ports.RecommendationBackend = (*Client)(nil)

// SendProducts posts the batch and returns the raw reply body.
// Any non-2xx status is an error.
func (c *Client) SendProducts(ctx context.Context, products []domain.NormalizedProduct) ([]byte, error) {
	if products == nil {
		products = []domain.NormalizedProduct{}
	}
	body, err := json.Marshal(products)
	if err != nil {
		return nil, fmt.Errorf("failed to encode products: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create backend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach backend: %w", err)
	}
	defer resp.Body.Close()

	reply, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read backend reply: %w", err)
	}
	if len(reply) > maxReplyBytes {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("url", c.url).
			Int("limit", maxReplyBytes).
			Msg("Backend reply too large")
		return nil, fmt.Errorf("backend reply exceeds %d bytes", maxReplyBytes)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("url", c.url).
			Bytes("reply", reply).
			Msg("Backend rejected products")
		return nil, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	c.logger.Info().
		Int("count", len(products)).
		Int("status", resp.StatusCode).
		Msg("Products forwarded to backend")
	return reply, nil
}
