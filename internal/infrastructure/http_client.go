package infrastructure

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"chartgo/internal/domain"
	"chartgo/pkg/logger"
	"chartgo/pkg/metrics"

	"golang.org/x/time/rate"
)

// SignatureHeader carries the hex HMAC-SHA256 of the request body.
const SignatureHeader = "X-Signature"

// implements domain.ExportClient interface
type SinkClient struct {
	client      *http.Client
	sinkURL     string
	sinkSecret  string
	logger      *logger.Logger
	metrics     *metrics.Metrics
	rateLimiter *rate.Limiter
}

// creates a new export sink client
func NewSinkClient(sinkURL, sinkSecret string, timeout time.Duration, ratePerSecond int, logger *logger.Logger, metrics *metrics.Metrics) *SinkClient {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}

	return &SinkClient{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		sinkURL:     sinkURL,
		sinkSecret:  sinkSecret,
		logger:      logger,
		metrics:     metrics,
		rateLimiter: rate.NewLimiter(rate.Limit(ratePerSecond), ratePerSecond),
	}
}

// Export posts the flattened rows as a JSON array.
func (c *SinkClient) Export(ctx context.Context, rows []domain.ExportRow) error {
	if c.sinkURL == "" {
		return domain.ErrSinkNotConfigured
	}

	start := time.Now()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.metrics.RecordSinkFailure("rate_limit")
		return fmt.Errorf("rate limit exceeded: %w", err)
	}

	payload, err := json.Marshal(rows)
	if err != nil {
		c.metrics.RecordSinkFailure("json_marshal")
		return fmt.Errorf("failed to marshal export rows: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sinkURL, bytes.NewReader(payload))
	if err != nil {
		c.metrics.RecordSinkFailure("request_creation")
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if requestID := logger.RequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	if c.sinkSecret != "" {
		req.Header.Set(SignatureHeader, Sign(c.sinkSecret, payload))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordSinkFailure("network_error")
		return fmt.Errorf("failed to export rows: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.RecordSinkCall(fmt.Sprintf("error_%d", resp.StatusCode), duration)
		return fmt.Errorf("sink returned status %d", resp.StatusCode)
	}

	c.metrics.RecordSinkCall("success", duration)
	c.metrics.RecordRowsExported(len(rows))

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"url":      c.sinkURL,
		"duration": duration,
		"rows":     len(rows),
	}).Info("Successfully exported campaign shells")

	return nil
}

// Sign returns the hex HMAC-SHA256 of payload under secret.
func Sign(secret string, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
