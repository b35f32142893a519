package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// Client wraps the Elasticsearch connection shared by the search context
// and the operator CLI.
type Client struct {
	ES     *elasticsearch.Client
	logger *slog.Logger
}

func NewClient(url string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if url == "" {
		return nil, errors.New("elasticsearch url is required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Transport: &http.Transport{
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
			ResponseHeaderTimeout: timeout,
			MaxIdleConnsPerHost:   10,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &Client{ES: es, logger: logger}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	res, err := c.ES.Ping(c.ES.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: %s", res.Status())
	}
	return nil
}

// WaitReady pings until the cluster answers, ctx expires or attempts run out.
func (c *Client) WaitReady(ctx context.Context, attempts int, interval time.Duration) error {
	if attempts <= 0 {
		attempts = 30
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if lastErr = c.Ping(ctx); lastErr == nil {
			c.logger.Info("elasticsearch is available",
				"event", "search_engine_ready",
				"module", "internal/platform/search",
				"layer", "platform",
				"attempt", attempt,
			)
			return nil
		}
		c.logger.Warn("elasticsearch unavailable, waiting",
			"event", "search_engine_waiting",
			"module", "internal/platform/search",
			"layer", "platform",
			"attempt", attempt,
			"error", lastErr.Error(),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("elasticsearch not ready after %d attempts: %w", attempts, lastErr)
}
