// Package remote reads a log published at an HTTP(S) URL.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crimson-sun/canlog/internal/connector"
	"github.com/crimson-sun/canlog/internal/connector/httpclient"
	"github.com/crimson-sun/canlog/internal/model"
)

func init() {
	connector.Register("http", func() connector.Connector {
		return &Connector{}
	})
}

// Connector fetches the document at ConnectorConfig.Endpoint. In stream
// mode with Extra["poll_interval"] set, it refetches on that interval and
// emits only lines past those already sent, tailing a growing log.
type Connector struct {
	opts []httpclient.Option
}

func (c *Connector) Query(ctx context.Context, cfg connector.ConnectorConfig, params connector.QueryParams) ([]model.Line, error) {
	body, err := c.fetch(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return connector.ReadLines(ctx, bytes.NewReader(body), params)
}

func (c *Connector) Stream(ctx context.Context, cfg connector.ConnectorConfig) (<-chan model.Line, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("http connector: missing URL in Endpoint")
	}
	var interval time.Duration
	if raw := cfg.Extra["poll_interval"]; raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("http connector: invalid poll_interval %q", raw)
		}
		interval = d
	}

	ch := make(chan model.Line, 64)
	go func() {
		defer close(ch)
		sent := c.poll(ctx, cfg, 0, ch)
		if interval == 0 {
			return
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sent = c.poll(ctx, cfg, sent, ch)
			}
		}
	}()
	return ch, nil
}

// poll emits lines after the first sent and returns the new count.
func (c *Connector) poll(ctx context.Context, cfg connector.ConnectorConfig, sent int, ch chan<- model.Line) int {
	body, err := c.fetch(ctx, cfg)
	if err != nil {
		slog.Warn("poll error", "connector", "http", "url", cfg.Endpoint, "error", err)
		return sent
	}
	lines, err := connector.ReadLines(ctx, bytes.NewReader(body), connector.QueryParams{Offset: sent})
	if err != nil {
		slog.Warn("poll error", "connector", "http", "url", cfg.Endpoint, "error", err)
		return sent
	}
	for _, l := range lines {
		select {
		case ch <- l:
			sent = l.No
		case <-ctx.Done():
			return sent
		}
	}
	return sent
}

func (c *Connector) fetch(ctx context.Context, cfg connector.ConnectorConfig) ([]byte, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("http connector: missing URL in Endpoint")
	}
	body, err := httpclient.New(cfg.Endpoint, cfg.APIKey, c.opts...).Get(ctx, "", nil)
	if err != nil {
		return nil, fmt.Errorf("http connector: %w", err)
	}
	return body, nil
}
