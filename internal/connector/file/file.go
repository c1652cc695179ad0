package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/crimson-sun/canlog/internal/connector"
	"github.com/crimson-sun/canlog/internal/model"
)

func init() {
	connector.Register("file", func() connector.Connector {
		return &Connector{}
	})
}

// Connector reads lines from the file named by ConnectorConfig.Endpoint.
type Connector struct{}

func (c *Connector) Query(ctx context.Context, cfg connector.ConnectorConfig, params connector.QueryParams) ([]model.Line, error) {
	f, err := open(cfg)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines, err := connector.ReadLines(ctx, f, params)
	if err != nil {
		return nil, fmt.Errorf("file connector: read %s: %w", cfg.Endpoint, err)
	}
	return lines, nil
}

func (c *Connector) Stream(ctx context.Context, cfg connector.ConnectorConfig) (<-chan model.Line, error) {
	f, err := open(cfg)
	if err != nil {
		return nil, err
	}
	onErr := func(err error) {
		slog.Warn("read error", "connector", "file", "path", cfg.Endpoint, "error", err)
	}
	return connector.StreamLines(ctx, f, 1, onErr, func() { f.Close() }), nil
}

func open(cfg connector.ConnectorConfig) (*os.File, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("file connector: missing path in Endpoint")
	}
	f, err := os.Open(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("file connector: %w", err)
	}
	return f, nil
}
