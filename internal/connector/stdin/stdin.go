package stdin

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/crimson-sun/canlog/internal/connector"
	"github.com/crimson-sun/canlog/internal/model"
)

func init() {
	connector.Register("stdin", func() connector.Connector {
		return &Connector{In: os.Stdin}
	})
}

// Connector reads lines from In, normally os.Stdin.
type Connector struct {
	In io.Reader
}

func (c *Connector) Query(ctx context.Context, _ connector.ConnectorConfig, params connector.QueryParams) ([]model.Line, error) {
	lines, err := connector.ReadLines(ctx, c.In, params)
	if err != nil {
		return nil, fmt.Errorf("stdin connector: %w", err)
	}
	return lines, nil
}

func (c *Connector) Stream(ctx context.Context, _ connector.ConnectorConfig) (<-chan model.Line, error) {
	onErr := func(err error) {
		slog.Warn("read error", "connector", "stdin", "error", err)
	}
	return connector.StreamLines(ctx, c.In, 1, onErr, nil), nil
}
