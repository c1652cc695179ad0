package connector

import (
	"context"

	"github.com/crimson-sun/canlog/internal/model"
)

// Connector defines the interface all log line sources must implement.
type Connector interface {
	// Stream sends lines as they become available and closes the channel
	// at end of input or when ctx is cancelled.
	Stream(ctx context.Context, cfg ConnectorConfig) (<-chan model.Line, error)

	// Query reads the source to the end and returns the selected lines.
	Query(ctx context.Context, cfg ConnectorConfig, params QueryParams) ([]model.Line, error)
}

// ConnectorConfig holds provider-specific source settings.
type ConnectorConfig struct {
	Provider string
	Endpoint string // file path or URL
	APIKey   string
	Extra    map[string]string
}

// QueryParams selects a window of lines. Line numbers always refer to the
// position in the source, not in the result.
type QueryParams struct {
	Offset int    // skip this many leading lines
	Limit  int    // 0 = no limit
	Filter string // keep only lines containing this substring
}

// Keep reports whether a line passes the filter.
func (p QueryParams) Keep(text string) bool {
	return p.Filter == "" || containsFold(text, p.Filter)
}
