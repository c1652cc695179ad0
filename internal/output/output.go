package output

import (
	"context"

	"github.com/crimson-sun/canlog/internal/model"
)

// Output defines the interface for decoded record destinations.
type Output interface {
	Write(ctx context.Context, rec model.Record) error
	Close() error
}
