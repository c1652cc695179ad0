// Package table renders decoded records as a single CSV table.
//
// Records are buffered until Close because the column set depends on
// every record in the run.
package table

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/crimson-sun/canlog/internal/model"
	"github.com/crimson-sun/canlog/internal/output"
)

// Option configures a table Output.
type Option func(*Output)

// WithEmptyMarker sets the cell text for fields a record does not carry.
func WithEmptyMarker(s string) Option {
	return func(o *Output) { o.empty = s }
}

// Output buffers records and writes them as CSV on Close.
type Output struct {
	mu      sync.Mutex
	w       io.Writer
	closer  io.Closer
	empty   string
	records []model.Record
	closed  bool
}

// New writes the table to w on Close. w is not closed.
func New(w io.Writer, opts ...Option) *Output {
	o := &Output{w: w, empty: output.EmptyMarker}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewFile creates (or truncates) path and writes the table there on Close.
func NewFile(path string, opts ...Option) (*Output, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("table output: create %s: %w", path, err)
	}
	o := New(f, opts...)
	o.closer = f
	return o, nil
}

func (o *Output) Write(_ context.Context, rec model.Record) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return fmt.Errorf("table output: write after close")
	}
	o.records = append(o.records, rec)
	return nil
}

// Close renders the buffered records. Subsequent calls are no-ops.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true

	err := Render(o.w, o.records, o.empty)
	if o.closer != nil {
		if cerr := o.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Render writes records to w as CSV: a header row, then one row per record.
func Render(w io.Writer, records []model.Record, empty string) error {
	cols := output.Columns(records)
	cw := csv.NewWriter(w)
	if err := cw.Write(output.Header(cols)); err != nil {
		return fmt.Errorf("table output: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(output.Row(rec, cols, empty)); err != nil {
			return fmt.Errorf("table output: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("table output: %w", err)
	}
	return nil
}
