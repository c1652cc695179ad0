// Package workbook renders Flyer records as an xlsx workbook with one sheet
// per lift side.
package workbook

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/crimson-sun/canlog/internal/model"
	"github.com/crimson-sun/canlog/internal/output"
)

// Sheet names, in workbook order.
const (
	SheetRight = "Right Lift"
	SheetLeft  = "Left Lift"
)

var sheets = []struct {
	name string
	side model.Side
}{
	{SheetRight, model.SideRight},
	{SheetLeft, model.SideLeft},
}

// Option configures a workbook Output.
type Option func(*Output)

// WithEmptyMarker sets the cell text for fields a record does not carry.
func WithEmptyMarker(s string) Option {
	return func(o *Output) { o.empty = s }
}

// Output buffers records and writes the workbook on Close. Records whose
// side is Unknown are not written.
type Output struct {
	mu     sync.Mutex
	dst    func(*excelize.File) error
	empty  string
	bySide map[model.Side][]model.Record
	closed bool
}

// New writes the workbook to w on Close.
func New(w io.Writer, opts ...Option) *Output {
	return newOutput(func(f *excelize.File) error {
		_, err := f.WriteTo(w)
		return err
	}, opts)
}

// NewFile saves the workbook to path on Close.
func NewFile(path string, opts ...Option) *Output {
	return newOutput(func(f *excelize.File) error { return f.SaveAs(path) }, opts)
}

func newOutput(dst func(*excelize.File) error, opts []Option) *Output {
	o := &Output{
		dst:    dst,
		empty:  output.EmptyMarker,
		bySide: make(map[model.Side][]model.Record),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Output) Write(_ context.Context, rec model.Record) error {
	if rec.Side != model.SideRight && rec.Side != model.SideLeft {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return fmt.Errorf("workbook output: write after close")
	}
	o.bySide[rec.Side] = append(o.bySide[rec.Side], rec)
	return nil
}

// Close builds and emits the workbook. Subsequent calls are no-ops.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true

	f, err := Build(o.bySide[model.SideRight], o.bySide[model.SideLeft], o.empty)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := o.dst(f); err != nil {
		return fmt.Errorf("workbook output: %w", err)
	}
	return nil
}

// Build lays out right and left records on their sheets. Each sheet's
// columns are derived from its own records.
func Build(right, left []model.Record, empty string) (*excelize.File, error) {
	f := excelize.NewFile()
	for _, s := range sheets {
		if _, err := f.NewSheet(s.name); err != nil {
			f.Close()
			return nil, fmt.Errorf("workbook output: sheet %q: %w", s.name, err)
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("workbook output: %w", err)
	}

	for _, s := range sheets {
		recs := right
		if s.side == model.SideLeft {
			recs = left
		}
		if err := fillSheet(f, s.name, recs, empty); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func fillSheet(f *excelize.File, sheet string, recs []model.Record, empty string) error {
	cols := output.Columns(recs)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = string(c)
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, rec := range recs {
		if err := setRow(f, sheet, i+2, cells(rec, cols, empty)); err != nil {
			return err
		}
	}
	return nil
}

// cells renders rec over cols. Telemetry fields are numeric cells so the
// sheet can be charted and summed; everything else is text.
func cells(rec model.Record, cols []model.Field, empty string) []any {
	text := output.Row(rec, cols, empty)
	out := make([]any, len(cols))
	for i, c := range cols {
		if n, ok := rec.Number(c); ok {
			out[i] = n
			continue
		}
		out[i] = text[i]
	}
	return out
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("workbook output: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("workbook output: %s row %d: %w", sheet, row, err)
	}
	return nil
}
