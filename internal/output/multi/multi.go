package multi

import (
	"context"
	"errors"

	"github.com/crimson-sun/canlog/internal/model"
	"github.com/crimson-sun/canlog/internal/output"
)

// Multi fans out records to multiple outputs. If one output fails, the
// remaining outputs still receive the record.
type Multi struct {
	outputs []output.Output
}

// New creates a Multi that fans out to the given outputs.
func New(outputs ...output.Output) *Multi {
	return &Multi{outputs: outputs}
}

// Write delivers the record to every wrapped output and joins the errors.
func (m *Multi) Write(ctx context.Context, rec model.Record) error {
	var errs []error
	for _, o := range m.outputs {
		if err := o.Write(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close calls Close on every wrapped output, collecting errors.
func (m *Multi) Close() error {
	return closeAll(m.outputs)
}

// BySide routes each record to the output registered for its side.
// Records for sides without an output are discarded.
type BySide struct {
	routes map[model.Side]output.Output
}

// NewBySide creates a side router. A nil output for a side is skipped.
func NewBySide(routes map[model.Side]output.Output) *BySide {
	r := &BySide{routes: make(map[model.Side]output.Output, len(routes))}
	for side, o := range routes {
		if o != nil {
			r.routes[side] = o
		}
	}
	return r
}

func (r *BySide) Write(ctx context.Context, rec model.Record) error {
	o, ok := r.routes[rec.Side]
	if !ok {
		return nil
	}
	return o.Write(ctx, rec)
}

func (r *BySide) Close() error {
	outs := make([]output.Output, 0, len(r.routes))
	for _, side := range []model.Side{model.SideRight, model.SideLeft, model.SideUnknown} {
		if o, ok := r.routes[side]; ok {
			outs = append(outs, o)
		}
	}
	return closeAll(outs)
}

func closeAll(outs []output.Output) error {
	var errs []error
	for _, o := range outs {
		if err := o.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
