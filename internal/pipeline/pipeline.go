package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/crimson-sun/canlog/internal/addressbook"
	"github.com/crimson-sun/canlog/internal/connector"
	"github.com/crimson-sun/canlog/internal/engine"
	"github.com/crimson-sun/canlog/internal/engine/parser"
	"github.com/crimson-sun/canlog/internal/logging"
	"github.com/crimson-sun/canlog/internal/metrics"
	"github.com/crimson-sun/canlog/internal/model"
	"github.com/crimson-sun/canlog/internal/output"
)

// Processor turns one line into an outcome. *engine.Engine implements it.
type Processor interface {
	Process(line model.Line) engine.Outcome
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) Option {
	return func(p *Pipeline) { p.session = id }
}

// WithLogger sets the logger for diagnostics. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithWorkers makes Query decode on up to n goroutines. Default: serial.
func WithWorkers(n int) Option {
	return func(p *Pipeline) { p.workers = n }
}

// Pipeline is one decoding session: an address book, a machine class and
// a line dialect, identified by a session ID. It is safe for concurrent use.
type Pipeline struct {
	proc    Processor
	machine model.MachineClass
	session string
	workers int
	logger  *slog.Logger
}

// New creates a session decoding lines in p's dialect for machine.
func New(book *addressbook.Book, machine model.MachineClass, p parser.Parser, opts ...Option) *Pipeline {
	return NewWithProcessor(engine.New(p, book, machine), machine, opts...)
}

// NewWithProcessor creates a session around an existing Processor.
func NewWithProcessor(proc Processor, machine model.MachineClass, opts ...Option) *Pipeline {
	p := &Pipeline{
		proc:    proc,
		machine: machine,
		session: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	p.logger = p.logger.With("session", p.session)
	return p
}

// SessionID identifies this session in logs, HTTP headers and webhook batches.
func (p *Pipeline) SessionID() string { return p.session }

// Machine returns the session's machine class.
func (p *Pipeline) Machine() model.MachineClass { return p.machine }

// Result is the output of a batch run. Records and Diagnostics are in
// input order and never nil.
type Result struct {
	SessionID   string             `json:"session"`
	Records     []model.Record     `json:"records"`
	Diagnostics []model.Diagnostic `json:"diagnostics"`
}

// Side returns the records classified to s.
func (r Result) Side(s model.Side) []model.Record {
	var out []model.Record
	for _, rec := range r.Records {
		if rec.Side == s {
			out = append(out, rec)
		}
	}
	return out
}

// Dropped counts lines that produced no record.
func (r Result) Dropped() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Dropped() {
			n++
		}
	}
	return n
}

// Run decodes lines, numbered from 1. Failing lines become diagnostics;
// Run itself never fails.
func (p *Pipeline) Run(lines []string) Result {
	return p.RunLines(Number(lines))
}

// RunLines decodes already-numbered lines.
func (p *Pipeline) RunLines(lines []model.Line) Result {
	start := time.Now()
	outcomes := make([]engine.Outcome, len(lines))
	for i, l := range lines {
		outcomes[i] = p.proc.Process(l)
	}
	res := p.collect(outcomes)
	metrics.RecordRun(p.machine, "serial", time.Since(start))
	return res
}

// RunParallel is Run spread over up to workers goroutines. The result is
// identical to Run's. It fails only if ctx ends first.
func (p *Pipeline) RunParallel(ctx context.Context, lines []string, workers int) (Result, error) {
	return p.RunLinesParallel(ctx, Number(lines), workers)
}

// RunLinesParallel is RunParallel for already-numbered lines.
func (p *Pipeline) RunLinesParallel(ctx context.Context, numbered []model.Line, workers int) (Result, error) {
	if workers <= 1 || len(numbered) < 2 {
		return p.RunLines(numbered), nil
	}

	start := time.Now()
	outcomes := make([]engine.Outcome, len(numbered))
	shard := (len(numbered) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < len(numbered); lo += shard {
		hi := min(lo+shard, len(numbered))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				outcomes[i] = p.proc.Process(numbered[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("pipeline run: %w", err)
	}

	res := p.collect(outcomes)
	metrics.RecordRun(p.machine, "parallel", time.Since(start))
	return res, nil
}

// Query reads a batch from conn and decodes it, in parallel when the
// session was built WithWorkers.
func (p *Pipeline) Query(ctx context.Context, conn connector.Connector, cfg connector.ConnectorConfig, params connector.QueryParams) (Result, error) {
	lines, err := conn.Query(ctx, cfg, params)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline query: %w", err)
	}
	return p.RunLinesParallel(ctx, lines, p.workers)
}

// Emit writes res's records to out in order.
func (p *Pipeline) Emit(ctx context.Context, res Result, out output.Output) error {
	for _, rec := range res.Records {
		if err := out.Write(ctx, rec); err != nil {
			return fmt.Errorf("pipeline output: %w", err)
		}
	}
	return nil
}

// Summary counts what a Stream call processed.
type Summary struct {
	Lines       int `json:"lines"`
	Records     int `json:"records"`
	Diagnostics int `json:"diagnostics"`
}

// Stream decodes lines as they arrive and writes each kept record to out.
// It returns when lines is closed, ctx ends, or out fails.
func (p *Pipeline) Stream(ctx context.Context, lines <-chan model.Line, out output.Output) (Summary, error) {
	var sum Summary
	for {
		select {
		case <-ctx.Done():
			return sum, ctx.Err()
		case l, ok := <-lines:
			if !ok {
				return sum, nil
			}
			sum.Lines++
			metrics.RecordLines(p.machine, 1)
			o := p.proc.Process(l)
			if o.Diagnostic != nil {
				sum.Diagnostics++
				p.observeDiagnostic(o)
			}
			if !o.Kept {
				continue
			}
			sum.Records++
			metrics.RecordRecord(p.machine, o.Record)
			if err := out.Write(ctx, o.Record); err != nil {
				return sum, fmt.Errorf("pipeline output: %w", err)
			}
		}
	}
}

func (p *Pipeline) collect(outcomes []engine.Outcome) Result {
	res := Result{
		SessionID:   p.session,
		Records:     make([]model.Record, 0, len(outcomes)),
		Diagnostics: []model.Diagnostic{},
	}
	metrics.RecordLines(p.machine, len(outcomes))
	for _, o := range outcomes {
		if o.Diagnostic != nil {
			res.Diagnostics = append(res.Diagnostics, *o.Diagnostic)
			p.observeDiagnostic(o)
		}
		if o.Kept {
			res.Records = append(res.Records, o.Record)
			metrics.RecordRecord(p.machine, o.Record)
		}
	}
	p.logger.Info("decode finished",
		"lines", len(outcomes),
		"records", len(res.Records),
		"dropped", res.Dropped(),
		"machine", p.machine.String(),
	)
	return res
}

// observeDiagnostic logs and counts o's diagnostic. Lines that are simply
// not receive frames are expected noise and log at debug.
func (p *Pipeline) observeDiagnostic(o engine.Outcome) {
	d := *o.Diagnostic
	metrics.RecordDiagnostic(p.machine, d)
	level := slog.LevelWarn
	if errors.Is(o.Err, parser.ErrNoReceiveMarker) {
		level = slog.LevelDebug
	}
	msg := "line skipped"
	if !d.Dropped() {
		msg = "payload not decoded"
	}
	p.logger.Log(context.Background(), level, msg, logging.DiagnosticAttrs(d)...)
}

// Number turns raw text into lines numbered from 1.
func Number(lines []string) []model.Line {
	out := make([]model.Line, len(lines))
	for i, text := range lines {
		out[i] = model.Line{No: i + 1, Text: text}
	}
	return out
}
