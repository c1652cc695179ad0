package canlog

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/crimson-sun/canlog/internal/addressbook"
	"github.com/crimson-sun/canlog/internal/connector"
	"github.com/crimson-sun/canlog/internal/engine/parser"
	"github.com/crimson-sun/canlog/internal/model"
	"github.com/crimson-sun/canlog/internal/pipeline"
)

// ErrNoAddressBook is returned by New when neither WithWorkbook nor
// WithTablesDir is given.
var ErrNoAddressBook = errors.New("canlog: no address book configured")

// Decoder decodes transceiver logs against one address book and machine
// class. Safe for concurrent use.
type Decoder struct {
	book    *addressbook.Book
	machine model.MachineClass
	parser  parser.Parser
	workers int
}

// New loads the address book and validates the options.
func New(opts ...Option) (*Decoder, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	machine, err := model.ParseMachineClass(o.machine)
	if err != nil {
		return nil, fmt.Errorf("canlog: %w", err)
	}
	p, err := parser.ForDialect(o.dialect)
	if err != nil {
		return nil, fmt.Errorf("canlog: %w", err)
	}

	if o.workbook == "" && o.tablesDir == "" {
		return nil, ErrNoAddressBook
	}
	book, err := addressbook.Open(context.Background(), o.workbook, o.tablesDir)
	if err != nil {
		return nil, fmt.Errorf("canlog: %w", err)
	}

	return &Decoder{book: book, machine: machine, parser: p, workers: o.workers}, nil
}

// Decode decodes lines, numbered from 1. Lines that fail become
// diagnostics; the error is non-nil only if decoding was interrupted.
func (d *Decoder) Decode(lines []string) (Result, error) {
	return d.DecodeContext(context.Background(), lines)
}

// DecodeContext is Decode with cancellation.
func (d *Decoder) DecodeContext(ctx context.Context, lines []string) (Result, error) {
	res, err := pipeline.New(d.book, d.machine, d.parser).RunParallel(ctx, lines, d.workers)
	if err != nil {
		return Result{}, fmt.Errorf("canlog: %w", err)
	}
	return resultFromPipeline(res), nil
}

// DecodeReader reads a whole log from r and decodes it. A line longer
// than the reader limit becomes a diagnostic; its neighbours still decode.
func (d *Decoder) DecodeReader(r io.Reader) (Result, error) {
	ctx := context.Background()
	lines, err := connector.ReadLines(ctx, r, connector.QueryParams{})
	if err != nil {
		return Result{}, fmt.Errorf("canlog: read: %w", err)
	}
	res, err := pipeline.New(d.book, d.machine, d.parser).RunLinesParallel(ctx, lines, d.workers)
	if err != nil {
		return Result{}, fmt.Errorf("canlog: %w", err)
	}
	return resultFromPipeline(res), nil
}

// Tables reports the number of entries loaded per address-book sheet.
func (d *Decoder) Tables() map[string]int {
	stats := d.book.Stats()
	out := make(map[string]int, len(stats))
	for t, n := range stats {
		out[string(t)] = n
	}
	return out
}

func resultFromPipeline(res pipeline.Result) Result {
	out := Result{
		Session:     res.SessionID,
		Records:     make([]Record, len(res.Records)),
		Diagnostics: make([]Diagnostic, len(res.Diagnostics)),
	}
	for i, r := range res.Records {
		out.Records[i] = recordFromModel(r)
	}
	for i, d := range res.Diagnostics {
		out.Diagnostics[i] = Diagnostic{
			Line:    d.LineNo,
			Text:    d.Line,
			Stage:   string(d.Stage),
			Kind:    string(d.Kind),
			Message: d.Message,
		}
	}
	return out
}

func recordFromModel(r model.Record) Record {
	rec := Record{
		Date:      r.Date,
		Time:      r.Time,
		ExtID:     r.ExtendedID,
		Payload:   r.PayloadHex,
		MsgType:   r.MessageType,
		Source:    r.SourceName,
		Dst:       r.DestName,
		Operation: r.OperationCommand,
		Error:     r.ErrorCommand,
		Side:      string(r.Side),
	}
	if t := r.Telemetry; t != nil {
		pub := Telemetry(*t)
		rec.Telemetry = &pub
	}
	return rec
}
