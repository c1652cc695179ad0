package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/crimson-sun/canlog/internal/addressbook"
	"github.com/crimson-sun/canlog/internal/engine/classifier"
	"github.com/crimson-sun/canlog/internal/engine/decoder"
	"github.com/crimson-sun/canlog/internal/engine/parser"
	"github.com/crimson-sun/canlog/internal/engine/resolver"
	"github.com/crimson-sun/canlog/internal/model"
)

// Engine orchestrates the parse → resolve → decode → classify steps for
// single lines. It holds no per-line state and is safe for concurrent use.
type Engine struct {
	parser   parser.Parser
	resolver *resolver.Resolver
	machine  model.MachineClass
}

// New creates an Engine for one machine class.
func New(p parser.Parser, book *addressbook.Book, machine model.MachineClass) *Engine {
	return &Engine{
		parser:   p,
		resolver: resolver.New(book, machine),
		machine:  machine,
	}
}

// Outcome is the result of processing one line. When Kept is false the
// line produced no record and Diagnostic explains why. A kept record may
// still carry a Diagnostic if its payload failed to decode.
type Outcome struct {
	Record     model.Record
	Kept       bool
	Diagnostic *model.Diagnostic
	Err        error // cause behind Diagnostic
}

// Process runs one line through the decoding steps.
func (e *Engine) Process(line model.Line) Outcome {
	if line.Truncated {
		err := fmt.Errorf("%w: first %d bytes kept", parser.ErrLineTooLong, len(line.Text))
		return Outcome{Diagnostic: diagnose(line, model.StageParse, err), Err: err}
	}
	raw, err := e.parser.Parse(line.Text)
	if err != nil {
		return Outcome{Diagnostic: diagnose(line, model.StageParse, err), Err: err}
	}

	resolved, err := e.resolver.Resolve(raw)
	if err != nil {
		return Outcome{Diagnostic: diagnose(line, model.StageResolve, err), Err: err}
	}

	rec := model.Record{
		ResolvedFrame: resolved,
		Side:          classifier.Classify(resolved),
	}
	out := Outcome{Record: rec, Kept: true}

	telemetry, err := decoder.Decode(e.machine, resolved)
	if err != nil {
		out.Diagnostic = diagnose(line, model.StageDecode, err)
		out.Err = err
		return out
	}
	out.Record.Telemetry = telemetry
	return out
}

// ProcessBatch processes lines in order, numbering them from 1.
func (e *Engine) ProcessBatch(lines []string) []Outcome {
	outcomes := make([]Outcome, len(lines))
	for i, text := range lines {
		outcomes[i] = e.Process(model.Line{No: i + 1, Text: text})
	}
	return outcomes
}

// truncatedPreview bounds the text a diagnostic keeps for an oversized line.
const truncatedPreview = 256

func diagnose(line model.Line, stage model.Stage, err error) *model.Diagnostic {
	text := line.Text
	if line.Truncated && len(text) > truncatedPreview {
		text = strings.ToValidUTF8(text[:truncatedPreview], "")
	}
	return &model.Diagnostic{
		LineNo:  line.No,
		Line:    text,
		Stage:   stage,
		Kind:    KindOf(err),
		Message: err.Error(),
	}
}

// KindOf maps an error from any decoding step to its diagnostic kind.
func KindOf(err error) model.Kind {
	var re *resolver.ResolutionError
	switch {
	case errors.Is(err, decoder.ErrMalformedHex):
		return model.KindMalformedHex
	case errors.Is(err, decoder.ErrPayloadTooShort):
		return model.KindPayloadTooShort
	case errors.As(err, &re), errors.Is(err, addressbook.ErrNotFound):
		return model.KindResolution
	default:
		return model.KindLineFormat
	}
}
