package main

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/crimson-sun/canlog/internal/config"
	"github.com/crimson-sun/canlog/internal/model"
	"github.com/crimson-sun/canlog/internal/output"
	"github.com/crimson-sun/canlog/internal/output/file"
	"github.com/crimson-sun/canlog/internal/output/multi"
	"github.com/crimson-sun/canlog/internal/output/stdout"
	"github.com/crimson-sun/canlog/internal/output/table"
	"github.com/crimson-sun/canlog/internal/output/webhook"
	"github.com/crimson-sun/canlog/internal/output/workbook"
)

const (
	defaultCSVPath  = "canlog.csv"
	defaultXLSXPath = "canlog.xlsx"
)

// openOutputs builds one output per configured format. A single format is
// returned as is; several are fanned out.
func openOutputs(cfg config.Config, session string) (output.Output, error) {
	var outs []output.Output
	fail := func(err error) (output.Output, error) {
		for _, o := range outs {
			o.Close()
		}
		return nil, err
	}

	for _, f := range cfg.Output.Formats {
		switch f {
		case config.FormatStdout:
			outs = append(outs, stdout.New(cfg.Output.Pretty))
		case config.FormatFile:
			o, err := openFiles(cfg.Output)
			if err != nil {
				return fail(err)
			}
			outs = append(outs, o)
		case config.FormatCSV:
			o, err := table.NewFile(orDefault(cfg.Output.CSVPath, defaultCSVPath),
				table.WithEmptyMarker(cfg.Output.EmptyMarker))
			if err != nil {
				return fail(err)
			}
			outs = append(outs, o)
		case config.FormatXLSX:
			outs = append(outs, workbook.NewFile(orDefault(cfg.Output.XLSXPath, defaultXLSXPath),
				workbook.WithEmptyMarker(cfg.Output.EmptyMarker)))
		case config.FormatWebhook:
			outs = append(outs, webhook.New(cfg.Output.WebhookURL,
				webhook.WithSession(session),
				webhook.WithOnError(func(err error) {
					slog.Error("webhook flush failed", "session", session, "error", err)
				}),
			))
		}
	}

	if len(outs) == 1 {
		return outs[0], nil
	}
	return multi.New(outs...), nil
}

// openFiles opens the NDJSON file output. With split_sides each side gets
// its own file, named by inserting the lowercased side before the extension.
func openFiles(oc config.OutputConfig) (output.Output, error) {
	var opts []file.Option
	if oc.MaxSize > 0 {
		opts = append(opts, file.WithMaxSize(oc.MaxSize))
	}
	sides := oc.SideSet()
	if !oc.SplitSides {
		if len(sides) > 0 {
			opts = append(opts, file.WithSides(sides...))
		}
		return file.New(oc.Path, opts...)
	}

	if len(sides) == 0 {
		sides = model.Sides
	}
	routes := make(map[model.Side]output.Output, len(sides))
	for _, side := range sides {
		o, err := file.New(sidePath(oc.Path, side), opts...)
		if err != nil {
			multi.NewBySide(routes).Close()
			return nil, err
		}
		routes[side] = o
	}
	return multi.NewBySide(routes), nil
}

func sidePath(path string, side model.Side) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "." + strings.ToLower(string(side)) + ext
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
