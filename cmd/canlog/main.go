package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/crimson-sun/canlog/internal/addressbook"
	"github.com/crimson-sun/canlog/internal/config"
	"github.com/crimson-sun/canlog/internal/connector"
	"github.com/crimson-sun/canlog/internal/engine/parser"
	"github.com/crimson-sun/canlog/internal/logging"
	"github.com/crimson-sun/canlog/internal/output/async"
	"github.com/crimson-sun/canlog/internal/pipeline"
	"github.com/crimson-sun/canlog/internal/server"

	// Register connector implementations.
	_ "github.com/crimson-sun/canlog/internal/connector/file"
	_ "github.com/crimson-sun/canlog/internal/connector/remote"
	_ "github.com/crimson-sun/canlog/internal/connector/stdin"
)

func main() {
	app := &cli.App{
		Name:  "canlog",
		Usage: "decode CAN transceiver logs against a machine address book",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "TOML config file", EnvVars: []string{"CANLOG_CONFIG"}},
			&cli.StringFlag{Name: "workbook", Aliases: []string{"w"}, Usage: "address book workbook (.xlsx path or URL)"},
			&cli.StringFlag{Name: "tables-dir", Usage: "address book as a directory of per-sheet CSVs"},
			&cli.StringFlag{Name: "machine", Aliases: []string{"m"}, Usage: "machine class: carding, df or flyer"},
			&cli.StringFlag{Name: "dialect", Usage: "line format: rcv or candump"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.BoolFlag{Name: "log-json", Usage: "log as JSON (always on with stdout output)"},
		},
		Commands: []*cli.Command{
			decodeCommand(),
			serveCommand(),
			tablesCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "canlog: %v\n", err)
		os.Exit(1)
	}
}

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "decode a log and write records to the configured outputs",
		ArgsUsage: "[log file]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Usage: "source provider: file, stdin or http"},
			&cli.StringSliceFlag{Name: "output", Aliases: []string{"o"}, Usage: "output formats: stdout, file, csv, xlsx, webhook"},
			&cli.StringFlag{Name: "csv", Usage: "CSV table path"},
			&cli.StringFlag{Name: "xlsx", Usage: "per-side workbook path"},
			&cli.IntFlag{Name: "workers", Usage: "decode goroutines"},
			&cli.IntFlag{Name: "offset", Usage: "skip this many leading lines"},
			&cli.IntFlag{Name: "limit", Usage: "decode at most this many lines"},
			&cli.StringFlag{Name: "filter", Usage: "decode only lines containing this text"},
			&cli.BoolFlag{Name: "stream", Usage: "decode lines as they arrive"},
		},
		Action: runDecode,
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the decode API over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address"},
		},
		Action: runServe,
	}
}

func tablesCommand() *cli.Command {
	return &cli.Command{
		Name:   "tables",
		Usage:  "load the address book and print its table sizes",
		Action: runTables,
	}
}

// loadConfig reads configuration and lays command-line flags over it.
func loadConfig(c *cli.Context) (config.Config, error) {
	if path := c.String("config"); path != "" {
		os.Setenv("CANLOG_CONFIG", path)
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	applyFlags(c, &cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	jsonLogs := c.Bool("log-json") || cfg.HasFormat(config.FormatStdout)
	logging.Init(jsonLogs, logging.ParseLevel(cfg.Log.Level))
	return cfg, nil
}

func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("workbook") {
		cfg.Decode.Workbook = c.String("workbook")
	}
	if c.IsSet("tables-dir") {
		cfg.Decode.TablesDir = c.String("tables-dir")
	}
	if c.IsSet("machine") {
		cfg.Decode.Machine = c.String("machine")
	}
	if c.IsSet("dialect") {
		cfg.Decode.Dialect = c.String("dialect")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("source") {
		cfg.Source.Provider = c.String("source")
	}
	if c.IsSet("output") {
		cfg.Output.Formats = c.StringSlice("output")
	}
	if c.IsSet("csv") {
		cfg.Output.CSVPath = c.String("csv")
	}
	if c.IsSet("xlsx") {
		cfg.Output.XLSXPath = c.String("xlsx")
	}
	if c.IsSet("workers") {
		cfg.Decode.Workers = c.Int("workers")
	}
	if c.IsSet("addr") {
		cfg.Server.Addr = c.String("addr")
	}
	// A positional log file implies the file source.
	if c.Args().Present() {
		cfg.Source.Provider = "file"
		cfg.Source.Endpoint = c.Args().First()
	}
}

func runDecode(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	ctx := c.Context

	book, err := addressbook.Open(ctx, cfg.Decode.Workbook, cfg.Decode.TablesDir)
	if err != nil {
		return err
	}
	p, err := parser.ForDialect(cfg.Decode.Dialect)
	if err != nil {
		return err
	}
	ctor, err := connector.Get(cfg.Source.Provider)
	if err != nil {
		return err
	}
	conn := ctor()
	connCfg := connector.ConnectorConfig{
		Provider: cfg.Source.Provider,
		Endpoint: cfg.Source.Endpoint,
		APIKey:   cfg.Source.APIKey,
		Extra:    map[string]string{"poll_interval": cfg.Source.PollInterval},
	}

	pl := pipeline.New(book, cfg.MachineClass(), p, pipeline.WithWorkers(cfg.Decode.Workers))
	out, err := openOutputs(cfg, pl.SessionID())
	if err != nil {
		return err
	}

	slog.Info("decode starting",
		"session", pl.SessionID(),
		"source", cfg.Source.Provider,
		"machine", cfg.Decode.Machine,
		"dialect", cfg.Decode.Dialect,
		"outputs", cfg.Output.Formats,
	)

	if c.Bool("stream") {
		lines, err := conn.Stream(ctx, connCfg)
		if err != nil {
			out.Close()
			return err
		}
		opts := []async.Option{async.WithOnError(func(err error) {
			slog.Error("output failed", "error", err)
		})}
		if d := cfg.Output.Drain(); d > 0 {
			opts = append(opts, async.WithDrainTimeout(d))
		}
		buffered := async.New(out, opts...)
		sum, err := pl.Stream(ctx, lines, buffered)
		if cerr := buffered.Close(); err == nil {
			err = cerr
		}
		slog.Info("stream finished", "lines", sum.Lines, "records", sum.Records, "diagnostics", sum.Diagnostics)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	params := connector.QueryParams{
		Offset: c.Int("offset"),
		Limit:  c.Int("limit"),
		Filter: c.String("filter"),
	}
	res, err := pl.Query(ctx, conn, connCfg, params)
	if err != nil {
		out.Close()
		return err
	}
	err = pl.Emit(ctx, res, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

func runServe(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	// The default book is optional; requests may upload their own.
	var book *addressbook.Book
	if cfg.Decode.Workbook != "" || cfg.Decode.TablesDir != "" {
		if book, err = addressbook.Open(c.Context, cfg.Decode.Workbook, cfg.Decode.TablesDir); err != nil {
			return err
		}
	}
	return server.New(cfg, book).Run(c.Context)
}

func runTables(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	start := time.Now()
	book, err := addressbook.Open(c.Context, cfg.Decode.Workbook, cfg.Decode.TablesDir)
	if err != nil {
		return err
	}
	stats := book.Stats()
	names := make([]string, 0, len(stats))
	for t := range stats {
		names = append(names, string(t))
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(c.App.Writer, "%-12s %d\n", n, stats[addressbook.Table(n)])
	}
	slog.Debug("address book loaded", "elapsed", time.Since(start))
	return nil
}
