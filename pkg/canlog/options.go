package canlog

import "github.com/crimson-sun/canlog/internal/engine/parser"

type options struct {
	workbook  string
	tablesDir string
	machine   string
	dialect   string
	workers   int
}

// Option configures a Decoder.
type Option func(*options)

// WithWorkbook loads the address book from an .xlsx workbook, given as a
// path or an http(s) URL.
func WithWorkbook(path string) Option {
	return func(o *options) { o.workbook = path }
}

// WithTablesDir loads the address book from a directory holding one CSV
// per sheet (FunctionID.csv, FF_IDs.csv, ...). Ignored when a workbook is set.
func WithTablesDir(dir string) Option {
	return func(o *options) { o.tablesDir = dir }
}

// WithMachine sets the machine class: "carding", "df" or "flyer".
// Default: "flyer".
func WithMachine(m string) Option {
	return func(o *options) { o.machine = m }
}

// WithDialect sets the line format: "rcv" (transceiver) or "candump".
// Default: "rcv".
func WithDialect(d string) Option {
	return func(o *options) { o.dialect = d }
}

// WithWorkers decodes large inputs on up to n goroutines. Default: 1.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

func defaultOptions() options {
	return options{
		machine: "flyer",
		dialect: parser.DialectTransceiver,
		workers: 1,
	}
}
