package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/crimson-sun/canlog/internal/engine/parser"
	"github.com/crimson-sun/canlog/internal/model"
)

// Output formats.
const (
	FormatStdout  = "stdout"
	FormatFile    = "file"
	FormatCSV     = "csv"
	FormatXLSX    = "xlsx"
	FormatWebhook = "webhook"
)

var knownFormats = []string{FormatStdout, FormatFile, FormatCSV, FormatXLSX, FormatWebhook}

// Config holds all canlog configuration.
type Config struct {
	Source SourceConfig `toml:"source"`
	Decode DecodeConfig `toml:"decode"`
	Output OutputConfig `toml:"output"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// SourceConfig selects where log lines come from.
type SourceConfig struct {
	Provider     string `toml:"provider"` // "file", "stdin", "http"
	Endpoint     string `toml:"endpoint"`
	APIKey       string `toml:"api_key"`
	PollInterval string `toml:"poll_interval"`
}

// DecodeConfig holds the decoding session settings.
type DecodeConfig struct {
	Machine   string `toml:"machine"`
	Dialect   string `toml:"dialect"`
	Workbook  string `toml:"workbook"`   // .xlsx address book
	TablesDir string `toml:"tables_dir"` // directory of per-sheet CSVs
	Workers   int    `toml:"workers"`    // 0 = serial
}

// OutputConfig holds output destination settings.
type OutputConfig struct {
	Formats     []string `toml:"formats"`
	Path        string   `toml:"path"`
	MaxSize     int64    `toml:"max_size"`
	CSVPath     string   `toml:"csv_path"`
	XLSXPath    string   `toml:"xlsx_path"`
	WebhookURL  string   `toml:"webhook_url"`
	Pretty      bool     `toml:"pretty"`
	EmptyMarker string   `toml:"empty_marker"`

	// Sides limits the file output to these sides; empty keeps all.
	Sides []string `toml:"sides"`
	// SplitSides writes one file output per side next to Path.
	SplitSides bool `toml:"split_sides"`
	// DrainTimeout bounds how long stream mode flushes buffered records
	// on shutdown, as a Go duration. Empty uses the output default.
	DrainTimeout string `toml:"drain_timeout"`
}

// SideSet parses Sides. Call after Validate.
func (o OutputConfig) SideSet() []model.Side {
	var out []model.Side
	for _, s := range o.Sides {
		if side, err := model.ParseSide(s); err == nil {
			out = append(out, side)
		}
	}
	return out
}

// Drain parses DrainTimeout; 0 means unset. Call after Validate.
func (o OutputConfig) Drain() time.Duration {
	d, _ := time.ParseDuration(o.DrainTimeout)
	return d
}

// ServerConfig holds HTTP service settings.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	CORSOrigins    []string `toml:"cors_origins"`
	MaxUploadBytes int64    `toml:"max_upload_bytes"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Source: SourceConfig{Provider: "stdin"},
		Decode: DecodeConfig{Machine: "flyer", Dialect: parser.DialectTransceiver},
		Output: OutputConfig{Formats: []string{FormatStdout}},
		Server: ServerConfig{Addr: ":8080", MaxUploadBytes: 32 << 20},
		Log:    LogConfig{Level: "info"},
	}
}

// Load starts from Default, applies the TOML file named by CANLOG_CONFIG
// if set, then CANLOG_* environment variables, and validates the result.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("CANLOG_CONFIG"); path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile decodes the TOML file at path over cfg. Keys absent from the
// file keep their current values.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

// Validate checks that named values are known and numbers are in range.
func (c Config) Validate() error {
	var errs []error
	if _, err := model.ParseMachineClass(c.Decode.Machine); err != nil {
		errs = append(errs, fmt.Errorf("decode.machine: %w", err))
	}
	if _, err := parser.ForDialect(c.Decode.Dialect); err != nil {
		errs = append(errs, fmt.Errorf("decode.dialect: %w", err))
	}
	if c.Decode.Workers < 0 {
		errs = append(errs, fmt.Errorf("decode.workers: must be >= 0, got %d", c.Decode.Workers))
	}
	for _, f := range c.Output.Formats {
		if !slices.Contains(knownFormats, f) {
			errs = append(errs, fmt.Errorf("output.formats: unknown format %q", f))
		}
	}
	if c.HasFormat(FormatFile) && c.Output.Path == "" {
		errs = append(errs, errors.New("output.path: required for file output"))
	}
	if c.HasFormat(FormatWebhook) && c.Output.WebhookURL == "" {
		errs = append(errs, errors.New("output.webhook_url: required for webhook output"))
	}
	for _, s := range c.Output.Sides {
		if _, err := model.ParseSide(s); err != nil {
			errs = append(errs, fmt.Errorf("output.sides: %w", err))
		}
	}
	if c.Output.DrainTimeout != "" {
		if d, err := time.ParseDuration(c.Output.DrainTimeout); err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("output.drain_timeout: invalid duration %q", c.Output.DrainTimeout))
		}
	}
	if c.Output.MaxSize < 0 {
		errs = append(errs, fmt.Errorf("output.max_size: must be >= 0, got %d", c.Output.MaxSize))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_bytes: must be > 0, got %d", c.Server.MaxUploadBytes))
	}
	return errors.Join(errs...)
}

// HasFormat reports whether f is among the configured output formats.
func (c Config) HasFormat(f string) bool {
	return slices.Contains(c.Output.Formats, f)
}

// MachineClass returns the parsed decode.machine. Call after Validate.
func (c Config) MachineClass() model.MachineClass {
	m, _ := model.ParseMachineClass(c.Decode.Machine)
	return m
}

func applyEnv(cfg *Config) {
	setString(&cfg.Source.Provider, "CANLOG_SOURCE")
	setString(&cfg.Source.Endpoint, "CANLOG_ENDPOINT")
	setString(&cfg.Source.APIKey, "CANLOG_API_KEY")
	setString(&cfg.Source.PollInterval, "CANLOG_POLL_INTERVAL")

	setString(&cfg.Decode.Machine, "CANLOG_MACHINE")
	setString(&cfg.Decode.Dialect, "CANLOG_DIALECT")
	setString(&cfg.Decode.Workbook, "CANLOG_WORKBOOK")
	setString(&cfg.Decode.TablesDir, "CANLOG_TABLES_DIR")
	setInt(&cfg.Decode.Workers, "CANLOG_WORKERS")

	setList(&cfg.Output.Formats, "CANLOG_OUTPUT")
	setString(&cfg.Output.Path, "CANLOG_OUTPUT_PATH")
	setInt64(&cfg.Output.MaxSize, "CANLOG_OUTPUT_MAX_SIZE")
	setString(&cfg.Output.CSVPath, "CANLOG_CSV_PATH")
	setString(&cfg.Output.XLSXPath, "CANLOG_XLSX_PATH")
	setString(&cfg.Output.WebhookURL, "CANLOG_WEBHOOK_URL")
	setBool(&cfg.Output.Pretty, "CANLOG_OUTPUT_PRETTY")
	setList(&cfg.Output.Sides, "CANLOG_OUTPUT_SIDES")
	setBool(&cfg.Output.SplitSides, "CANLOG_OUTPUT_SPLIT_SIDES")
	setString(&cfg.Output.DrainTimeout, "CANLOG_DRAIN_TIMEOUT")
	if v, ok := os.LookupEnv("CANLOG_EMPTY_MARKER"); ok {
		cfg.Output.EmptyMarker = v
	}

	setString(&cfg.Server.Addr, "CANLOG_ADDR")
	setList(&cfg.Server.CORSOrigins, "CANLOG_CORS_ORIGINS")
	setInt64(&cfg.Server.MaxUploadBytes, "CANLOG_MAX_UPLOAD_BYTES")

	setString(&cfg.Log.Level, "CANLOG_LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// setList splits a comma-separated value, dropping empty items.
func setList(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	*dst = out
}

// Unparseable numeric and boolean values leave dst unchanged.

func setInt(dst *int, key string) {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		*dst = n
	}
}

func setInt64(dst *int64, key string) {
	if n, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil {
		*dst = n
	}
}

func setBool(dst *bool, key string) {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		*dst = b
	}
}
