package model

// Stage is the pipeline step at which a line failed.
type Stage string

const (
	StageParse   Stage = "parse"
	StageResolve Stage = "resolve"
	StageDecode  Stage = "decode"
)

// Kind classifies a diagnostic's cause.
type Kind string

const (
	KindLineFormat      Kind = "line_format"
	KindResolution      Kind = "resolution"
	KindMalformedHex    Kind = "malformed_hex"
	KindPayloadTooShort Kind = "payload_too_short"
)

// Diagnostic explains why a line was skipped or why a record lost its payload.
type Diagnostic struct {
	LineNo  int    `json:"line"`
	Line    string `json:"text"`
	Stage   Stage  `json:"stage"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Dropped reports whether the line produced no record at all. Decode-stage
// diagnostics keep the record without its payload.
func (d Diagnostic) Dropped() bool {
	return d.Stage != StageDecode
}
