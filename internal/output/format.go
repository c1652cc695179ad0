package output

import "github.com/crimson-sun/canlog/internal/model"

// EmptyMarker is written for fields a record's variant does not carry.
const EmptyMarker = ""

// Columns returns the column set for a table of records: the resolved
// fields, the operation/error label columns if any record carries that
// label, the telemetry fields if any record is a telemetry variant, and
// the side.
func Columns(records []model.Record) []model.Field {
	var hasOp, hasErr, hasTelemetry bool
	for _, r := range records {
		switch r.MessageType {
		case model.MessageOperation:
			hasOp = true
		case model.MessageError:
			hasErr = true
		}
		if r.Variant() == model.VariantTelemetry {
			hasTelemetry = true
		}
	}

	cols := append([]model.Field(nil), model.ResolvedFields...)
	if hasOp {
		cols = append(cols, model.FieldOperation)
	}
	if hasErr {
		cols = append(cols, model.FieldError)
	}
	if hasTelemetry {
		cols = append(cols, model.TelemetryFields...)
	}
	return append(cols, model.FieldSide)
}

// Header renders column names.
func Header(cols []model.Field) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = string(c)
	}
	return out
}

// Row renders one record over cols, using empty for absent fields.
func Row(rec model.Record, cols []model.Field, empty string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		v, ok := rec.Value(c)
		if !ok {
			v = empty
		}
		out[i] = v
	}
	return out
}
