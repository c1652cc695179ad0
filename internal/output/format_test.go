package output

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/crimson-sun/canlog/internal/model"
)

func resolvedRecord(msgType string) model.Record {
	r := model.Record{
		ResolvedFrame: model.ResolvedFrame{
			RawFrame: model.RawFrame{
				Date: "2024-01-01", Time: "10:00:00.000", ExtendedID: "00123456", PayloadHex: "0A",
			},
			MessageType: msgType,
			SourceName:  "NodeB",
			DestName:    "NodeA",
		},
		Side: model.SideUnknown,
	}
	switch msgType {
	case model.MessageOperation:
		r.OperationCommand = "Start"
	case model.MessageError:
		r.ErrorCommand = "Overcurrent"
	}
	return r
}

func telemetryRecord() model.Record {
	r := resolvedRecord("Status")
	r.Telemetry = &model.FlyerTelemetry{TargetPosition: 1, PresentPosition: -0.5, PresentRPM: 1000}
	r.Side = model.SideRight
	return r
}

func TestColumnsResolvedOnly(t *testing.T) {
	cols := Columns([]model.Record{resolvedRecord("Status")})
	want := append(append([]model.Field(nil), model.ResolvedFields...), model.FieldSide)
	if !slices.Equal(cols, want) {
		t.Fatalf("got %v, want %v", cols, want)
	}
}

func TestColumnsIncludePopulatedVariants(t *testing.T) {
	cols := Columns([]model.Record{
		resolvedRecord(model.MessageOperation),
		telemetryRecord(),
	})
	if !slices.Contains(cols, model.FieldOperation) {
		t.Error("expected OperationCommand column")
	}
	if slices.Contains(cols, model.FieldError) {
		t.Error("ErrorCommand column should be absent")
	}
	for _, f := range model.TelemetryFields {
		if !slices.Contains(cols, f) {
			t.Errorf("missing telemetry column %q", f)
		}
	}
	if cols[len(cols)-1] != model.FieldSide {
		t.Errorf("last column = %q, want LiftSide", cols[len(cols)-1])
	}
}

func TestColumnsEmpty(t *testing.T) {
	cols := Columns(nil)
	if len(cols) != len(model.ResolvedFields)+1 {
		t.Fatalf("got %d columns for empty input", len(cols))
	}
}

func TestRowUsesEmptyMarker(t *testing.T) {
	recs := []model.Record{resolvedRecord(model.MessageOperation), telemetryRecord()}
	cols := Columns(recs)

	row := Row(recs[0], cols, "NA")
	idx := slices.Index(cols, model.FieldPresentPosition)
	if row[idx] != "NA" {
		t.Errorf("presentPosition on resolved record = %q, want NA", row[idx])
	}
	if row[slices.Index(cols, model.FieldOperation)] != "Start" {
		t.Errorf("OperationCommand = %q", row[slices.Index(cols, model.FieldOperation)])
	}

	row = Row(recs[1], cols, "NA")
	if row[idx] != "-0.50" {
		t.Errorf("presentPosition = %q, want -0.50", row[idx])
	}
	if row[slices.Index(cols, model.FieldOperation)] != "NA" {
		t.Error("status record should not carry an operation label")
	}
	if row[len(row)-1] != "Right" {
		t.Errorf("side = %q, want Right", row[len(row)-1])
	}
}

func TestHeader(t *testing.T) {
	h := Header([]model.Field{model.FieldDate, model.FieldSide})
	if !slices.Equal(h, []string{"date", "LiftSide"}) {
		t.Fatalf("got %v", h)
	}
}

func TestRecordJSONTagNames(t *testing.T) {
	data, err := json.Marshal(telemetryRecord())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, key := range []string{"date", "time", "extID", "hexData", "msgType", "source", "dst", "telemetry", "LiftSide"} {
		if _, ok := m[key]; !ok {
			t.Errorf("expected key %q in JSON", key)
		}
	}
	for _, key := range []string{"OperationCommand", "ErrorCommand", "FunctionCode"} {
		if _, ok := m[key]; ok {
			t.Errorf("key %q should be omitted", key)
		}
	}
}
