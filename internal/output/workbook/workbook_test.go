package workbook

import (
	"bytes"
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/crimson-sun/canlog/internal/model"
)

func record(src string, side model.Side, rpm uint16) model.Record {
	return model.Record{
		ResolvedFrame: model.ResolvedFrame{
			RawFrame: model.RawFrame{
				Date: "2024-01-01", Time: "10:00:00.000", ExtendedID: "00201001",
				PayloadHex: "0064FFCE03E80BB81E1401F4025801FC1803E801",
			},
			MessageType: "Status",
			SourceName:  src,
			DestName:    "Flyer_Main",
		},
		Telemetry: &model.FlyerTelemetry{PresentRPM: rpm},
		Side:      side,
	}
}

func open(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid workbook: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestSheetsBySide(t *testing.T) {
	var buf bytes.Buffer
	out := New(&buf)
	ctx := context.Background()
	out.Write(ctx, record("Right_Lift", model.SideRight, 1000))
	out.Write(ctx, record("Left_Lift", model.SideLeft, 900))
	out.Write(ctx, record("Right_Lift", model.SideRight, 1100))
	out.Write(ctx, record("NodeA", model.SideUnknown, 1))
	if err := out.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	f := open(t, buf.Bytes())
	if got := f.GetSheetList(); !slices.Equal(got, []string{SheetRight, SheetLeft}) {
		t.Fatalf("sheets = %v", got)
	}

	right, err := f.GetRows(SheetRight)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(right) != 3 {
		t.Fatalf("right sheet has %d rows, want 3", len(right))
	}
	rpm := slices.Index(right[0], "presentRPM")
	if rpm < 0 {
		t.Fatalf("missing presentRPM in %v", right[0])
	}
	if right[1][rpm] != "1000" || right[2][rpm] != "1100" {
		t.Errorf("right rpm = %q, %q", right[1][rpm], right[2][rpm])
	}

	left, _ := f.GetRows(SheetLeft)
	if len(left) != 2 {
		t.Fatalf("left sheet has %d rows, want 2", len(left))
	}
	for _, rows := range [][][]string{right, left} {
		for _, row := range rows[1:] {
			if slices.Contains(row, "NodeA") {
				t.Error("Unknown-side record leaked into workbook")
			}
		}
	}
}

func TestEmptySideStillHasHeader(t *testing.T) {
	var buf bytes.Buffer
	out := New(&buf)
	out.Write(context.Background(), record("Right_Lift", model.SideRight, 1000))
	out.Close()

	left, err := open(t, buf.Bytes()).GetRows(SheetLeft)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(left) != 1 || left[0][0] != "date" {
		t.Fatalf("left sheet = %v", left)
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	out := NewFile(path)
	out.Write(context.Background(), record("Left_Lift", model.SideLeft, 5))
	if err := out.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()
	rows, _ := f.GetRows(SheetLeft)
	if len(rows) != 2 {
		t.Fatalf("left sheet has %d rows, want 2", len(rows))
	}
}

func TestTelemetryCellsAreNumeric(t *testing.T) {
	f, err := Build([]model.Record{record("Right_Lift", model.SideRight, 1000)}, nil, "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer f.Close()

	header, err := f.GetRows(SheetRight)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	isText := func(ct excelize.CellType) bool {
		return ct == excelize.CellTypeSharedString || ct == excelize.CellTypeInlineString
	}
	cellType := func(field string) excelize.CellType {
		t.Helper()
		col := slices.Index(header[0], field)
		if col < 0 {
			t.Fatalf("missing %s in %v", field, header[0])
		}
		cell, _ := excelize.CoordinatesToCellName(col+1, 2)
		ct, err := f.GetCellType(SheetRight, cell)
		if err != nil {
			t.Fatalf("GetCellType(%s): %v", cell, err)
		}
		return ct
	}

	for _, field := range []string{"presentRPM", "targetPosition", "usingPosition"} {
		if isText(cellType(field)) {
			t.Errorf("%s stored as text", field)
		}
	}
	for _, field := range []string{"date", "source", "extID"} {
		if !isText(cellType(field)) {
			t.Errorf("%s should be a text cell", field)
		}
	}
}
