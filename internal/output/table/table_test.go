package table

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/crimson-sun/canlog/internal/model"
)

func opRecord() model.Record {
	return model.Record{
		ResolvedFrame: model.ResolvedFrame{
			RawFrame: model.RawFrame{
				Date: "2024-01-01", Time: "10:00:00.000", ExtendedID: "00123456", PayloadHex: "0A",
			},
			MessageType:      model.MessageOperation,
			SourceName:       "NodeB",
			DestName:         "NodeA",
			OperationCommand: "Start",
		},
		Side: model.SideUnknown,
	}
}

func telemetryRecord() model.Record {
	return model.Record{
		ResolvedFrame: model.ResolvedFrame{
			RawFrame: model.RawFrame{
				Date: "2024-01-01", Time: "10:00:01.000", ExtendedID: "00201001",
				PayloadHex: "0064FFCE03E80BB81E1401F4025801FC1803E801",
			},
			MessageType: "Status",
			SourceName:  "Right_Lift",
			DestName:    "Flyer_Main",
		},
		Telemetry: &model.FlyerTelemetry{TargetPosition: 1, PresentPosition: -0.5, PresentRPM: 1000},
		Side:      model.SideRight,
	}
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	return rows
}

func TestCloseWritesHeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	out := New(&buf, WithEmptyMarker("-"))
	ctx := context.Background()
	out.Write(ctx, opRecord())
	out.Write(ctx, telemetryRecord())

	if buf.Len() != 0 {
		t.Fatal("table should not be written before Close")
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	rows := readCSV(t, buf.Bytes())
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	header := rows[0]
	if slices.Contains(header, "ErrorCommand") {
		t.Error("ErrorCommand column should be absent when no error records exist")
	}
	op := slices.Index(header, "OperationCommand")
	rpm := slices.Index(header, "presentRPM")
	if op < 0 || rpm < 0 {
		t.Fatalf("missing columns in header %v", header)
	}
	if rows[1][op] != "Start" || rows[1][rpm] != "-" {
		t.Errorf("operation row = %v", rows[1])
	}
	if rows[2][op] != "-" || rows[2][rpm] != "1000" {
		t.Errorf("telemetry row = %v", rows[2])
	}
	if header[len(header)-1] != "LiftSide" || rows[2][len(header)-1] != "Right" {
		t.Errorf("side column = %q/%q", header[len(header)-1], rows[2][len(header)-1])
	}
}

func TestResolvedOnlyTableHasNoTelemetryColumns(t *testing.T) {
	var buf bytes.Buffer
	out := New(&buf)
	out.Write(context.Background(), opRecord())
	out.Close()

	header := readCSV(t, buf.Bytes())[0]
	if slices.Contains(header, "presentPosition") {
		t.Errorf("unexpected telemetry column in %v", header)
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	out, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile error: %v", err)
	}
	out.Write(context.Background(), telemetryRecord())
	if err := out.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("second Close error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if rows := readCSV(t, data); len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
}

func TestWriteAfterClose(t *testing.T) {
	out := New(&bytes.Buffer{})
	out.Close()
	if err := out.Write(context.Background(), opRecord()); err == nil {
		t.Fatal("expected error writing to a closed table")
	}
}
