package addressbook

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/crimson-sun/canlog/internal/model"
)

func writeSheet(t *testing.T, f *excelize.File, sheet string, rows [][]any) {
	t.Helper()
	if _, err := f.NewSheet(sheet); err != nil {
		t.Fatalf("new sheet %s: %v", sheet, err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("set row %s/%d: %v", sheet, i, err)
		}
	}
}

func buildWorkbook(t *testing.T, skip string) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	sheets := map[string][][]any{
		"FunctionID":  {{"fID", "msgType"}, {"12", "Operation"}, {"13", "Error"}},
		"Carding_IDs": {{"id", "name"}, {"01", "Carding_Main"}},
		"DF_IDs":      {{"id", "name"}, {"02", "DF_Main"}},
		"FF_IDs":      {{"id", "name"}, {"34", "Right_Lift"}, {"56", "Flyer_Main"}},
		"Operation":   {{"hex", "msgType"}, {"0A", "Start"}},
		"Error":       {{"hex", "msgType", "code"}, {"0C", "Overcurrent", 12}, {"0D", "Overheat", "13.0"}},
	}
	for _, name := range SheetNames() {
		if name == skip {
			continue
		}
		writeSheet(t, f, name, sheets[name])
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		t.Fatalf("delete default sheet: %v", err)
	}
	return f
}

func TestLoadWorkbook(t *testing.T) {
	f := buildWorkbook(t, "")
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	b, err := LoadWorkbook(buf)
	if err != nil {
		t.Fatalf("LoadWorkbook: %v", err)
	}

	if got, _ := b.ResolveMessageType("12"); got != "Operation" {
		t.Errorf("function 12 = %q, want Operation", got)
	}
	if got, _ := b.ResolveNode(model.Flyer, "34"); got != "Right_Lift" {
		t.Errorf("FF 34 = %q, want Right_Lift", got)
	}
	if got, _ := b.ResolveOperation("0a"); got != "Start" {
		t.Errorf("operation 0a = %q, want Start", got)
	}
	if got, _ := b.ResolveError("12"); got != "Overcurrent" {
		t.Errorf("error 12 = %q, want Overcurrent", got)
	}
	if got, _ := b.ResolveError("13"); got != "Overheat" {
		t.Errorf("error 13 = %q, want Overheat", got)
	}
}

func TestLoadWorkbookFileMissingSheet(t *testing.T) {
	f := buildWorkbook(t, "DF_IDs")
	path := filepath.Join(t.TempDir(), "dbc.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	_, err := LoadWorkbookFile(path)
	if !errors.Is(err, ErrMissingSheet) {
		t.Fatalf("expected ErrMissingSheet, got %v", err)
	}
}
