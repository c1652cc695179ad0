// Package testdata provides a fixture address book and a sample Flyer
// capture shared by the decoding tests.
package testdata

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/crimson-sun/canlog/internal/addressbook"
	"github.com/crimson-sun/canlog/internal/model"
)

//go:embed sample.log
var sampleLog string

// Expected outcome of decoding SampleLines against Book as a Flyer.
const (
	SampleLineCount       = 9
	SampleRecordCount     = 5
	SampleDiagnosticCount = 5
)

// SampleLines returns the sample capture, one entry per line.
func SampleLines() []string {
	return strings.Split(strings.TrimRight(sampleLog, "\n"), "\n")
}

// SampleLog returns the sample capture as text.
func SampleLog() string {
	return sampleLog
}

// TelemetryHex is a 20-byte Flyer telemetry payload: target 1.00,
// present -0.50, rpm 1000, duty 3000, FET 30, MOT 20, current 500,
// voltage 600, direction 1, GB -10.00, enc 10.00, using 1.
const TelemetryHex = "0064FFCE03E80BB81E1401F4025801FC1803E801"

// Tables returns the fixture lookup tables.
func Tables() addressbook.Tables {
	return addressbook.Tables{
		Functions: map[string]string{
			"12": model.MessageOperation,
			"13": model.MessageError,
			"20": "Status",
		},
		Nodes: map[model.MachineClass]map[string]string{
			model.Carding: {"01": "Carding_Main"},
			model.DF:      {"01": "DF_Main"},
			model.Flyer: {
				"34": "NodeA",
				"56": "NodeB",
				"01": "Right_Lift",
				"02": "Left_Lift",
				"10": "Flyer_Main",
			},
		},
		Operations: map[string]string{"0A": "Start", "0B": "Stop"},
		Errors:     map[int64]string{12: "Overcurrent"},
	}
}

// Book returns the fixture address book.
func Book() *addressbook.Book {
	return addressbook.Load(Tables())
}

// Workbook renders Tables as an .xlsx workbook.
func Workbook() ([]byte, error) {
	t := Tables()
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name string
		rows [][]any
	}{
		{"FunctionID", pairs("fID", "msgType", t.Functions)},
		{model.Carding.NodeSheet(), pairs("id", "name", t.Nodes[model.Carding])},
		{model.DF.NodeSheet(), pairs("id", "name", t.Nodes[model.DF])},
		{model.Flyer.NodeSheet(), pairs("id", "name", t.Nodes[model.Flyer])},
		{"Operation", pairs("hex", "msgType", t.Operations)},
		{"Error", errorRows(t.Errors)},
	}
	for _, s := range sheets {
		if _, err := f.NewSheet(s.name); err != nil {
			return nil, err
		}
		for i, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return nil, err
			}
			r := row
			if err := f.SetSheetRow(s.name, cell, &r); err != nil {
				return nil, err
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func pairs(keyHeader, valueHeader string, m map[string]string) [][]any {
	rows := [][]any{{keyHeader, valueHeader}}
	for k, v := range m {
		rows = append(rows, []any{k, v})
	}
	return rows
}

func errorRows(m map[int64]string) [][]any {
	rows := [][]any{{"hex", "msgType", "code"}}
	for k, v := range m {
		rows = append(rows, []any{fmt.Sprintf("%X", k), v, k})
	}
	return rows
}
