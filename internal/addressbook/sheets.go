package addressbook

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/crimson-sun/canlog/internal/model"
)

// ErrMissingSheet is returned when a table source lacks one of the six tables.
var ErrMissingSheet = errors.New("addressbook: missing sheet")

const (
	headerMsgType = "msgType"
	headerName    = "name"

	// errorKeyColumn is where the Error sheet stores its decimal key; every
	// other sheet keys on column 0.
	errorKeyColumn = 2
)

// SheetNames lists every table a source must provide.
func SheetNames() []string {
	names := []string{string(TableFunction)}
	for _, m := range model.MachineClasses {
		names = append(names, m.NodeSheet())
	}
	return append(names, string(TableOperation), string(TableError))
}

// rowSource returns the rows of a named sheet, header first. It returns
// ErrMissingSheet (possibly wrapped) when the sheet does not exist.
type rowSource func(sheet string) ([][]string, error)

func tablesFrom(rows rowSource) (Tables, error) {
	var t Tables
	var err error

	if t.Functions, err = readSheet(rows, string(TableFunction), headerMsgType); err != nil {
		return Tables{}, err
	}
	t.Nodes = make(map[model.MachineClass]map[string]string, len(model.MachineClasses))
	for _, m := range model.MachineClasses {
		if t.Nodes[m], err = readSheet(rows, m.NodeSheet(), headerName); err != nil {
			return Tables{}, err
		}
	}
	if t.Operations, err = readSheet(rows, string(TableOperation), headerMsgType); err != nil {
		return Tables{}, err
	}
	if t.Errors, err = readErrorSheet(rows); err != nil {
		return Tables{}, err
	}
	return t, nil
}

func readSheet(rows rowSource, sheet, valueHeader string) (map[string]string, error) {
	data, err := rows(sheet)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return map[string]string{}, nil
	}
	valCol := valueColumn(data[0], valueHeader, 0)

	out := make(map[string]string, len(data)-1)
	for _, row := range data[1:] {
		if len(row) <= valCol || len(row) == 0 {
			continue
		}
		key := strings.TrimSpace(row[0])
		if key == "" {
			continue
		}
		out[key] = row[valCol]
	}
	return out, nil
}

func readErrorSheet(rows rowSource) (map[int64]string, error) {
	sheet := string(TableError)
	data, err := rows(sheet)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return map[int64]string{}, nil
	}
	valCol := valueColumn(data[0], headerMsgType, errorKeyColumn)

	out := make(map[int64]string, len(data)-1)
	for i, row := range data[1:] {
		if len(row) <= errorKeyColumn || len(row) <= valCol {
			continue
		}
		cell := strings.TrimSpace(row[errorKeyColumn])
		if cell == "" {
			continue
		}
		key, err := parseIntCell(cell)
		if err != nil {
			return nil, fmt.Errorf("addressbook: %s row %d: key %q: %w", sheet, i+2, cell, err)
		}
		out[key] = row[valCol]
	}
	return out, nil
}

// valueColumn finds the named header, falling back to the first column
// that is not the key column.
func valueColumn(header []string, name string, keyCol int) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	if keyCol == 0 {
		return 1
	}
	return 0
}

// parseIntCell accepts integer cells that a spreadsheet may have rendered
// as floats ("12.0").
func parseIntCell(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer")
	}
	return int64(f), nil
}
