package addressbook

import (
	"fmt"
	"io"
	"slices"

	"github.com/xuri/excelize/v2"
)

// LoadWorkbook reads the six address tables from an .xlsx workbook.
func LoadWorkbook(r io.Reader) (*Book, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("addressbook: open workbook: %w", err)
	}
	defer f.Close()
	return loadExcel(f)
}

// LoadWorkbookFile reads the address tables from an .xlsx file on disk.
func LoadWorkbookFile(path string) (*Book, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("addressbook: open workbook %s: %w", path, err)
	}
	defer f.Close()
	return loadExcel(f)
}

func loadExcel(f *excelize.File) (*Book, error) {
	sheets := f.GetSheetList()
	t, err := tablesFrom(func(sheet string) ([][]string, error) {
		if !slices.Contains(sheets, sheet) {
			return nil, fmt.Errorf("%w: %s", ErrMissingSheet, sheet)
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("addressbook: read sheet %s: %w", sheet, err)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return Load(t), nil
}
