package addressbook

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LoadDir reads the address tables from <sheet>.csv files in dir, one file
// per workbook sheet, each with a header row.
func LoadDir(dir string) (*Book, error) {
	t, err := tablesFrom(func(sheet string) ([][]string, error) {
		path := filepath.Join(dir, sheet+".csv")
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingSheet, path)
		}
		if err != nil {
			return nil, err
		}
		defer f.Close()

		r := csv.NewReader(f)
		r.TrimLeadingSpace = true
		r.FieldsPerRecord = -1
		rows, err := r.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("addressbook: read %s: %w", path, err)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return Load(t), nil
}
