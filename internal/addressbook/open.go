package addressbook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/crimson-sun/canlog/internal/connector/httpclient"
)

// ErrNoSource is returned by Open when neither a workbook nor a tables
// directory is named.
var ErrNoSource = errors.New("addressbook: no workbook or tables directory")

// Open loads the book from workbook when set, else from the CSV directory
// dir. A workbook given as an http(s) URL is downloaded first.
func Open(ctx context.Context, workbook, dir string, opts ...httpclient.Option) (*Book, error) {
	switch {
	case isURL(workbook):
		body, err := httpclient.New(workbook, "", opts...).Get(ctx, "", nil)
		if err != nil {
			return nil, fmt.Errorf("addressbook: fetch workbook %s: %w", workbook, err)
		}
		return LoadWorkbook(bytes.NewReader(body))
	case workbook != "":
		return LoadWorkbookFile(workbook)
	case dir != "":
		return LoadDir(dir)
	default:
		return nil, ErrNoSource
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
