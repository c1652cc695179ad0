package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/crimson-sun/canlog/internal/connector"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "can.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestRegistered(t *testing.T) {
	ctor, err := connector.Get("file")
	if err != nil {
		t.Fatalf("file provider not registered: %v", err)
	}
	if _, ok := ctor().(*Connector); !ok {
		t.Fatal("constructor returned wrong type")
	}
}

func TestQuery(t *testing.T) {
	path := writeLog(t, "a\nb\nc\n")
	lines, err := (&Connector{}).Query(context.Background(),
		connector.ConnectorConfig{Endpoint: path}, connector.QueryParams{Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 || lines[1].Text != "b" || lines[1].No != 2 {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

func TestStream(t *testing.T) {
	path := writeLog(t, "a\nb\nc")
	ch, err := (&Connector{}).Stream(context.Background(), connector.ConnectorConfig{Endpoint: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := 0
	for range ch {
		n++
	}
	if n != 3 {
		t.Fatalf("got %d lines, want 3", n)
	}
}

func TestMissingFile(t *testing.T) {
	cfg := connector.ConnectorConfig{Endpoint: filepath.Join(t.TempDir(), "nope.log")}
	if _, err := (&Connector{}).Query(context.Background(), cfg, connector.QueryParams{}); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := (&Connector{}).Stream(context.Background(), connector.ConnectorConfig{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}
