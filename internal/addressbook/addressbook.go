// Package addressbook holds the read-only lookup tables that turn CAN
// identifier and payload codes into names.
package addressbook

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/crimson-sun/canlog/internal/model"
)

// Table names a lookup table. Values match the workbook sheet names.
type Table string

const (
	TableFunction  Table = "FunctionID"
	TableOperation Table = "Operation"
	TableError     Table = "Error"
)

// NodeTable returns the node table for a machine class.
func NodeTable(m model.MachineClass) Table {
	return Table(m.NodeSheet())
}

// ErrNotFound is matched by every lookup miss.
var ErrNotFound = errors.New("addressbook: code not found")

// NotFoundError records which table missed and on what key.
type NotFoundError struct {
	Table Table
	Key   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("addressbook: %s has no entry for %q", e.Table, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Tables is the raw tabular input to Load.
type Tables struct {
	Functions  map[string]string
	Nodes      map[model.MachineClass]map[string]string
	Operations map[string]string
	// Errors is keyed by the decimal error number, not a hex string.
	Errors map[int64]string
}

// Book is the loaded, normalized set of lookup tables. It is never mutated
// after Load and may be shared between goroutines.
type Book struct {
	functions  map[string]string
	nodes      map[model.MachineClass]map[string]string
	operations map[string]string
	errors     map[int64]string
}

// Load normalizes t into a Book. The input maps are not retained.
func Load(t Tables) *Book {
	b := &Book{
		functions:  normalizeTable(t.Functions),
		nodes:      make(map[model.MachineClass]map[string]string, len(t.Nodes)),
		operations: normalizeTable(t.Operations),
		errors:     make(map[int64]string, len(t.Errors)),
	}
	for m, tbl := range t.Nodes {
		b.nodes[m] = normalizeTable(tbl)
	}
	for k, v := range t.Errors {
		b.errors[k] = NormalizeName(v)
	}
	return b
}

// ResolveMessageType looks up the message type for a function code.
func (b *Book) ResolveMessageType(code string) (string, error) {
	return lookup(b.functions, TableFunction, code)
}

// ResolveNode looks up a node name in the machine class's node table.
func (b *Book) ResolveNode(m model.MachineClass, code string) (string, error) {
	return lookup(b.nodes[m], NodeTable(m), code)
}

// ResolveOperation looks up an operation label keyed by the full payload hex.
func (b *Book) ResolveOperation(payloadHex string) (string, error) {
	return lookup(b.operations, TableOperation, payloadHex)
}

// ResolveError looks up an error label. The error table is indexed by
// integer, so the payload text is read as a decimal number: "12" finds
// error 12, and a payload such as "0A" never matches.
func (b *Book) ResolveError(payloadHex string) (string, error) {
	key := strings.TrimSpace(payloadHex)
	n, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return "", &NotFoundError{Table: TableError, Key: key}
	}
	name, ok := b.errors[n]
	if !ok {
		return "", &NotFoundError{Table: TableError, Key: key}
	}
	return name, nil
}

// Stats returns the number of entries per table.
func (b *Book) Stats() map[Table]int {
	s := map[Table]int{
		TableFunction:  len(b.functions),
		TableOperation: len(b.operations),
		TableError:     len(b.errors),
	}
	for _, m := range model.MachineClasses {
		s[NodeTable(m)] = len(b.nodes[m])
	}
	return s
}

// NormalizeCode is the canonical form of a hex code on both sides of a
// lookup: trimmed, NFC, upper case.
func NormalizeCode(s string) string {
	return strings.ToUpper(norm.NFC.String(strings.TrimSpace(s)))
}

// NormalizeName trims and NFC-normalizes a table value.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func normalizeTable(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[NormalizeCode(k)] = NormalizeName(v)
	}
	return out
}

func lookup(tbl map[string]string, name Table, code string) (string, error) {
	key := NormalizeCode(code)
	v, ok := tbl[key]
	if !ok {
		return "", &NotFoundError{Table: name, Key: key}
	}
	return v, nil
}
