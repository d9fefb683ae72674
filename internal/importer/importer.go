// Package importer normalizes bank statement exports into canonical
// transactions. Each supported column layout has its own Parser; the Registry
// picks one by file extension.
package importer

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// Schema names a supported input layout.
type Schema string

const (
	// SchemaSpreadsheet is layout A: an .xlsx workbook with columns
	// Transaction Date, Details, Particulars, Amount, Type.
	SchemaSpreadsheet Schema = "spreadsheet"
	// SchemaDelimited is layout B: a .csv file with metadata lines followed
	// by Date, Payee, Memo, Amount, Tran Type.
	SchemaDelimited Schema = "delimited"
)

// DefaultPreambleLines is the number of non-data lines ahead of the
// delimited header.
const DefaultPreambleLines = 5

// File-level errors. A file failing with one of these is rejected whole.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMissingColumns    = errors.New("missing required columns")
	ErrMissingHeader     = errors.New("missing header row")
	ErrEmptyWorkbook     = errors.New("workbook has no sheets")
)

// RowError describes one skipped row.
type RowError struct {
	Line   int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Result is the output of parsing one file: the rows that normalized and
// the rows that were skipped.
type Result struct {
	Transactions []core.Transaction
	RowErrors    []RowError
}

// Skipped returns the number of rows rejected with a row-level error.
func (r Result) Skipped() int { return len(r.RowErrors) }

// Parser converts one bank export into canonical transactions.
type Parser interface {
	Parse(r io.Reader) (Result, error)
	Schema() Schema
	// Extensions lists the lowercase file extensions handled, with the dot.
	Extensions() []string
}

// Registry holds parsers keyed by file extension.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on a duplicate extension.
func (r *Registry) Register(p Parser) {
	for _, ext := range p.Extensions() {
		key := strings.ToLower(ext)
		if _, ok := r.parsers[key]; ok {
			panic("duplicate parser extension: " + key)
		}
		r.parsers[key] = p
	}
}

// DefaultRegistry returns a registry with both built-in layouts. preamble is
// the delimited layout's leading line count, used as given; zero means the
// header is the first line.
func DefaultRegistry(preamble int) *Registry {
	if preamble < 0 {
		preamble = 0
	}
	r := NewRegistry()
	r.Register(&XLSXParser{})
	r.Register(&CSVParser{PreambleLines: preamble})
	return r
}

// ForFile returns the parser for a file name.
func (r *Registry) ForFile(name string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if p, ok := r.parsers[ext]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// ParseFile normalizes one uploaded file. Every transaction gets a fresh ID
// and the file name as its source, so identical rows from two files stay
// distinct.
func (r *Registry) ParseFile(name string, rd io.Reader) (Result, error) {
	p, err := r.ForFile(name)
	if err != nil {
		return Result{}, err
	}
	res, err := p.Parse(rd)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", name, err)
	}
	base := filepath.Base(name)
	for i := range res.Transactions {
		res.Transactions[i].ID = uuid.NewString()
		res.Transactions[i].Source = base
	}
	return res, nil
}
