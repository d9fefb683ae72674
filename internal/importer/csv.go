package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// CSVParser parses layout B: PreambleLines metadata lines, then the header
// Date, Payee, Memo, Amount, Tran Type.
type CSVParser struct {
	PreambleLines int
}

// Schema returns SchemaDelimited.
func (p *CSVParser) Schema() Schema { return SchemaDelimited }

// Extensions returns the handled extensions.
func (p *CSVParser) Extensions() []string { return []string{".csv"} }

// Parse reads a delimited export. Bad rows are skipped and reported.
func (p *CSVParser) Parse(r io.Reader) (Result, error) {
	br := bufio.NewReader(r)
	for i := 0; i < p.PreambleLines; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return Result{}, fmt.Errorf("%w: file ends inside the %d-line preamble", ErrMissingHeader, p.PreambleLines)
			}
			return Result{}, fmt.Errorf("reading preamble: %w", err)
		}
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Result{}, ErrMissingHeader
		}
		return Result{}, fmt.Errorf("reading header: %w", err)
	}
	cols, err := delimitedLayout.mapHeader(header)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				res.RowErrors = append(res.RowErrors, RowError{Line: p.PreambleLines + perr.Line, Reason: perr.Err.Error()})
				continue
			}
			return Result{}, fmt.Errorf("reading CSV: %w", err)
		}
		if isBlank(rec) {
			continue
		}
		line, _ := cr.FieldPos(0)
		line += p.PreambleLines
		txn, err := cols.toTransaction(rec, parseTextDate)
		if err != nil {
			res.RowErrors = append(res.RowErrors, RowError{Line: line, Reason: err.Error()})
			continue
		}
		res.Transactions = append(res.Transactions, txn)
	}
	return res, nil
}
