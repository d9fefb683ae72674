package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXParser parses layout A from the first worksheet of a workbook:
// header on row 1, data from row 2.
type XLSXParser struct{}

// Schema returns SchemaSpreadsheet.
func (p *XLSXParser) Schema() Schema { return SchemaSpreadsheet }

// Extensions returns the handled extensions.
func (p *XLSXParser) Extensions() []string { return []string{".xlsx"} }

// Parse reads a spreadsheet export. Cells are read raw so that date cells
// arrive as Excel serial numbers rather than locale-formatted text.
func (p *XLSXParser) Parse(r io.Reader) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Result{}, ErrEmptyWorkbook
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return Result{}, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return Result{}, ErrMissingHeader
	}
	cols, err := spreadsheetLayout.mapHeader(rows[0])
	if err != nil {
		return Result{}, err
	}

	var res Result
	for i, rec := range rows[1:] {
		line := i + 2
		if isBlank(rec) {
			continue
		}
		txn, err := cols.toTransaction(rec, parseSheetDate)
		if err != nil {
			res.RowErrors = append(res.RowErrors, RowError{Line: line, Reason: err.Error()})
			continue
		}
		res.Transactions = append(res.Transactions, txn)
	}
	return res, nil
}
