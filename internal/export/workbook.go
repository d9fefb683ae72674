package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"fintrack/internal/core"
)

// WorkbookSheet is the name of the sheet holding the transaction table.
const WorkbookSheet = "Transactions"

var workbookHeader = []any{"Date", "Payee", "Memo", "Amount", "Type", "Category", "Source"}

// WriteWorkbook writes txs as an .xlsx workbook with a single Transactions
// sheet. Excluded transactions are written too so the download mirrors the
// table.
func WriteWorkbook(w io.Writer, txs []core.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), WorkbookSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(WorkbookSheet, "A1", &workbookHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, t := range txs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			t.Date.Format("2006-01-02"),
			t.Payee,
			t.Memo,
			t.Amount.InexactFloat64(),
			t.Type,
			t.Category,
			t.Source,
		}
		if err := f.SetSheetRow(WorkbookSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
