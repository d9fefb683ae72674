package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"fintrack/internal/core"
)

// layout names the source header for each canonical field.
type layout struct {
	date, payee, memo, amount, typ string
}

var (
	spreadsheetLayout = layout{date: "Transaction Date", payee: "Details", memo: "Particulars", amount: "Amount", typ: "Type"}
	delimitedLayout   = layout{date: "Date", payee: "Payee", memo: "Memo", amount: "Amount", typ: "Tran Type"}
)

// columns holds header positions; -1 marks an absent optional column.
type columns struct {
	date, payee, memo, amount, typ int
}

// mapHeader locates the layout's columns. Date, payee and amount are
// required; memo and type are optional.
func (l layout) mapHeader(header []string) (columns, error) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	c := columns{
		date:   indexOf(header, l.date),
		payee:  indexOf(header, l.payee),
		memo:   indexOf(header, l.memo),
		amount: indexOf(header, l.amount),
		typ:    indexOf(header, l.typ),
	}
	var missing []string
	if c.date < 0 {
		missing = append(missing, l.date)
	}
	if c.payee < 0 {
		missing = append(missing, l.payee)
	}
	if c.amount < 0 {
		missing = append(missing, l.amount)
	}
	if len(missing) > 0 {
		return columns{}, fmt.Errorf("%w: %s; got headers=%v", ErrMissingColumns, strings.Join(missing, ", "), header)
	}
	return c, nil
}

// toTransaction converts one record. Errors are row-level.
func (c columns) toTransaction(rec []string, parseDate func(string) (time.Time, error)) (core.Transaction, error) {
	dateStr := safeGet(rec, c.date)
	payee := safeGet(rec, c.payee)
	amountStr := safeGet(rec, c.amount)

	switch {
	case dateStr == "":
		return core.Transaction{}, fmt.Errorf("missing date")
	case payee == "":
		return core.Transaction{}, fmt.Errorf("missing payee")
	case amountStr == "":
		return core.Transaction{}, fmt.Errorf("missing amount")
	}

	date, err := parseDate(dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parsing date %q: %w", dateStr, err)
	}
	amount, err := core.ParseAmount(amountStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parsing amount %q: %w", amountStr, err)
	}

	return core.Transaction{
		Date:   date,
		Payee:  payee,
		Memo:   safeGet(rec, c.memo),
		Amount: amount,
		Type:   safeGet(rec, c.typ),
	}, nil
}

// textDateLayouts are tried in order. Slashed dates are day first.
var textDateLayouts = []string{
	"2006/1/2",
	"2006-1-2",
	"2/1/2006",
	"2/1/06",
	"2 Jan 2006",
	"2-Jan-2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

func parseTextDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range textDateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

// maxExcelSerial is 9999-12-31.
const maxExcelSerial = 2958465

// parseSheetDate accepts a raw Excel serial date or any text layout.
func parseSheetDate(s string) (time.Time, error) {
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && f >= 1 && f <= maxExcelSerial {
		t, err := excelize.ExcelDateToTime(f, false)
		if err != nil {
			return time.Time{}, err
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return parseTextDate(s)
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return strings.TrimSpace(arr[idx])
}
