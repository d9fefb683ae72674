// Package export pushes summaries to an external spreadsheet and writes the
// working set out as an Excel workbook.
package export

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/sheets"
)

// ErrNoCredentials is returned when no spreadsheet backend is configured.
var ErrNoCredentials = errors.New("spreadsheet export is not configured")

// Column names with a fixed meaning. Any other header cell is looked up as a
// category name.
const (
	ColumnTotalExpenses = "Total Expenses"
	ColumnTotalIncome   = "Total Income"
	ColumnMonth         = "Month"
	ColumnPeriod        = "Period"
)

// BuildRow aligns a summary to header by case-insensitive column name.
// Unmatched columns are left blank.
func BuildRow(header []string, s core.Summary) []string {
	row := make([]string, len(header))
	for i, h := range header {
		row[i] = cellFor(strings.TrimSpace(h), s)
	}
	return row
}

func cellFor(name string, s core.Summary) string {
	switch {
	case name == "":
		return ""
	case strings.EqualFold(name, ColumnTotalExpenses):
		return money(s.TotalExpenses)
	case strings.EqualFold(name, ColumnTotalIncome):
		return money(s.TotalIncome)
	case strings.EqualFold(name, ColumnMonth), strings.EqualFold(name, ColumnPeriod):
		return s.PeriodLabel()
	}
	if amt, ok := lookup(s.ExpenseByCategory, name); ok {
		return money(amt)
	}
	if amt, ok := lookup(s.IncomeByCategory, name); ok {
		return money(amt)
	}
	return ""
}

func lookup(cats []core.CategoryAmount, name string) (decimal.Decimal, bool) {
	for _, c := range cats {
		if strings.EqualFold(c.Name, name) {
			return c.Amount, true
		}
	}
	return decimal.Zero, false
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

// Result describes one completed export.
type Result struct {
	Target sheets.Target
	Header []string
	Row    []string
	RowRef string
}

// Exporter appends summary rows to a spreadsheet tab.
type Exporter struct {
	appender sheets.RowAppender
	cause    error
}

// New returns an exporter writing through a. A nil appender yields an
// exporter whose every export fails with ErrNoCredentials.
func New(a sheets.RowAppender) *Exporter {
	return &Exporter{appender: a}
}

// Disabled returns an exporter that refuses every export, reporting cause
// alongside ErrNoCredentials.
func Disabled(cause error) *Exporter {
	return &Exporter{cause: cause}
}

// Enabled reports whether a backend is configured.
func (e *Exporter) Enabled() bool { return e != nil && e.appender != nil }

// Export reads the target's header, builds the aligned row and appends it in
// a single write. Nothing is retried.
func (e *Exporter) Export(ctx context.Context, t sheets.Target, s core.Summary) (Result, error) {
	if !e.Enabled() {
		if e != nil && e.cause != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrNoCredentials, e.cause)
		}
		return Result{}, ErrNoCredentials
	}
	if err := t.Validate(); err != nil {
		return Result{}, err
	}
	header, err := e.appender.ReadHeader(ctx, t)
	if err != nil {
		return Result{}, fmt.Errorf("read header: %w", err)
	}
	row := BuildRow(header, s)
	ref, err := e.appender.AppendRow(ctx, t, row)
	if err != nil {
		return Result{}, fmt.Errorf("append row: %w", err)
	}
	return Result{Target: t, Header: header, Row: row, RowRef: ref}, nil
}

// DefaultHeader is the header of a fresh tab: the period, both totals and
// one column per category.
func DefaultHeader(categories []string) []string {
	header := []string{ColumnMonth, ColumnTotalExpenses, ColumnTotalIncome}
	return append(header, categories...)
}
