package http

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/services"
	"fintrack/internal/sheets"
	"fintrack/internal/workset"
)

type monthOption struct {
	Key, Label string
	Selected   bool
}

type categoryRow struct {
	Name, Amount, Percent string
	Width                 int
}

type monthRow struct {
	Label, Expenses, Income string
	ExpenseWidth            int
	IncomeWidth             int
}

type summaryView struct {
	Period          string
	TotalExpenses   string
	TotalIncome     string
	AvgMonthlySpend string
	TopCategory     string
	TopAmount       string
	Months          []monthRow
	Expenses        []categoryRow
	Income          []categoryRow
	MonthOptions    []monthOption
	Empty           bool
	ExportEnabled   bool
	SpreadsheetID   string
	SheetName       string
}

func newSummaryView(s core.Summary, available []core.Month, exportEnabled bool, target sheets.Target) summaryView {
	v := summaryView{
		Period:          "All months",
		TotalExpenses:   core.FormatDollars(s.TotalExpenses),
		TotalIncome:     core.FormatDollars(s.TotalIncome),
		AvgMonthlySpend: core.FormatDollars(s.AvgMonthlySpend),
		TopCategory:     s.TopCategory.Name,
		TopAmount:       core.FormatDollars(s.TopCategory.Amount),
		MonthOptions:    monthOptions(available, []core.Month{s.Period}),
		Empty:           len(s.Months) == 0,
		ExportEnabled:   exportEnabled,
		SpreadsheetID:   target.SpreadsheetID,
		SheetName:       target.Sheet,
	}
	if !s.Period.IsZero() {
		v.Period = s.Period.Label()
	}

	var maxMonth decimal.Decimal
	for _, m := range s.Months {
		maxMonth = decimal.Max(maxMonth, m.Expenses, m.Income)
	}
	for _, m := range s.Months {
		v.Months = append(v.Months, monthRow{
			Label:        m.Month.Label(),
			Expenses:     core.FormatDollars(m.Expenses),
			Income:       core.FormatDollars(m.Income),
			ExpenseWidth: barWidth(m.Expenses, maxMonth),
			IncomeWidth:  barWidth(m.Income, maxMonth),
		})
	}
	v.Expenses = categoryRows(s.ExpenseByCategory)
	v.Income = categoryRows(s.IncomeByCategory)
	return v
}

func categoryRows(cats []core.CategoryAmount) []categoryRow {
	if len(cats) == 0 {
		return nil
	}
	top := cats[0].Amount
	rows := make([]categoryRow, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, categoryRow{
			Name:    c.Name,
			Amount:  core.FormatDollars(c.Amount),
			Percent: c.Percent.StringFixed(1) + "%",
			Width:   barWidth(c.Amount, top),
		})
	}
	return rows
}

func monthOptions(available []core.Month, selected []core.Month) []monthOption {
	out := make([]monthOption, 0, len(available))
	for _, m := range available {
		opt := monthOption{Key: m.String(), Label: m.Label()}
		for _, s := range selected {
			if s == m {
				opt.Selected = true
			}
		}
		out = append(out, opt)
	}
	return out
}

type txRow struct {
	ID, Date, Payee, Memo, Amount, Type, Category, Source string
	Expense, Excluded, Overridden                         bool
}

type choice struct {
	Value    string
	Selected bool
}

type transactionsView struct {
	Rows       []txRow
	Shown      int
	Total      int
	Assignable []string
	Categories []choice
	Types      []choice
	Months     []monthOption
	Kind       string
	Filtered   bool
}

func newTransactionsView(set *workset.Set, f workset.Filter) transactionsView {
	rows := set.Filter(f)
	v := transactionsView{
		Shown:      len(rows),
		Total:      set.Len(),
		Assignable: set.Assignable(),
		Categories: choices(set.Categories(), f.Categories),
		Types:      choices(set.Types(), f.Types),
		Months:     monthOptions(set.Months(), f.Months),
		Kind:       string(f.Kind),
		Filtered:   len(rows) != set.Len(),
	}
	for _, t := range rows {
		v.Rows = append(v.Rows, txRow{
			ID:         t.ID,
			Date:       formatDate(t),
			Payee:      t.Payee,
			Memo:       t.Memo,
			Amount:     core.FormatDollars(t.Amount),
			Type:       t.Type,
			Category:   t.Category,
			Source:     t.Source,
			Expense:    t.IsExpense(),
			Excluded:   t.Excluded,
			Overridden: t.Overridden,
		})
	}
	return v
}

func choices(values, selected []string) []choice {
	out := make([]choice, 0, len(values))
	for _, v := range values {
		c := choice{Value: v}
		for _, s := range selected {
			if s == v {
				c.Selected = true
			}
		}
		out = append(out, c)
	}
	return out
}

type fileReportView struct {
	Name, Schema string
	Imported     int
	Skipped      int
	Errors       []string
	Err          string
}

type uploadView struct {
	Files    []fileReportView
	Imported int
	Rejected int
}

func newUploadView(reports []services.FileReport) uploadView {
	var v uploadView
	for _, r := range reports {
		fv := fileReportView{
			Name:     r.Name,
			Schema:   string(r.Schema),
			Imported: r.Imported,
			Skipped:  r.Skipped,
		}
		for _, re := range r.RowErrors {
			fv.Errors = append(fv.Errors, re.Error())
		}
		if r.Err != nil {
			fv.Err = r.Err.Error()
			v.Rejected++
		}
		v.Imported += r.Imported
		v.Files = append(v.Files, fv)
	}
	return v
}

func (v uploadView) message() string {
	msg := fmt.Sprintf("Imported %d transactions", v.Imported)
	if v.Rejected > 0 {
		msg += fmt.Sprintf("; %d file(s) rejected", v.Rejected)
	}
	return msg
}

type exportCell struct {
	Column, Value string
}

type exportView struct {
	Sheet, RowRef, Period string
	Cells                 []exportCell
}

func newExportView(res export.Result, period string) exportView {
	v := exportView{Sheet: res.Target.Sheet, RowRef: res.RowRef, Period: period}
	for i, h := range res.Header {
		if h == "" {
			continue
		}
		v.Cells = append(v.Cells, exportCell{Column: h, Value: res.Row[i]})
	}
	return v
}
