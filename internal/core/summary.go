package core

import "github.com/shopspring/decimal"

// CategoryAmount is an amount aggregated by category name.
type CategoryAmount struct {
	Name    string
	Amount  decimal.Decimal
	Percent decimal.Decimal // share of the group total, one decimal place
}

// MonthTotals holds the expense and income sums of one calendar month.
// Expenses are reported as a positive number.
type MonthTotals struct {
	Month    Month
	Expenses decimal.Decimal
	Income   decimal.Decimal
}

// Summary is the aggregate view of a set of transactions.
type Summary struct {
	// Period is zero for the whole working set, or the month the summary
	// was restricted to.
	Period Month

	TotalExpenses   decimal.Decimal
	TotalIncome     decimal.Decimal
	AvgMonthlySpend decimal.Decimal
	TopCategory     CategoryAmount

	Months            []MonthTotals
	ExpenseByCategory []CategoryAmount
	IncomeByCategory  []CategoryAmount
}

// PeriodLabel returns the "YYYY-MM" key of the period, or "All".
func (s Summary) PeriodLabel() string {
	if s.Period.IsZero() {
		return "All"
	}
	return s.Period.String()
}
