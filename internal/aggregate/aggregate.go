// Package aggregate computes monthly and per-category totals over a set of
// classified transactions. Every function is pure: the same input set always
// yields the same tables, whatever its order.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

var hundred = decimal.NewFromInt(100)

// Summarize aggregates the non-excluded transactions in txs.
func Summarize(txs []core.Transaction) core.Summary {
	var (
		totalExp, totalInc decimal.Decimal
		months             = map[core.Month]*core.MonthTotals{}
		expByCat           = map[string]decimal.Decimal{}
		incByCat           = map[string]decimal.Decimal{}
	)
	for _, t := range txs {
		if t.Excluded {
			continue
		}
		switch {
		case t.IsExpense():
			amt := t.Amount.Neg()
			totalExp = totalExp.Add(amt)
			expByCat[t.Category] = expByCat[t.Category].Add(amt)
			mt := monthFor(months, t)
			mt.Expenses = mt.Expenses.Add(amt)
		case t.IsIncome():
			totalInc = totalInc.Add(t.Amount)
			incByCat[t.Category] = incByCat[t.Category].Add(t.Amount)
			mt := monthFor(months, t)
			mt.Income = mt.Income.Add(t.Amount)
		}
	}

	s := core.Summary{
		TotalExpenses:     totalExp,
		TotalIncome:       totalInc,
		Months:            sortedMonths(months),
		ExpenseByCategory: sortedCategories(expByCat, totalExp),
		IncomeByCategory:  sortedCategories(incByCat, totalInc),
	}
	if n := len(s.Months); n > 0 {
		s.AvgMonthlySpend = totalExp.Div(decimal.NewFromInt(int64(n))).Round(2)
	}
	if len(s.ExpenseByCategory) > 0 {
		s.TopCategory = s.ExpenseByCategory[0]
	}
	return s
}

// ForMonth aggregates only the transactions dated in m. The result carries m
// as its period.
func ForMonth(txs []core.Transaction, m core.Month) core.Summary {
	in := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.Month() == m {
			in = append(in, t)
		}
	}
	s := Summarize(in)
	s.Period = m
	return s
}

// monthFor returns the bucket for t's month, creating it on first use.
func monthFor(months map[core.Month]*core.MonthTotals, t core.Transaction) *core.MonthTotals {
	m := t.Month()
	mt, ok := months[m]
	if !ok {
		mt = &core.MonthTotals{Month: m}
		months[m] = mt
	}
	return mt
}

func sortedMonths(months map[core.Month]*core.MonthTotals) []core.MonthTotals {
	out := make([]core.MonthTotals, 0, len(months))
	for _, mt := range months {
		out = append(out, *mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

// sortedCategories orders by amount descending, then name, so ties are stable.
func sortedCategories(byCat map[string]decimal.Decimal, total decimal.Decimal) []core.CategoryAmount {
	out := make([]core.CategoryAmount, 0, len(byCat))
	for name, amt := range byCat {
		ca := core.CategoryAmount{Name: name, Amount: amt}
		if total.IsPositive() {
			ca.Percent = amt.Mul(hundred).Div(total).Round(1)
		}
		out = append(out, ca)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}
