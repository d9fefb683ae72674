package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category labels assigned outside the keyword table.
const (
	CategoryIncome        = "Income"
	CategoryMortgage      = "Mortgage"
	CategoryUncategorized = "Uncategorized"
	// CategoryTransfer marks internal transfers. Transfers are excluded and
	// never offered as an editable category.
	CategoryTransfer = "Transfer"
)

type (
	// Transaction is the canonical record produced by every importer.
	Transaction struct {
		ID     string
		Date   time.Time
		Payee  string
		Memo   string
		Amount decimal.Decimal // negative = expense, positive = income
		Type   string          // bank transaction type label ("Payment", "TFR IN", ...)
		Source string          // uploaded file name

		Category   string
		Excluded   bool
		Overridden bool // category set by hand; reclassification leaves it alone
	}

	// Month identifies a calendar month.
	Month struct {
		Year  int
		Month time.Month
	}
)

var (
	ErrZeroDate    = errors.New("date cannot be zero")
	ErrEmptyPayee  = errors.New("empty payee")
	ErrEmptyAmount = errors.New("missing amount")
)

// Validate checks the fields every importer must fill.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	if strings.TrimSpace(t.Payee) == "" {
		return ErrEmptyPayee
	}
	return nil
}

// IsExpense reports whether the transaction is money going out.
func (t Transaction) IsExpense() bool { return t.Amount.IsNegative() }

// IsIncome reports whether the transaction is money coming in.
func (t Transaction) IsIncome() bool { return t.Amount.IsPositive() }

// Month returns the calendar month the transaction belongs to.
func (t Transaction) Month() Month {
	return MonthOf(t.Date)
}

// MonthOf returns the calendar month containing d.
func MonthOf(d time.Time) Month {
	return Month{Year: d.Year(), Month: d.Month()}
}

// ParseMonth parses a "YYYY-MM" key.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Month{}, err
	}
	return MonthOf(t), nil
}

// String returns the "YYYY-MM" key used in URLs and filters.
func (m Month) String() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// Label returns a human readable label such as "Mar 2024".
func (m Month) Label() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
}

// Before reports whether m is earlier than o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// IsZero reports whether m is unset.
func (m Month) IsZero() bool { return m.Year == 0 && m.Month == 0 }
