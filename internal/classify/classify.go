// Package classify assigns a category to canonical transactions.
package classify

import (
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/rules"
)

// Transfer type labels. Transactions carrying them move money between the
// user's own accounts and are excluded from every aggregate.
var transferTypes = []string{"TFR IN", "TFR OUT"}

// Result is the outcome of classifying one transaction.
type Result struct {
	Category string
	Excluded bool
}

// Classifier applies the type/memo rules and then the keyword table.
// It holds no per-transaction state.
type Classifier struct {
	table *rules.Table
}

// New returns a classifier over table. A nil table uses the built-in rules.
func New(table *rules.Table) *Classifier {
	if table == nil {
		table = rules.Default()
	}
	return &Classifier{table: table}
}

// Table returns the rule table in use.
func (c *Classifier) Table() *rules.Table { return c.table }

// Classify returns the category for t. Evaluation order, first match wins:
//
//  1. type "Deposit"          -> Income
//  2. type "Loan Payment"     -> Mortgage
//  3. type "TFR IN"/"TFR OUT" -> excluded transfer
//  4. memo contains "joint"   -> Income
//  5. first rule-table category with a keyword in the payee
//  6. Uncategorized
func (c *Classifier) Classify(t core.Transaction) Result {
	typ := strings.TrimSpace(t.Type)
	switch {
	case strings.EqualFold(typ, "Deposit"):
		return Result{Category: core.CategoryIncome}
	case strings.EqualFold(typ, "Loan Payment"):
		return Result{Category: core.CategoryMortgage}
	case isTransfer(typ):
		return Result{Category: core.CategoryTransfer, Excluded: true}
	case strings.Contains(strings.ToLower(t.Memo), "joint"):
		return Result{Category: core.CategoryIncome}
	}
	if cat, ok := c.table.Match(t.Payee); ok {
		return Result{Category: cat}
	}
	return Result{Category: core.CategoryUncategorized}
}

// Apply classifies t in place. A manually overridden category is kept unless
// force is set, in which case the override flag is cleared as well.
// The exclusion flag always follows the type rules. It reports whether the
// category changed.
func (c *Classifier) Apply(t *core.Transaction, force bool) bool {
	res := c.Classify(*t)
	t.Excluded = res.Excluded
	if res.Excluded {
		// A transfer's category is never shown, so an override is meaningless.
		t.Overridden = false
	}
	if t.Overridden && !force {
		return false
	}
	t.Overridden = false
	changed := t.Category != res.Category
	t.Category = res.Category
	return changed
}

// ApplyAll classifies every transaction and returns how many changed category.
func (c *Classifier) ApplyAll(txs []core.Transaction, force bool) int {
	n := 0
	for i := range txs {
		if c.Apply(&txs[i], force) {
			n++
		}
	}
	return n
}

func isTransfer(typ string) bool {
	for _, tt := range transferTypes {
		if strings.EqualFold(typ, tt) {
			return true
		}
	}
	return false
}
