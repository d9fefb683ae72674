package classify

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/rules"
)

func tx(payee, memo, typ, amount string) core.Transaction {
	return core.Transaction{
		Payee:  payee,
		Memo:   memo,
		Type:   typ,
		Amount: decimal.RequireFromString(amount),
	}
}

func TestClassify_Examples(t *testing.T) {
	c := New(nil)

	assert.Equal(t, "Groceries", c.Classify(tx("COUNTDOWN AUCKLAND", "", "Payment", "-45.20")).Category)
	assert.Equal(t, "Dining", c.Classify(tx("UBER EATS", "", "Payment", "-18.00")).Category)
	assert.Equal(t, "Subscriptions", c.Classify(tx("Spotify", "", "Payment", "-14.99")).Category)
	assert.Equal(t, core.CategoryUncategorized, c.Classify(tx("ACME WIDGETS", "", "Payment", "-1")).Category)
}

func TestClassify_MobileCarriersAreUtilities(t *testing.T) {
	c := New(nil)
	for _, payee := range []string{"SPARK MOBILE", "VODAFONE MOBILE", "ONE NZ MOBILE PLAN"} {
		assert.Equal(t, "Utilities", c.Classify(tx(payee, "", "Payment", "-60")).Category, payee)
	}
	assert.Equal(t, "Transport", c.Classify(tx("MOBIL OIL NZ LTD", "", "Payment", "-80")).Category)
}

func TestClassify_DepositIsAlwaysIncome(t *testing.T) {
	c := New(nil)
	for _, payee := range []string{"COUNTDOWN", "UBER EATS", "Spotify", "anything"} {
		for _, memo := range []string{"", "joint account", "groceries"} {
			for _, typ := range []string{"Deposit", "DEPOSIT", " deposit "} {
				res := c.Classify(tx(payee, memo, typ, "100"))
				assert.Equal(t, core.CategoryIncome, res.Category)
				assert.False(t, res.Excluded)
			}
		}
	}
}

func TestClassify_TypeRules(t *testing.T) {
	c := New(nil)

	res := c.Classify(tx("ASB HOME LOAN", "", "Loan Payment", "-2100"))
	assert.Equal(t, core.CategoryMortgage, res.Category)

	for _, typ := range []string{"TFR IN", "TFR OUT", "tfr out"} {
		res := c.Classify(tx("COUNTDOWN", "", typ, "-50"))
		assert.True(t, res.Excluded, "type %q", typ)
		assert.Equal(t, core.CategoryTransfer, res.Category)
	}

	res = c.Classify(tx("J SMITH", "From Joint Acc", "Payment", "500"))
	assert.Equal(t, core.CategoryIncome, res.Category)

	// The transfer rule runs before the memo rule.
	res = c.Classify(tx("X", "joint", "TFR IN", "500"))
	assert.True(t, res.Excluded)
}

func TestClassify_MemoDoesNotDriveKeywordMatch(t *testing.T) {
	c := New(nil)
	res := c.Classify(tx("ACME", "countdown", "Payment", "-3"))
	assert.Equal(t, core.CategoryUncategorized, res.Category)
}

func TestClassify_Idempotent(t *testing.T) {
	c := New(nil)
	in := []core.Transaction{
		tx("COUNTDOWN AUCKLAND", "", "Payment", "-45.20"),
		tx("UBER EATS", "", "Payment", "-18"),
		tx("X", "", "TFR OUT", "-18"),
		tx("Salary", "", "Deposit", "4000"),
		tx("Nobody", "", "", "-1"),
	}
	for _, t0 := range in {
		first := c.Classify(t0)
		t1 := t0
		t1.Category, t1.Excluded = first.Category, first.Excluded
		assert.Equal(t, first, c.Classify(t1))
	}
}

func TestApply_RespectsOverride(t *testing.T) {
	c := New(nil)
	tr := tx("COUNTDOWN", "", "Payment", "-10")
	tr.Category = "Holiday"
	tr.Overridden = true

	assert.False(t, c.Apply(&tr, false))
	assert.Equal(t, "Holiday", tr.Category)
	assert.True(t, tr.Overridden)

	assert.True(t, c.Apply(&tr, true))
	assert.Equal(t, "Groceries", tr.Category)
	assert.False(t, tr.Overridden)
}

func TestApply_TransferClearsOverride(t *testing.T) {
	c := New(nil)
	tr := tx("Savings", "", "TFR OUT", "-10")
	tr.Category = "Holiday"
	tr.Overridden = true

	c.Apply(&tr, false)
	assert.True(t, tr.Excluded)
	assert.Equal(t, core.CategoryTransfer, tr.Category)
	assert.False(t, tr.Overridden)
}

func TestApplyAll_CountsChanges(t *testing.T) {
	c := New(nil)
	txs := []core.Transaction{
		tx("COUNTDOWN", "", "Payment", "-10"),
		tx("Spotify", "", "Payment", "-14.99"),
	}
	assert.Equal(t, 2, c.ApplyAll(txs, false))
	assert.Equal(t, 0, c.ApplyAll(txs, false))
}

func TestNew_CustomTable(t *testing.T) {
	tbl, err := rules.New([]rules.Rule{{Category: "Coffee", Keywords: []string{"espresso"}}})
	require.NoError(t, err)
	c := New(tbl)
	assert.Equal(t, "Coffee", c.Classify(tx("ESPRESSO BAR", "", "Payment", "-5")).Category)
	assert.Same(t, tbl, c.Table())
}
