package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Match(t *testing.T) {
	tbl := Default()

	cases := map[string]string{
		"COUNTDOWN AUCKLAND": "Groceries",
		"UBER EATS":          "Dining",
		"UBER TRIP":          "Transport",
		"Spotify":            "Subscriptions",
		"Contact Energy Ltd": "Utilities",
		"Sharesies Limited":  "Investments",
		"Unichem Pharmacy":   "Healthcare",
		"Animates Botany":    "Pet",
		"KMART SYLVIA PARK":  "Shopping",
		"Airbnb * HM2":       "Holiday",
	}
	for payee, want := range cases {
		got, ok := tbl.Match(payee)
		require.True(t, ok, "payee %q", payee)
		assert.Equal(t, want, got, "payee %q", payee)
	}

	_, ok := tbl.Match("ACME WIDGETS")
	assert.False(t, ok)
	_, ok = tbl.Match("")
	assert.False(t, ok)
}

func TestMatch_FirstCategoryInTableOrderWins(t *testing.T) {
	tbl, err := New([]Rule{
		{Category: "Dining", Keywords: []string{"cafe"}},
		{Category: "Healthcare", Keywords: []string{"pharmacy"}},
	})
	require.NoError(t, err)

	got, ok := tbl.Match("PHARMACY CAFE")
	require.True(t, ok)
	assert.Equal(t, "Dining", got)
}

func TestNew_NormalizesAndRejects(t *testing.T) {
	tbl, err := New([]Rule{{Category: " Coffee ", Keywords: []string{" Flat White ", ""}}})
	require.NoError(t, err)
	rules := tbl.Rules()
	require.Len(t, rules, 1)
	assert.Equal(t, "Coffee", rules[0].Category)
	assert.Equal(t, []string{"flat white"}, rules[0].Keywords)

	_, err = New(nil)
	assert.ErrorIs(t, err, ErrEmptyTable)

	_, err = New([]Rule{{Category: "income", Keywords: []string{"salary"}}})
	assert.ErrorIs(t, err, ErrReservedCategory)

	_, err = New([]Rule{{Category: "A"}, {Category: "a"}})
	assert.Error(t, err)
}

func TestCategories(t *testing.T) {
	tbl := Default()
	cats := tbl.Categories()
	assert.Equal(t, "Groceries", cats[0])
	assert.Equal(t, []string{"Income", "Mortgage", "Uncategorized"}, cats[len(cats)-3:])

	name, ok := tbl.Has("groceries")
	assert.True(t, ok)
	assert.Equal(t, "Groceries", name)
	_, ok = tbl.Has("Transfer")
	assert.False(t, ok)
}

func TestRules_ReturnsCopy(t *testing.T) {
	tbl := Default()
	r := tbl.Rules()
	r[0].Keywords[0] = "mutated"
	assert.NotEqual(t, "mutated", tbl.Rules()[0].Keywords[0])
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := "categories:\n  - name: Coffee\n    keywords: [Espresso, flat white]\n  - name: Groceries\n    keywords: [countdown]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tbl, err := LoadFile(path)
	require.NoError(t, err)
	got, ok := tbl.Match("ESPRESSO BAR")
	require.True(t, ok)
	assert.Equal(t, "Coffee", got)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("categories: [\n"), 0o644))
	_, err = LoadFile(path)
	assert.Error(t, err)
}
