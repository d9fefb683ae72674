// Package rules holds the category rule table: an ordered mapping from
// category name to lowercase keyword substrings.
package rules

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"fintrack/internal/core"
)

// Rule maps one category to the keywords that select it.
type Rule struct {
	Category string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Table is an ordered list of rules. The first rule with a matching keyword
// wins, so order is the tie-break between categories.
type Table struct {
	rules []Rule
}

var (
	ErrEmptyTable       = errors.New("rule table has no categories")
	ErrReservedCategory = errors.New("category name is reserved")
)

// defaultRules is the built-in table. Dining sits ahead of Transport so that
// "uber eats" is seen before the looser "uber".
var defaultRules = []Rule{
	{"Groceries", []string{"countdown", "pak n save", "new world", "supermarket", "woolworths", "dairy", "four square", "fresh choice"}},
	{"Dining", []string{"uber eats", "sushi", "cafe", "thai", "alexandre", "afghan darbar", "restaurant", "mcdonalds", "dominos", "burger"}},
	{"Transport", []string{"bp", "z energy", "mobil oil", "caltex", "uber", "at hop", "parking", "wilson parking"}},
	{"Insurance", []string{"insurance", "tower", "state", "aia", "southern cross", "nib", "rdi finance", "rdl premium finance"}},
	{"Investments", []string{"sharesies", "kernel", "simplicity", "kiwisaver"}},
	{"Utilities", []string{"contact energy", "slingshot", "mercury", "genesis", "watercare", "vodafone", "one nz", "spark"}},
	{"Entertainment", []string{"globe", "youtube", "cinema", "ticketek", "steam"}},
	{"Pet", []string{"dog", "vet", "pet", "animates", "petstock", "farmlands"}},
	{"Healthcare", []string{"pharmacy", "chemist", "doctor", "medical", "hospital", "dentist", "optometrist"}},
	{"Shopping", []string{"pb", "warehouse", "kmart", "target", "farmers", "briscoes", "mitre10", "mitre 10"}},
	{"Subscriptions", []string{"openai", "spotify", "netflix", "disney", "icloud", "audible"}},
	{"Education", []string{"book", "udemy", "coursera"}},
	{"Holiday", []string{"holiday", "airbnb", "jetstar", "air new zealand"}},
}

// Default returns the built-in rule table.
func Default() *Table {
	t, err := New(defaultRules)
	if err != nil {
		panic(err)
	}
	return t
}

// New builds a table from rules, lowercasing keywords and dropping blanks.
// Categories reserved for type rules may not appear in the table.
func New(rules []Rule) (*Table, error) {
	out := make([]Rule, 0, len(rules))
	seen := map[string]bool{}
	for _, r := range rules {
		name := strings.TrimSpace(r.Category)
		if name == "" {
			continue
		}
		if isReserved(name) {
			return nil, fmt.Errorf("%w: %s", ErrReservedCategory, name)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, fmt.Errorf("duplicate category %q", name)
		}
		seen[key] = true

		kws := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k != "" {
				kws = append(kws, k)
			}
		}
		out = append(out, Rule{Category: name, Keywords: kws})
	}
	if len(out) == 0 {
		return nil, ErrEmptyTable
	}
	return &Table{rules: out}, nil
}

// LoadFile reads a YAML rule table:
//
//	categories:
//	  - name: Groceries
//	    keywords: [countdown, new world]
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	var doc struct {
		Categories []Rule `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	t, err := New(doc.Categories)
	if err != nil {
		return nil, fmt.Errorf("rules %s: %w", path, err)
	}
	return t, nil
}

// Match returns the first category whose keyword occurs in text.
// Matching is case-insensitive.
func (t *Table) Match(text string) (string, bool) {
	text = strings.ToLower(text)
	if text == "" {
		return "", false
	}
	for _, r := range t.rules {
		for _, k := range r.Keywords {
			if strings.Contains(text, k) {
				return r.Category, true
			}
		}
	}
	return "", false
}

// Rules returns a copy of the table in match order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	for i, r := range t.rules {
		out[i] = Rule{Category: r.Category, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// Categories lists every category a transaction can be assigned to by hand:
// the table's categories in order, then Income, Mortgage and Uncategorized.
func (t *Table) Categories() []string {
	out := make([]string, 0, len(t.rules)+3)
	for _, r := range t.rules {
		out = append(out, r.Category)
	}
	return append(out, core.CategoryIncome, core.CategoryMortgage, core.CategoryUncategorized)
}

// Has reports whether name is an assignable category (case-insensitive) and
// returns its canonical spelling.
func (t *Table) Has(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, c := range t.Categories() {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}

func isReserved(name string) bool {
	for _, r := range []string{core.CategoryIncome, core.CategoryMortgage, core.CategoryUncategorized, core.CategoryTransfer} {
		if strings.EqualFold(r, name) {
			return true
		}
	}
	return false
}
