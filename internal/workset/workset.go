// Package workset holds the in-memory collection of transactions a dashboard
// session is working on. A Set starts empty, grows with every upload and is
// only shrunk by explicit deletion.
package workset

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"fintrack/internal/classify"
	"fintrack/internal/core"
)

var (
	ErrNotFound        = errors.New("transaction not found")
	ErrUnknownCategory = errors.New("unknown category")
	ErrExcluded        = errors.New("transaction is excluded from totals")
)

// Kind selects transactions by the sign of their amount.
type Kind string

const (
	KindAll      Kind = "all"
	KindExpenses Kind = "expenses"
	KindIncome   Kind = "income"
)

// ParseKind maps a query value onto a Kind, defaulting to KindAll.
func ParseKind(s string) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindExpenses:
		return KindExpenses
	case KindIncome:
		return KindIncome
	default:
		return KindAll
	}
}

// Filter narrows the transaction table. Empty fields match everything.
type Filter struct {
	Categories []string
	Kind       Kind
	Types      []string
	Months     []core.Month
}

func (f Filter) match(t core.Transaction) bool {
	switch f.Kind {
	case KindExpenses:
		if !t.IsExpense() {
			return false
		}
	case KindIncome:
		if !t.IsIncome() {
			return false
		}
	}
	if len(f.Categories) > 0 && !containsFold(f.Categories, t.Category) {
		return false
	}
	if len(f.Types) > 0 && !containsFold(f.Types, t.Type) {
		return false
	}
	if len(f.Months) > 0 {
		m := t.Month()
		found := false
		for _, fm := range f.Months {
			if fm == m {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Set is a mutex guarded working set. Concurrent requests of one browser
// session serialize on it.
type Set struct {
	mu         sync.RWMutex
	txs        []core.Transaction
	classifier *classify.Classifier
}

// New creates an empty working set classified with c.
func New(c *classify.Classifier) *Set {
	if c == nil {
		c = classify.New(nil)
	}
	return &Set{classifier: c}
}

// Add classifies txs and appends them. Rows are never deduplicated.
func (s *Set) Add(txs []core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range txs {
		s.classifier.Apply(&t, false)
		s.txs = append(s.txs, t)
	}
}

// Len returns the number of transactions, excluded ones included.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.txs)
}

// List returns a copy of every transaction in the order they were added.
func (s *Set) List() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Transaction(nil), s.txs...)
}

// Included returns the transactions that count towards totals.
func (s *Set) Included() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, 0, len(s.txs))
	for _, t := range s.txs {
		if !t.Excluded {
			out = append(out, t)
		}
	}
	return out
}

// Get returns the transaction with the given ID.
func (s *Set) Get(id string) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.index(id)
	if i < 0 {
		return core.Transaction{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.txs[i], nil
}

// SetCategory overrides the category of one transaction. The new category
// must be assignable and survives later reclassification.
func (s *Set) SetCategory(id, category string) (core.Transaction, error) {
	canonical, ok := s.classifier.Table().Has(category)
	if !ok {
		return core.Transaction{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return core.Transaction{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if s.txs[i].Excluded {
		return core.Transaction{}, fmt.Errorf("%w: %s", ErrExcluded, id)
	}
	s.txs[i].Category = canonical
	s.txs[i].Overridden = true
	return s.txs[i], nil
}

// ResetCategory drops a manual override and reapplies the classifier.
func (s *Set) ResetCategory(id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return core.Transaction{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.classifier.Apply(&s.txs[i], true)
	return s.txs[i], nil
}

// Delete removes one transaction from the set.
func (s *Set) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.txs = append(s.txs[:i], s.txs[i+1:]...)
	return nil
}

// Clear empties the set.
func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = nil
}

// Reclassify reruns the classifier over the whole set and returns the number
// of transactions whose category changed. Manual overrides are kept unless
// force is set.
func (s *Set) Reclassify(force bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.classifier.ApplyAll(s.txs, force)
}

// Filter returns the transactions matching f, in insertion order.
func (s *Set) Filter(f Filter) []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Transaction
	for _, t := range s.txs {
		if f.match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Months lists the distinct months present, oldest first.
func (s *Set) Months() []core.Month {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[core.Month]bool{}
	var out []core.Month
	for _, t := range s.txs {
		m := t.Month()
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Types lists the distinct non-empty bank transaction types, sorted.
func (s *Set) Types() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return distinct(s.txs, func(t core.Transaction) string { return strings.TrimSpace(t.Type) })
}

// Categories lists the distinct categories currently in use, sorted.
func (s *Set) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return distinct(s.txs, func(t core.Transaction) string { return t.Category })
}

// Assignable lists the categories a transaction can be moved to by hand.
func (s *Set) Assignable() []string {
	return s.classifier.Table().Categories()
}

func (s *Set) index(id string) int {
	for i := range s.txs {
		if s.txs[i].ID == id {
			return i
		}
	}
	return -1
}

func distinct(txs []core.Transaction, key func(core.Transaction) string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range txs {
		k := key(t)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), s) {
			return true
		}
	}
	return false
}
