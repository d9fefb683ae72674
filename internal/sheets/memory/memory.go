package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	ports "fintrack/internal/sheets"
)

// Store is an in-process spreadsheet: each tab is a grid of rows whose first
// row is the header. It backs local runs and tests.
type Store struct {
	mu   sync.Mutex
	tabs map[string][][]string
}

var _ ports.RowAppender = (*Store)(nil)

func New() *Store {
	return &Store{tabs: map[string][][]string{}}
}

// NewWithHeader creates a store holding one tab with the given header row.
func NewWithHeader(sheet string, header []string) *Store {
	s := New()
	s.AddTab(sheet, header)
	return s
}

// AddTab creates or replaces a tab. An empty header leaves the tab blank.
func (s *Store) AddTab(sheet string, header []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows [][]string
	if len(header) > 0 {
		rows = append(rows, append([]string(nil), header...))
	}
	s.tabs[key(sheet)] = rows
}

// ReadHeader returns the tab's first row.
func (s *Store) ReadHeader(_ context.Context, t ports.Target) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.tabs[key(t.Sheet)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ports.ErrSheetNotFound, t.Sheet)
	}
	if len(rows) == 0 || isBlank(rows[0]) {
		return nil, ports.ErrEmptyHeader
	}
	return append([]string(nil), rows[0]...), nil
}

// AppendRow stores row after the last row and returns a synthetic reference.
func (s *Store) AppendRow(_ context.Context, t ports.Target, row []string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.tabs[key(t.Sheet)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ports.ErrSheetNotFound, t.Sheet)
	}
	rows = append(rows, append([]string(nil), row...))
	s.tabs[key(t.Sheet)] = rows
	return fmt.Sprintf("mem:%s!A%d", t.Sheet, len(rows)), nil
}

// Rows returns a copy of every row of a tab, header included.
func (s *Store) Rows(sheet string) [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.tabs[key(sheet)]
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

func key(sheet string) string { return strings.TrimSpace(sheet) }

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
