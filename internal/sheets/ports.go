package sheets

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var (
	ErrSheetNotFound     = errors.New("sheet tab not found")
	ErrEmptyHeader       = errors.New("sheet header row is empty")
	ErrEmptySpreadsheet  = errors.New("missing spreadsheet id")
	ErrInvalidTargetName = errors.New("missing sheet tab name")
)

// DefaultSheetName is the tab the dashboard exports to unless told otherwise.
const DefaultSheetName = "Joint Finance"

// Target addresses one tab of one spreadsheet.
type Target struct {
	SpreadsheetID string
	Sheet         string
}

// Validate reports a missing spreadsheet ID or tab name.
func (t Target) Validate() error {
	if strings.TrimSpace(t.SpreadsheetID) == "" {
		return ErrEmptySpreadsheet
	}
	if strings.TrimSpace(t.Sheet) == "" {
		return ErrInvalidTargetName
	}
	return nil
}

// Ports for outbound adapters.
type (
	// RowAppender reads the header of a tab and appends one row below the
	// last non-empty row.
	RowAppender interface {
		// ReadHeader returns row 1 of the tab. It fails with ErrSheetNotFound
		// when the tab does not exist.
		ReadHeader(ctx context.Context, t Target) ([]string, error)
		// AppendRow writes row after the last non-empty row in a single
		// write and returns the written range.
		AppendRow(ctx context.Context, t Target, row []string) (rowRef string, err error)
	}
)

var spreadsheetURL = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// ParseSpreadsheetID accepts either a bare spreadsheet ID or a full Google
// Sheets URL and returns the ID.
func ParseSpreadsheetID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptySpreadsheet
	}
	if !strings.Contains(s, "/") {
		return s, nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", err
	}
	m := spreadsheetURL.FindStringSubmatch(u.Path)
	if m == nil {
		return "", errors.New("no spreadsheet id in url")
	}
	return m[1], nil
}
