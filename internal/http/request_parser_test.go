package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/workset"
)

func TestParseFilter(t *testing.T) {
	q, _ := url.ParseQuery("category=Groceries&category=all&category=&kind=expenses&type=Payment&month=2024-03&month=bogus")
	f := ParseFilter(q)

	if len(f.Categories) != 1 || f.Categories[0] != "Groceries" {
		t.Errorf("Categories = %v", f.Categories)
	}
	if f.Kind != workset.KindExpenses {
		t.Errorf("Kind = %v", f.Kind)
	}
	if len(f.Types) != 1 || f.Types[0] != "Payment" {
		t.Errorf("Types = %v", f.Types)
	}
	if len(f.Months) != 1 || f.Months[0] != (core.Month{Year: 2024, Month: time.March}) {
		t.Errorf("Months = %v", f.Months)
	}
}

func TestParseFilter_Empty(t *testing.T) {
	f := ParseFilter(url.Values{})
	if f.Kind != workset.KindAll || f.Categories != nil || f.Types != nil || f.Months != nil {
		t.Errorf("unexpected filter: %+v", f)
	}
}

func TestParseMonthParam(t *testing.T) {
	tests := []struct {
		in   string
		want core.Month
	}{
		{"2024-03", core.Month{Year: 2024, Month: time.March}},
		{" 2023-12 ", core.Month{Year: 2023, Month: time.December}},
		{"all", core.Month{}},
		{"", core.Month{}},
		{"2024-13", core.Month{}},
	}
	for _, tt := range tests {
		got := ParseMonthParam(url.Values{"month": {tt.in}}, "month")
		if got != tt.want {
			t.Errorf("ParseMonthParam(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseExportParams(t *testing.T) {
	form := url.Values{
		"spreadsheet": {"  https://docs.google.com/spreadsheets/d/abc/edit \x00"},
		"sheet":       {"Joint Finance"},
		"month":       {"2024-04"},
	}
	p := ParseExportParams(form)
	if p.Target.SpreadsheetID != "https://docs.google.com/spreadsheets/d/abc/edit" {
		t.Errorf("SpreadsheetID = %q", p.Target.SpreadsheetID)
	}
	if p.Target.Sheet != "Joint Finance" {
		t.Errorf("Sheet = %q", p.Target.Sheet)
	}
	if p.Month.String() != "2024-04" {
		t.Errorf("Month = %v", p.Month)
	}
}

func TestParseFormOrFail(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/export", strings.NewReader("%zz"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if ParseFormOrFail(req) == nil {
		t.Error("expected error response for malformed form")
	}

	req = httptest.NewRequest(http.MethodPost, "/export", strings.NewReader("sheet=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if ParseFormOrFail(req) != nil {
		t.Error("unexpected error response")
	}
}
