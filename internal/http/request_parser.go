// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data:
// table filters, month selectors and the export form.

package http

import (
	"net/http"
	"net/url"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/sheets"
	"fintrack/internal/workset"
)

// ExportParams holds the fields of the export form.
type ExportParams struct {
	Target sheets.Target
	Month  core.Month
}

// ParseFilter builds a table filter from query parameters. Every parameter
// may repeat; blank values and "all" are ignored and unparseable months are
// dropped.
func ParseFilter(query url.Values) workset.Filter {
	f := workset.Filter{
		Categories: cleanValues(query["category"]),
		Types:      cleanValues(query["type"]),
		Kind:       workset.ParseKind(query.Get("kind")),
	}
	for _, v := range cleanValues(query["month"]) {
		if m, err := core.ParseMonth(v); err == nil {
			f.Months = append(f.Months, m)
		}
	}
	return f
}

// ParseMonthParam reads a single "YYYY-MM" value. A missing, "all" or
// invalid value yields the zero month, meaning every month.
func ParseMonthParam(values url.Values, key string) core.Month {
	v := strings.TrimSpace(values.Get(key))
	if v == "" || strings.EqualFold(v, "all") {
		return core.Month{}
	}
	m, err := core.ParseMonth(v)
	if err != nil {
		return core.Month{}
	}
	return m
}

// ParseExportParams reads the export form. Empty target fields are left for
// the service to fill with configured defaults.
func ParseExportParams(form url.Values) ExportParams {
	return ExportParams{
		Target: sheets.Target{
			SpreadsheetID: sanitizeInput(form.Get("spreadsheet")),
			Sheet:         sanitizeInput(form.Get("sheet")),
		},
		Month: ParseMonthParam(form, "month"),
	}
}

// ParseFormOrFail parses the request form and returns an error response on failure.
// Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Invalid request format")
	}
	return nil
}

func cleanValues(in []string) []string {
	var out []string
	for _, v := range in {
		v = sanitizeInput(v)
		if v == "" || strings.EqualFold(v, "all") {
			continue
		}
		out = append(out, v)
	}
	return out
}
