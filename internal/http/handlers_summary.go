package http

import (
	"errors"
	"fmt"
	"net/http"

	"fintrack/internal/export"
	"fintrack/internal/sheets"
)

// handleSummary renders the dashboard totals, optionally for one month.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	set := s.workingSet(w, r)
	month := ParseMonthParam(r.URL.Query(), "month")
	view := newSummaryView(s.svc.Summary(set, month), set.Months(), s.svc.ExportEnabled(), s.svc.DefaultTarget())

	html, err := s.render("summary.html", view)
	if err != nil {
		s.renderFailed(r.Context(), w, "summary.html", err)
		return
	}
	NewHTMXResponse().BodyHTML(html).Write(w)
}

// handleExport appends the summary row to the spreadsheet tab.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	set := s.workingSet(w, r)
	if errResp := ParseFormOrFail(r); errResp != nil {
		errResp.Write(w)
		return
	}

	params := ParseExportParams(r.Form)
	res, err := s.svc.Export(r.Context(), set, params.Target, params.Month)
	if err != nil {
		exportError(err).Write(w)
		return
	}

	period := "All months"
	if !params.Month.IsZero() {
		period = params.Month.Label()
	}
	html, err := s.render("export_result.html", newExportView(res, period))
	if err != nil {
		s.renderFailed(r.Context(), w, "export_result.html", err)
		return
	}
	NewHTMXResponse().
		TriggerSuccessNotification(fmt.Sprintf("Row appended to %s", res.Target.Sheet)).
		BodyHTML(html).
		Write(w)
}

func exportError(err error) *HTMXResponseBuilder {
	var resp *HTMXResponseBuilder
	switch {
	case errors.Is(err, export.ErrNoCredentials):
		msg := "Spreadsheet export is not configured"
		if err != export.ErrNoCredentials {
			msg = "Spreadsheet export is unavailable: " + err.Error()
		}
		resp = ServiceUnavailableError(msg)
	case errors.Is(err, sheets.ErrEmptySpreadsheet):
		resp = UnprocessableEntityError("Enter a spreadsheet ID or URL")
	case errors.Is(err, sheets.ErrInvalidTargetName):
		resp = UnprocessableEntityError("Invalid sheet name")
	case errors.Is(err, sheets.ErrSheetNotFound):
		resp = UnprocessableEntityError("Sheet tab not found in the spreadsheet")
	case errors.Is(err, sheets.ErrEmptyHeader):
		resp = UnprocessableEntityError("The first row of the sheet has no column headers")
	default:
		resp = BadGatewayError("Export failed: " + err.Error())
	}
	return resp.TriggerErrorNotification(err.Error())
}
