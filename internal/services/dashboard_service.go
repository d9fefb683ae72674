package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"fintrack/internal/aggregate"
	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/importer"
	"fintrack/internal/log"
	"fintrack/internal/sheets"
	"fintrack/internal/workset"
)

// Upload is one file handed to Ingest.
type Upload struct {
	Name string
	Body io.Reader
}

// FileReport is the outcome of importing one file. Err is set when the whole
// file was rejected.
type FileReport struct {
	Name      string
	Schema    importer.Schema
	Imported  int
	Skipped   int
	RowErrors []importer.RowError
	Err       error
}

// OK reports whether the file was accepted.
func (r FileReport) OK() bool { return r.Err == nil }

// DashboardService orchestrates ingest, classification, aggregation and
// export over a session's working set.
type DashboardService struct {
	registry *importer.Registry
	exporter *export.Exporter
	target   sheets.Target
	logger   *log.Logger
	events   *log.StructuredLogger
}

// NewDashboardService wires the service. exporter may be disabled; target
// holds the default spreadsheet and tab used when an export names none.
func NewDashboardService(registry *importer.Registry, exporter *export.Exporter, target sheets.Target, logger *log.Logger) *DashboardService {
	if logger == nil {
		logger = log.Discard()
	}
	if exporter == nil {
		exporter = export.New(nil)
	}
	if target.Sheet == "" {
		target.Sheet = sheets.DefaultSheetName
	}
	return &DashboardService{
		registry: registry,
		exporter: exporter,
		target:   target,
		logger:   logger.WithComponent(log.ComponentImporter),
		events:   log.NewStructuredLogger(logger),
	}
}

// ExportEnabled reports whether a spreadsheet backend is configured.
func (s *DashboardService) ExportEnabled() bool { return s.exporter.Enabled() }

// DefaultTarget returns the configured export target.
func (s *DashboardService) DefaultTarget() sheets.Target { return s.target }

// Ingest normalizes every upload independently and adds the accepted rows to
// set. A rejected file never affects the others.
func (s *DashboardService) Ingest(ctx context.Context, set *workset.Set, uploads []Upload) []FileReport {
	reports := make([]FileReport, 0, len(uploads))
	for _, up := range uploads {
		rep := FileReport{Name: up.Name}
		if p, err := s.registry.ForFile(up.Name); err == nil {
			rep.Schema = p.Schema()
		}

		res, err := s.registry.ParseFile(up.Name, up.Body)
		if err != nil {
			rep.Err = err
			s.events.LogError(ctx, "File rejected", err, log.ComponentImporter, log.OpImport,
				log.NewFields().WithFile(up.Name, string(rep.Schema), 0, 0))
			reports = append(reports, rep)
			continue
		}

		set.Add(res.Transactions)
		rep.Imported = len(res.Transactions)
		rep.Skipped = res.Skipped()
		rep.RowErrors = res.RowErrors
		for _, re := range res.RowErrors {
			s.logger.DebugContext(ctx, "Row skipped", log.FieldFile, up.Name, "line", re.Line, "reason", re.Reason)
		}
		s.events.LogFileImported(ctx, up.Name, string(rep.Schema), rep.Imported, rep.Skipped)
		reports = append(reports, rep)
	}
	return reports
}

// Summary aggregates the whole working set, or one month when month is set.
func (s *DashboardService) Summary(set *workset.Set, month core.Month) core.Summary {
	if month.IsZero() {
		return aggregate.Summarize(set.Included())
	}
	return aggregate.ForMonth(set.Included(), month)
}

// Export pushes the summary of set (optionally one month) to target. Empty
// target fields fall back to the configured defaults. The working set is
// never modified.
func (s *DashboardService) Export(ctx context.Context, set *workset.Set, target sheets.Target, month core.Month) (export.Result, error) {
	target = s.resolveTarget(target)
	summary := s.Summary(set, month)

	res, err := s.exporter.Export(ctx, target, summary)
	if err != nil {
		s.events.LogError(ctx, "Export failed", err, log.ComponentExport, log.OpExport,
			log.NewFields().WithExportTarget(target.SpreadsheetID, target.Sheet, summary.PeriodLabel()))
		return export.Result{}, err
	}
	s.events.LogExport(ctx, target.SpreadsheetID, target.Sheet, summary.PeriodLabel(), res.RowRef)
	return res, nil
}

func (s *DashboardService) resolveTarget(t sheets.Target) sheets.Target {
	t.SpreadsheetID = strings.TrimSpace(t.SpreadsheetID)
	t.Sheet = strings.TrimSpace(t.Sheet)
	if t.SpreadsheetID == "" {
		t.SpreadsheetID = s.target.SpreadsheetID
	} else if id, err := sheets.ParseSpreadsheetID(t.SpreadsheetID); err == nil {
		t.SpreadsheetID = id
	}
	if t.Sheet == "" {
		t.Sheet = s.target.Sheet
	}
	return t
}

// WriteWorkbook writes every transaction of set as an .xlsx workbook.
func (s *DashboardService) WriteWorkbook(ctx context.Context, w io.Writer, set *workset.Set) error {
	txs := set.List()
	if err := export.WriteWorkbook(w, txs); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	s.logger.InfoContext(ctx, "Workbook written", "transactions", len(txs), log.FieldOperation, log.OpDownload)
	return nil
}
