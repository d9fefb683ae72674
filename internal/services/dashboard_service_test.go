package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/importer"
	"fintrack/internal/sheets"
	"fintrack/internal/sheets/memory"
	"fintrack/internal/workset"
)

const preamble = "Created date / time : 01 April 2024 / 10:00:00\n" +
	"Bank 12-3456-7890123-00\n" +
	"From date 20240301\n" +
	"To date 20240331\n" +
	"Avail Bal : 1000.00\n"

const march = preamble +
	"Date,Payee,Memo,Amount,Tran Type\n" +
	"2024-03-01,Spotify,,−14.99,Payment\n" +
	"2024-03-02,COUNTDOWN AUCKLAND,,-320.50,Payment\n" +
	"2024-03-03,Employer,,4000,Deposit\n" +
	"2024-03-04,Savings,,-500,TFR OUT\n" +
	"2024-03-05,Broken,,abc,Payment\n"

const april = preamble +
	"Date,Payee,Memo,Amount,Tran Type\n" +
	"2024-04-01,UBER EATS,,-18,Payment\n"

func newService(t *testing.T, appender sheets.RowAppender) *DashboardService {
	t.Helper()
	var exp *export.Exporter
	if appender != nil {
		exp = export.New(appender)
	}
	return NewDashboardService(importer.DefaultRegistry(importer.DefaultPreambleLines), exp,
		sheets.Target{SpreadsheetID: "default-sheet"}, nil)
}

func TestIngest(t *testing.T) {
	svc := newService(t, nil)
	set := workset.New(nil)

	reports := svc.Ingest(context.Background(), set, []Upload{
		{Name: "march.csv", Body: strings.NewReader(march)},
		{Name: "notes.txt", Body: strings.NewReader("hello")},
		{Name: "short.csv", Body: strings.NewReader("only\ntwo lines\n")},
		{Name: "april.csv", Body: strings.NewReader(april)},
	})
	require.Len(t, reports, 4)

	assert.True(t, reports[0].OK())
	assert.Equal(t, importer.SchemaDelimited, reports[0].Schema)
	assert.Equal(t, 4, reports[0].Imported)
	assert.Equal(t, 1, reports[0].Skipped)
	require.Len(t, reports[0].RowErrors, 1)
	assert.Equal(t, 11, reports[0].RowErrors[0].Line)

	assert.ErrorIs(t, reports[1].Err, importer.ErrUnsupportedFormat)
	assert.ErrorIs(t, reports[2].Err, importer.ErrMissingHeader)
	assert.True(t, reports[3].OK())

	assert.Equal(t, 5, set.Len())
	for _, tx := range set.List() {
		if tx.Payee == "Spotify" {
			assert.Equal(t, "Subscriptions", tx.Category)
			assert.Equal(t, "-14.99", tx.Amount.String())
			assert.Equal(t, "march.csv", tx.Source)
		}
	}
}

func TestIngest_DuplicateFilesAreKept(t *testing.T) {
	svc := newService(t, nil)
	set := workset.New(nil)

	svc.Ingest(context.Background(), set, []Upload{
		{Name: "a.csv", Body: strings.NewReader(april)},
		{Name: "b.csv", Body: strings.NewReader(april)},
	})
	require.Equal(t, 2, set.Len())
	txs := set.List()
	assert.NotEqual(t, txs[0].ID, txs[1].ID)
}

func TestSummary(t *testing.T) {
	svc := newService(t, nil)
	set := workset.New(nil)
	svc.Ingest(context.Background(), set, []Upload{
		{Name: "march.csv", Body: strings.NewReader(march)},
		{Name: "april.csv", Body: strings.NewReader(april)},
	})

	all := svc.Summary(set, core.Month{})
	assert.Equal(t, "353.49", all.TotalExpenses.StringFixed(2))
	assert.Equal(t, "4000.00", all.TotalIncome.StringFixed(2))
	assert.Len(t, all.Months, 2)

	mar := svc.Summary(set, core.Month{Year: 2024, Month: time.March})
	assert.Equal(t, "335.49", mar.TotalExpenses.StringFixed(2))
	assert.Equal(t, "2024-03", mar.PeriodLabel())
}

func TestExport(t *testing.T) {
	store := memory.NewWithHeader(sheets.DefaultSheetName, []string{"Month", "Total Expenses", "Groceries", "Dining"})
	svc := newService(t, store)
	require.True(t, svc.ExportEnabled())

	set := workset.New(nil)
	svc.Ingest(context.Background(), set, []Upload{{Name: "march.csv", Body: strings.NewReader(march)}})
	before := set.List()

	res, err := svc.Export(context.Background(), set, sheets.Target{}, core.Month{Year: 2024, Month: time.March})
	require.NoError(t, err)
	assert.Equal(t, "default-sheet", res.Target.SpreadsheetID)
	assert.Equal(t, sheets.DefaultSheetName, res.Target.Sheet)
	assert.Equal(t, []string{"2024-03", "335.49", "320.50", ""}, res.Row)
	assert.Equal(t, before, set.List())

	res, err = svc.Export(context.Background(), set,
		sheets.Target{SpreadsheetID: "https://docs.google.com/spreadsheets/d/abc123/edit"}, core.Month{})
	require.NoError(t, err)
	assert.Equal(t, "abc123", res.Target.SpreadsheetID)
	assert.Len(t, store.Rows(sheets.DefaultSheetName), 3)
}

func TestExport_Errors(t *testing.T) {
	set := workset.New(nil)

	_, err := newService(t, nil).Export(context.Background(), set, sheets.Target{}, core.Month{})
	assert.ErrorIs(t, err, export.ErrNoCredentials)

	_, err = newService(t, memory.New()).Export(context.Background(), set, sheets.Target{Sheet: "Nope"}, core.Month{})
	assert.ErrorIs(t, err, sheets.ErrSheetNotFound)
}

func TestWriteWorkbook(t *testing.T) {
	svc := newService(t, nil)
	set := workset.New(nil)
	svc.Ingest(context.Background(), set, []Upload{{Name: "april.csv", Body: strings.NewReader(april)}})

	var buf bytes.Buffer
	require.NoError(t, svc.WriteWorkbook(context.Background(), &buf, set))
	assert.NotZero(t, buf.Len())
}
