package importer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestXLSXParser_Parse(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Transaction Date", "Details", "Particulars", "Amount", "Type"},
		{time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "COUNTDOWN AUCKLAND", "", -45.2, "Payment"},
		{"2024-03-02", "UBER EATS", "", "-18.00", "Payment"},
		{"02/03/2024", "ACME LTD", "Joint account", 1200, "Direct Credit"},
		{"2024-03-04", "Broken", "", "abc", "Payment"},
		{"", "", "", "", ""},
		{"yesterday", "Broken date", "", -1, "Payment"},
	})

	res, err := (&XLSXParser{}).Parse(buf)
	require.NoError(t, err)
	require.Len(t, res.Transactions, 3)

	first := res.Transactions[0]
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "COUNTDOWN AUCKLAND", first.Payee)
	assert.Equal(t, "-45.20", first.Amount.StringFixed(2))
	assert.Equal(t, "Payment", first.Type)

	assert.Equal(t, "UBER EATS", res.Transactions[1].Payee)
	assert.Equal(t, "Joint account", res.Transactions[2].Memo)
	assert.Equal(t, 2, res.Transactions[2].Date.Day())
	assert.Equal(t, time.March, res.Transactions[2].Date.Month())

	require.Equal(t, 2, res.Skipped())
	assert.Equal(t, 5, res.RowErrors[0].Line)
	assert.Equal(t, 7, res.RowErrors[1].Line)
}

func TestXLSXParser_OptionalColumns(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Transaction Date", "Details", "Amount"},
		{"2024-03-01", "Spotify", -14.99},
	})
	res, err := (&XLSXParser{}).Parse(buf)
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Empty(t, res.Transactions[0].Type)
	assert.Empty(t, res.Transactions[0].Memo)
}

func TestXLSXParser_MissingColumns(t *testing.T) {
	buf := workbook(t, [][]any{{"Date", "Payee", "Amount"}})
	_, err := (&XLSXParser{}).Parse(buf)
	assert.ErrorIs(t, err, ErrMissingColumns)
}

func TestXLSXParser_NotAWorkbook(t *testing.T) {
	_, err := (&XLSXParser{}).Parse(bytes.NewBufferString("Date,Payee\n"))
	assert.Error(t, err)
}
