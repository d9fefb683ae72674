package importer

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const preamble = "line 1\nline 2\nline 3\nline 4\nline 5\n"

func TestCSVParser_Statement(t *testing.T) {
	f, err := os.Open("testdata/statement.csv")
	require.NoError(t, err)
	defer f.Close()

	p := &CSVParser{PreambleLines: DefaultPreambleLines}
	res, err := p.Parse(f)
	require.NoError(t, err)

	require.Len(t, res.Transactions, 5)
	first := res.Transactions[0]
	assert.Equal(t, "COUNTDOWN AUCKLAND", first.Payee)
	assert.Equal(t, "-45.20", first.Amount.StringFixed(2))
	assert.Equal(t, "Payment", first.Type)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), first.Date)

	assert.Equal(t, "Deposit", res.Transactions[2].Type)
	assert.Equal(t, "Salary", res.Transactions[2].Memo)
	assert.True(t, res.Transactions[2].Amount.IsPositive())
	assert.Equal(t, "TFR OUT", res.Transactions[3].Type)
	assert.Equal(t, "Loan Payment", res.Transactions[4].Type)

	// Bad amount, bad date and missing payee are skipped; the blank row is not an error.
	require.Equal(t, 3, res.Skipped())
	assert.Equal(t, 11, res.RowErrors[0].Line)
	assert.Contains(t, res.RowErrors[0].Reason, "parsing amount")
	assert.Equal(t, 12, res.RowErrors[1].Line)
	assert.Contains(t, res.RowErrors[1].Reason, "parsing date")
	assert.Equal(t, 13, res.RowErrors[2].Line)
	assert.Contains(t, res.RowErrors[2].Reason, "missing payee")
}

func TestCSVParser_UnicodeMinus(t *testing.T) {
	in := preamble + "Date,Payee,Memo,Amount,Tran Type\n2024-03-01,Spotify,,−14.99,Payment\n"
	res, err := (&CSVParser{PreambleLines: 5}).Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "-14.99", res.Transactions[0].Amount.String())
	assert.Equal(t, "Spotify", res.Transactions[0].Payee)
	assert.Empty(t, res.Transactions[0].Memo)
}

func TestCSVParser_DayFirstDates(t *testing.T) {
	in := preamble + "Date,Payee,Amount\n01/03/2024,A,-1\n2/3/24,B,-1\n"
	res, err := (&CSVParser{PreambleLines: 5}).Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, time.March, res.Transactions[0].Date.Month())
	assert.Equal(t, 1, res.Transactions[0].Date.Day())
	assert.Equal(t, 2024, res.Transactions[1].Date.Year())
	assert.Equal(t, 2, res.Transactions[1].Date.Day())
}

func TestCSVParser_HeaderCaseInsensitive(t *testing.T) {
	in := preamble + " date , PAYEE ,amount,tran type\n2024-03-01,X,-1,Payment\n"
	res, err := (&CSVParser{PreambleLines: 5}).Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "Payment", res.Transactions[0].Type)
}

func TestCSVParser_FileLevelErrors(t *testing.T) {
	p := &CSVParser{PreambleLines: 5}

	_, err := p.Parse(strings.NewReader("only\ntwo\n"))
	assert.ErrorIs(t, err, ErrMissingHeader)

	_, err = p.Parse(strings.NewReader(preamble))
	assert.ErrorIs(t, err, ErrMissingHeader)

	_, err = p.Parse(strings.NewReader(preamble + "Date,Memo,Amount\n2024-03-01,x,-1\n"))
	assert.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "Payee")
}

func TestCSVParser_NoPreamble(t *testing.T) {
	in := "\ufeffDate,Payee,Amount\n2024-03-01,X,-1\n"
	res, err := (&CSVParser{}).Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Len(t, res.Transactions, 1)
}
