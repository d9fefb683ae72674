package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"-14.99", "-14.99", true},
		{"−14.99", "-14.99", true},
		{"45.20", "45.2", true},
		{" 2.50 ", "2.5", true},
		{"$1,234.50", "1234.5", true},
		{"-$18.00", "-18", true},
		{"(12.00)", "-12", true},
		{"0", "0", true},
		{"", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if !tc.ok {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "input %q: got %s want %s", tc.in, got, tc.want)
	}
}

func TestParseAmount_EmptyIsSentinel(t *testing.T) {
	_, err := ParseAmount("   ")
	assert.ErrorIs(t, err, ErrEmptyAmount)
}

func TestFormatDollars(t *testing.T) {
	assert.Equal(t, "$0.00", FormatDollars(decimal.Zero))
	assert.Equal(t, "$14.99", FormatDollars(decimal.RequireFromString("14.99")))
	assert.Equal(t, "-$14.99", FormatDollars(decimal.RequireFromString("-14.99")))
	assert.Equal(t, "$1,234.50", FormatDollars(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "$1,234,567.00", FormatDollars(decimal.NewFromInt(1234567)))
	assert.Equal(t, "$123.00", FormatDollars(decimal.NewFromInt(123)))
}
