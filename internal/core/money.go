// Package core provides the canonical transaction model shared by the
// importers, the classifier and the aggregator.
//
// This file contains parsing and formatting of signed money amounts.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

var amountReplacer = strings.NewReplacer(
	"\u2212", "-", // minus sign
	"\u2013", "-", // en dash
	"\u00a0", "",
	"$", "",
	",", "",
	" ", "",
)

// ParseAmount converts a bank export amount into a signed decimal.
//
// It accepts an optional currency symbol, thousands separators, the Unicode
// minus sign and accounting parentheses for negatives. The sign is preserved.
//
// Examples:
//
//	ParseAmount("-14.99")      -> -14.99
//	ParseAmount("\u221214.99") -> -14.99
//	ParseAmount("$1,234.50")   -> 1234.50
//	ParseAmount("(12.00)")     -> -12.00
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(amountReplacer.Replace(s))
	if err != nil {
		return decimal.Zero, err
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// FormatDollars formats an amount as "$1,234.56", with a leading minus for
// negative values.
func FormatDollars(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := "$" + b.String() + frac
	if neg {
		return "-" + out
	}
	return out
}
