// Package format renders money, numbers, percentages and dates the way the
// Argentine UI shows them: "." groups thousands and "," separates decimals.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	groupSeparator   = "."
	decimalSeparator = ","
	currencySymbol   = "$"
)

// ErrInvalidAmount is returned by ParseCurrency for unparseable input
var ErrInvalidAmount = errors.New("format: invalid amount")

// Number renders d with exactly places fraction digits and grouped thousands.
// Number(decimal.RequireFromString("1234.5"), 2) == "1.234,50"
func Number(d decimal.Decimal, places int32) string {
	fixed := d.StringFixed(places)
	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	out := groupThousands(intPart)
	if fracPart != "" {
		out += decimalSeparator + fracPart
	}
	if negative {
		out = "-" + out
	}
	return out
}

// Currency renders a money amount with two decimals: "$ 1.234,56", "-$ 500,00"
func Currency(d decimal.Decimal) string {
	rounded := d.Round(2)
	body := Number(rounded.Abs(), 2)
	if rounded.IsNegative() {
		return "-" + currencySymbol + " " + body
	}
	return currencySymbol + " " + body
}

// Percent renders a percentage without trailing zeros: "10%", "12,5%"
func Percent(d decimal.Decimal) string {
	s := d.Round(2).String()
	return strings.Replace(s, ".", decimalSeparator, 1) + "%"
}

// ParseCurrency is the inverse of Currency and Number. It accepts an optional
// sign, the currency symbol, grouping dots and a decimal comma.
func ParseCurrency(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.ReplaceAll(clean, " ", "")
	clean = strings.ReplaceAll(clean, "\u00a0", "")

	negative := false
	if strings.HasPrefix(clean, "-") {
		negative = true
		clean = clean[1:]
	}
	clean = strings.TrimPrefix(clean, currencySymbol)
	if strings.HasPrefix(clean, "-") {
		negative = !negative
		clean = clean[1:]
	}
	if clean == "" {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	clean = strings.ReplaceAll(clean, groupSeparator, "")
	clean = strings.Replace(clean, decimalSeparator, ".", 1)

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(groupSeparator)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
