package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		in     string
		places int32
		want   string
	}{
		{"0", 2, "0,00"},
		{"999.999", 2, "1.000,00"},
		{"1234.5", 2, "1.234,50"},
		{"1234567.891", 2, "1.234.567,89"},
		{"-1250", 2, "-1.250,00"},
		{"100", 0, "100"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Number(decimal.RequireFromString(tt.in), tt.places))
		})
	}
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, "$ 180,00", Currency(decimal.NewFromInt(180)))
	assert.Equal(t, "$ 1.187,50", Currency(decimal.RequireFromString("1187.5")))
	assert.Equal(t, "-$ 500,00", Currency(decimal.NewFromInt(-500)))
	assert.Equal(t, "$ 0,00", Currency(decimal.RequireFromString("-0.001")))
}

func TestParseCurrencyRoundTrip(t *testing.T) {
	values := []string{"0", "0.01", "180", "1187.5", "1234567.89", "-500", "33.333"}
	for _, v := range values {
		d := decimal.RequireFromString(v)
		parsed, err := ParseCurrency(Currency(d))
		require.NoError(t, err, v)
		assert.True(t, d.Round(2).Equal(parsed), "%s -> %s", v, parsed)
	}
}

func TestParseCurrency(t *testing.T) {
	d, err := ParseCurrency("$ 1.234,56")
	require.NoError(t, err)
	assert.Equal(t, "1234.56", d.String())

	d, err = ParseCurrency("-$ 10")
	require.NoError(t, err)
	assert.Equal(t, "-10", d.String())

	_, err = ParseCurrency("$ ")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseCurrency("abc")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "10%", Percent(decimal.NewFromInt(10)))
	assert.Equal(t, "12,5%", Percent(decimal.RequireFromString("12.50")))
}

func TestDates(t *testing.T) {
	d := time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC)
	assert.Equal(t, "5 de marzo de 2024", LongDate(d))
	assert.Equal(t, "05/03/2024", ShortDate(d))
	assert.Equal(t, "05/03/2024 14:07", DateTime(d))
	assert.Equal(t, "31 de diciembre de 2023", LongDate(time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hola", Truncate("hola", 10))
	assert.Equal(t, "Distribu...", Truncate("Distribuidora del Sur", 11))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "Caña...", Truncate("Cañada de Gómez", 7))
}

func TestReceiptNumberAndCapitalize(t *testing.T) {
	assert.Equal(t, "00042", ReceiptNumber(42))
	assert.Equal(t, "123456", ReceiptNumber(123456))
	assert.Equal(t, "Efectivo", Capitalize("efectivo"))
	assert.Equal(t, "N/A", OrDefault("  ", "N/A"))
}
