package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		country string
		want    string
	}{
		{"local number", "11 4567-8901", "", "541145678901"},
		{"trunk prefix", "011 4567 8901", "54", "541145678901"},
		{"already has country", "5491145678901", "54", "5491145678901"},
		{"plus prefix", "+1 (555) 010-9999", "54", "15550109999"},
		{"double zero prefix", "0034 612 345 678", "54", "34612345678"},
		{"other default country", "612345678", "34", "34612345678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.phone, tt.country)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePhone_TooShort(t *testing.T) {
	_, err := NormalizePhone("+12", "54")
	assert.ErrorIs(t, err, ErrInvalidPhone)
}

func TestShareLink(t *testing.T) {
	link, err := ShareLink("11 4567-8901", "Recibo Nº 00042 por $ 1.234,56", "")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/541145678901?text=Recibo%20N%C2%BA%2000042%20por%20%24%201.234%2C56", link)
}

func TestShareLink_NoPhone(t *testing.T) {
	link, err := ShareLink("", "hola", "54")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/?text=hola", link)

	link, err = ShareLink("  ", "", "54")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/", link)
}

func TestShareLink_InvalidPhone(t *testing.T) {
	_, err := ShareLink("+1", "hola", "54")
	assert.ErrorIs(t, err, ErrInvalidPhone)
}
