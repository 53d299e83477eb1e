package pdfdoc

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func charWidth(s string) float64 {
	return float64(len([]rune(s)))
}

func TestWrap(t *testing.T) {
	lines := Wrap("uno dos tres cuatro", 8, charWidth)
	assert.Equal(t, []string{"uno dos", "tres", "cuatro"}, lines)

	assert.Equal(t, []string{"a", "", "b"}, Wrap("a\n\nb", 10, charWidth))
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, Wrap("abcdefghij", 4, charWidth))
	assert.Equal(t, []string{"x", "abcd", "ef y"}, Wrap("x abcdef y", 4, charWidth))
	assert.Equal(t, []string{""}, Wrap("", 10, charWidth))
}

func TestDocumentBytes(t *testing.T) {
	doc := New(
		WithTitle("Recibo"),
		WithCompression(false),
		WithCreationDate(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)),
	)
	doc.AddPage()
	doc.SetFillColor(Color{R: 37, G: 99, B: 235})
	doc.FillRect(0, 0, 210, 40)
	doc.SetFont(Bold, 14)
	doc.Text(190, 20, "Recibo Nº 00042", AlignRight)
	doc.AddPage()

	w, h := doc.PageSize()
	assert.InDelta(t, 210, w, 0.01)
	assert.InDelta(t, 297, h, 0.01)
	assert.Equal(t, 2, doc.PageCount())

	out, err := doc.Bytes()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "00042")
}

func TestWrapTextUsesFontMetrics(t *testing.T) {
	doc := New()
	doc.AddPage()
	doc.SetFont(Regular, 11)

	text := "Pago correspondiente a la cuota de marzo por servicios de distribución en zona sur"
	lines := doc.WrapText(text, 60)
	require.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, doc.TextWidth(line), 60.0)
	}
}
