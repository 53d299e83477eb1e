package service

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/gestion-api/internal/domain/entity"
	"github.com/sangkips/gestion-api/internal/domain/enum"
	"github.com/sangkips/gestion-api/pkg/pdfdoc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type textOp struct {
	page  int
	x, y  float64
	text  string
	color pdfdoc.Color
	align pdfdoc.Align
}

type rectOp struct {
	page       int
	x, y, w, h float64
	color      pdfdoc.Color
	filled     bool
}

// recordingCanvas captures draw calls; one rune is one millimetre wide
type recordingCanvas struct {
	pages     int
	fill      pdfdoc.Color
	draw      pdfdoc.Color
	textColor pdfdoc.Color
	texts     []textOp
	rects     []rectOp
	lines     int
}

func (c *recordingCanvas) AddPage()                     { c.pages++ }
func (c *recordingCanvas) PageSize() (float64, float64) { return 210, 297 }
func (c *recordingCanvas) SetFillColor(col pdfdoc.Color) { c.fill = col }
func (c *recordingCanvas) SetDrawColor(col pdfdoc.Color) { c.draw = col }
func (c *recordingCanvas) SetTextColor(col pdfdoc.Color) { c.textColor = col }
func (c *recordingCanvas) SetFont(pdfdoc.FontStyle, float64) {}
func (c *recordingCanvas) SetLineWidth(float64)              {}
func (c *recordingCanvas) Line(_, _, _, _ float64)           { c.lines++ }

func (c *recordingCanvas) FillRect(x, y, w, h float64) {
	c.rects = append(c.rects, rectOp{page: c.pages, x: x, y: y, w: w, h: h, color: c.fill, filled: true})
}

func (c *recordingCanvas) StrokeRect(x, y, w, h float64) {
	c.rects = append(c.rects, rectOp{page: c.pages, x: x, y: y, w: w, h: h, color: c.draw})
}

func (c *recordingCanvas) Text(x, y float64, s string, align pdfdoc.Align) {
	c.texts = append(c.texts, textOp{page: c.pages, x: x, y: y, text: s, color: c.textColor, align: align})
}

func (c *recordingCanvas) WrapText(s string, width float64) []string {
	return pdfdoc.Wrap(s, width, func(s string) float64 { return float64(len([]rune(s))) })
}

func (c *recordingCanvas) find(text string) (textOp, bool) {
	for _, t := range c.texts {
		if t.text == text {
			return t, true
		}
	}
	return textOp{}, false
}

func (c *recordingCanvas) hasText(page int, substr string) bool {
	for _, t := range c.texts {
		if t.page == page && strings.Contains(t.text, substr) {
			return true
		}
	}
	return false
}

func sampleReceipt() *entity.Receipt {
	return &entity.Receipt{
		ID:            "r1",
		ReceiptNumber: 42,
		Type:          enum.ReceiptTypeIngreso,
		Amount:        decimal.RequireFromString("1234.5"),
		Concept:       "Cobro de la factura de marzo",
		PaymentMethod: enum.PaymentMethodTransferencia,
		Date:          time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		Status:        enum.ReceiptStatusActivo,
		Client:        &entity.Client{BusinessName: "Distribuidora Sur", Phone: "11 5555-1234", Address: "Av. Siempre Viva 742"},
		SalesRep:      &entity.Person{FirstName: "Ana", LastName: "García"},
	}
}

var stamp = time.Date(2024, time.March, 16, 9, 30, 0, 0, time.UTC)

func TestRenderReceiptRequiresReceipt(t *testing.T) {
	c := &recordingCanvas{}
	assert.ErrorIs(t, RenderReceipt(c, nil, nil, stamp), ErrReceiptRequired)
	assert.Zero(t, c.pages)
}

func TestRenderReceiptActiveHasOnePage(t *testing.T) {
	c := &recordingCanvas{}
	require.NoError(t, RenderReceipt(c, sampleReceipt(), &entity.CompanyInfo{Name: "Acme SRL", Phone: "011 4444"}, stamp))

	assert.Equal(t, 1, c.pages)
	for _, want := range []string{
		"Acme SRL", "Nº 00042", "ACTIVO", "RECIBO DE INGRESO", "Distribuidora Sur",
		"15 de marzo de 2024", "Transferencia", "Ana García", "Generado el 16/03/2024 09:30",
	} {
		assert.True(t, c.hasText(1, want), "missing %q", want)
	}
	assert.False(t, c.hasText(1, "OBSERVACIONES"), "notes block only when notes are present")
	assert.Equal(t, 1, c.lines, "footer rule")

	badge, ok := c.find("ACTIVO")
	require.True(t, ok)
	assert.Equal(t, pdfdoc.AlignCenter, badge.align)
	var badgeRect *rectOp
	for i := range c.rects {
		if c.rects[i].w == badgeWidth && c.rects[i].h == badgeHeight {
			badgeRect = &c.rects[i]
		}
	}
	require.NotNil(t, badgeRect)
	assert.Equal(t, colorSuccess, badgeRect.color)
}

func TestRenderReceiptCancelledHasTwoPages(t *testing.T) {
	r := sampleReceipt()
	cancelledAt := time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.Cancel("Se cargó el monto equivocado y hubo que rehacer el comprobante completo", &entity.Person{FirstName: "Luis"}, cancelledAt))

	c := &recordingCanvas{}
	require.NoError(t, RenderReceipt(c, r, nil, stamp))

	assert.Equal(t, 2, c.pages)
	assert.True(t, c.hasText(1, "ANULADO"))
	assert.True(t, c.hasText(2, "RECIBO ANULADO"))
	assert.True(t, c.hasText(2, "Recibo Nº 00042"))
	assert.True(t, c.hasText(2, "2 de abril de 2024"))
	assert.True(t, c.hasText(2, "Luis"))
	assert.True(t, c.hasText(2, "Se cargó"))

	var boxed bool
	for _, rect := range c.rects {
		if rect.page == 2 && !rect.filled {
			boxed = true
			assert.Equal(t, colorDanger, rect.color)
		}
		if rect.page == 1 && rect.w == badgeWidth {
			assert.Equal(t, colorDanger, rect.color)
		}
	}
	assert.True(t, boxed, "reason is boxed")
}

func TestRenderReceiptCancelledWithoutReasonHasNoBox(t *testing.T) {
	r := sampleReceipt()
	r.Status = enum.ReceiptStatusAnulado

	c := &recordingCanvas{}
	require.NoError(t, RenderReceipt(c, r, nil, stamp))

	assert.Equal(t, 2, c.pages)
	for _, rect := range c.rects {
		assert.True(t, rect.filled, "no stroked box without a reason")
	}
	assert.True(t, c.hasText(2, placeholderNA))
}

func TestRenderReceiptAmountSignAndColor(t *testing.T) {
	egreso := sampleReceipt()
	egreso.Type = enum.ReceiptTypeEgreso
	egreso.Amount = decimal.NewFromInt(500)

	c := &recordingCanvas{}
	require.NoError(t, RenderReceipt(c, egreso, nil, stamp))
	op, ok := c.find("-$ 500,00")
	require.True(t, ok)
	assert.Equal(t, colorWarning, op.color)
	assert.True(t, c.hasText(1, "RECIBO DE EGRESO"))

	ingreso := sampleReceipt()
	ingreso.Amount = decimal.NewFromInt(500)
	c = &recordingCanvas{}
	require.NoError(t, RenderReceipt(c, ingreso, nil, stamp))
	op, ok = c.find("$ 500,00")
	require.True(t, ok)
	assert.Equal(t, colorSuccess, op.color)
}

func TestRenderReceiptPlaceholders(t *testing.T) {
	r := &entity.Receipt{ReceiptNumber: 7, Type: enum.ReceiptTypeIngreso, Status: enum.ReceiptStatusActivo}

	c := &recordingCanvas{}
	require.NoError(t, RenderReceipt(c, r, nil, stamp))

	assert.True(t, c.hasText(1, "Nº 00007"))
	_, ok := c.find(placeholderUnspecified)
	assert.True(t, ok)
	_, ok = c.find(placeholderNA)
	assert.True(t, ok)
}

func TestRenderReceiptWrapAdvancesCursor(t *testing.T) {
	short := sampleReceipt()
	long := sampleReceipt()
	long.Concept = strings.Repeat("palabra ", 60)

	y := func(r *entity.Receipt) float64 {
		c := &recordingCanvas{}
		require.NoError(t, RenderReceipt(c, r, nil, stamp))
		op, ok := c.find("FORMA DE PAGO")
		require.True(t, ok)
		return op.y
	}

	lines := len((&recordingCanvas{}).WrapText(long.Concept, 210-2*pageMargin))
	require.Greater(t, lines, 1)
	assert.InDelta(t, float64(lines-1)*lineHeight, y(long)-y(short), 0.001)
}

func TestRenderReceiptFooterAnchoredToPageBottom(t *testing.T) {
	r := sampleReceipt()
	r.Notes = "Entregar copia al cliente"

	c := &recordingCanvas{}
	require.NoError(t, RenderReceipt(c, r, nil, stamp))

	op, ok := c.find(receiptDisclaimer)
	require.True(t, ok)
	assert.InDelta(t, 297-disclaimerFromB, op.y, 0.001)
	assert.True(t, c.hasText(1, "OBSERVACIONES"))
}

func TestGenerateReceiptDocument(t *testing.T) {
	g := NewDocumentGenerator(time.UTC)
	g.now = func() time.Time { return stamp }

	_, err := g.GenerateReceiptDocument(nil, nil)
	assert.ErrorIs(t, err, ErrReceiptRequired)

	doc, err := g.GenerateReceiptDocument(sampleReceipt(), &entity.CompanyInfo{Name: "Acme SRL"})
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Pages)
	assert.Equal(t, "recibo-00042.pdf", doc.FileName)
	assert.True(t, bytes.HasPrefix(doc.Bytes, []byte("%PDF-")))

	cancelled := sampleReceipt()
	cancelled.Status = enum.ReceiptStatusAnulado
	doc, err = g.GenerateReceiptDocument(cancelled, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Pages)
}

func TestReceiptAmountText(t *testing.T) {
	tests := []struct {
		name   string
		typ    enum.ReceiptType
		amount string
		want   string
	}{
		{"ingreso", enum.ReceiptTypeIngreso, "1187.5", "$ 1.187,50"},
		{"egreso", enum.ReceiptTypeEgreso, "500", "-$ 500,00"},
		{"egreso sent negative", enum.ReceiptTypeEgreso, "-500", "-$ 500,00"},
		{"egreso zero keeps the sign", enum.ReceiptTypeEgreso, "0", "-$ 0,00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &entity.Receipt{Type: tt.typ, Amount: decimal.RequireFromString(tt.amount)}
			assert.Equal(t, tt.want, receiptAmountText(r))
		})
	}
}
