package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/sangkips/gestion-api/internal/domain/entity"
	"github.com/sangkips/gestion-api/internal/domain/enum"
	"github.com/sangkips/gestion-api/pkg/format"
	"github.com/sangkips/gestion-api/pkg/pdfdoc"
)

// ErrReceiptRequired is returned when a document is requested without a receipt
var ErrReceiptRequired = errors.New("receipt is required to generate a document")

const (
	placeholderNA          = "N/A"
	placeholderUnspecified = "No especificado"

	receiptDisclaimer = "Este comprobante no es válido como factura. Conserve este documento para su control."
)

// Layout constants in millimetres
const (
	pageMargin      = 20.0
	headerHeight    = 40.0
	badgeWidth      = 30.0
	badgeHeight     = 7.0
	bannerHeight    = 10.0
	sectionBarWidth = 80.0
	sectionBarH     = 7.0
	lineHeight      = 6.0
	blockGap        = 6.0
	columnGap       = 10.0
	footerRuleFromB = 30.0
	disclaimerFromB = 24.0
	stampFromB      = 18.0
)

var (
	colorPrimary = pdfdoc.Color{R: 37, G: 99, B: 235}
	colorSuccess = pdfdoc.Color{R: 22, G: 163, B: 74}
	colorDanger  = pdfdoc.Color{R: 220, G: 38, B: 38}
	colorWarning = pdfdoc.Color{R: 217, G: 119, B: 6}
	colorText    = pdfdoc.Color{R: 31, G: 41, B: 55}
	colorMuted   = pdfdoc.Color{R: 107, G: 114, B: 128}
	colorWhite   = pdfdoc.Color{R: 255, G: 255, B: 255}
	colorRule    = pdfdoc.Color{R: 209, G: 213, B: 219}
)

// ReceiptCanvas is the drawing surface the receipt layout needs.
// *pdfdoc.Document satisfies it.
type ReceiptCanvas interface {
	AddPage()
	PageSize() (float64, float64)
	SetFillColor(c pdfdoc.Color)
	SetDrawColor(c pdfdoc.Color)
	SetTextColor(c pdfdoc.Color)
	SetFont(style pdfdoc.FontStyle, size float64)
	SetLineWidth(w float64)
	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	Line(x1, y1, x2, y2 float64)
	Text(x, y float64, s string, align pdfdoc.Align)
	WrapText(s string, width float64) []string
}

// statusColor maps a receipt status to its badge colour
func statusColor(r *entity.Receipt) pdfdoc.Color {
	if r.IsCancelled() {
		return colorDanger
	}
	return colorSuccess
}

// typeColor maps ingreso to success and egreso to warning
func typeColor(r *entity.Receipt) pdfdoc.Color {
	if r.Type == enum.ReceiptTypeEgreso {
		return colorWarning
	}
	return colorSuccess
}

// receiptAmountText is the currency-formatted amount, with a leading minus
// for egreso even when the amount is zero
func receiptAmountText(r *entity.Receipt) string {
	signed := r.SignedAmount()
	if r.Type == enum.ReceiptTypeEgreso {
		return "-" + format.Currency(signed.Abs())
	}
	return format.Currency(signed)
}

// RenderReceipt draws the receipt onto c: the body page, plus a cancellation
// page when the receipt is anulado. generatedAt is stamped in the footer.
func RenderReceipt(c ReceiptCanvas, r *entity.Receipt, company *entity.CompanyInfo, generatedAt time.Time) error {
	if r == nil {
		return ErrReceiptRequired
	}
	if company == nil {
		company = &entity.CompanyInfo{}
	}

	l := &receiptLayout{c: c, r: r, company: company, generatedAt: generatedAt}
	l.c.AddPage()
	l.pageW, l.pageH = l.c.PageSize()
	l.contentW = l.pageW - 2*pageMargin

	l.drawHeader()
	l.drawTypeBanner()
	l.drawClientAndDate()
	l.drawAmount()
	l.drawWrappedSection("CONCEPTO", format.OrDefault(r.Concept, placeholderUnspecified))
	l.drawSection("FORMA DE PAGO", format.OrDefault(r.PaymentMethod.Label(), placeholderUnspecified))
	if r.Notes != "" {
		l.drawWrappedSection("OBSERVACIONES", r.Notes)
	}
	l.drawSection("VENDEDOR", format.OrDefault(r.SalesRep.FullName(), placeholderNA))
	l.drawFooter()

	if r.IsCancelled() {
		l.drawCancellationPage()
	}
	return nil
}

type receiptLayout struct {
	c           ReceiptCanvas
	r           *entity.Receipt
	company     *entity.CompanyInfo
	generatedAt time.Time

	pageW, pageH, contentW float64
	y                      float64
}

func (l *receiptLayout) drawHeader() {
	c := l.c
	c.SetFillColor(colorPrimary)
	c.FillRect(0, 0, l.pageW, headerHeight)

	c.SetTextColor(colorWhite)
	c.SetFont(pdfdoc.Bold, 16)
	c.Text(pageMargin, 14, format.OrDefault(l.company.Name, placeholderNA), pdfdoc.AlignLeft)

	c.SetFont(pdfdoc.Regular, 9)
	y := 21.0
	for _, line := range []string{l.company.Address, l.company.Phone, l.company.Email} {
		if line == "" {
			continue
		}
		c.Text(pageMargin, y, line, pdfdoc.AlignLeft)
		y += 5
	}

	right := l.pageW - pageMargin
	c.SetFont(pdfdoc.Bold, 18)
	c.Text(right, 15, "RECIBO", pdfdoc.AlignRight)
	c.SetFont(pdfdoc.Bold, 12)
	c.Text(right, 23, "Nº "+format.ReceiptNumber(l.r.ReceiptNumber), pdfdoc.AlignRight)

	// badge sits under the number, flush with the right margin
	c.SetFillColor(statusColor(l.r))
	c.FillRect(right-badgeWidth, 27, badgeWidth, badgeHeight)
	c.SetTextColor(colorWhite)
	c.SetFont(pdfdoc.Bold, 9)
	c.Text(right-badgeWidth/2, 32, l.r.Status.Label(), pdfdoc.AlignCenter)

	l.y = headerHeight + 10
}

func (l *receiptLayout) drawTypeBanner() {
	c := l.c
	c.SetFillColor(typeColor(l.r))
	c.FillRect(pageMargin, l.y, l.contentW, bannerHeight)
	c.SetTextColor(colorWhite)
	c.SetFont(pdfdoc.Bold, 12)
	c.Text(l.pageW/2, l.y+7, "RECIBO DE "+l.r.Type.Label(), pdfdoc.AlignCenter)
	l.y += bannerHeight + 8
}

func (l *receiptLayout) drawClientAndDate() {
	leftX := pageMargin
	rightX := pageMargin + (l.contentW+columnGap)/2

	l.sectionTitle(leftX, l.y, "CLIENTE")
	l.sectionTitle(rightX, l.y, "FECHA")

	clientLines := []string{placeholderUnspecified}
	if cl := l.r.Client; cl != nil {
		clientLines = []string{format.OrDefault(cl.BusinessName, placeholderUnspecified)}
		clientLines = append(clientLines, "Tel: "+format.OrDefault(cl.Phone, placeholderNA))
		if cl.Address != "" {
			clientLines = append(clientLines, cl.Address)
		}
	}

	date := placeholderNA
	if !l.r.Date.IsZero() {
		date = format.LongDate(l.r.Date)
	}

	l.bodyFont()
	colW := (l.contentW - columnGap) / 2
	textY := l.y + sectionBarH + lineHeight
	for i, line := range clientLines {
		l.c.Text(leftX, textY+float64(i)*lineHeight, format.Truncate(line, int(colW/2)), pdfdoc.AlignLeft)
	}
	l.c.Text(rightX, textY, date, pdfdoc.AlignLeft)

	l.y += sectionBarH + float64(len(clientLines))*lineHeight + blockGap
}

func (l *receiptLayout) drawAmount() {
	l.sectionTitle(pageMargin, l.y, "MONTO")
	l.c.SetTextColor(typeColor(l.r))
	l.c.SetFont(pdfdoc.Bold, 24)
	l.c.Text(pageMargin, l.y+sectionBarH+11, receiptAmountText(l.r), pdfdoc.AlignLeft)
	l.y += sectionBarH + 14 + blockGap
}

func (l *receiptLayout) drawSection(title, value string) {
	l.sectionTitle(pageMargin, l.y, title)
	l.bodyFont()
	l.c.Text(pageMargin, l.y+sectionBarH+lineHeight, value, pdfdoc.AlignLeft)
	l.y += sectionBarH + lineHeight + blockGap
}

// drawWrappedSection advances the cursor by the wrapped line count
func (l *receiptLayout) drawWrappedSection(title, text string) {
	l.sectionTitle(pageMargin, l.y, title)
	l.bodyFont()
	lines := l.c.WrapText(text, l.contentW)
	for i, line := range lines {
		l.c.Text(pageMargin, l.y+sectionBarH+lineHeight*float64(i+1), line, pdfdoc.AlignLeft)
	}
	l.y += sectionBarH + float64(len(lines))*lineHeight + blockGap
}

func (l *receiptLayout) sectionTitle(x, y float64, title string) {
	l.c.SetFillColor(colorPrimary)
	l.c.FillRect(x, y, sectionBarWidth, sectionBarH)
	l.c.SetTextColor(colorWhite)
	l.c.SetFont(pdfdoc.Bold, 10)
	l.c.Text(x+3, y+5, title, pdfdoc.AlignLeft)
}

func (l *receiptLayout) bodyFont() {
	l.c.SetTextColor(colorText)
	l.c.SetFont(pdfdoc.Regular, 11)
}

// drawFooter is anchored to the page bottom, not the flowing cursor
func (l *receiptLayout) drawFooter() {
	c := l.c
	c.SetDrawColor(colorRule)
	c.SetLineWidth(0.3)
	c.Line(pageMargin, l.pageH-footerRuleFromB, l.pageW-pageMargin, l.pageH-footerRuleFromB)

	c.SetTextColor(colorMuted)
	c.SetFont(pdfdoc.Italic, 8)
	c.Text(l.pageW/2, l.pageH-disclaimerFromB, receiptDisclaimer, pdfdoc.AlignCenter)
	c.SetFont(pdfdoc.Regular, 8)
	c.Text(l.pageW/2, l.pageH-stampFromB, "Generado el "+format.DateTime(l.generatedAt), pdfdoc.AlignCenter)
}

func (l *receiptLayout) drawCancellationPage() {
	c := l.c
	c.AddPage()

	c.SetFillColor(colorDanger)
	c.FillRect(0, 0, l.pageW, headerHeight)
	c.SetTextColor(colorWhite)
	c.SetFont(pdfdoc.Bold, 22)
	c.Text(l.pageW/2, 20, "RECIBO ANULADO", pdfdoc.AlignCenter)
	c.SetFont(pdfdoc.Bold, 12)
	c.Text(l.pageW/2, 30, "Recibo Nº "+format.ReceiptNumber(l.r.ReceiptNumber), pdfdoc.AlignCenter)

	l.y = headerHeight + 15

	cancelledAt := placeholderNA
	if l.r.CancelledAt != nil {
		cancelledAt = format.LongDate(*l.r.CancelledAt)
	}
	l.drawSection("FECHA DE ANULACIÓN", cancelledAt)
	l.drawSection("ANULADO POR", format.OrDefault(l.r.CancelledBy.FullName(), placeholderNA))

	if l.r.CancellationReason != "" {
		l.sectionTitle(pageMargin, l.y, "MOTIVO DE ANULACIÓN")
		l.bodyFont()
		lines := c.WrapText(l.r.CancellationReason, l.contentW-10)
		boxY := l.y + sectionBarH + 2
		boxH := float64(len(lines))*lineHeight + lineHeight

		c.SetDrawColor(colorDanger)
		c.SetLineWidth(0.5)
		c.StrokeRect(pageMargin, boxY, l.contentW, boxH)
		for i, line := range lines {
			c.Text(pageMargin+5, boxY+lineHeight*float64(i+1), line, pdfdoc.AlignLeft)
		}
		l.y = boxY + boxH + blockGap
	}

	l.drawFooter()
}

// GeneratedDocument is a rendered receipt ready for presentation
type GeneratedDocument struct {
	Bytes    []byte
	Pages    int
	FileName string
}

// ReceiptFileName is the download name for a receipt PDF
func ReceiptFileName(r *entity.Receipt) string {
	return fmt.Sprintf("recibo-%s.pdf", format.ReceiptNumber(r.ReceiptNumber))
}

// DocumentGenerator turns receipts into PDF bytes. It has no side effects;
// presentation is left to a DocumentPresenter.
type DocumentGenerator struct {
	location *time.Location
	now      func() time.Time
	compress bool
}

// NewDocumentGenerator stamps documents in loc (UTC when nil)
func NewDocumentGenerator(loc *time.Location) *DocumentGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &DocumentGenerator{location: loc, now: time.Now, compress: true}
}

// GenerateReceiptDocument renders r with the company letterhead
func (g *DocumentGenerator) GenerateReceiptDocument(r *entity.Receipt, company *entity.CompanyInfo) (*GeneratedDocument, error) {
	if r == nil {
		return nil, ErrReceiptRequired
	}

	generatedAt := g.now().In(g.location)
	doc := pdfdoc.New(
		pdfdoc.WithTitle("Recibo "+format.ReceiptNumber(r.ReceiptNumber)),
		pdfdoc.WithAuthor(companyName(company)),
		pdfdoc.WithCompression(g.compress),
		pdfdoc.WithCreationDate(generatedAt),
	)
	if err := RenderReceipt(doc, r, company, generatedAt); err != nil {
		return nil, err
	}

	data, err := doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("generate receipt %d: %w", r.ReceiptNumber, err)
	}

	return &GeneratedDocument{
		Bytes:    data,
		Pages:    doc.PageCount(),
		FileName: ReceiptFileName(r),
	}, nil
}

func companyName(c *entity.CompanyInfo) string {
	if c == nil {
		return ""
	}
	return c.Name
}
