package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sangkips/gestion-api/internal/domain/entity"
	"github.com/sangkips/gestion-api/pkg/format"
	"github.com/sangkips/gestion-api/pkg/printer"
)

// PrinterService handles receipt ticket formatting and thermal printing.
type PrinterService struct {
	printer     printer.Printer
	printerType string
	charWidth   int
	location    *time.Location
}

// NewPrinterService creates a new printer service.
func NewPrinterService(p printer.Printer, printerType string, charWidth int, loc *time.Location) *PrinterService {
	if charWidth <= 0 {
		charWidth = printer.Width58mm
	}
	if loc == nil {
		loc = time.UTC
	}
	return &PrinterService{
		printer:     p,
		printerType: printerType,
		charWidth:   charWidth,
		location:    loc,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	CharWidth  int    `json:"char_width"`
}

// TicketPrint describes a ticket handed to the printer
type TicketPrint struct {
	ReceiptID     string `json:"receipt_id,omitempty"`
	ReceiptNumber string `json:"receipt_number"`
	Bytes         int    `json:"bytes"`
	Printed       bool   `json:"printed"`

	data []byte
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: printer.IsEnabled(s.printerType),
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
		CharWidth:  s.charWidth,
	}
}

// PrintReceipt formats r as an ESC/POS ticket and sends it to the printer.
// The ticket is returned even when printing fails so the caller can report
// what would have been printed.
func (s *PrinterService) PrintReceipt(ctx context.Context, r *entity.Receipt, company *entity.CompanyInfo) (*TicketPrint, error) {
	if r == nil {
		return nil, ErrReceiptRequired
	}

	data := FormatReceiptTicket(r, company, s.charWidth, s.location)
	ticket := &TicketPrint{
		ReceiptID:     r.ID,
		ReceiptNumber: format.ReceiptNumber(r.ReceiptNumber),
		Bytes:         len(data),
		data:          data,
	}

	if !printer.IsEnabled(s.printerType) {
		return ticket, nil
	}
	if err := s.printer.Print(ctx, data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("receipt_id", r.ID).Msg("printer error")
		return ticket, fmt.Errorf("failed to print receipt: %w", err)
	}

	ticket.Printed = true
	return ticket, nil
}

// FormatReceiptTicket converts a receipt into ESC/POS bytes for a paper of
// width characters.
func FormatReceiptTicket(r *entity.Receipt, company *entity.CompanyInfo, width int, loc *time.Location) []byte {
	if company == nil {
		company = &entity.CompanyInfo{}
	}
	if loc == nil {
		loc = time.UTC
	}
	doc := printer.NewDocument(width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(format.Truncate(format.OrDefault(company.Name, "RECIBO"), width/2)).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if company.Address != "" {
		doc.Paragraph(company.Address)
	}
	if company.Phone != "" {
		doc.TextF("Tel: %s", company.Phone)
	}

	doc.Separator('=').
		SetBold(true).
		Text("RECIBO DE " + r.Type.Label()).
		SetBold(false)
	if r.IsCancelled() {
		doc.SetBold(true).Text("*** ANULADO ***").SetBold(false)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	// Receipt info
	date := placeholderNA
	if !r.Date.IsZero() {
		date = format.ShortDate(r.Date.In(loc))
	}
	clientName := placeholderUnspecified
	if r.Client != nil {
		clientName = format.OrDefault(r.Client.BusinessName, placeholderUnspecified)
	}

	doc.KeyValue("Nro:", format.ReceiptNumber(r.ReceiptNumber)).
		KeyValue("Fecha:", date).
		KeyValue("Cliente:", format.Truncate(clientName, width-len("Cliente: "))).
		KeyValue("Pago:", format.OrDefault(r.PaymentMethod.Label(), placeholderUnspecified)).
		KeyValue("Vendedor:", format.Truncate(format.OrDefault(r.SalesRep.FullName(), placeholderNA), width-len("Vendedor: ")))

	doc.Separator('-').
		SetBold(true).
		Text("Concepto:").
		SetBold(false).
		Paragraph(format.OrDefault(r.Concept, placeholderUnspecified))

	if r.Notes != "" {
		doc.SetBold(true).
			Text("Observaciones:").
			SetBold(false).
			Paragraph(r.Notes)
	}

	doc.Separator('-').
		SetBold(true).
		KeyValue("TOTAL:", receiptAmountText(r)).
		SetBold(false)

	if r.IsCancelled() {
		cancelledAt := placeholderNA
		if r.CancelledAt != nil {
			cancelledAt = format.ShortDate(r.CancelledAt.In(loc))
		}
		doc.Separator('-').
			KeyValue("Anulado:", cancelledAt).
			KeyValue("Por:", format.OrDefault(r.CancelledBy.FullName(), placeholderNA))
		if r.CancellationReason != "" {
			doc.Paragraph("Motivo: " + r.CancellationReason)
		}
	}

	doc.Separator('-')

	// Footer
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Paragraph(receiptDisclaimer).
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
