package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sangkips/gestion-api/internal/domain/entity"
	"github.com/sangkips/gestion-api/internal/domain/repository"
	infraRepo "github.com/sangkips/gestion-api/internal/infrastructure/repository"
	"github.com/sangkips/gestion-api/pkg/apperror"
	"github.com/sangkips/gestion-api/pkg/email"
	"github.com/sangkips/gestion-api/pkg/format"
	"github.com/sangkips/gestion-api/pkg/pagination"
	"github.com/sangkips/gestion-api/pkg/whatsapp"
)

var (
	errEmailDisabled = apperror.NewAppError(http.StatusServiceUnavailable, "Email delivery is not configured")
	errEmailFailed   = apperror.NewBadGatewayError("Failed to send email")
)

// DocumentPresenter is the "open the document" step that follows generation.
// It returns where the document ended up, or "" when it was not kept.
type DocumentPresenter interface {
	Present(ctx context.Context, tenantID, fileName string, data []byte) (string, error)
}

// ReceiptMailer hands a rendered receipt to the mail system
type ReceiptMailer interface {
	Enabled() bool
	SendReceipt(ctx context.Context, msg *email.ReceiptMessage) error
}

// ReceiptServiceDeps wires a ReceiptService. Mailer and Printer may be nil.
type ReceiptServiceDeps struct {
	Receipts        repository.ReceiptSource
	Companies       repository.CompanyDirectory
	Documents       repository.ReceiptDocumentRepository
	Generator       *DocumentGenerator
	Presenter       DocumentPresenter
	Mailer          ReceiptMailer
	Printer         *PrinterService
	FallbackCompany *entity.CompanyInfo
	CountryCode     string
}

// ReceiptService fetches receipts from the backend and turns them into
// documents: PDF downloads, emails, WhatsApp links and printed tickets.
type ReceiptService struct {
	receipts    repository.ReceiptSource
	companies   repository.CompanyDirectory
	documents   repository.ReceiptDocumentRepository
	generator   *DocumentGenerator
	presenter   DocumentPresenter
	mailer      ReceiptMailer
	printer     *PrinterService
	fallback    entity.CompanyInfo
	countryCode string
}

// NewReceiptService creates a new receipt service
func NewReceiptService(deps ReceiptServiceDeps) *ReceiptService {
	s := &ReceiptService{
		receipts:    deps.Receipts,
		companies:   deps.Companies,
		documents:   deps.Documents,
		generator:   deps.Generator,
		presenter:   deps.Presenter,
		mailer:      deps.Mailer,
		printer:     deps.Printer,
		countryCode: deps.CountryCode,
	}
	if s.generator == nil {
		s.generator = NewDocumentGenerator(nil)
	}
	if deps.FallbackCompany != nil {
		s.fallback = *deps.FallbackCompany
	}
	return s
}

// RenderedReceipt is a generated PDF with the receipt it came from
type RenderedReceipt struct {
	Receipt  *entity.Receipt
	Company  *entity.CompanyInfo
	Document *GeneratedDocument
	Record   *entity.ReceiptDocument
}

// EmailResult reports a receipt handed to SMTP
type EmailResult struct {
	ReceiptNumber string `json:"receipt_number"`
	To            string `json:"to"`
	FileName      string `json:"file_name"`
}

// ShareLink is a prefilled WhatsApp chat link for a receipt
type ShareLink struct {
	URL     string `json:"url"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

// RenderReceipt generates the PDF for a backend receipt
func (s *ReceiptService) RenderReceipt(ctx context.Context, id string) (*RenderedReceipt, error) {
	receipt, err := s.fetchReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, receipt, entity.ChannelDownload)
}

// RenderPayload generates the PDF for a receipt supplied by the caller
func (s *ReceiptService) RenderPayload(ctx context.Context, receipt *entity.Receipt) (*RenderedReceipt, error) {
	if receipt == nil {
		return nil, apperror.NewBadRequestError(ErrReceiptRequired.Error())
	}
	return s.render(ctx, receipt, entity.ChannelDownload)
}

// EmailReceipt mails the receipt PDF to `to`, or to the client's address
// when `to` is empty
func (s *ReceiptService) EmailReceipt(ctx context.Context, id, to string) (*EmailResult, error) {
	if s.mailer == nil || !s.mailer.Enabled() {
		return nil, errEmailDisabled
	}

	receipt, err := s.fetchReceipt(ctx, id)
	if err != nil {
		return nil, err
	}

	to = strings.TrimSpace(to)
	if to == "" && receipt.Client != nil {
		to = strings.TrimSpace(receipt.Client.Email)
	}
	if to == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "to", Message: "client has no email, provide one"}})
	}

	rendered, err := s.render(ctx, receipt, entity.ChannelEmail)
	if err != nil {
		return nil, err
	}

	msg := &email.ReceiptMessage{
		To:            to,
		CompanyName:   rendered.Company.Name,
		ReceiptNumber: format.ReceiptNumber(receipt.ReceiptNumber),
		Type:          receipt.Type.Label(),
		Amount:        receiptAmountText(receipt),
		Date:          receiptDate(receipt),
		Concept:       receipt.Concept,
		Cancelled:     receipt.IsCancelled(),
		FileName:      rendered.Document.FileName,
		PDF:           rendered.Document.Bytes,
	}
	if receipt.Client != nil {
		msg.ClientName = receipt.Client.BusinessName
	}

	if err := s.mailer.SendReceipt(ctx, msg); err != nil {
		switch {
		case errors.Is(err, email.ErrInvalidRecipient):
			return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "to", Message: "invalid email address"}})
		case errors.Is(err, email.ErrNotConfigured):
			return nil, errEmailDisabled
		}
		log.Ctx(ctx).Error().Err(err).Str("receipt_id", id).Msg("receipt email failed")
		return nil, errEmailFailed
	}

	return &EmailResult{ReceiptNumber: msg.ReceiptNumber, To: to, FileName: msg.FileName}, nil
}

// WhatsAppLink builds a share link for the receipt. phone overrides the
// client's phone; with neither the user picks the chat.
func (s *ReceiptService) WhatsAppLink(ctx context.Context, id, phone string) (*ShareLink, error) {
	receipt, err := s.fetchReceipt(ctx, id)
	if err != nil {
		return nil, err
	}

	phone = strings.TrimSpace(phone)
	if phone == "" && receipt.Client != nil {
		phone = receipt.Client.Phone
	}

	message := ReceiptShareMessage(receipt, s.company(ctx).Name)
	link, err := whatsapp.ShareLink(phone, message, s.countryCode)
	if err != nil {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "phone", Message: err.Error()}})
	}

	normalized := ""
	if phone != "" {
		normalized, _ = whatsapp.NormalizePhone(phone, s.countryCode)
	}
	return &ShareLink{URL: link, Phone: normalized, Message: message}, nil
}

// PrintReceipt sends the receipt to the thermal printer
func (s *ReceiptService) PrintReceipt(ctx context.Context, id string) (*TicketPrint, error) {
	if s.printer == nil {
		return nil, apperror.NewAppError(http.StatusServiceUnavailable, "Printer is not configured")
	}

	receipt, err := s.fetchReceipt(ctx, id)
	if err != nil {
		return nil, err
	}

	ticket, err := s.printer.PrintReceipt(ctx, receipt, s.company(ctx))
	if ticket != nil {
		s.archive(ctx, &entity.ReceiptDocument{
			ReceiptID:     receipt.ID,
			ReceiptNumber: receipt.ReceiptNumber,
			Type:          receipt.Type,
			Status:        receipt.Status,
			Pages:         1,
			SizeBytes:     ticket.Bytes,
			Checksum:      checksum(ticket.data),
			Channel:       entity.ChannelPrint,
		})
	}
	return ticket, err
}

// ListDocuments pages through the tenant's generated documents
func (s *ReceiptService) ListDocuments(ctx context.Context, params *repository.ReceiptDocumentFilterParams) (*pagination.PaginatedResult[entity.ReceiptDocument], error) {
	if _, ok := infraRepo.GetTenantID(ctx); !ok {
		return nil, apperror.ErrTenantRequired
	}
	if params == nil {
		params = &repository.ReceiptDocumentFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	docs, total, err := s.documents.List(ctx, params)
	if err != nil {
		return nil, err
	}

	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(docs, p), nil
}

// ReceiptShareMessage is the chat text sent along with a receipt
func ReceiptShareMessage(r *entity.Receipt, companyName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recibo Nº %s", format.ReceiptNumber(r.ReceiptNumber))
	if companyName != "" {
		fmt.Fprintf(&b, " de %s", companyName)
	}
	fmt.Fprintf(&b, "\n%s: %s", format.Capitalize(r.Type.String()), receiptAmountText(r))
	fmt.Fprintf(&b, "\nFecha: %s", receiptDate(r))
	if r.Concept != "" {
		fmt.Fprintf(&b, "\nConcepto: %s", r.Concept)
	}
	if r.IsCancelled() {
		b.WriteString("\nEstado: ANULADO")
	}
	return b.String()
}

func (s *ReceiptService) render(ctx context.Context, receipt *entity.Receipt, channel string) (*RenderedReceipt, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.ErrTenantRequired
	}

	company := s.company(ctx)
	doc, err := s.generator.GenerateReceiptDocument(receipt, company)
	if err != nil {
		if errors.Is(err, ErrReceiptRequired) {
			return nil, apperror.NewBadRequestError(err.Error())
		}
		log.Ctx(ctx).Error().Err(err).Int("receipt_number", receipt.ReceiptNumber).Msg("receipt generation failed")
		return nil, fmt.Errorf("generate receipt: %w", err)
	}

	record := &entity.ReceiptDocument{
		TenantID:      tenantID,
		ReceiptID:     format.OrDefault(receipt.ID, "inline"),
		ReceiptNumber: receipt.ReceiptNumber,
		Type:          receipt.Type,
		Status:        receipt.Status,
		Pages:         doc.Pages,
		SizeBytes:     len(doc.Bytes),
		Checksum:      checksum(doc.Bytes),
		FileName:      doc.FileName,
		Channel:       channel,
	}

	if s.presenter != nil {
		path, err := s.presenter.Present(ctx, tenantID, doc.FileName, doc.Bytes)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("file", doc.FileName).Msg("failed to keep document copy")
		}
		record.StoragePath = path
	}
	s.archive(ctx, record)

	log.Ctx(ctx).Info().
		Str("receipt_id", receipt.ID).
		Int("receipt_number", receipt.ReceiptNumber).
		Int("pages", doc.Pages).
		Str("channel", channel).
		Msg("receipt rendered")

	return &RenderedReceipt{Receipt: receipt, Company: company, Document: doc, Record: record}, nil
}

// archive records a generated document. The archive is bookkeeping, so a
// failure is logged and the document is still delivered.
func (s *ReceiptService) archive(ctx context.Context, record *entity.ReceiptDocument) {
	if s.documents == nil {
		return
	}
	if err := s.documents.Create(ctx, record); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("receipt_id", record.ReceiptID).Msg("failed to archive document")
	}
}

func (s *ReceiptService) fetchReceipt(ctx context.Context, id string) (*entity.Receipt, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.NewBadRequestError("receipt id is required")
	}
	if _, ok := infraRepo.GetTenantID(ctx); !ok {
		return nil, apperror.ErrTenantRequired
	}
	return s.receipts.GetReceipt(ctx, id)
}

// company returns the tenant letterhead, filling gaps from the configured
// fallback. A backend failure degrades to the fallback alone.
func (s *ReceiptService) company(ctx context.Context) *entity.CompanyInfo {
	merged := s.fallback
	if s.companies == nil {
		return &merged
	}

	c, err := s.companies.GetCompany(ctx)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("company letterhead unavailable, using fallback")
		return &merged
	}

	merged.ID = c.ID
	merged.Name = format.OrDefault(c.Name, merged.Name)
	merged.Address = format.OrDefault(c.Address, merged.Address)
	merged.Phone = format.OrDefault(c.Phone, merged.Phone)
	merged.Email = format.OrDefault(c.Email, merged.Email)
	return &merged
}

func receiptDate(r *entity.Receipt) string {
	if r.Date.IsZero() {
		return placeholderNA
	}
	return format.LongDate(r.Date)
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
