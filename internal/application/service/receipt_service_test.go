package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sangkips/gestion-api/internal/domain/entity"
	"github.com/sangkips/gestion-api/internal/domain/enum"
	"github.com/sangkips/gestion-api/internal/domain/repository"
	infraRepo "github.com/sangkips/gestion-api/internal/infrastructure/repository"
	"github.com/sangkips/gestion-api/pkg/apperror"
	"github.com/sangkips/gestion-api/pkg/email"
	"github.com/sangkips/gestion-api/pkg/pagination"
	"github.com/sangkips/gestion-api/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReceipts struct {
	receipts map[string]*entity.Receipt
}

func (f *fakeReceipts) GetReceipt(_ context.Context, id string) (*entity.Receipt, error) {
	r, ok := f.receipts[id]
	if !ok {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return r, nil
}

type fakeCompanies struct {
	company *entity.CompanyInfo
	err     error
}

func (f *fakeCompanies) GetCompany(context.Context) (*entity.CompanyInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.company, nil
}

type fakeDocuments struct {
	created []*entity.ReceiptDocument
	err     error
	params  *repository.ReceiptDocumentFilterParams
}

func (f *fakeDocuments) Create(_ context.Context, doc *entity.ReceiptDocument) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, doc)
	return nil
}

func (f *fakeDocuments) List(_ context.Context, params *repository.ReceiptDocumentFilterParams) ([]entity.ReceiptDocument, int64, error) {
	f.params = params
	docs := make([]entity.ReceiptDocument, 0, len(f.created))
	for _, d := range f.created {
		docs = append(docs, *d)
	}
	return docs, int64(len(docs)), nil
}

type fakePresenter struct {
	tenant, name string
	data         []byte
	err          error
}

func (f *fakePresenter) Present(_ context.Context, tenantID, fileName string, data []byte) (string, error) {
	f.tenant, f.name, f.data = tenantID, fileName, data
	if f.err != nil {
		return "", f.err
	}
	return "/docs/" + tenantID + "/" + fileName, nil
}

type fakeMailer struct {
	enabled bool
	sent    []*email.ReceiptMessage
	err     error
}

func (f *fakeMailer) Enabled() bool { return f.enabled }

func (f *fakeMailer) SendReceipt(_ context.Context, msg *email.ReceiptMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakePrinter struct {
	printed [][]byte
	err     error
}

func (f *fakePrinter) Print(_ context.Context, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.printed = append(f.printed, data)
	return nil
}
func (f *fakePrinter) Close() error      { return nil }
func (f *fakePrinter) IsConnected() bool { return true }

type receiptFixture struct {
	svc       *ReceiptService
	receipts  *fakeReceipts
	companies *fakeCompanies
	documents *fakeDocuments
	presenter *fakePresenter
	mailer    *fakeMailer
	printer   *fakePrinter
	ctx       context.Context
}

func newReceiptFixture() *receiptFixture {
	cancelled := sampleReceipt()
	cancelled.ID = "r2"
	cancelled.ReceiptNumber = 43
	cancelled.Status = enum.ReceiptStatusAnulado
	cancelled.CancellationReason = "Carga duplicada"
	cancelled.CancelledBy = &entity.Person{FirstName: "Luis"}
	cancelled.CancelledAt = &stamp

	f := &receiptFixture{
		receipts: &fakeReceipts{receipts: map[string]*entity.Receipt{
			"r1": sampleReceipt(),
			"r2": cancelled,
		}},
		companies: &fakeCompanies{company: &entity.CompanyInfo{ID: "company-a", Name: "Acme SRL"}},
		documents: &fakeDocuments{},
		presenter: &fakePresenter{},
		mailer:    &fakeMailer{enabled: true},
		printer:   &fakePrinter{},
		ctx:       infraRepo.WithTenant(context.Background(), "company-a"),
	}

	generator := NewDocumentGenerator(time.UTC)
	generator.now = func() time.Time { return stamp }

	f.svc = NewReceiptService(ReceiptServiceDeps{
		Receipts:        f.receipts,
		Companies:       f.companies,
		Documents:       f.documents,
		Generator:       generator,
		Presenter:       f.presenter,
		Mailer:          f.mailer,
		Printer:         NewPrinterService(f.printer, printer.TypeNetwork, printer.Width58mm, time.UTC),
		FallbackCompany: &entity.CompanyInfo{Name: "Fallback SA", Phone: "0800-123"},
		CountryCode:     "54",
	})
	return f
}

func TestReceiptService_RenderReceipt(t *testing.T) {
	f := newReceiptFixture()

	rendered, err := f.svc.RenderReceipt(f.ctx, "r1")
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(rendered.Document.Bytes, []byte("%PDF-")))
	assert.Equal(t, 1, rendered.Document.Pages)
	assert.Equal(t, "recibo-00042.pdf", rendered.Document.FileName)
	assert.Equal(t, "Acme SRL", rendered.Company.Name)
	assert.Equal(t, "0800-123", rendered.Company.Phone, "gaps are filled from the fallback")

	require.Len(t, f.documents.created, 1)
	record := f.documents.created[0]
	assert.Equal(t, "company-a", record.TenantID)
	assert.Equal(t, "r1", record.ReceiptID)
	assert.Equal(t, entity.ChannelDownload, record.Channel)
	assert.Len(t, record.Checksum, 64)
	assert.Equal(t, len(rendered.Document.Bytes), record.SizeBytes)
	assert.Equal(t, "/docs/company-a/recibo-00042.pdf", record.StoragePath)
	assert.Equal(t, rendered.Document.Bytes, f.presenter.data)
}

func TestReceiptService_RenderCancelledHasTwoPages(t *testing.T) {
	f := newReceiptFixture()

	rendered, err := f.svc.RenderReceipt(f.ctx, "r2")
	require.NoError(t, err)
	assert.Equal(t, 2, rendered.Document.Pages)
	assert.Equal(t, enum.ReceiptStatusAnulado, f.documents.created[0].Status)
}

func TestReceiptService_RenderErrors(t *testing.T) {
	f := newReceiptFixture()

	_, err := f.svc.RenderReceipt(context.Background(), "r1")
	assert.ErrorIs(t, err, apperror.ErrTenantRequired)

	_, err = f.svc.RenderReceipt(f.ctx, "missing")
	assert.Equal(t, http.StatusNotFound, appCode(t, err))

	_, err = f.svc.RenderReceipt(f.ctx, " ")
	assert.Equal(t, http.StatusBadRequest, appCode(t, err))

	_, err = f.svc.RenderPayload(f.ctx, nil)
	assert.Equal(t, http.StatusBadRequest, appCode(t, err))
}

func TestReceiptService_SideEffectFailuresDoNotBlockDocument(t *testing.T) {
	f := newReceiptFixture()
	f.presenter.err = errors.New("disk full")
	f.documents.err = errors.New("db down")
	f.companies.err = apperror.ErrBackendUnavailable

	rendered, err := f.svc.RenderReceipt(f.ctx, "r1")
	require.NoError(t, err)
	assert.NotEmpty(t, rendered.Document.Bytes)
	assert.Equal(t, "Fallback SA", rendered.Company.Name)
	assert.Empty(t, rendered.Record.StoragePath)
}

func TestReceiptService_RenderPayload(t *testing.T) {
	f := newReceiptFixture()
	r := sampleReceipt()
	r.ID = ""

	rendered, err := f.svc.RenderPayload(f.ctx, r)
	require.NoError(t, err)
	assert.Equal(t, "inline", rendered.Record.ReceiptID)
}

func TestReceiptService_EmailReceipt(t *testing.T) {
	f := newReceiptFixture()
	f.receipts.receipts["r1"].Client.Email = "pagos@sur.example.com"

	result, err := f.svc.EmailReceipt(f.ctx, "r1", "")
	require.NoError(t, err)
	assert.Equal(t, "pagos@sur.example.com", result.To)

	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.sent[0]
	assert.Equal(t, "00042", msg.ReceiptNumber)
	assert.Equal(t, "$ 1.234,50", msg.Amount)
	assert.Equal(t, "Acme SRL", msg.CompanyName)
	assert.True(t, bytes.HasPrefix(msg.PDF, []byte("%PDF-")))
	assert.Equal(t, entity.ChannelEmail, f.documents.created[0].Channel)
}

func TestReceiptService_EmailReceiptErrors(t *testing.T) {
	t.Run("no address", func(t *testing.T) {
		f := newReceiptFixture()
		_, err := f.svc.EmailReceipt(f.ctx, "r1", "")
		assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))
	})

	t.Run("disabled", func(t *testing.T) {
		f := newReceiptFixture()
		f.mailer.enabled = false
		_, err := f.svc.EmailReceipt(f.ctx, "r1", "a@example.com")
		assert.Equal(t, http.StatusServiceUnavailable, appCode(t, err))
	})

	t.Run("invalid recipient", func(t *testing.T) {
		f := newReceiptFixture()
		f.mailer.err = email.ErrInvalidRecipient
		_, err := f.svc.EmailReceipt(f.ctx, "r1", "nope")
		assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))
	})

	t.Run("smtp failure", func(t *testing.T) {
		f := newReceiptFixture()
		f.mailer.err = errors.New("dial tcp: refused")
		_, err := f.svc.EmailReceipt(f.ctx, "r1", "a@example.com")
		assert.Equal(t, http.StatusBadGateway, appCode(t, err))
	})
}

func TestReceiptService_WhatsAppLink(t *testing.T) {
	f := newReceiptFixture()

	link, err := f.svc.WhatsAppLink(f.ctx, "r1", "")
	require.NoError(t, err)
	assert.Equal(t, "541155551234", link.Phone)
	assert.Contains(t, link.URL, "https://wa.me/541155551234?text=")
	assert.Equal(t,
		"Recibo Nº 00042 de Acme SRL\nIngreso: $ 1.234,50\nFecha: 15 de marzo de 2024\nConcepto: Cobro de la factura de marzo",
		link.Message)

	link, err = f.svc.WhatsAppLink(f.ctx, "r2", "+34 612 345 678")
	require.NoError(t, err)
	assert.Equal(t, "34612345678", link.Phone)
	assert.Contains(t, link.Message, "Estado: ANULADO")

	_, err = f.svc.WhatsAppLink(f.ctx, "r1", "+1")
	assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))
}

func TestReceiptService_PrintReceipt(t *testing.T) {
	f := newReceiptFixture()

	ticket, err := f.svc.PrintReceipt(f.ctx, "r1")
	require.NoError(t, err)
	assert.True(t, ticket.Printed)
	assert.Equal(t, "00042", ticket.ReceiptNumber)
	require.Len(t, f.printer.printed, 1)
	assert.Equal(t, ticket.Bytes, len(f.printer.printed[0]))

	require.Len(t, f.documents.created, 1)
	assert.Equal(t, entity.ChannelPrint, f.documents.created[0].Channel)
	assert.Equal(t, checksum(f.printer.printed[0]), f.documents.created[0].Checksum)
}

func TestReceiptService_PrintFailureReturnsTicket(t *testing.T) {
	f := newReceiptFixture()
	f.printer.err = errors.New("paper out")

	ticket, err := f.svc.PrintReceipt(f.ctx, "r1")
	require.Error(t, err)
	require.NotNil(t, ticket)
	assert.False(t, ticket.Printed)
}

func TestReceiptService_ListDocuments(t *testing.T) {
	f := newReceiptFixture()
	_, err := f.svc.RenderReceipt(f.ctx, "r1")
	require.NoError(t, err)

	result, err := f.svc.ListDocuments(f.ctx, &repository.ReceiptDocumentFilterParams{
		Pagination: &pagination.PaginationParams{Page: 0, PerPage: 500},
	})
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, int64(1), result.Pagination.Total)
	assert.Equal(t, pagination.DefaultPage, f.documents.params.Pagination.Page)
	assert.Equal(t, pagination.MaxPerPage, f.documents.params.Pagination.PerPage)

	_, err = f.svc.ListDocuments(context.Background(), nil)
	assert.ErrorIs(t, err, apperror.ErrTenantRequired)
}
