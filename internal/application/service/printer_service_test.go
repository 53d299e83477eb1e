package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/sangkips/gestion-api/internal/domain/entity"
	"github.com/sangkips/gestion-api/internal/domain/enum"
	"github.com/sangkips/gestion-api/pkg/printer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatReceiptTicket(t *testing.T) {
	data := FormatReceiptTicket(sampleReceipt(), &entity.CompanyInfo{Name: "Acme SRL", Phone: "011 4444"}, printer.Width58mm, time.UTC)
	text := string(data)

	assert.True(t, bytes.HasPrefix(data, []byte{printer.ESC, '@'}))
	assert.True(t, bytes.HasSuffix(data, []byte{printer.GS, 'V', 0x01}))
	for _, want := range []string{
		"Acme SRL", "RECIBO DE INGRESO", "00042", "15/03/2024", "Distribuidora Sur",
		"Transferencia", "Ana Garcia", "$ 1.234,50",
	} {
		assert.Contains(t, text, want)
	}
	assert.NotContains(t, text, "ANULADO")
	assert.NotContains(t, text, "García", "accents are folded for the printer")
}

func TestFormatReceiptTicket_CancelledEgreso(t *testing.T) {
	r := sampleReceipt()
	r.Type = enum.ReceiptTypeEgreso
	r.Amount = decimal.NewFromInt(500)
	r.Notes = "Pago a proveedor"
	r.Status = enum.ReceiptStatusAnulado
	r.CancellationReason = "Importe incorrecto"

	text := string(FormatReceiptTicket(r, nil, printer.Width58mm, nil))

	assert.Contains(t, text, "RECIBO DE EGRESO")
	assert.Contains(t, text, "*** ANULADO ***")
	assert.Contains(t, text, "-$ 500,00")
	assert.Contains(t, text, "Observaciones:")
	assert.Contains(t, text, "Motivo: Importe incorrecto")
	assert.Contains(t, text, "Anulado:")
}

func TestFormatReceiptTicket_Placeholders(t *testing.T) {
	r := &entity.Receipt{ReceiptNumber: 7, Type: enum.ReceiptTypeIngreso, Status: enum.ReceiptStatusActivo}

	text := string(FormatReceiptTicket(r, nil, printer.Width80mm, time.UTC))
	assert.Contains(t, text, "No especificado")
	assert.Contains(t, text, "N/A")
	assert.Contains(t, text, "00007")
}

func TestPrinterService_Disabled(t *testing.T) {
	p := &fakePrinter{}
	svc := NewPrinterService(p, printer.TypeNone, 0, nil)

	ticket, err := svc.PrintReceipt(context.Background(), sampleReceipt(), nil)
	require.NoError(t, err)
	assert.False(t, ticket.Printed)
	assert.NotZero(t, ticket.Bytes)
	assert.Empty(t, p.printed)

	status := svc.GetStatus()
	assert.False(t, status.Configured)
	assert.Equal(t, printer.Width58mm, status.CharWidth)
}

func TestPrinterService_RequiresReceipt(t *testing.T) {
	svc := NewPrinterService(&fakePrinter{}, printer.TypeUSB, 0, nil)
	_, err := svc.PrintReceipt(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrReceiptRequired)
}
