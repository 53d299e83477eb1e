package email

import (
	"context"
	"errors"
	"strings"
	"testing"

	jwemail "github.com/jordan-wright/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() EmailConfig {
	return EmailConfig{
		SMTPHost:  "smtp.example.com",
		SMTPPort:  587,
		FromName:  "Distribuidora Sur",
		FromEmail: "ventas@example.com",
	}
}

func sampleMessage() *ReceiptMessage {
	return &ReceiptMessage{
		To:            "cliente@example.com",
		ClientName:    "Almacen <Don Pepe>",
		CompanyName:   "Distribuidora Sur",
		ReceiptNumber: "00042",
		Type:          "INGRESO",
		Amount:        "$ 1.234,56",
		Date:          "5 de marzo de 2024",
		Concept:       "Pago factura 12",
		FileName:      "recibo-00042.pdf",
		PDF:           []byte("%PDF-1.3 fake"),
	}
}

func TestBuildReceiptEmail(t *testing.T) {
	s := NewEmailService(testConfig())

	e, err := s.BuildReceiptEmail(sampleMessage())
	require.NoError(t, err)

	assert.Equal(t, []string{"cliente@example.com"}, e.To)
	assert.Equal(t, "Recibo Nº 00042 - Distribuidora Sur", e.Subject)
	assert.Contains(t, e.From, "ventas@example.com")
	require.Len(t, e.Attachments, 1)
	assert.Equal(t, "recibo-00042.pdf", e.Attachments[0].Filename)
	assert.Equal(t, []byte("%PDF-1.3 fake"), e.Attachments[0].Content)

	html := string(e.HTML)
	assert.Contains(t, html, "$ 1.234,56")
	assert.Contains(t, html, "Almacen &lt;Don Pepe&gt;")
	assert.NotContains(t, html, "ANULADO")
	assert.Contains(t, string(e.Text), "Adjuntamos el recibo Nº 00042")

	raw, err := e.Bytes()
	require.NoError(t, err)
	assert.Contains(t, string(raw), "application/pdf")
}

func TestBuildReceiptEmail_Cancelled(t *testing.T) {
	s := NewEmailService(testConfig())
	msg := sampleMessage()
	msg.Cancelled = true

	e, err := s.BuildReceiptEmail(msg)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(e.Subject, "(ANULADO)"))
	assert.Contains(t, string(e.HTML), "ANULADO")
}

func TestBuildReceiptEmail_InvalidRecipient(t *testing.T) {
	s := NewEmailService(testConfig())
	msg := sampleMessage()
	msg.To = "not-an-address"

	_, err := s.BuildReceiptEmail(msg)
	assert.ErrorIs(t, err, ErrInvalidRecipient)
}

func TestSendReceipt(t *testing.T) {
	s := NewEmailService(testConfig())
	var sent *jwemail.Email
	s.send = func(e *jwemail.Email) error {
		sent = e
		return nil
	}

	require.NoError(t, s.SendReceipt(context.Background(), sampleMessage()))
	require.NotNil(t, sent)
	assert.Equal(t, []string{"cliente@example.com"}, sent.To)
}

func TestSendReceipt_Errors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		s := NewEmailService(EmailConfig{})
		assert.False(t, s.Enabled())
		assert.ErrorIs(t, s.SendReceipt(context.Background(), sampleMessage()), ErrNotConfigured)
	})

	t.Run("smtp failure is wrapped", func(t *testing.T) {
		s := NewEmailService(testConfig())
		boom := errors.New("connection refused")
		s.send = func(*jwemail.Email) error { return boom }

		err := s.SendReceipt(context.Background(), sampleMessage())
		assert.ErrorIs(t, err, boom)
	})

	t.Run("cancelled context", func(t *testing.T) {
		s := NewEmailService(testConfig())
		s.send = func(*jwemail.Email) error { t.Fatal("must not send"); return nil }
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, s.SendReceipt(ctx, sampleMessage()), context.Canceled)
	})
}
