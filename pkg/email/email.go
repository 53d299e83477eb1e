package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/mail"
	"net/smtp"
	"strings"

	jwemail "github.com/jordan-wright/email"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotConfigured    = errors.New("smtp is not configured")
	ErrInvalidRecipient = errors.New("invalid recipient address")
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// Enabled reports whether enough is configured to hand messages to SMTP
func (c EmailConfig) Enabled() bool {
	return c.SMTPHost != "" && c.FromEmail != ""
}

// ReceiptMessage is a receipt ready to be mailed to a client
type ReceiptMessage struct {
	To            string
	ClientName    string
	CompanyName   string
	ReceiptNumber string
	Type          string
	Amount        string
	Date          string
	Concept       string
	Cancelled     bool
	FileName      string
	PDF           []byte
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
	send   func(e *jwemail.Email) error
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	s := &EmailService{config: config}
	s.send = s.sendSMTP
	return s
}

// Enabled reports whether SMTP is configured
func (s *EmailService) Enabled() bool {
	return s.config.Enabled()
}

// SendReceipt mails the receipt PDF as an attachment
func (s *EmailService) SendReceipt(ctx context.Context, msg *ReceiptMessage) error {
	if !s.config.Enabled() {
		return ErrNotConfigured
	}

	e, err := s.BuildReceiptEmail(msg)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.send(e); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.Ctx(ctx).Info().Str("to", msg.To).Str("receipt", msg.ReceiptNumber).Msg("receipt email sent")
	return nil
}

// BuildReceiptEmail assembles the message without sending it
func (s *EmailService) BuildReceiptEmail(msg *ReceiptMessage) (*jwemail.Email, error) {
	to, err := mail.ParseAddress(strings.TrimSpace(msg.To))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRecipient, msg.To)
	}

	htmlContent, err := renderReceiptEmail(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to render email template: %w", err)
	}

	e := jwemail.NewEmail()
	e.From = s.fromHeader()
	e.To = []string{to.Address}
	e.Subject = receiptSubject(msg)
	e.HTML = []byte(htmlContent)
	e.Text = []byte(receiptText(msg))

	if len(msg.PDF) > 0 {
		if _, err := e.Attach(bytes.NewReader(msg.PDF), msg.FileName, "application/pdf"); err != nil {
			return nil, fmt.Errorf("attach receipt: %w", err)
		}
	}
	return e, nil
}

func (s *EmailService) fromHeader() string {
	if s.config.FromName == "" {
		return s.config.FromEmail
	}
	return (&mail.Address{Name: s.config.FromName, Address: s.config.FromEmail}).String()
}

// sendSMTP sends an email using SMTP
func (s *EmailService) sendSMTP(e *jwemail.Email) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}
	return e.Send(addr, auth)
}

func receiptSubject(msg *ReceiptMessage) string {
	subject := fmt.Sprintf("Recibo Nº %s", msg.ReceiptNumber)
	if msg.CompanyName != "" {
		subject += " - " + msg.CompanyName
	}
	if msg.Cancelled {
		subject += " (ANULADO)"
	}
	return subject
}

func receiptText(msg *ReceiptMessage) string {
	var b strings.Builder
	if msg.ClientName != "" {
		fmt.Fprintf(&b, "Hola %s,\n\n", msg.ClientName)
	}
	fmt.Fprintf(&b, "Adjuntamos el recibo Nº %s por %s (%s).\n", msg.ReceiptNumber, msg.Amount, msg.Date)
	if msg.Cancelled {
		b.WriteString("Este recibo se encuentra ANULADO.\n")
	}
	if msg.CompanyName != "" {
		fmt.Fprintf(&b, "\n%s\n", msg.CompanyName)
	}
	return b.String()
}

var receiptTemplate = template.Must(template.New("receipt").Parse(receiptEmailTemplate))

func renderReceiptEmail(msg *ReceiptMessage) (string, error) {
	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, msg); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// receiptEmailTemplate is the HTML body of receipt emails
const receiptEmailTemplate = `
<!DOCTYPE html>
<html lang="es">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Recibo Nº {{.ReceiptNumber}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="width: 100%; border-collapse: collapse;">
        <tr>
            <td style="padding: 40px 0;">
                <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; overflow: hidden;">
                    <tr>
                        <td style="background-color: #2563eb; padding: 32px 30px; text-align: center;">
                            <h1 style="color: #ffffff; margin: 0; font-size: 24px; font-weight: 600;">{{if .CompanyName}}{{.CompanyName}}{{else}}Recibo{{end}}</h1>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 32px 30px;">
                            {{if .ClientName}}<p style="color: #4a5568; font-size: 16px; margin: 0 0 16px 0;">Hola {{.ClientName}},</p>{{end}}
                            <p style="color: #4a5568; font-size: 16px; line-height: 1.6; margin: 0 0 24px 0;">
                                Adjuntamos el recibo <strong>Nº {{.ReceiptNumber}}</strong>.
                            </p>
                            {{if .Cancelled}}
                            <p style="color: #dc2626; font-size: 16px; font-weight: 600; margin: 0 0 24px 0;">Este recibo se encuentra ANULADO.</p>
                            {{end}}
                            <table role="presentation" style="width: 100%; border-collapse: collapse; font-size: 15px; color: #1a1a2e;">
                                {{if .Type}}<tr><td style="padding: 6px 0; color: #718096;">Tipo</td><td style="padding: 6px 0; text-align: right;">{{.Type}}</td></tr>{{end}}
                                <tr><td style="padding: 6px 0; color: #718096;">Fecha</td><td style="padding: 6px 0; text-align: right;">{{.Date}}</td></tr>
                                {{if .Concept}}<tr><td style="padding: 6px 0; color: #718096;">Concepto</td><td style="padding: 6px 0; text-align: right;">{{.Concept}}</td></tr>{{end}}
                                <tr><td style="padding: 6px 0; color: #718096;">Monto</td><td style="padding: 6px 0; text-align: right; font-weight: 600;">{{.Amount}}</td></tr>
                            </table>
                        </td>
                    </tr>
                    <tr>
                        <td style="background-color: #f8fafc; padding: 24px; text-align: center; border-top: 1px solid #e2e8f0;">
                            <p style="color: #a0aec0; font-size: 13px; margin: 0;">
                                El comprobante se adjunta en formato PDF.
                            </p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`
