package request

import (
	"strings"

	"github.com/sangkips/gestion-api/internal/domain/entity"
	"github.com/sangkips/gestion-api/internal/domain/enum"
	"github.com/sangkips/gestion-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// PersonRequest is a sales rep or cancelling user
type PersonRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (p *PersonRequest) toEntity() *entity.Person {
	if p == nil {
		return nil
	}
	return &entity.Person{FirstName: p.FirstName, LastName: p.LastName}
}

// RenderReceiptRequest carries a full receipt to render without a backend
// lookup
type RenderReceiptRequest struct {
	ID                 string          `json:"id"`
	ReceiptNumber      int             `json:"receipt_number"`
	Type               string          `json:"type"`
	Amount             decimal.Decimal `json:"amount"`
	Concept            string          `json:"concept"`
	PaymentMethod      string          `json:"payment_method"`
	Date               string          `json:"date"`
	Status             string          `json:"status"`
	Client             *entity.Client  `json:"client"`
	SalesRep           *PersonRequest  `json:"sales_rep"`
	Notes              string          `json:"notes"`
	CancellationReason string          `json:"cancellation_reason"`
	CancelledAt        string          `json:"cancelled_at"`
	CancelledBy        *PersonRequest  `json:"cancelled_by"`
}

// ToEntity validates the request and builds the receipt
func (r *RenderReceiptRequest) ToEntity() (*entity.Receipt, error) {
	var errs []apperror.FieldError

	if r.ReceiptNumber <= 0 {
		errs = append(errs, apperror.FieldError{Field: "receipt_number", Message: "must be greater than 0"})
	}
	if r.Amount.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "amount", Message: "must not be negative"})
	}
	receiptType, err := enum.ParseReceiptType(r.Type)
	if err != nil {
		errs = append(errs, apperror.FieldError{Field: "type", Message: "must be ingreso or egreso"})
	}
	status := enum.ReceiptStatusActivo
	if strings.TrimSpace(r.Status) != "" {
		if status, err = enum.ParseReceiptStatus(r.Status); err != nil {
			errs = append(errs, apperror.FieldError{Field: "status", Message: "must be activo or anulado"})
		}
	}

	receipt := &entity.Receipt{
		ID:                 r.ID,
		ReceiptNumber:      r.ReceiptNumber,
		Type:               receiptType,
		Amount:             r.Amount,
		Concept:            strings.TrimSpace(r.Concept),
		PaymentMethod:      enum.PaymentMethod(strings.ToLower(strings.TrimSpace(r.PaymentMethod))),
		Status:             status,
		Client:             r.Client,
		SalesRep:           r.SalesRep.toEntity(),
		Notes:              strings.TrimSpace(r.Notes),
		CancellationReason: strings.TrimSpace(r.CancellationReason),
		CancelledBy:        r.CancelledBy.toEntity(),
	}

	if r.Date != "" {
		if receipt.Date, err = ParseDate(r.Date); err != nil {
			errs = append(errs, apperror.FieldError{Field: "date", Message: err.Error()})
		}
	}
	if r.CancelledAt != "" {
		at, err := ParseDate(r.CancelledAt)
		if err != nil {
			errs = append(errs, apperror.FieldError{Field: "cancelled_at", Message: err.Error()})
		} else {
			receipt.CancelledAt = &at
		}
	}

	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}
	return receipt, nil
}

// EmailReceiptRequest overrides the client's address when To is set
type EmailReceiptRequest struct {
	To string `json:"to" binding:"omitempty,email"`
}

// DocumentFilterRequest represents archive filter parameters
type DocumentFilterRequest struct {
	ReceiptID string `form:"receipt_id"`
	Channel   string `form:"channel" binding:"omitempty,oneof=download email print"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
