package entity

import (
	"errors"
	"time"

	"github.com/sangkips/gestion-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// ErrReceiptAlreadyCancelled is returned when cancelling a receipt twice
var ErrReceiptAlreadyCancelled = errors.New("receipt is already cancelled")

// Receipt is a standalone income/expense document with its own numbering.
// Amount is fixed at creation and never recomputed.
type Receipt struct {
	ID                 string             `json:"id"`
	ReceiptNumber      int                `json:"receipt_number"`
	Type               enum.ReceiptType   `json:"type"`
	Amount             decimal.Decimal    `json:"amount"`
	Concept            string             `json:"concept"`
	PaymentMethod      enum.PaymentMethod `json:"payment_method"`
	Date               time.Time          `json:"date"`
	Status             enum.ReceiptStatus `json:"status"`
	Client             *Client            `json:"client,omitempty"`
	SalesRep           *Person            `json:"sales_rep,omitempty"`
	Notes              string             `json:"notes,omitempty"`
	CancellationReason string             `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time         `json:"cancelled_at,omitempty"`
	CancelledBy        *Person            `json:"cancelled_by,omitempty"`
}

// SignedAmount is negative for expense receipts whatever sign the backend
// sent the amount with
func (r *Receipt) SignedAmount() decimal.Decimal {
	if r.Type == enum.ReceiptTypeEgreso {
		return r.Amount.Abs().Neg()
	}
	return r.Amount
}

// IsCancelled reports whether the receipt has been voided
func (r *Receipt) IsCancelled() bool {
	return r.Status.IsCancelled()
}

// Cancel moves an active receipt to anulado. The transition is terminal.
func (r *Receipt) Cancel(reason string, by *Person, at time.Time) error {
	if r.IsCancelled() {
		return ErrReceiptAlreadyCancelled
	}
	r.Status = enum.ReceiptStatusAnulado
	r.CancellationReason = reason
	r.CancelledBy = by
	r.CancelledAt = &at
	return nil
}
