package entity

import (
	"time"

	"github.com/sangkips/gestion-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// OrderItemPayload is a line of the order sent to the backend on submit
type OrderItemPayload struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Discount  decimal.Decimal `json:"discount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderPayload is the body of POST /orders on the backend. Totals are
// computed here and rounded to cents.
type OrderPayload struct {
	ClientID   string             `json:"clientId"`
	SalesRepID string             `json:"salesRepId,omitempty"`
	Date       time.Time          `json:"date"`
	PriceList  enum.PriceList     `json:"priceList"`
	Items      []OrderItemPayload `json:"items"`
	Discount   decimal.Decimal    `json:"discount"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
	Total      decimal.Decimal    `json:"total"`
	Notes      string             `json:"notes,omitempty"`
}

// OrderRef is what the backend returns for a created order
type OrderRef struct {
	ID          string `json:"id"`
	OrderNumber int    `json:"order_number,omitempty"`
}
