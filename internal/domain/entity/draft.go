package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/gestion-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// LineItem is one product row of an order draft
type LineItem struct {
	ProductID       string          `json:"product_id"`
	Name            string          `json:"name"`
	Code            string          `json:"code"`
	Quantity        int             `json:"quantity"`
	ListPrice       decimal.Decimal `json:"list_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// OrderDraft is the in-progress order owned by one editing session. It is
// created when the order drawer opens and disposed on submit or discard.
type OrderDraft struct {
	ID                    uuid.UUID       `json:"id"`
	TenantID              string          `json:"tenant_id"`
	ClientID              string          `json:"client_id,omitempty"`
	ClientName            string          `json:"client_name,omitempty"`
	Items                 []LineItem      `json:"items"`
	GlobalDiscountPercent decimal.Decimal `json:"global_discount_percent"`
	PriceList             enum.PriceList  `json:"price_list"`
	Date                  time.Time       `json:"date"`
	SalesRepID            string          `json:"sales_rep_id,omitempty"`
	Notes                 string          `json:"notes,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// NewOrderDraft opens an empty draft for a tenant
func NewOrderDraft(tenantID string, priceList enum.PriceList, now time.Time) *OrderDraft {
	if !priceList.IsValid() {
		priceList = enum.PriceListDistributor
	}
	return &OrderDraft{
		ID:                    uuid.New(),
		TenantID:              tenantID,
		Items:                 []LineItem{},
		GlobalDiscountPercent: decimal.Zero,
		PriceList:             priceList,
		Date:                  now,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// TotalUnits sums the quantities of every line
func TotalUnits(items []LineItem) int {
	var n int
	for _, item := range items {
		n += item.Quantity
	}
	return n
}
