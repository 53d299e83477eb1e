package request

import (
	"github.com/sangkips/gestion-api/internal/domain/entity"
	"github.com/sangkips/gestion-api/internal/domain/enum"
	"github.com/sangkips/gestion-api/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// OpenDraftRequest opens the order drawer
type OpenDraftRequest struct {
	PriceList  *enum.PriceList `json:"price_list"`
	ClientID   string          `json:"client_id" binding:"omitempty,max=64"`
	SalesRepID string          `json:"sales_rep_id" binding:"omitempty,max=64"`
}

// UpdateDraftRequest edits the draft header; omitted fields are unchanged
type UpdateDraftRequest struct {
	ClientID   *string `json:"client_id" binding:"omitempty,max=64"`
	SalesRepID *string `json:"sales_rep_id" binding:"omitempty,max=64"`
	Date       *string `json:"date"`
	Notes      *string `json:"notes" binding:"omitempty,max=2000"`
}

// AddItemRequest adds one unit of a product
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required,max=64"`
}

type SetQuantityRequest struct {
	Quantity RawInput `json:"quantity"`
}

type SetDiscountRequest struct {
	Discount RawInput `json:"discount"`
}

type SetPriceListRequest struct {
	PriceList enum.PriceList `json:"price_list" binding:"required"`
}

// QuoteItemRequest is one cart line priced without a draft
type QuoteItemRequest struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	Quantity  RawInput        `json:"quantity"`
	ListPrice decimal.Decimal `json:"list_price"`
	Discount  RawInput        `json:"discount"`
}

// QuoteRequest prices an arbitrary cart
type QuoteRequest struct {
	Items          []QuoteItemRequest `json:"items" binding:"dive"`
	GlobalDiscount RawInput           `json:"global_discount"`
}

// LineItems applies the same input rules as the draft endpoints
func (r *QuoteRequest) LineItems() []entity.LineItem {
	items := make([]entity.LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, entity.LineItem{
			ProductID:       it.ProductID,
			Name:            it.Name,
			Code:            it.Code,
			Quantity:        pricing.ParseQuantity(it.Quantity.String()),
			ListPrice:       it.ListPrice,
			DiscountPercent: pricing.ParseDiscount(it.Discount.String()),
		})
	}
	return items
}

// GlobalDiscountPercent parses the global discount; junk input becomes 0
func (r *QuoteRequest) GlobalDiscountPercent() decimal.Decimal {
	return pricing.ParseDiscount(r.GlobalDiscount.String())
}
