package entity

import (
	"github.com/sangkips/gestion-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry as served by the backend. Either price list may
// be missing for a given product.
type Product struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Code       string           `json:"code"`
	List1Price *decimal.Decimal `json:"list1_price,omitempty"`
	List2Price *decimal.Decimal `json:"list2_price,omitempty"`
}

// PriceFor returns the unit price for the selected price list and whether
// the product actually carries a price for it
func (p *Product) PriceFor(list enum.PriceList) (decimal.Decimal, bool) {
	var price *decimal.Decimal
	switch list {
	case enum.PriceListDistributor:
		price = p.List1Price
	case enum.PriceListRetail:
		price = p.List2Price
	}
	if price == nil {
		return decimal.Zero, false
	}
	return *price, true
}
