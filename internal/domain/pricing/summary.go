package pricing

import (
	"encoding/json"

	"github.com/sangkips/gestion-api/internal/domain/entity"
	"github.com/sangkips/gestion-api/pkg/format"
	"github.com/shopspring/decimal"
)

// LineSummary is the display-ready breakdown of one cart line. The decimal
// fields go out as plain numbers with two decimals; the *Text fields are the
// grouped strings the drawer prints ("1.187,50").
type LineSummary struct {
	ProductID        string          `json:"product_id"`
	Name             string          `json:"name"`
	Code             string          `json:"code"`
	Quantity         int             `json:"quantity"`
	ListPrice        decimal.Decimal `json:"list_price"`
	DiscountPercent  decimal.Decimal `json:"discount_percent"`
	NetUnitPrice     decimal.Decimal `json:"net_unit_price"`
	Total            decimal.Decimal `json:"total"`
	ListPriceText    string          `json:"list_price_text"`
	DiscountText     string          `json:"discount_text"`
	NetUnitPriceText string          `json:"net_unit_price_text"`
	TotalText        string          `json:"total_text"`
}

// MarshalJSON writes money with exactly two fraction digits
func (l LineSummary) MarshalJSON() ([]byte, error) {
	type plain LineSummary
	return json.Marshal(struct {
		plain
		ListPrice    string `json:"list_price"`
		NetUnitPrice string `json:"net_unit_price"`
		Total        string `json:"total"`
	}{
		plain:        plain(l),
		ListPrice:    l.ListPrice.StringFixed(2),
		NetUnitPrice: l.NetUnitPrice.StringFixed(2),
		Total:        l.Total.StringFixed(2),
	})
}

// Summary holds every figure the order drawer shows. Money is rounded to two
// decimals only here; the underlying sums are exact.
type Summary struct {
	Lines                 []LineSummary   `json:"lines"`
	Units                 int             `json:"units"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	GlobalDiscountPercent decimal.Decimal `json:"global_discount_percent"`
	DiscountAmount        decimal.Decimal `json:"discount_amount"`
	GrandTotal            decimal.Decimal `json:"grand_total"`
	SubtotalText          string          `json:"subtotal_text"`
	GlobalDiscountText    string          `json:"global_discount_text"`
	DiscountAmountText    string          `json:"discount_amount_text"`
	GrandTotalText        string          `json:"grand_total_text"`
}

// MarshalJSON writes the final totals with exactly two fraction digits
func (s Summary) MarshalJSON() ([]byte, error) {
	type plain Summary
	return json.Marshal(struct {
		plain
		Subtotal       string `json:"subtotal"`
		DiscountAmount string `json:"discount_amount"`
		GrandTotal     string `json:"grand_total"`
	}{
		plain:          plain(s),
		Subtotal:       s.Subtotal.StringFixed(2),
		DiscountAmount: s.DiscountAmount.StringFixed(2),
		GrandTotal:     s.GrandTotal.StringFixed(2),
	})
}

// Summarize computes the full breakdown for a cart and global discount
func Summarize(items []entity.LineItem, globalDiscount decimal.Decimal) Summary {
	global := ClampPercent(globalDiscount)
	lines := make([]LineSummary, 0, len(items))
	for _, item := range items {
		listPrice := item.ListPrice.Round(2)
		net := NetUnitPrice(item).Round(2)
		total := LineTotal(item).Round(2)
		lines = append(lines, LineSummary{
			ProductID:        item.ProductID,
			Name:             item.Name,
			Code:             item.Code,
			Quantity:         item.Quantity,
			ListPrice:        listPrice,
			DiscountPercent:  item.DiscountPercent,
			NetUnitPrice:     net,
			Total:            total,
			ListPriceText:    format.Number(listPrice, 2),
			DiscountText:     format.Percent(item.DiscountPercent),
			NetUnitPriceText: format.Number(net, 2),
			TotalText:        format.Number(total, 2),
		})
	}

	subtotal := Subtotal(items)
	grand := applyDiscount(subtotal, global)
	discount := subtotal.Sub(grand).Round(2)

	return Summary{
		Lines:                 lines,
		Units:                 entity.TotalUnits(items),
		Subtotal:              subtotal.Round(2),
		GlobalDiscountPercent: global,
		DiscountAmount:        discount,
		GrandTotal:            grand.Round(2),
		SubtotalText:          format.Currency(subtotal),
		GlobalDiscountText:    format.Percent(global),
		DiscountAmountText:    format.Currency(discount),
		GrandTotalText:        format.Currency(grand),
	}
}
