// Package pricing computes order totals from a cart of line items.
//
// Every function is pure: carts are passed in and returned, never held.
// Percentages are clamped to [0,100] at the mutation boundary so that a
// total can never go negative.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sangkips/gestion-api/internal/domain/entity"
	"github.com/sangkips/gestion-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

var (
	ErrMissingPrice     = errors.New("product has no price for the selected price list")
	ErrInvalidPrice     = errors.New("product price must not be negative")
	ErrInvalidPriceList = errors.New("invalid price list")
	ErrItemNotFound     = errors.New("item not in cart")
	ErrInvalidProduct   = errors.New("product id is required")
)

var (
	hundred    = decimal.NewFromInt(100)
	minPercent = decimal.Zero
	maxPercent = hundred
)

// MaxQuantity is the largest quantity a single line can hold. Larger typed
// values are clamped to it.
const MaxQuantity = 99999

var maxQuantity = decimal.NewFromInt(MaxQuantity)

// AddOrIncrementItem bumps the quantity of an existing line by one, or appends
// a new line priced from the selected list.
func AddOrIncrementItem(items []entity.LineItem, product entity.Product, list enum.PriceList) ([]entity.LineItem, error) {
	if strings.TrimSpace(product.ID) == "" {
		return items, ErrInvalidProduct
	}

	out := clone(items)
	for i := range out {
		if out[i].ProductID == product.ID {
			out[i].Quantity = ClampQuantity(out[i].Quantity + 1)
			return out, nil
		}
	}

	if !list.IsValid() {
		return items, fmt.Errorf("%w: %d", ErrInvalidPriceList, list)
	}
	price, ok := product.PriceFor(list)
	if !ok {
		return items, fmt.Errorf("%w: %s (%s)", ErrMissingPrice, product.Name, list)
	}
	if price.IsNegative() {
		return items, fmt.Errorf("%w: %s", ErrInvalidPrice, product.Name)
	}

	return append(out, entity.LineItem{
		ProductID:       product.ID,
		Name:            product.Name,
		Code:            product.Code,
		Quantity:        1,
		ListPrice:       price,
		DiscountPercent: decimal.Zero,
	}), nil
}

// RemoveItem drops the matching line. Removing an absent product is a no-op.
func RemoveItem(items []entity.LineItem, productID string) []entity.LineItem {
	out := make([]entity.LineItem, 0, len(items))
	for _, item := range items {
		if item.ProductID != productID {
			out = append(out, item)
		}
	}
	return out
}

// SetQuantity replaces a line's quantity, with a floor of 1
func SetQuantity(items []entity.LineItem, productID string, quantity int) ([]entity.LineItem, error) {
	quantity = ClampQuantity(quantity)
	out := clone(items)
	for i := range out {
		if out[i].ProductID == productID {
			out[i].Quantity = quantity
			return out, nil
		}
	}
	return items, ErrItemNotFound
}

// SetItemDiscount replaces a line's discount percentage, clamped to [0,100]
func SetItemDiscount(items []entity.LineItem, productID string, percent decimal.Decimal) ([]entity.LineItem, error) {
	out := clone(items)
	for i := range out {
		if out[i].ProductID == productID {
			out[i].DiscountPercent = ClampPercent(percent)
			return out, nil
		}
	}
	return items, ErrItemNotFound
}

// ClampPercent limits p to [0,100]
func ClampPercent(p decimal.Decimal) decimal.Decimal {
	if p.LessThan(minPercent) {
		return minPercent
	}
	if p.GreaterThan(maxPercent) {
		return maxPercent
	}
	return p
}

// ClampQuantity limits n to [1,MaxQuantity]
func ClampQuantity(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxQuantity {
		return MaxQuantity
	}
	return n
}

// ParseQuantity reads a quantity typed by the user. Anything that is not a
// number, or is below 1, becomes 1; anything above MaxQuantity is clamped.
func ParseQuantity(raw string) int {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	d = d.Truncate(0)
	if d.LessThan(decimal.NewFromInt(1)) {
		return 1
	}
	// range check before IntPart, which wraps past int64
	if d.GreaterThan(maxQuantity) {
		return MaxQuantity
	}
	return int(d.IntPart())
}

// ParseDiscount reads a percentage typed by the user. Accepts "12.5" and
// "12,5"; anything unparseable becomes 0.
func ParseDiscount(raw string) decimal.Decimal {
	s := strings.TrimSuffix(strings.TrimSpace(raw), "%")
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return ClampPercent(d)
}

// NetUnitPrice is the list price after the line discount
func NetUnitPrice(item entity.LineItem) decimal.Decimal {
	return applyDiscount(item.ListPrice, item.DiscountPercent)
}

// LineTotal is quantity * listPrice * (1 - discount/100), never negative
func LineTotal(item entity.LineItem) decimal.Decimal {
	if item.Quantity <= 0 {
		return decimal.Zero
	}
	total := NetUnitPrice(item).Mul(decimal.NewFromInt(int64(item.Quantity)))
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// Subtotal sums every line total; zero for an empty cart
func Subtotal(items []entity.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(LineTotal(item))
	}
	return sum
}

// GrandTotal applies the global discount to the subtotal
func GrandTotal(items []entity.LineItem, globalDiscount decimal.Decimal) decimal.Decimal {
	return applyDiscount(Subtotal(items), globalDiscount)
}

func applyDiscount(amount, percent decimal.Decimal) decimal.Decimal {
	factor := hundred.Sub(ClampPercent(percent)).Div(hundred)
	return amount.Mul(factor)
}

func clone(items []entity.LineItem) []entity.LineItem {
	out := make([]entity.LineItem, len(items))
	copy(out, items)
	return out
}
