package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/gestion-api/internal/domain/entity"
	"github.com/sangkips/gestion-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// ErrInvalidPayload marks a backend response that does not match the schema
var ErrInvalidPayload = errors.New("invalid backend payload")

// Timestamp accepts RFC 3339 and bare dates ("2024-03-15")
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("%w: unrecognised time %q", ErrInvalidPayload, s)
}

// personRef is a populated user reference
type personRef struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (p *personRef) toEntity() *entity.Person {
	if p == nil {
		return nil
	}
	return &entity.Person{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName}
}

type clientPayload struct {
	ID           string `json:"_id"`
	BusinessName string `json:"businessName"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Email        string `json:"email"`
}

func (c *clientPayload) toEntity() *entity.Client {
	if c == nil {
		return nil
	}
	return &entity.Client{
		ID:           c.ID,
		BusinessName: c.BusinessName,
		Phone:        c.Phone,
		Address:      c.Address,
		Email:        c.Email,
	}
}

// ReceiptPayload is the shape of GET /receipts/:id with client, sales rep and
// cancelling user populated
type ReceiptPayload struct {
	ID                 string          `json:"_id"`
	ReceiptNumber      int             `json:"receiptNumber"`
	Type               string          `json:"type"`
	Amount             decimal.Decimal `json:"amount"`
	Concept            string          `json:"concept"`
	PaymentMethod      string          `json:"paymentMethod"`
	Date               Timestamp       `json:"date"`
	Status             string          `json:"status"`
	ClientID           *clientPayload  `json:"clientId"`
	SalesRepID         *personRef      `json:"salesRepId"`
	Notes              string          `json:"notes"`
	CancellationReason string          `json:"cancellationReason"`
	CancelledAt        *Timestamp      `json:"cancelledAt"`
	CancelledBy        *personRef      `json:"cancelledBy"`
}

// ToEntity validates the payload and converts it to a Receipt
func (p *ReceiptPayload) ToEntity() (*entity.Receipt, error) {
	if p.ReceiptNumber <= 0 {
		return nil, fmt.Errorf("%w: receiptNumber must be positive, got %d", ErrInvalidPayload, p.ReceiptNumber)
	}
	if p.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", ErrInvalidPayload)
	}
	receiptType, err := enum.ParseReceiptType(p.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	status, err := enum.ParseReceiptStatus(p.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	r := &entity.Receipt{
		ID:                 p.ID,
		ReceiptNumber:      p.ReceiptNumber,
		Type:               receiptType,
		Amount:             p.Amount,
		Concept:            p.Concept,
		PaymentMethod:      enum.PaymentMethod(strings.ToLower(strings.TrimSpace(p.PaymentMethod))),
		Date:               p.Date.Time,
		Status:             status,
		Client:             p.ClientID.toEntity(),
		SalesRep:           p.SalesRepID.toEntity(),
		Notes:              p.Notes,
		CancellationReason: p.CancellationReason,
		CancelledBy:        p.CancelledBy.toEntity(),
	}
	if p.CancelledAt != nil && !p.CancelledAt.IsZero() {
		at := p.CancelledAt.Time
		r.CancelledAt = &at
	}
	return r, nil
}

type companyPayload struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

type productPayload struct {
	ID         string           `json:"_id"`
	Name       string           `json:"name"`
	Code       string           `json:"code"`
	List1Price *decimal.Decimal `json:"list1Price"`
	List2Price *decimal.Decimal `json:"list2Price"`
}

func (p *productPayload) toEntity() (*entity.Product, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("%w: product without id", ErrInvalidPayload)
	}
	return &entity.Product{
		ID:         p.ID,
		Name:       p.Name,
		Code:       p.Code,
		List1Price: p.List1Price,
		List2Price: p.List2Price,
	}, nil
}

// orderItemWire and orderWire send money as JSON numbers
type orderItemWire struct {
	Product  string      `json:"product"`
	Name     string      `json:"name"`
	Code     string      `json:"code,omitempty"`
	Quantity int         `json:"quantity"`
	Price    json.Number `json:"price"`
	Discount json.Number `json:"discount"`
	Subtotal json.Number `json:"subtotal"`
}

type orderWire struct {
	ClientID   string          `json:"clientId"`
	SalesRepID string          `json:"salesRepId,omitempty"`
	Date       string          `json:"date"`
	PriceList  int             `json:"priceList"`
	Items      []orderItemWire `json:"items"`
	Discount   json.Number     `json:"discount"`
	Subtotal   json.Number     `json:"subtotal"`
	Total      json.Number     `json:"total"`
	Notes      string          `json:"notes,omitempty"`
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func newOrderWire(o *entity.OrderPayload) orderWire {
	items := make([]orderItemWire, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemWire{
			Product:  it.ProductID,
			Name:     it.Name,
			Code:     it.Code,
			Quantity: it.Quantity,
			Price:    number(it.Price),
			Discount: number(it.Discount),
			Subtotal: number(it.Subtotal),
		})
	}
	return orderWire{
		ClientID:   o.ClientID,
		SalesRepID: o.SalesRepID,
		Date:       o.Date.UTC().Format(time.RFC3339),
		PriceList:  int(o.PriceList),
		Items:      items,
		Discount:   number(o.Discount),
		Subtotal:   number(o.Subtotal),
		Total:      number(o.Total),
		Notes:      o.Notes,
	}
}

type orderRefPayload struct {
	ID          string `json:"_id"`
	OrderNumber int    `json:"orderNumber"`
}
