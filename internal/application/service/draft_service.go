package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/gestion-api/internal/domain/entity"
	"github.com/sangkips/gestion-api/internal/domain/enum"
	"github.com/sangkips/gestion-api/internal/domain/pricing"
	"github.com/sangkips/gestion-api/internal/domain/repository"
	infraRepo "github.com/sangkips/gestion-api/internal/infrastructure/repository"
	"github.com/sangkips/gestion-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// DraftService owns the order drawer: a draft is opened, edited line by line,
// then submitted to the backend as an order or discarded.
type DraftService struct {
	drafts  repository.DraftRepository
	catalog repository.ProductCatalog
	clients repository.ClientDirectory
	orders  repository.OrderSink
	locks   *draftLocks
	now     func() time.Time
}

// NewDraftService creates a new draft service
func NewDraftService(
	drafts repository.DraftRepository,
	catalog repository.ProductCatalog,
	clients repository.ClientDirectory,
	orders repository.OrderSink,
) *DraftService {
	return &DraftService{
		drafts:  drafts,
		catalog: catalog,
		clients: clients,
		orders:  orders,
		locks:   newDraftLocks(),
		now:     time.Now,
	}
}

// DraftView is a draft together with its computed totals
type DraftView struct {
	Draft   *entity.OrderDraft `json:"draft"`
	Summary pricing.Summary    `json:"summary"`
}

func newDraftView(d *entity.OrderDraft) *DraftView {
	return &DraftView{Draft: d, Summary: pricing.Summarize(d.Items, d.GlobalDiscountPercent)}
}

// OpenDraftInput represents the open draft input
type OpenDraftInput struct {
	PriceList  enum.PriceList
	ClientID   string
	SalesRepID string
}

// UpdateDraftInput carries header fields; nil leaves a field unchanged
type UpdateDraftInput struct {
	ClientID   *string
	SalesRepID *string
	Date       *time.Time
	Notes      *string
}

// SubmitResult is returned once the backend accepted the order
type SubmitResult struct {
	Order   *entity.OrderRef     `json:"order"`
	Payload *entity.OrderPayload `json:"payload"`
}

// OpenDraft starts an empty draft for the tenant in ctx
func (s *DraftService) OpenDraft(ctx context.Context, input *OpenDraftInput) (*DraftView, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.ErrTenantRequired
	}
	if input == nil {
		input = &OpenDraftInput{}
	}

	draft := entity.NewOrderDraft(tenantID, input.PriceList, s.now())
	draft.SalesRepID = strings.TrimSpace(input.SalesRepID)
	if clientID := strings.TrimSpace(input.ClientID); clientID != "" {
		if err := s.attachClient(ctx, draft, clientID); err != nil {
			return nil, err
		}
	}

	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().Str("draft_id", draft.ID.String()).Str("price_list", draft.PriceList.String()).Msg("draft opened")
	return newDraftView(draft), nil
}

// GetDraft returns the draft with fresh totals
func (s *DraftService) GetDraft(ctx context.Context, id uuid.UUID) (*DraftView, error) {
	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return newDraftView(draft), nil
}

// AddItem adds one unit of a product. A product already in the cart is
// incremented without another catalog lookup.
func (s *DraftService) AddItem(ctx context.Context, id uuid.UUID, productID string) (*DraftView, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "product_id", Message: "is required"}})
	}

	return s.mutate(ctx, id, func(d *entity.OrderDraft) error {
		product := entity.Product{ID: productID}
		if !containsProduct(d.Items, productID) {
			fetched, err := s.catalog.GetProduct(ctx, productID)
			if err != nil {
				return err
			}
			product = *fetched
		}

		items, err := pricing.AddOrIncrementItem(d.Items, product, d.PriceList)
		if err != nil {
			return translatePricingError(err)
		}
		d.Items = items
		return nil
	})
}

// RemoveItem drops a line; removing an absent product is not an error
func (s *DraftService) RemoveItem(ctx context.Context, id uuid.UUID, productID string) (*DraftView, error) {
	return s.mutate(ctx, id, func(d *entity.OrderDraft) error {
		d.Items = pricing.RemoveItem(d.Items, productID)
		return nil
	})
}

// SetQuantity applies a user-typed quantity; junk input becomes 1
func (s *DraftService) SetQuantity(ctx context.Context, id uuid.UUID, productID, raw string) (*DraftView, error) {
	return s.mutate(ctx, id, func(d *entity.OrderDraft) error {
		items, err := pricing.SetQuantity(d.Items, productID, pricing.ParseQuantity(raw))
		if err != nil {
			return translatePricingError(err)
		}
		d.Items = items
		return nil
	})
}

// SetItemDiscount applies a user-typed line discount; junk input becomes 0
func (s *DraftService) SetItemDiscount(ctx context.Context, id uuid.UUID, productID, raw string) (*DraftView, error) {
	return s.mutate(ctx, id, func(d *entity.OrderDraft) error {
		items, err := pricing.SetItemDiscount(d.Items, productID, pricing.ParseDiscount(raw))
		if err != nil {
			return translatePricingError(err)
		}
		d.Items = items
		return nil
	})
}

// SetGlobalDiscount applies the order-level discount, clamped to [0,100]
func (s *DraftService) SetGlobalDiscount(ctx context.Context, id uuid.UUID, raw string) (*DraftView, error) {
	return s.mutate(ctx, id, func(d *entity.OrderDraft) error {
		d.GlobalDiscountPercent = pricing.ParseDiscount(raw)
		return nil
	})
}

// SetPriceList switches the list used for products added from now on.
// Lines already in the cart keep the price they were added with.
func (s *DraftService) SetPriceList(ctx context.Context, id uuid.UUID, list enum.PriceList) (*DraftView, error) {
	if !list.IsValid() {
		return nil, apperror.NewBadRequestError("price list must be 1 or 2")
	}
	return s.mutate(ctx, id, func(d *entity.OrderDraft) error {
		d.PriceList = list
		return nil
	})
}

// UpdateDraft edits the header fields of the draft
func (s *DraftService) UpdateDraft(ctx context.Context, id uuid.UUID, input *UpdateDraftInput) (*DraftView, error) {
	return s.mutate(ctx, id, func(d *entity.OrderDraft) error {
		if input.ClientID != nil {
			clientID := strings.TrimSpace(*input.ClientID)
			if clientID == "" {
				d.ClientID, d.ClientName = "", ""
			} else if clientID != d.ClientID {
				if err := s.attachClient(ctx, d, clientID); err != nil {
					return err
				}
			}
		}
		if input.SalesRepID != nil {
			d.SalesRepID = strings.TrimSpace(*input.SalesRepID)
		}
		if input.Date != nil && !input.Date.IsZero() {
			d.Date = *input.Date
		}
		if input.Notes != nil {
			d.Notes = strings.TrimSpace(*input.Notes)
		}
		return nil
	})
}

// SubmitDraft sends the order to the backend and disposes of the draft.
// The draft survives a failed submit so the user can retry.
func (s *DraftService) SubmitDraft(ctx context.Context, id uuid.UUID) (*SubmitResult, error) {
	defer s.locks.lock(id)()

	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	var fieldErrors []apperror.FieldError
	if draft.ClientID == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "client_id", Message: "a client must be selected"})
	}
	if len(draft.Items) == 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "items", Message: "add at least one product"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	payload := BuildOrderPayload(draft)
	ref, err := s.orders.CreateOrder(ctx, payload)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("draft_id", id.String()).Msg("order submit failed")
		return nil, err
	}

	if err := s.drafts.Delete(ctx, draft.TenantID, draft.ID); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("draft_id", id.String()).Msg("failed to dispose submitted draft")
	}
	log.Ctx(ctx).Info().
		Str("draft_id", id.String()).
		Str("order_id", ref.ID).
		Str("total", payload.Total.StringFixed(2)).
		Int("units", entity.TotalUnits(draft.Items)).
		Msg("order submitted")

	return &SubmitResult{Order: ref, Payload: payload}, nil
}

// DiscardDraft closes the drawer without submitting
func (s *DraftService) DiscardDraft(ctx context.Context, id uuid.UUID) error {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return apperror.ErrTenantRequired
	}
	defer s.locks.lock(id)()
	return s.drafts.Delete(ctx, tenantID, id)
}

// QuoteInput is a cart priced without opening a draft
type QuoteInput struct {
	Items          []entity.LineItem
	GlobalDiscount decimal.Decimal
}

// Quote prices an arbitrary cart. Quantities and discounts are clamped, matching what the draft mutations would store.
func (s *DraftService) Quote(input *QuoteInput) pricing.Summary {
	items := make([]entity.LineItem, 0, len(input.Items))
	for _, item := range input.Items {
		item.Quantity = pricing.ClampQuantity(item.Quantity)
		if item.ListPrice.IsNegative() {
			item.ListPrice = decimal.Zero
		}
		item.DiscountPercent = pricing.ClampPercent(item.DiscountPercent)
		items = append(items, item)
	}
	return pricing.Summarize(items, input.GlobalDiscount)
}

// BuildOrderPayload converts a draft into the backend order body with totals
// rounded to cents
func BuildOrderPayload(d *entity.OrderDraft) *entity.OrderPayload {
	summary := pricing.Summarize(d.Items, d.GlobalDiscountPercent)

	items := make([]entity.OrderItemPayload, 0, len(summary.Lines))
	for _, line := range summary.Lines {
		items = append(items, entity.OrderItemPayload{
			ProductID: line.ProductID,
			Name:      line.Name,
			Code:      line.Code,
			Quantity:  line.Quantity,
			Price:     line.ListPrice,
			Discount:  line.DiscountPercent,
			Subtotal:  line.Total,
		})
	}

	return &entity.OrderPayload{
		ClientID:   d.ClientID,
		SalesRepID: d.SalesRepID,
		Date:       d.Date,
		PriceList:  d.PriceList,
		Items:      items,
		Discount:   summary.GlobalDiscountPercent,
		Subtotal:   summary.Subtotal,
		Total:      summary.GrandTotal,
		Notes:      d.Notes,
	}
}

func (s *DraftService) load(ctx context.Context, id uuid.UUID) (*entity.OrderDraft, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.ErrTenantRequired
	}
	draft, err := s.drafts.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, apperror.NewNotFoundError("Draft")
	}
	return draft, nil
}

func (s *DraftService) mutate(ctx context.Context, id uuid.UUID, fn func(d *entity.OrderDraft) error) (*DraftView, error) {
	defer s.locks.lock(id)()

	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(draft); err != nil {
		return nil, err
	}
	draft.UpdatedAt = s.now()
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return newDraftView(draft), nil
}

func (s *DraftService) attachClient(ctx context.Context, d *entity.OrderDraft, clientID string) error {
	client, err := s.clients.GetClient(ctx, clientID)
	if err != nil {
		return err
	}
	d.ClientID = clientID
	d.ClientName = client.BusinessName
	return nil
}

func containsProduct(items []entity.LineItem, productID string) bool {
	for _, item := range items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

func translatePricingError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrItemNotFound):
		return apperror.NewNotFoundError("Item")
	case errors.Is(err, pricing.ErrMissingPrice),
		errors.Is(err, pricing.ErrInvalidPrice),
		errors.Is(err, pricing.ErrInvalidPriceList):
		return apperror.Wrap(http.StatusUnprocessableEntity, err)
	case errors.Is(err, pricing.ErrInvalidProduct):
		return apperror.Wrap(http.StatusBadRequest, err)
	}
	return err
}
