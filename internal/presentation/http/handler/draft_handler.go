package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/gestion-api/internal/application/service"
	"github.com/sangkips/gestion-api/internal/domain/enum"
	"github.com/sangkips/gestion-api/internal/presentation/http/dto/request"
	"github.com/sangkips/gestion-api/internal/presentation/http/dto/response"
	"github.com/sangkips/gestion-api/pkg/apperror"
)

// DraftHandler handles the order drawer endpoints
type DraftHandler struct {
	draftService *service.DraftService
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(draftService *service.DraftService) *DraftHandler {
	return &DraftHandler{draftService: draftService}
}

// Open starts a new draft
func (h *DraftHandler) Open(c *gin.Context) {
	var req request.OpenDraftRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	input := &service.OpenDraftInput{ClientID: req.ClientID, SalesRepID: req.SalesRepID}
	if req.PriceList != nil {
		input.PriceList = *req.PriceList
	} else {
		input.PriceList = enum.PriceListDistributor
	}

	view, err := h.draftService.OpenDraft(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Draft opened", view)
}

// Get returns a draft with its totals
func (h *DraftHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.draftService.GetDraft(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Draft retrieved", view)
}

// Update edits client, sales rep, date and notes
func (h *DraftHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req request.UpdateDraftRequest
	if !bindJSON(c, &req) {
		return
	}

	input := &service.UpdateDraftInput{
		ClientID:   req.ClientID,
		SalesRepID: req.SalesRepID,
		Notes:      req.Notes,
	}
	if req.Date != nil {
		date, err := request.ParseDate(*req.Date)
		if err != nil {
			response.ValidationError(c, []apperror.FieldError{{Field: "date", Message: err.Error()}})
			return
		}
		input.Date = &date
	}

	view, err := h.draftService.UpdateDraft(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Draft updated", view)
}

// Discard closes the drawer without submitting
func (h *DraftHandler) Discard(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.draftService.DiscardDraft(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddItem adds a product or increments its quantity
func (h *DraftHandler) AddItem(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req request.AddItemRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.draftService.AddItem(c.Request.Context(), id, req.ProductID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item added", view)
}

// RemoveItem drops a product from the cart
func (h *DraftHandler) RemoveItem(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.draftService.RemoveItem(c.Request.Context(), id, c.Param("product_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item removed", view)
}

// SetQuantity sets a line quantity; unparseable input becomes 1
func (h *DraftHandler) SetQuantity(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req request.SetQuantityRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.draftService.SetQuantity(c.Request.Context(), id, c.Param("product_id"), req.Quantity.String())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quantity updated", view)
}

// SetItemDiscount sets a line discount; unparseable input becomes 0
func (h *DraftHandler) SetItemDiscount(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req request.SetDiscountRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.draftService.SetItemDiscount(c.Request.Context(), id, c.Param("product_id"), req.Discount.String())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Discount updated", view)
}

// SetGlobalDiscount sets the order-level discount
func (h *DraftHandler) SetGlobalDiscount(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req request.SetDiscountRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.draftService.SetGlobalDiscount(c.Request.Context(), id, req.Discount.String())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Discount updated", view)
}

// SetPriceList switches the list used for items added afterwards
func (h *DraftHandler) SetPriceList(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req request.SetPriceListRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.draftService.SetPriceList(c.Request.Context(), id, req.PriceList)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Price list updated", view)
}

// Submit sends the draft to the backend as an order
func (h *DraftHandler) Submit(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.draftService.SubmitDraft(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Order created", result)
}

// Quote prices a cart without opening a draft
func (h *DraftHandler) Quote(c *gin.Context) {
	var req request.QuoteRequest
	if !bindJSON(c, &req) {
		return
	}

	summary := h.draftService.Quote(&service.QuoteInput{
		Items:          req.LineItems(),
		GlobalDiscount: req.GlobalDiscountPercent(),
	})
	response.OK(c, "Quote calculated", summary)
}
