package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/gestion-api/internal/application/service"
	"github.com/sangkips/gestion-api/internal/domain/repository"
	"github.com/sangkips/gestion-api/internal/presentation/http/dto/request"
	"github.com/sangkips/gestion-api/internal/presentation/http/dto/response"
	"github.com/sangkips/gestion-api/pkg/pagination"
)

// ReceiptHandler serves receipt documents and their side channels
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// PDF renders a backend receipt. It opens inline unless ?download=1.
func (h *ReceiptHandler) PDF(c *gin.Context) {
	rendered, err := h.receiptService.RenderReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.PDF(c, rendered.Document.FileName, rendered.Document.Bytes, !downloadRequested(c))
}

// Render renders a receipt supplied in the request body
func (h *ReceiptHandler) Render(c *gin.Context) {
	var req request.RenderReceiptRequest
	if !bindJSON(c, &req) {
		return
	}
	receipt, err := req.ToEntity()
	if err != nil {
		response.Error(c, err)
		return
	}

	rendered, err := h.receiptService.RenderPayload(c.Request.Context(), receipt)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.PDF(c, rendered.Document.FileName, rendered.Document.Bytes, !downloadRequested(c))
}

// Email mails the receipt PDF
func (h *ReceiptHandler) Email(c *gin.Context) {
	var req request.EmailReceiptRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	result, err := h.receiptService.EmailReceipt(c.Request.Context(), c.Param("id"), req.To)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt sent by email", result)
}

// WhatsApp returns a share link; ?phone= overrides the client's phone
func (h *ReceiptHandler) WhatsApp(c *gin.Context) {
	link, err := h.receiptService.WhatsAppLink(c.Request.Context(), c.Param("id"), c.Query("phone"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "WhatsApp link created", link)
}

// Print sends the receipt to the thermal printer
func (h *ReceiptHandler) Print(c *gin.Context) {
	ticket, err := h.receiptService.PrintReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		// If the ticket was built but printing failed, return it with a warning
		if ticket != nil {
			response.OK(c, "Ticket generated but printing failed", gin.H{
				"ticket":  ticket,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	message := "Receipt printed successfully"
	if !ticket.Printed {
		message = "Ticket generated (printer disabled)"
	}
	response.OK(c, message, ticket)
}

// ListDocuments returns the archive of generated documents
func (h *ReceiptHandler) ListDocuments(c *gin.Context) {
	var filter request.DocumentFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ReceiptDocumentFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		ReceiptID: filter.ReceiptID,
		Channel:   filter.Channel,
	}

	result, err := h.receiptService.ListDocuments(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Documents retrieved", result)
}

func downloadRequested(c *gin.Context) bool {
	switch c.Query("download") {
	case "1", "true", "yes":
		return true
	}
	return false
}
