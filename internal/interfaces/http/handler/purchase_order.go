package handler

import (
	tradeapp "github.com/erp-mx/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// PurchaseOrderHandler handles purchase order API endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	receivingService *tradeapp.ReceivingService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(receivingService *tradeapp.ReceivingService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{receivingService: receivingService}
}

// List handles GET /purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var filter tradeapp.POListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	pos, total, err := h.receivingService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page == 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize == 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, pos, total, page, pageSize)
}

// GetByID handles GET /purchase-orders/:id
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	po, err := h.receivingService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, po)
}

// MarkSent handles POST /purchase-orders/:id/send
func (h *PurchaseOrderHandler) MarkSent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	po, err := h.receivingService.MarkSent(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, po)
}

// MarkReceived handles POST /purchase-orders/:id/receive. Repeat calls are
// no-op successes reporting already_received.
func (h *PurchaseOrderHandler) MarkReceived(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	result, err := h.receivingService.MarkReceived(c.Request.Context(), id, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AttachDocument handles POST /purchase-orders/:id/document
func (h *PurchaseOrderHandler) AttachDocument(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	var req tradeapp.AttachDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	po, err := h.receivingService.AttachDocument(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, po)
}

// SetEstimatedDelivery handles PUT /purchase-orders/:id/estimated-delivery
func (h *PurchaseOrderHandler) SetEstimatedDelivery(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	var req tradeapp.SetEstimatedDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	po, err := h.receivingService.SetEstimatedDelivery(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, po)
}
