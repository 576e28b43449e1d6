package handler

import (
	tradeapp "github.com/erp-mx/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// SalesOrderHandler handles sales order API endpoints
type SalesOrderHandler struct {
	BaseHandler
	orderService     *tradeapp.SalesOrderService
	receivingService *tradeapp.ReceivingService
}

// NewSalesOrderHandler creates a new SalesOrderHandler
func NewSalesOrderHandler(orderService *tradeapp.SalesOrderService, receivingService *tradeapp.ReceivingService) *SalesOrderHandler {
	return &SalesOrderHandler{
		orderService:     orderService,
		receivingService: receivingService,
	}
}

// Create handles POST /sales-orders
func (h *SalesOrderHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	var req tradeapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.orderService.CreateFromQuote(c.Request.Context(), req, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// List handles GET /sales-orders
func (h *SalesOrderHandler) List(c *gin.Context) {
	var filter tradeapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID handles GET /sales-orders/:id
func (h *SalesOrderHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// GetByOrderNumber handles GET /sales-orders/number/:order_number
func (h *SalesOrderHandler) GetByOrderNumber(c *gin.Context) {
	orderNumber := c.Param("order_number")
	if orderNumber == "" {
		h.BadRequest(c, "Order number is required")
		return
	}

	order, err := h.orderService.GetByOrderNumber(c.Request.Context(), orderNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Approve handles POST /sales-orders/:id/approve. Of two concurrent
// approvers exactly one gets the 200; the other gets a 409 naming the
// actual status.
func (h *SalesOrderHandler) Approve(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	result, err := h.orderService.Approve(c.Request.Context(), id, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RetryPurchaseOrders handles POST /sales-orders/:id/purchase-orders/retry.
// Suppliers already covered by a purchase order are skipped.
func (h *SalesOrderHandler) RetryPurchaseOrders(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	result, err := h.orderService.RetryPurchaseOrders(c.Request.Context(), id, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListPurchaseOrders handles GET /sales-orders/:id/purchase-orders
func (h *SalesOrderHandler) ListPurchaseOrders(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	pos, err := h.orderService.ListPurchaseOrders(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, pos)
}

// Cancel handles POST /sales-orders/:id/cancel
func (h *SalesOrderHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Complete handles POST /sales-orders/:id/complete
func (h *SalesOrderHandler) Complete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.receivingService.Complete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// OverrideStatus handles POST /sales-orders/:id/override-status. This is an
// administrative escape hatch; the route is gated to administrators.
func (h *SalesOrderHandler) OverrideStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req tradeapp.OverrideStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.OverrideStatus(c.Request.Context(), id, req, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
