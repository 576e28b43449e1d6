package handler

import (
	quoteapp "github.com/erp-mx/backend/internal/application/quote"
	"github.com/gin-gonic/gin"
)

// QuoteHandler handles quote-related API endpoints
type QuoteHandler struct {
	BaseHandler
	quoteService *quoteapp.Service
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *quoteapp.Service) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// Create handles POST /quotes
func (h *QuoteHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	var req quoteapp.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quote, err := h.quoteService.CreateDraft(c.Request.Context(), req, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, quote)
}

// List handles GET /quotes
func (h *QuoteHandler) List(c *gin.Context) {
	var filter quoteapp.QuoteListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.quoteService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID handles GET /quotes/:id
func (h *QuoteHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid quote ID format")
		return
	}

	quote, err := h.quoteService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}

// GetByFolio handles GET /quotes/folio/:folio
func (h *QuoteHandler) GetByFolio(c *gin.Context) {
	folio := c.Param("folio")
	if folio == "" {
		h.BadRequest(c, "Folio is required")
		return
	}

	quote, err := h.quoteService.GetByFolio(c.Request.Context(), folio)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}

// Update handles PUT /quotes/:id
func (h *QuoteHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid quote ID format")
		return
	}

	var req quoteapp.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quote, err := h.quoteService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}

// AddItem handles POST /quotes/:id/items
func (h *QuoteHandler) AddItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid quote ID format")
		return
	}

	var req quoteapp.CreateQuoteItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quote, err := h.quoteService.AddItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}

// UpdateItem handles PUT /quotes/:id/items/:item_id
func (h *QuoteHandler) UpdateItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid quote ID format")
		return
	}
	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req quoteapp.UpdateQuoteItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quote, err := h.quoteService.UpdateItem(c.Request.Context(), id, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}

// RemoveItem handles DELETE /quotes/:id/items/:item_id
func (h *QuoteHandler) RemoveItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid quote ID format")
		return
	}
	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	quote, err := h.quoteService.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}

// Finalize handles POST /quotes/:id/finalize
func (h *QuoteHandler) Finalize(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid quote ID format")
		return
	}

	result, err := h.quoteService.Finalize(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Accept handles POST /quotes/:id/accept
func (h *QuoteHandler) Accept(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid quote ID format")
		return
	}

	result, err := h.quoteService.Accept(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel handles POST /quotes/:id/cancel
func (h *QuoteHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid quote ID format")
		return
	}

	quote, err := h.quoteService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}

// Recalculate handles POST /quotes/:id/recalculate
func (h *QuoteHandler) Recalculate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid quote ID format")
		return
	}

	quote, err := h.quoteService.Recalculate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}
