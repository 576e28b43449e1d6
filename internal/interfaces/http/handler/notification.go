package handler

import (
	notifapp "github.com/erp-mx/backend/internal/application/notification"
	"github.com/erp-mx/backend/internal/domain/notification"
	"github.com/erp-mx/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// NotificationHandler handles the per-user notification feed
type NotificationHandler struct {
	BaseHandler
	notifService *notifapp.Service
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifService *notifapp.Service) *NotificationHandler {
	return &NotificationHandler{notifService: notifService}
}

// rolesFor maps the authenticated user's role to the notification audiences
// it subscribes to
func rolesFor(c *gin.Context) []notification.Role {
	role := middleware.GetJWTRole(c)
	if role == "" {
		return nil
	}
	return []notification.Role{notification.Role(role)}
}

// List handles GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	var filter notifapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.notifService.ListForUser(c.Request.Context(), userID, rolesFor(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// CountUnread handles GET /notifications/unread-count
func (h *NotificationHandler) CountUnread(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	count, err := h.notifService.CountUnread(c.Request.Context(), userID, rolesFor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, count)
}

// MarkRead handles POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid notification ID format")
		return
	}

	n, err := h.notifService.MarkRead(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, n)
}

// MarkAllRead handles POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	if err := h.notifService.MarkAllRead(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
