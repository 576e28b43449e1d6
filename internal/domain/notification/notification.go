package notification

import (
	"time"

	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Role is a coarse audience selector for role-targeted notifications
type Role string

const (
	RoleSales     Role = "SALES"
	RoleWarehouse Role = "WAREHOUSE"
	RoleFinance   Role = "FINANCE"
	RoleAdmin     Role = "ADMIN"
)

// Notification is an in-app message targeted at either a single user or a
// whole role. Delivery is fire-and-forget: a failed insert is logged and
// never rolls back the business write that produced it.
type Notification struct {
	shared.BaseEntity
	TargetUserID *uuid.UUID `gorm:"type:uuid;index"`
	TargetRole   *Role      `gorm:"type:varchar(20);index"`
	Title        string     `gorm:"type:varchar(200);not null"`
	Message      string     `gorm:"type:varchar(1000)"`
	Link         string     `gorm:"type:varchar(500)"`
	Read         bool       `gorm:"not null;default:false"`
	ReadAt       *time.Time
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NewUserNotification creates a notification addressed to one user
func NewUserNotification(userID uuid.UUID, title, message, link string) (*Notification, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TARGET", "Target user cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Notification title cannot be empty")
	}
	return &Notification{
		BaseEntity:   shared.NewBaseEntity(),
		TargetUserID: &userID,
		Title:        title,
		Message:      message,
		Link:         link,
	}, nil
}

// NewRoleNotification creates a notification addressed to everyone in a role
func NewRoleNotification(role Role, title, message, link string) (*Notification, error) {
	if role == "" {
		return nil, shared.NewDomainError("INVALID_TARGET", "Target role cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Notification title cannot be empty")
	}
	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		TargetRole: &role,
		Title:      title,
		Message:    message,
		Link:       link,
	}, nil
}

// MarkRead marks the notification as read
func (n *Notification) MarkRead() {
	if n.Read {
		return
	}
	now := time.Now()
	n.Read = true
	n.ReadAt = &now
	n.UpdatedAt = now
}
