package partner

import (
	"strings"

	"github.com/erp-mx/backend/internal/domain/shared"
)

// Supplier represents a vendor the company buys from. Purchase orders are
// split one per supplier, so the supplier reference on a quote item is what
// ultimately routes the cost side of an order.
type Supplier struct {
	shared.BaseAggregateRoot
	Name    string `gorm:"type:varchar(200);not null;index"`
	RFC     string `gorm:"type:varchar(13)"`
	Email   string `gorm:"type:varchar(200)"`
	Phone   string `gorm:"type:varchar(30)"`
	Address string `gorm:"type:varchar(500)"`
	Active  bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new active supplier
func NewSupplier(name string) (*Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}

	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Active:            true,
	}, nil
}

// SetContact sets the contact details of the supplier
func (s *Supplier) SetContact(email, phone, address string) {
	s.Email = strings.TrimSpace(email)
	s.Phone = strings.TrimSpace(phone)
	s.Address = strings.TrimSpace(address)
}

// SetRFC sets the supplier's tax identifier
func (s *Supplier) SetRFC(rfc string) {
	s.RFC = strings.ToUpper(strings.TrimSpace(rfc))
}

// Deactivate marks the supplier as inactive
func (s *Supplier) Deactivate() {
	s.Active = false
}

// Activate marks the supplier as active
func (s *Supplier) Activate() {
	s.Active = true
}
