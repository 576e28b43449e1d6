package partner

import (
	"strings"

	"github.com/erp-mx/backend/internal/domain/shared"
)

// Client represents a customer the company sells to. RFC is the Mexican
// tax identifier; it is required for invoicing but not for quoting, so an
// incomplete fiscal profile only produces warnings downstream.
type Client struct {
	shared.BaseAggregateRoot
	Name        string `gorm:"type:varchar(200);not null;index"`
	RazonSocial string `gorm:"type:varchar(200)"` // registered legal name
	RFC         string `gorm:"type:varchar(13)"`
	Email       string `gorm:"type:varchar(200)"`
	Phone       string `gorm:"type:varchar(30)"`
	Address     string `gorm:"type:varchar(500)"`
	Active      bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new active client
func NewClient(name string) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}

	return &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Active:            true,
	}, nil
}

// SetFiscalProfile sets the invoicing identity of the client
func (c *Client) SetFiscalProfile(razonSocial, rfc string) {
	c.RazonSocial = strings.TrimSpace(razonSocial)
	c.RFC = strings.ToUpper(strings.TrimSpace(rfc))
}

// SetContact sets the contact details of the client
func (c *Client) SetContact(email, phone, address string) {
	c.Email = strings.TrimSpace(email)
	c.Phone = strings.TrimSpace(phone)
	c.Address = strings.TrimSpace(address)
}

// Deactivate marks the client as inactive. Existing quotes and orders keep
// their snapshots; the client just stops appearing in pickers.
func (c *Client) Deactivate() {
	c.Active = false
}

// Activate marks the client as active
func (c *Client) Activate() {
	c.Active = true
}

// MissingFiscalFields returns the names of profile fields still required
// before this client can be invoiced. An empty slice means the profile is
// complete.
func (c *Client) MissingFiscalFields() []string {
	var missing []string
	if c.RFC == "" {
		missing = append(missing, "rfc")
	}
	if c.RazonSocial == "" {
		missing = append(missing, "razon_social")
	}
	if c.Email == "" {
		missing = append(missing, "email")
	}
	return missing
}

// IsProfileComplete returns true when the client can be invoiced
func (c *Client) IsProfileComplete() bool {
	return len(c.MissingFiscalFields()) == 0
}
