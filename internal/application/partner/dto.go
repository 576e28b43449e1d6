package partner

import (
	"time"

	"github.com/erp-mx/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// CreateClientRequest represents a request to create a client
type CreateClientRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	RazonSocial string `json:"razon_social" binding:"max=200"`
	RFC         string `json:"rfc" binding:"max=13"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone" binding:"max=30"`
	Address     string `json:"address" binding:"max=500"`
}

// UpdateClientRequest represents a request to update a client
type UpdateClientRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	RazonSocial *string `json:"razon_social" binding:"omitempty,max=200"`
	RFC         *string `json:"rfc" binding:"omitempty,max=13"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone" binding:"omitempty,max=30"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	Active      *bool   `json:"active"`
}

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	RFC     string `json:"rfc" binding:"max=13"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone" binding:"max=30"`
	Address string `json:"address" binding:"max=500"`
}

// UpdateSupplierRequest represents a request to update a supplier
type UpdateSupplierRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	RFC     *string `json:"rfc" binding:"omitempty,max=13"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=30"`
	Address *string `json:"address" binding:"omitempty,max=500"`
	Active  *bool   `json:"active"`
}

// PartnerListFilter represents filter options for client and supplier lists
type PartnerListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	RazonSocial     string    `json:"razon_social,omitempty"`
	RFC             string    `json:"rfc,omitempty"`
	Email           string    `json:"email,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Address         string    `json:"address,omitempty"`
	Active          bool      `json:"active"`
	ProfileComplete bool      `json:"profile_complete"`
	MissingFields   []string  `json:"missing_fields,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	RFC       string    `json:"rfc,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToClientResponse maps a client aggregate to its API representation
func ToClientResponse(c *partner.Client) ClientResponse {
	return ClientResponse{
		ID:              c.ID,
		Name:            c.Name,
		RazonSocial:     c.RazonSocial,
		RFC:             c.RFC,
		Email:           c.Email,
		Phone:           c.Phone,
		Address:         c.Address,
		Active:          c.Active,
		ProfileComplete: c.IsProfileComplete(),
		MissingFields:   c.MissingFiscalFields(),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// ToClientResponses maps a slice of clients
func ToClientResponses(clients []*partner.Client) []ClientResponse {
	responses := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		responses = append(responses, ToClientResponse(c))
	}
	return responses
}

// ToSupplierResponse maps a supplier aggregate to its API representation
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		RFC:       s.RFC,
		Email:     s.Email,
		Phone:     s.Phone,
		Address:   s.Address,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ToSupplierResponses maps a slice of suppliers
func ToSupplierResponses(suppliers []*partner.Supplier) []SupplierResponse {
	responses := make([]SupplierResponse, 0, len(suppliers))
	for _, s := range suppliers {
		responses = append(responses, ToSupplierResponse(s))
	}
	return responses
}
