package partner

import (
	"context"
	"time"

	"github.com/erp-mx/backend/internal/domain/partner"
	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientService handles client master-data operations
type ClientService struct {
	repo partner.ClientRepository
}

// NewClientService creates a new ClientService
func NewClientService(repo partner.ClientRepository) *ClientService {
	return &ClientService{repo: repo}
}

// Create creates a new client
func (s *ClientService) Create(ctx context.Context, req CreateClientRequest) (*ClientResponse, error) {
	c, err := partner.NewClient(req.Name)
	if err != nil {
		return nil, err
	}
	c.SetFiscalProfile(req.RazonSocial, req.RFC)
	c.SetContact(req.Email, req.Phone, req.Address)

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToClientResponse(c)
	return &response, nil
}

// GetByID retrieves a client by ID
func (s *ClientService) GetByID(ctx context.Context, id uuid.UUID) (*ClientResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToClientResponse(c)
	return &response, nil
}

// List retrieves clients with filtering and pagination
func (s *ClientService) List(ctx context.Context, filter PartnerListFilter) (shared.Paginated[ClientResponse], error) {
	result, err := s.repo.FindAll(ctx, toDomainFilter(filter))
	if err != nil {
		return shared.Paginated[ClientResponse]{}, err
	}
	return shared.NewPaginated(ToClientResponses(result.Items), result.Total, result.Page, result.PageSize), nil
}

// Update updates a client's profile
func (s *ClientService) Update(ctx context.Context, id uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := *req.Name
		if name == "" {
			return nil, shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
		}
		c.Name = name
	}
	razonSocial := c.RazonSocial
	rfc := c.RFC
	if req.RazonSocial != nil {
		razonSocial = *req.RazonSocial
	}
	if req.RFC != nil {
		rfc = *req.RFC
	}
	c.SetFiscalProfile(razonSocial, rfc)

	email, phone, address := c.Email, c.Phone, c.Address
	if req.Email != nil {
		email = *req.Email
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Address != nil {
		address = *req.Address
	}
	c.SetContact(email, phone, address)

	if req.Active != nil {
		if *req.Active {
			c.Activate()
		} else {
			c.Deactivate()
		}
	}
	c.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToClientResponse(c)
	return &response, nil
}

// Delete removes a client. Quotes and orders keep their snapshots.
func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// SupplierService handles supplier master-data operations
type SupplierService struct {
	repo partner.SupplierRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(repo partner.SupplierRepository) *SupplierService {
	return &SupplierService{repo: repo}
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	sup, err := partner.NewSupplier(req.Name)
	if err != nil {
		return nil, err
	}
	sup.SetRFC(req.RFC)
	sup.SetContact(req.Email, req.Phone, req.Address)

	if err := s.repo.Save(ctx, sup); err != nil {
		return nil, err
	}

	response := ToSupplierResponse(sup)
	return &response, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(sup)
	return &response, nil
}

// List retrieves suppliers with filtering and pagination
func (s *SupplierService) List(ctx context.Context, filter PartnerListFilter) (shared.Paginated[SupplierResponse], error) {
	result, err := s.repo.FindAll(ctx, toDomainFilter(filter))
	if err != nil {
		return shared.Paginated[SupplierResponse]{}, err
	}
	return shared.NewPaginated(ToSupplierResponses(result.Items), result.Total, result.Page, result.PageSize), nil
}

// Update updates a supplier's profile
func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := *req.Name
		if name == "" {
			return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
		}
		sup.Name = name
	}
	if req.RFC != nil {
		sup.SetRFC(*req.RFC)
	}

	email, phone, address := sup.Email, sup.Phone, sup.Address
	if req.Email != nil {
		email = *req.Email
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Address != nil {
		address = *req.Address
	}
	sup.SetContact(email, phone, address)

	if req.Active != nil {
		if *req.Active {
			sup.Activate()
		} else {
			sup.Deactivate()
		}
	}
	sup.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, sup); err != nil {
		return nil, err
	}

	response := ToSupplierResponse(sup)
	return &response, nil
}

// Delete removes a supplier. Existing purchase orders keep their snapshots.
func (s *SupplierService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func toDomainFilter(filter PartnerListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}
	return domainFilter
}
