package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp-mx/backend/internal/domain/partner"
	"github.com/erp-mx/backend/internal/domain/shared"
)

// GormClientRepository implements partner.ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by its ID
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	var c partner.Client
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAll finds clients with filtering and pagination
func (r *GormClientRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*partner.Client], error) {
	query := r.db.WithContext(ctx).Model(&partner.Client{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR razon_social ILIKE ? OR rfc ILIKE ?", pattern, pattern, pattern)
	}
	if active, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*partner.Client]{}, err
	}

	var clients []*partner.Client
	if err := applyPagination(query, filter, PartnerSortFields).Find(&clients).Error; err != nil {
		return shared.Paginated[*partner.Client]{}, err
	}

	return shared.NewPaginated(clients, total, filter.Page, filter.PageSize), nil
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, c *partner.Client) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete deletes a client
func (r *GormClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Client{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ partner.ClientRepository = (*GormClientRepository)(nil)

// GormSupplierRepository implements partner.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier by its ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	var s partner.Supplier
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindAll finds suppliers with filtering and pagination
func (r *GormSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*partner.Supplier], error) {
	query := r.db.WithContext(ctx).Model(&partner.Supplier{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR rfc ILIKE ?", pattern, pattern)
	}
	if active, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*partner.Supplier]{}, err
	}

	var suppliers []*partner.Supplier
	if err := applyPagination(query, filter, PartnerSortFields).Find(&suppliers).Error; err != nil {
		return shared.Paginated[*partner.Supplier]{}, err
	}

	return shared.NewPaginated(suppliers, total, filter.Page, filter.PageSize), nil
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, s *partner.Supplier) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// Delete deletes a supplier
func (r *GormSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Supplier{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)
