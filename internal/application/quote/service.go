package quote

import (
	"context"
	"fmt"

	"github.com/erp-mx/backend/internal/domain/partner"
	"github.com/erp-mx/backend/internal/domain/quote"
	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/erp-mx/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ListCache is a read-through cache for quote list pages. Implementations
// are best-effort: a miss or a broken backend must degrade to the database,
// never to an error.
type ListCache interface {
	Get(ctx context.Context, key string) (shared.Paginated[QuoteListItemResponse], bool)
	Set(ctx context.Context, key string, page shared.Paginated[QuoteListItemResponse])
	Invalidate(ctx context.Context)
}

// Defaults carries the business defaults applied when a request leaves a
// pricing parameter unset
type Defaults struct {
	Margin        decimal.Decimal
	MinimumMargin decimal.Decimal
	TaxRate       decimal.Decimal
	ExchangeRate  decimal.Decimal
	Currency      valueobject.Currency
}

// Service handles quote business operations
type Service struct {
	quoteRepo    quote.Repository
	clientRepo   partner.ClientRepository
	supplierRepo partner.SupplierRepository
	listCache    ListCache
	defaults     Defaults
	logger       *zap.Logger
}

// NewService creates a new quote Service
func NewService(quoteRepo quote.Repository, clientRepo partner.ClientRepository, supplierRepo partner.SupplierRepository, defaults Defaults, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		quoteRepo:    quoteRepo,
		clientRepo:   clientRepo,
		supplierRepo: supplierRepo,
		defaults:     defaults,
		logger:       logger,
	}
}

// SetListCache wires an optional list cache
func (s *Service) SetListCache(cache ListCache) {
	s.listCache = cache
}

// CreateDraft creates a new quote draft for the acting sales user
func (s *Service) CreateDraft(ctx context.Context, req CreateQuoteRequest, createdBy uuid.UUID) (*QuoteResponse, error) {
	folio, err := s.quoteRepo.GenerateFolio(ctx)
	if err != nil {
		return nil, err
	}

	taxRate := s.defaults.TaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}
	exchangeRate := s.defaults.ExchangeRate
	if req.ExchangeRate != nil {
		exchangeRate = *req.ExchangeRate
	}
	currency := s.defaults.Currency
	if req.Currency != "" {
		currency = valueobject.Currency(req.Currency)
	}

	q, err := quote.NewQuote(folio, createdBy, taxRate, currency, exchangeRate)
	if err != nil {
		return nil, err
	}

	if req.ClientID != nil {
		client, err := s.clientRepo.FindByID(ctx, *req.ClientID)
		if err != nil {
			return nil, err
		}
		if err := q.SetClient(client.ID, client.Name); err != nil {
			return nil, err
		}
	}

	for _, item := range req.Items {
		if err := s.addItem(ctx, q, item); err != nil {
			return nil, err
		}
	}

	if req.Notes != "" {
		q.SetNotes(req.Notes)
	}

	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, err
	}
	s.invalidateListCache(ctx)

	response := ToQuoteResponse(q)
	return &response, nil
}

// GetByID retrieves a quote by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToQuoteResponse(q)
	return &response, nil
}

// GetByFolio retrieves a quote by its folio
func (s *Service) GetByFolio(ctx context.Context, folio string) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByFolio(ctx, folio)
	if err != nil {
		return nil, err
	}
	response := ToQuoteResponse(q)
	return &response, nil
}

// List retrieves quotes with filtering and pagination. Pages are served
// from the list cache when one is wired.
func (s *Service) List(ctx context.Context, filter QuoteListFilter) (shared.Paginated[QuoteListItemResponse], error) {
	domainFilter := s.toDomainFilter(filter)
	cacheKey := s.listCacheKey(filter, domainFilter)

	if s.listCache != nil {
		if page, ok := s.listCache.Get(ctx, cacheKey); ok {
			return page, nil
		}
	}

	var (
		result shared.Paginated[*quote.Quote]
		err    error
	)
	switch {
	case filter.ClientID != nil:
		result, err = s.quoteRepo.FindByClient(ctx, *filter.ClientID, domainFilter)
	case filter.Status != nil:
		result, err = s.quoteRepo.FindByStatus(ctx, quote.Status(*filter.Status), domainFilter)
	default:
		result, err = s.quoteRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return shared.Paginated[QuoteListItemResponse]{}, err
	}

	page := shared.NewPaginated(ToQuoteListItemResponses(result.Items), result.Total, result.Page, result.PageSize)
	if s.listCache != nil {
		s.listCache.Set(ctx, cacheKey, page)
	}
	return page, nil
}

// Update updates quote-level parameters
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateQuoteRequest) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ClientID != nil {
		client, err := s.clientRepo.FindByID(ctx, *req.ClientID)
		if err != nil {
			return nil, err
		}
		if err := q.SetClient(client.ID, client.Name); err != nil {
			return nil, err
		}
	}
	if req.Currency != nil {
		if err := q.SetCurrency(valueobject.Currency(*req.Currency)); err != nil {
			return nil, err
		}
	}
	if req.TaxRate != nil {
		if err := q.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.ExchangeRate != nil {
		if err := q.SetExchangeRate(*req.ExchangeRate); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		if !q.CanModify() {
			return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot update a quote in %s status", q.Status))
		}
		q.SetNotes(*req.Notes)
	}

	if err := s.quoteRepo.SaveWithLock(ctx, q, q.GetVersion()); err != nil {
		return nil, err
	}
	s.invalidateListCache(ctx)

	response := ToQuoteResponse(q)
	return &response, nil
}

// AddItem adds a line item to a quote
func (s *Service) AddItem(ctx context.Context, quoteID uuid.UUID, req CreateQuoteItemRequest) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	if err := s.addItem(ctx, q, req); err != nil {
		return nil, err
	}

	if err := s.quoteRepo.SaveWithLock(ctx, q, q.GetVersion()); err != nil {
		return nil, err
	}
	s.invalidateListCache(ctx)

	response := ToQuoteResponse(q)
	return &response, nil
}

// UpdateItem updates a line item. A target price takes precedence over an
// explicit margin.
func (s *Service) UpdateItem(ctx context.Context, quoteID, itemID uuid.UUID, req UpdateQuoteItemRequest) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	if req.BasePrice != nil || req.ImportCost != nil || req.FreightCost != nil {
		item := q.GetItem(itemID)
		if item == nil {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Quote item not found")
		}
		basePrice := item.BasePrice
		importCost := item.ImportCost
		freightCost := item.FreightCost
		if req.BasePrice != nil {
			basePrice = *req.BasePrice
		}
		if req.ImportCost != nil {
			importCost = *req.ImportCost
		}
		if req.FreightCost != nil {
			freightCost = *req.FreightCost
		}
		if err := q.UpdateItemCosts(itemID, basePrice, importCost, freightCost); err != nil {
			return nil, err
		}
	}
	if req.Quantity != nil {
		if err := q.UpdateItemQuantity(itemID, *req.Quantity); err != nil {
			return nil, err
		}
	}
	switch {
	case req.TargetPrice != nil:
		if err := q.UpdateItemTargetPrice(itemID, *req.TargetPrice); err != nil {
			return nil, err
		}
	case req.Margin != nil:
		if err := q.UpdateItemMargin(itemID, *req.Margin); err != nil {
			return nil, err
		}
	}

	if err := s.quoteRepo.SaveWithLock(ctx, q, q.GetVersion()); err != nil {
		return nil, err
	}
	s.invalidateListCache(ctx)

	response := ToQuoteResponse(q)
	return &response, nil
}

// RemoveItem removes a line item from a quote
func (s *Service) RemoveItem(ctx context.Context, quoteID, itemID uuid.UUID) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	if err := q.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.quoteRepo.SaveWithLock(ctx, q, q.GetVersion()); err != nil {
		return nil, err
	}
	s.invalidateListCache(ctx)

	response := ToQuoteResponse(q)
	return &response, nil
}

// Finalize transitions the quote to FINALIZED and collects data-quality
// warnings: incomplete client fiscal profile, low-margin lines, unresolved
// suppliers. Warnings never block the transition.
func (s *Service) Finalize(ctx context.Context, id uuid.UUID) (*FinalizeQuoteResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := q.Finalize(); err != nil {
		return nil, err
	}

	var warnings shared.Warnings

	client, err := s.clientRepo.FindByID(ctx, q.ClientID)
	if err != nil {
		return nil, err
	}
	if missing := client.MissingFiscalFields(); len(missing) > 0 {
		warnings.Add(shared.WarningCodeIncompleteClient,
			"Client %q is missing fiscal profile fields: %v", client.Name, missing)
	}

	for _, item := range q.LowMarginItems(s.defaults.MinimumMargin) {
		warnings.Add(shared.WarningCodeLowMargin,
			"Item %q margin %s%% is below the %s%% floor",
			item.ProductName,
			item.Margin.Mul(decimal.NewFromInt(100)).StringFixed(1),
			s.defaults.MinimumMargin.Mul(decimal.NewFromInt(100)).StringFixed(0))
	}

	for _, item := range q.Items {
		if !item.HasResolvedSupplier() {
			warnings.Add(shared.WarningCodeUnknownSupplier,
				"Item %q has no resolved supplier; it will be excluded from purchase orders", item.ProductName)
		}
	}

	if err := s.quoteRepo.SaveWithLock(ctx, q, q.GetVersion()); err != nil {
		return nil, err
	}
	s.invalidateListCache(ctx)

	return &FinalizeQuoteResponse{
		Quote:    ToQuoteResponse(q),
		Warnings: warnings,
	}, nil
}

// Accept records the customer's confirmation of a finalized quote. As at
// finalize, an incomplete client fiscal profile is reported as a warning
// alongside the accepted quote, never as a hard failure.
func (s *Service) Accept(ctx context.Context, id uuid.UUID) (*AcceptQuoteResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := q.Accept(); err != nil {
		return nil, err
	}

	var warnings shared.Warnings

	client, err := s.clientRepo.FindByID(ctx, q.ClientID)
	if err != nil {
		return nil, err
	}
	if missing := client.MissingFiscalFields(); len(missing) > 0 {
		warnings.Add(shared.WarningCodeIncompleteClient,
			"Client %q is missing fiscal profile fields: %v", client.Name, missing)
	}

	if err := s.quoteRepo.SaveWithLock(ctx, q, q.GetVersion()); err != nil {
		return nil, err
	}
	s.invalidateListCache(ctx)

	return &AcceptQuoteResponse{
		Quote:    ToQuoteResponse(q),
		Warnings: warnings,
	}, nil
}

// Cancel cancels a quote that has not been accepted yet
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := q.Cancel(); err != nil {
		return nil, err
	}

	if err := s.quoteRepo.SaveWithLock(ctx, q, q.GetVersion()); err != nil {
		return nil, err
	}
	s.invalidateListCache(ctx)

	response := ToQuoteResponse(q)
	return &response, nil
}

// Recalculate re-derives the financials from the stored items. Useful when
// a persisted block predates a pricing fix.
func (s *Service) Recalculate(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := q.Recalculate(); err != nil {
		return nil, err
	}

	if err := s.quoteRepo.SaveWithLock(ctx, q, q.GetVersion()); err != nil {
		return nil, err
	}
	s.invalidateListCache(ctx)

	response := ToQuoteResponse(q)
	return &response, nil
}

func (s *Service) addItem(ctx context.Context, q *quote.Quote, req CreateQuoteItemRequest) error {
	margin := s.defaults.Margin
	if req.Margin != nil {
		margin = *req.Margin
	}
	currency := s.defaults.Currency
	if req.Currency != "" {
		currency = valueobject.Currency(req.Currency)
	}

	supplierID := uuid.Nil
	supplierName := ""
	if req.SupplierID != nil {
		supplier, err := s.supplierRepo.FindByID(ctx, *req.SupplierID)
		if err != nil {
			return err
		}
		supplierID = supplier.ID
		supplierName = supplier.Name
	}

	_, err := q.AddItem(req.ProductID, req.ProductName, req.Quantity,
		req.BasePrice, req.ImportCost, req.FreightCost, margin, currency,
		supplierID, supplierName)
	return err
}

func (s *Service) toDomainFilter(filter QuoteListFilter) shared.Filter {
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
	return domainFilter
}

func (s *Service) listCacheKey(filter QuoteListFilter, domainFilter shared.Filter) string {
	status := ""
	if filter.Status != nil {
		status = *filter.Status
	}
	clientID := ""
	if filter.ClientID != nil {
		clientID = filter.ClientID.String()
	}
	return fmt.Sprintf("quotes:list:p%d:s%d:st%s:c%s:q%s:o%s-%s",
		domainFilter.Page, domainFilter.PageSize, status, clientID,
		domainFilter.Search, domainFilter.OrderBy, domainFilter.OrderDir)
}

func (s *Service) invalidateListCache(ctx context.Context) {
	if s.listCache == nil {
		return
	}
	s.listCache.Invalidate(ctx)
}
