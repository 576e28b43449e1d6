package quote

import (
	"context"
	"testing"

	"github.com/erp-mx/backend/internal/domain/partner"
	"github.com/erp-mx/backend/internal/domain/quote"
	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/erp-mx/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockQuoteRepository is a mock implementation of quote.Repository
type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*quote.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindByFolio(ctx context.Context, folio string) (*quote.Quote, error) {
	args := m.Called(ctx, folio)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*quote.Quote], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*quote.Quote]), args.Error(1)
}

func (m *MockQuoteRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) (shared.Paginated[*quote.Quote], error) {
	args := m.Called(ctx, clientID, filter)
	return args.Get(0).(shared.Paginated[*quote.Quote]), args.Error(1)
}

func (m *MockQuoteRepository) FindByStatus(ctx context.Context, status quote.Status, filter shared.Filter) (shared.Paginated[*quote.Quote], error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).(shared.Paginated[*quote.Quote]), args.Error(1)
}

func (m *MockQuoteRepository) Save(ctx context.Context, q *quote.Quote) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuoteRepository) SaveWithLock(ctx context.Context, q *quote.Quote, expectedVersion int) error {
	args := m.Called(ctx, q, expectedVersion)
	return args.Error(0)
}

func (m *MockQuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuoteRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuoteRepository) CountByStatus(ctx context.Context, status quote.Status) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuoteRepository) GenerateFolio(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockClientRepository is a mock implementation of partner.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*partner.Client], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*partner.Client]), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, c *partner.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSupplierRepository is a mock implementation of partner.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*partner.Supplier], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*partner.Supplier]), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, s *partner.Supplier) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// memoryListCache is an in-memory ListCache for tests
type memoryListCache struct {
	pages map[string]shared.Paginated[QuoteListItemResponse]
	hits  int
}

func newMemoryListCache() *memoryListCache {
	return &memoryListCache{pages: make(map[string]shared.Paginated[QuoteListItemResponse])}
}

func (c *memoryListCache) Get(_ context.Context, key string) (shared.Paginated[QuoteListItemResponse], bool) {
	page, ok := c.pages[key]
	if ok {
		c.hits++
	}
	return page, ok
}

func (c *memoryListCache) Set(_ context.Context, key string, page shared.Paginated[QuoteListItemResponse]) {
	c.pages[key] = page
}

func (c *memoryListCache) Invalidate(_ context.Context) {
	c.pages = make(map[string]shared.Paginated[QuoteListItemResponse])
}

func testDefaults() Defaults {
	return Defaults{
		Margin:        decimal.NewFromFloat(0.30),
		MinimumMargin: decimal.NewFromFloat(0.15),
		TaxRate:       decimal.NewFromFloat(0.16),
		ExchangeRate:  decimal.NewFromFloat(18.20),
		Currency:      valueobject.MXN,
	}
}

type quoteFixture struct {
	quoteRepo    *MockQuoteRepository
	clientRepo   *MockClientRepository
	supplierRepo *MockSupplierRepository
	service      *Service
}

func newQuoteFixture() *quoteFixture {
	f := &quoteFixture{
		quoteRepo:    new(MockQuoteRepository),
		clientRepo:   new(MockClientRepository),
		supplierRepo: new(MockSupplierRepository),
	}
	f.service = NewService(f.quoteRepo, f.clientRepo, f.supplierRepo, testDefaults(), nil)
	return f
}

func completeClient(t *testing.T) *partner.Client {
	t.Helper()
	c, err := partner.NewClient("ACME SA de CV")
	require.NoError(t, err)
	c.SetFiscalProfile("ACME Sociedad Anonima de CV", "AAA010101AAA")
	c.SetContact("compras@acme.mx", "5555555555", "CDMX")
	return c
}

func draftQuote(t *testing.T, f *quoteFixture, client *partner.Client, supplier *partner.Supplier, margin float64) *quote.Quote {
	t.Helper()
	q, err := quote.NewQuote("COT-2026-00001", uuid.New(), decimal.NewFromFloat(0.16), valueobject.MXN, decimal.NewFromFloat(18.20))
	require.NoError(t, err)
	require.NoError(t, q.SetClient(client.ID, client.Name))
	supplierID := uuid.Nil
	supplierName := ""
	if supplier != nil {
		supplierID = supplier.ID
		supplierName = supplier.Name
	}
	_, err = q.AddItem(uuid.New(), "Widget", 2, decimal.NewFromInt(100), decimal.Zero, decimal.Zero, decimal.NewFromFloat(margin), valueobject.MXN, supplierID, supplierName)
	require.NoError(t, err)
	return q
}

func TestCreateDraft(t *testing.T) {
	ctx := context.Background()

	t.Run("applies business defaults to unset parameters", func(t *testing.T) {
		f := newQuoteFixture()
		supplier, err := partner.NewSupplier("Proveedor Norte")
		require.NoError(t, err)

		f.quoteRepo.On("GenerateFolio", ctx).Return("COT-2026-00001", nil)
		f.supplierRepo.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
		f.quoteRepo.On("Save", ctx, mock.AnythingOfType("*quote.Quote")).Return(nil)

		resp, err := f.service.CreateDraft(ctx, CreateQuoteRequest{
			Items: []CreateQuoteItemRequest{{
				ProductID:   uuid.New(),
				ProductName: "Widget",
				Quantity:    2,
				BasePrice:   decimal.NewFromInt(100),
				SupplierID:  &supplier.ID,
			}},
		}, uuid.New())
		require.NoError(t, err)

		assert.Equal(t, "COT-2026-00001", resp.Folio)
		assert.Equal(t, quote.StatusDraft.String(), resp.Status)
		require.Len(t, resp.Items, 1)
		assert.True(t, resp.Items[0].Margin.Equal(decimal.NewFromFloat(0.30)))
		assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.NewFromInt(130)))
		assert.True(t, resp.Financials.TaxRate.Equal(decimal.NewFromFloat(0.16)))
		assert.Equal(t, "MXN", resp.Financials.Currency)
		assert.Equal(t, supplier.Name, resp.Items[0].SupplierName)
	})

	t.Run("snapshots the client name", func(t *testing.T) {
		f := newQuoteFixture()
		client := completeClient(t)

		f.quoteRepo.On("GenerateFolio", ctx).Return("COT-2026-00002", nil)
		f.clientRepo.On("FindByID", ctx, client.ID).Return(client, nil)
		f.quoteRepo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := f.service.CreateDraft(ctx, CreateQuoteRequest{ClientID: &client.ID}, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, client.Name, resp.ClientName)
	})
}

func TestFinalizeWarnings(t *testing.T) {
	ctx := context.Background()

	t.Run("clean quote finalizes with no warnings", func(t *testing.T) {
		f := newQuoteFixture()
		client := completeClient(t)
		supplier, err := partner.NewSupplier("Proveedor Norte")
		require.NoError(t, err)
		q := draftQuote(t, f, client, supplier, 0.30)

		f.quoteRepo.On("FindByID", ctx, q.ID).Return(q, nil)
		f.clientRepo.On("FindByID", ctx, client.ID).Return(client, nil)
		f.quoteRepo.On("SaveWithLock", ctx, q, mock.Anything).Return(nil)

		resp, err := f.service.Finalize(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, quote.StatusFinalized.String(), resp.Quote.Status)
		assert.Empty(t, resp.Warnings)
	})

	t.Run("incomplete client profile warns but does not block", func(t *testing.T) {
		f := newQuoteFixture()
		client, err := partner.NewClient("ACME SA de CV")
		require.NoError(t, err)
		supplier, err := partner.NewSupplier("Proveedor Norte")
		require.NoError(t, err)
		q := draftQuote(t, f, client, supplier, 0.30)

		f.quoteRepo.On("FindByID", ctx, q.ID).Return(q, nil)
		f.clientRepo.On("FindByID", ctx, client.ID).Return(client, nil)
		f.quoteRepo.On("SaveWithLock", ctx, q, mock.Anything).Return(nil)

		resp, err := f.service.Finalize(ctx, q.ID)
		require.NoError(t, err)

		assert.Equal(t, quote.StatusFinalized.String(), resp.Quote.Status)
		require.Len(t, resp.Warnings, 1)
		assert.Equal(t, shared.WarningCodeIncompleteClient, resp.Warnings[0].Code)
	})

	t.Run("low margin and unknown supplier are both reported", func(t *testing.T) {
		f := newQuoteFixture()
		client := completeClient(t)
		q := draftQuote(t, f, client, nil, 0.10)

		f.quoteRepo.On("FindByID", ctx, q.ID).Return(q, nil)
		f.clientRepo.On("FindByID", ctx, client.ID).Return(client, nil)
		f.quoteRepo.On("SaveWithLock", ctx, q, mock.Anything).Return(nil)

		resp, err := f.service.Finalize(ctx, q.ID)
		require.NoError(t, err)

		codes := make([]string, 0, len(resp.Warnings))
		for _, w := range resp.Warnings {
			codes = append(codes, w.Code)
		}
		assert.ElementsMatch(t, []string{shared.WarningCodeLowMargin, shared.WarningCodeUnknownSupplier}, codes)
	})
}

func TestAcceptAndCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts a finalized quote", func(t *testing.T) {
		f := newQuoteFixture()
		client := completeClient(t)
		supplier, err := partner.NewSupplier("Proveedor Norte")
		require.NoError(t, err)
		q := draftQuote(t, f, client, supplier, 0.30)
		require.NoError(t, q.Finalize())

		f.quoteRepo.On("FindByID", ctx, q.ID).Return(q, nil)
		f.clientRepo.On("FindByID", ctx, client.ID).Return(client, nil)
		f.quoteRepo.On("SaveWithLock", ctx, q, mock.Anything).Return(nil)

		resp, err := f.service.Accept(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, quote.StatusAccepted.String(), resp.Quote.Status)
		assert.Empty(t, resp.Warnings)
	})

	t.Run("incomplete client profile warns at accept as well", func(t *testing.T) {
		f := newQuoteFixture()
		client, err := partner.NewClient("ACME SA de CV")
		require.NoError(t, err)
		supplier, err := partner.NewSupplier("Proveedor Norte")
		require.NoError(t, err)
		q := draftQuote(t, f, client, supplier, 0.30)
		require.NoError(t, q.Finalize())

		f.quoteRepo.On("FindByID", ctx, q.ID).Return(q, nil)
		f.clientRepo.On("FindByID", ctx, client.ID).Return(client, nil)
		f.quoteRepo.On("SaveWithLock", ctx, q, mock.Anything).Return(nil)

		resp, err := f.service.Accept(ctx, q.ID)
		require.NoError(t, err)

		assert.Equal(t, quote.StatusAccepted.String(), resp.Quote.Status)
		require.Len(t, resp.Warnings, 1)
		assert.Equal(t, shared.WarningCodeIncompleteClient, resp.Warnings[0].Code)
	})

	t.Run("cannot cancel after acceptance", func(t *testing.T) {
		f := newQuoteFixture()
		client := completeClient(t)
		supplier, err := partner.NewSupplier("Proveedor Norte")
		require.NoError(t, err)
		q := draftQuote(t, f, client, supplier, 0.30)
		require.NoError(t, q.Finalize())
		require.NoError(t, q.Accept())

		f.quoteRepo.On("FindByID", ctx, q.ID).Return(q, nil)

		_, err = f.service.Cancel(ctx, q.ID)
		require.Error(t, err)
	})
}

func TestListCache(t *testing.T) {
	ctx := context.Background()

	t.Run("second read is served from cache", func(t *testing.T) {
		f := newQuoteFixture()
		cache := newMemoryListCache()
		f.service.SetListCache(cache)

		client := completeClient(t)
		supplier, err := partner.NewSupplier("Proveedor Norte")
		require.NoError(t, err)
		q := draftQuote(t, f, client, supplier, 0.30)

		f.quoteRepo.On("FindAll", ctx, mock.Anything).
			Return(shared.NewPaginated([]*quote.Quote{q}, 1, 1, 20), nil).Once()

		first, err := f.service.List(ctx, QuoteListFilter{})
		require.NoError(t, err)
		require.Len(t, first.Items, 1)

		second, err := f.service.List(ctx, QuoteListFilter{})
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, cache.hits)
		f.quoteRepo.AssertExpectations(t)
	})

	t.Run("writes invalidate the cache", func(t *testing.T) {
		f := newQuoteFixture()
		cache := newMemoryListCache()
		f.service.SetListCache(cache)

		client := completeClient(t)
		supplier, err := partner.NewSupplier("Proveedor Norte")
		require.NoError(t, err)
		q := draftQuote(t, f, client, supplier, 0.30)

		f.quoteRepo.On("FindAll", ctx, mock.Anything).
			Return(shared.NewPaginated([]*quote.Quote{q}, 1, 1, 20), nil).Twice()
		f.quoteRepo.On("FindByID", ctx, q.ID).Return(q, nil)
		f.quoteRepo.On("SaveWithLock", ctx, q, mock.Anything).Return(nil)

		_, err = f.service.List(ctx, QuoteListFilter{})
		require.NoError(t, err)

		notes := "updated"
		_, err = f.service.Update(ctx, q.ID, UpdateQuoteRequest{Notes: &notes})
		require.NoError(t, err)

		_, err = f.service.List(ctx, QuoteListFilter{})
		require.NoError(t, err)
		f.quoteRepo.AssertExpectations(t)
	})
}
