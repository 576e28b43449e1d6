package trade

import (
	"context"

	"github.com/erp-mx/backend/internal/domain/notification"
	"github.com/erp-mx/backend/internal/domain/quote"
	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/erp-mx/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockSalesOrderRepository is a mock implementation of trade.SalesOrderRepository
type MockSalesOrderRepository struct {
	mock.Mock
}

func (m *MockSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.SalesOrder, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) FindByQuoteID(ctx context.Context, quoteID uuid.UUID) (*trade.SalesOrder, error) {
	args := m.Called(ctx, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*trade.SalesOrder], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*trade.SalesOrder]), args.Error(1)
}

func (m *MockSalesOrderRepository) FindByStatus(ctx context.Context, status trade.OrderStatus, filter shared.Filter) (shared.Paginated[*trade.SalesOrder], error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).(shared.Paginated[*trade.SalesOrder]), args.Error(1)
}

func (m *MockSalesOrderRepository) Save(ctx context.Context, o *trade.SalesOrder) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockSalesOrderRepository) SaveWithLock(ctx context.Context, o *trade.SalesOrder, expectedVersion int) error {
	args := m.Called(ctx, o, expectedVersion)
	return args.Error(0)
}

func (m *MockSalesOrderRepository) ClaimForApproval(ctx context.Context, id uuid.UUID, approver uuid.UUID) (bool, error) {
	args := m.Called(ctx, id, approver)
	return args.Bool(0), args.Error(1)
}

func (m *MockSalesOrderRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSalesOrderRepository) CountByStatus(ctx context.Context, status trade.OrderStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSalesOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockPurchaseOrderRepository is a mock implementation of trade.PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByPONumber(ctx context.Context, poNumber string) (*trade.PurchaseOrder, error) {
	args := m.Called(ctx, poNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByParentOrder(ctx context.Context, parentOrderID uuid.UUID) ([]*trade.PurchaseOrder, error) {
	args := m.Called(ctx, parentOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*trade.PurchaseOrder], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*trade.PurchaseOrder]), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByStatus(ctx context.Context, status trade.POStatus, filter shared.Filter) (shared.Paginated[*trade.PurchaseOrder], error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).(shared.Paginated[*trade.PurchaseOrder]), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, po *trade.PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) SaveWithLock(ctx context.Context, po *trade.PurchaseOrder, expectedVersion int) error {
	args := m.Called(ctx, po, expectedVersion)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) SupplierIDsWithPO(ctx context.Context, parentOrderID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, parentOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockPurchaseOrderRepository) GeneratePONumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

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

// MockNotificationRepository is a mock implementation of notification.Repository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindForUser(ctx context.Context, userID uuid.UUID, roles []notification.Role, filter shared.Filter) (shared.Paginated[*notification.Notification], error) {
	args := m.Called(ctx, userID, roles, filter)
	return args.Get(0).(shared.Paginated[*notification.Notification]), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID, roles []notification.Role) (int64, error) {
	args := m.Called(ctx, userID, roles)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// fakeScope runs the transactional function against the plain repositories.
type fakeScope struct {
	repos TxRepos
	err   error
}

func (f *fakeScope) WithinTransaction(_ context.Context, fn func(repos TxRepos) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(f.repos)
}
