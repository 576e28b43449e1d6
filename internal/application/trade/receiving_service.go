package trade

import (
	"context"
	"fmt"

	"github.com/erp-mx/backend/internal/domain/notification"
	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/erp-mx/backend/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReceivingService tracks purchase orders from sent to received and, when
// asked, completes the parent sales order once everything has arrived
type ReceivingService struct {
	poRepo    trade.PurchaseOrderRepository
	orderRepo trade.SalesOrderRepository
	notifRepo notification.Repository
	logger    *zap.Logger
}

// NewReceivingService creates a new ReceivingService
func NewReceivingService(poRepo trade.PurchaseOrderRepository, orderRepo trade.SalesOrderRepository, notifRepo notification.Repository, logger *zap.Logger) *ReceivingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceivingService{
		poRepo:    poRepo,
		orderRepo: orderRepo,
		notifRepo: notifRepo,
		logger:    logger,
	}
}

// MarkSent marks a purchase order as sent to its supplier. When every
// purchase order of the parent is out, the parent moves to PO_SENT.
func (s *ReceivingService) MarkSent(ctx context.Context, poID uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByID(ctx, poID)
	if err != nil {
		return nil, err
	}

	if err := po.MarkSent(); err != nil {
		return nil, err
	}
	if err := s.poRepo.SaveWithLock(ctx, po, po.GetVersion()); err != nil {
		return nil, err
	}

	siblings, err := s.poRepo.FindByParentOrder(ctx, po.ParentOrderID)
	if err != nil {
		return nil, err
	}
	allSent := true
	for _, sibling := range siblings {
		if sibling.Status == trade.POStatusCreated {
			allSent = false
			break
		}
	}
	if allSent {
		if err := s.advanceParent(ctx, po.ParentOrderID, trade.OrderStatusPOSent); err != nil {
			return nil, err
		}
	}

	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// MarkReceived marks a purchase order as received. Repeats are no-ops: the
// first receiver and time stand, and no second notification goes out. Every
// first-time receipt notifies the parent order's sales owner. The response
// reports whether all siblings are in; advancing the parent order is left
// to an explicit completion call, never done here.
func (s *ReceivingService) MarkReceived(ctx context.Context, poID, receiver uuid.UUID) (*ReceiveResponse, error) {
	po, err := s.poRepo.FindByID(ctx, poID)
	if err != nil {
		return nil, err
	}

	changed, err := po.MarkReceived(receiver)
	if err != nil {
		return nil, err
	}
	if !changed {
		return &ReceiveResponse{
			PurchaseOrder:   ToPurchaseOrderResponse(po),
			AlreadyReceived: true,
		}, nil
	}

	if err := s.poRepo.SaveWithLock(ctx, po, po.GetVersion()); err != nil {
		return nil, err
	}

	siblings, err := s.poRepo.FindByParentOrder(ctx, po.ParentOrderID)
	if err != nil {
		return nil, err
	}
	allReceived := true
	for _, sibling := range siblings {
		if sibling.ID == po.ID {
			continue
		}
		if !sibling.IsReceived() {
			allReceived = false
			break
		}
	}

	// The receipt is already durable; a failed recipient lookup must not
	// undo it, so the notification is skipped with a log line instead.
	if order, err := s.orderRepo.FindByID(ctx, po.ParentOrderID); err != nil {
		s.logger.Error("resolve parent order for receipt notification",
			zap.String("po_number", po.PONumber), zap.Error(err))
	} else if recipient := order.NotificationRecipient(); recipient != nil {
		title := "Goods received"
		message := fmt.Sprintf("Purchase order %s from %s has been received", po.PONumber, po.SupplierName)
		if allReceived {
			title = "All goods received"
			message = fmt.Sprintf("Every purchase order of %s has been received", order.OrderNumber)
		}
		s.notifyUser(ctx, *recipient, title, message, "/orders/"+order.ID.String())
	}

	return &ReceiveResponse{
		PurchaseOrder: ToPurchaseOrderResponse(po),
		AllReceived:   allReceived,
	}, nil
}

// AttachDocument records a link to the supplier's confirmation document.
// A document landing on a PO_CREATED purchase order moves it to PO_SENT.
func (s *ReceivingService) AttachDocument(ctx context.Context, poID uuid.UUID, req AttachDocumentRequest) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByID(ctx, poID)
	if err != nil {
		return nil, err
	}

	if err := po.AttachProviderDocument(req.URL); err != nil {
		return nil, err
	}
	if err := s.poRepo.SaveWithLock(ctx, po, po.GetVersion()); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// SetEstimatedDelivery records the supplier's promised delivery date and
// tells the warehouse to plan for it
func (s *ReceivingService) SetEstimatedDelivery(ctx context.Context, poID uuid.UUID, req SetEstimatedDeliveryRequest) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByID(ctx, poID)
	if err != nil {
		return nil, err
	}

	po.SetEstimatedDelivery(req.EstimatedDelivery)
	if err := s.poRepo.SaveWithLock(ctx, po, po.GetVersion()); err != nil {
		return nil, err
	}

	s.notifyRole(ctx, notification.RoleWarehouse,
		"Delivery date updated",
		fmt.Sprintf("Purchase order %s from %s is expected on %s", po.PONumber, po.SupplierName, req.EstimatedDelivery.Format("2006-01-02")),
		"/purchase-orders/"+po.ID.String())

	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *ReceivingService) GetByID(ctx context.Context, id uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *ReceivingService) List(ctx context.Context, filter POListFilter) ([]PurchaseOrderResponse, int64, error) {
	if filter.ParentID != nil {
		pos, err := s.poRepo.FindByParentOrder(ctx, *filter.ParentID)
		if err != nil {
			return nil, 0, err
		}
		return ToPurchaseOrderResponses(pos), int64(len(pos)), nil
	}

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

	var (
		result shared.Paginated[*trade.PurchaseOrder]
		err    error
	)
	if filter.Status != nil {
		result, err = s.poRepo.FindByStatus(ctx, trade.POStatus(*filter.Status), domainFilter)
	} else {
		result, err = s.poRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}
	return ToPurchaseOrderResponses(result.Items), result.Total, nil
}

// AllPurchaseOrdersReceived reports whether every purchase order of the
// given sales order has arrived. An order with no purchase orders at all
// never counts as received.
func (s *ReceivingService) AllPurchaseOrdersReceived(ctx context.Context, orderID uuid.UUID) (bool, error) {
	pos, err := s.poRepo.FindByParentOrder(ctx, orderID)
	if err != nil {
		return false, err
	}
	if len(pos) == 0 {
		return false, nil
	}
	for _, po := range pos {
		if !po.IsReceived() {
			return false, nil
		}
	}
	return true, nil
}

// Complete moves a fully received order to COMPLETED. The sibling check
// runs here, at the caller's request; receiving the last purchase order
// only reports completion and never advances the parent on its own.
func (s *ReceivingService) Complete(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != trade.OrderStatusGoodsReceived {
		allReceived, err := s.AllPurchaseOrdersReceived(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if !allReceived {
			return nil, shared.NewDomainError("INVALID_STATE",
				fmt.Sprintf("Cannot complete order %s before every purchase order is received", order.OrderNumber))
		}
		// An order whose POs were never formally marked sent still has to
		// pass through PO_SENT; the goods arriving proves they went out.
		if order.Status == trade.OrderStatusApproved {
			if err := order.MarkPOSent(); err != nil {
				return nil, err
			}
		}
		if err := order.MarkGoodsReceived(); err != nil {
			return nil, err
		}
	}

	if err := order.Complete(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order, order.GetVersion()); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

func (s *ReceivingService) advanceParent(ctx context.Context, orderID uuid.UUID, target trade.OrderStatus) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.Status.CanTransitionTo(target) {
		// Already advanced, e.g. by an override. Not an error.
		return nil
	}
	if target == trade.OrderStatusPOSent {
		if err := order.MarkPOSent(); err != nil {
			return err
		}
	}
	return s.orderRepo.SaveWithLock(ctx, order, order.GetVersion())
}

// notifyUser inserts a user-targeted notification. Failures are logged and
// swallowed.
func (s *ReceivingService) notifyUser(ctx context.Context, userID uuid.UUID, title, message, link string) {
	n, err := notification.NewUserNotification(userID, title, message, link)
	if err != nil {
		s.logger.Error("build notification", zap.Error(err))
		return
	}
	if err := s.notifRepo.Save(ctx, n); err != nil {
		s.logger.Error("save notification", zap.String("title", title), zap.Error(err))
	}
}

// notifyRole inserts a role-targeted notification. Failures are logged and
// swallowed.
func (s *ReceivingService) notifyRole(ctx context.Context, role notification.Role, title, message, link string) {
	n, err := notification.NewRoleNotification(role, title, message, link)
	if err != nil {
		s.logger.Error("build notification", zap.Error(err))
		return
	}
	if err := s.notifRepo.Save(ctx, n); err != nil {
		s.logger.Error("save notification", zap.String("title", title), zap.Error(err))
	}
}
