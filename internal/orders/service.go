package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/medistore/medistore-backend/pkg/db/models"
	"github.com/medistore/medistore-backend/pkg/enums"
	pkgerrors "github.com/medistore/medistore-backend/pkg/errors"
	"github.com/medistore/medistore-backend/pkg/logger"
	"github.com/medistore/medistore-backend/pkg/metrics"
	"github.com/medistore/medistore-backend/pkg/outbox"
	"github.com/medistore/medistore-backend/pkg/outbox/payloads"
	"github.com/medistore/medistore-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines the order workflows: fan-out placement, cancellation,
// seller status updates and the reads around them.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error)
	CancelOrder(ctx context.Context, input CancelOrderInput) (*models.Order, error)
	RecomputeParentStatus(ctx context.Context, parentID uuid.UUID) (enums.OrderStatus, error)
	UpdateSellerOrderStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error)
	ListCustomerOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*OrderList, error)
	GetCustomerOrder(ctx context.Context, orderID, customerID uuid.UUID) (*models.Order, error)
	ListSellerOrders(ctx context.Context, sellerID uuid.UUID, filters SellerOrderFilters, params pagination.Params) (*OrderList, error)
	ListParentOrders(ctx context.Context, filters ParentOrderFilters, params pagination.Params) (*OrderList, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	outbox  outboxPublisher
	metrics *metrics.OrderMetrics
	logg    *logger.Logger
}

// NewService builds the order service. metrics and logg may be nil.
func NewService(repo Repository, tx txRunner, outbox outboxPublisher, m *metrics.OrderMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		outbox:  outbox,
		metrics: m,
		logg:    logg,
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	items, err := mergeItems(input.Items)
	if err != nil {
		return nil, err
	}
	address := input.ShippingAddress.Normalize()
	if !address.IsComplete() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is incomplete")
	}

	var placed *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		ids := make([]uuid.UUID, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.MedicineID)
		}
		medicines, err := repo.FindMedicinesByIDs(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load medicines")
		}
		byID := make(map[uuid.UUID]models.Medicine, len(medicines))
		for _, m := range medicines {
			byID[m.ID] = m
		}

		groups, err := partitionBySeller(items, byID)
		if err != nil {
			return err
		}

		grandTotal := decimal.Zero
		for _, g := range groups {
			grandTotal = grandTotal.Add(g.subtotal)
		}

		parent := &models.Order{
			CustomerID:      input.CustomerID,
			TotalAmount:     grandTotal,
			ShippingAddress: address,
			Status:          enums.OrderStatusPlaced,
		}
		if err := repo.CreateOrder(ctx, parent); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create parent order")
		}

		refs := make([]payloads.SellerOrderRef, 0, len(groups))
		for _, g := range groups {
			sellerID := g.sellerID
			parentID := parent.ID
			child := &models.Order{
				CustomerID:      input.CustomerID,
				SellerID:        &sellerID,
				ParentOrderID:   &parentID,
				TotalAmount:     g.subtotal,
				ShippingAddress: address,
				Status:          enums.OrderStatusPlaced,
			}
			if err := repo.CreateOrder(ctx, child); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create seller order")
			}
			for i := range g.items {
				g.items[i].OrderID = child.ID
			}
			if err := repo.CreateOrderItems(ctx, g.items); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
			}
			refs = append(refs, payloads.SellerOrderRef{OrderID: child.ID, SellerID: sellerID, TotalAmount: g.subtotal})
		}

		for _, item := range items {
			ok, err := repo.DecrementStock(ctx, item.MedicineID, item.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve stock")
			}
			if !ok {
				return insufficientStock(byID[item.MedicineID], item.Quantity)
			}
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   parent.ID,
			Actor:         &outbox.ActorRef{UserID: input.CustomerID, Role: enums.UserRoleCustomer},
			Data: payloads.OrderPlacedEvent{
				OrderID:      parent.ID,
				CustomerID:   input.CustomerID,
				SellerOrders: refs,
				TotalAmount:  grandTotal,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit order placed")
		}

		detail, err := repo.FindOrderDetail(ctx, parent.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load placed order")
		}
		placed = detail
		return nil
	})
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeInsufficientStock) {
			s.metrics.StockRejected()
		}
		return nil, err
	}

	s.metrics.OrderPlaced(len(placed.Children))
	if s.logg != nil {
		logCtx := s.logg.WithOrderID(ctx, placed.ID.String())
		logCtx = s.logg.WithField(logCtx, "seller_orders", len(placed.Children))
		s.logg.Info(logCtx, "order placed")
	}
	return placed, nil
}

func (s *service) CancelOrder(ctx context.Context, input CancelOrderInput) (*models.Order, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var cancelled *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		parent, err := repo.FindOrderForUpdate(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotCancellable, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if parent.CustomerID != input.CustomerID {
			return pkgerrors.New(pkgerrors.CodeNotCancellable, "order not found")
		}
		if !parent.IsParent() {
			return pkgerrors.New(pkgerrors.CodeNotCancellable, "seller orders cannot be cancelled by the customer")
		}
		if parent.Status != enums.OrderStatusPlaced {
			return pkgerrors.New(pkgerrors.CodeNotCancellable, fmt.Sprintf("order cannot be cancelled in status %s", parent.Status)).
				WithDetails(map[string]any{"status": parent.Status})
		}

		children, err := repo.ListChildren(ctx, parent.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller orders")
		}
		for _, child := range children {
			if child.Status != enums.OrderStatusPlaced && child.Status != enums.OrderStatusCancelled {
				return pkgerrors.New(pkgerrors.CodeNotCancellable, "a seller has already started processing this order").
					WithDetails(map[string]any{"sellerOrderId": child.ID, "status": child.Status})
			}
		}

		cancelledIDs := make([]uuid.UUID, 0, len(children))
		restored := 0
		for _, child := range children {
			if child.Status == enums.OrderStatusCancelled {
				continue
			}
			if err := repo.UpdateStatus(ctx, child.ID, enums.OrderStatusCancelled); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel seller order")
			}
			for _, item := range child.Items {
				if err := repo.RestoreStock(ctx, item.MedicineID, item.Quantity); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore stock")
				}
				restored++
			}
			cancelledIDs = append(cancelledIDs, child.ID)
		}
		if err := repo.UpdateStatus(ctx, parent.ID, enums.OrderStatusCancelled); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderCancelled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   parent.ID,
			Actor:         &outbox.ActorRef{UserID: input.CustomerID, Role: enums.UserRoleCustomer},
			Data: payloads.OrderCancelledEvent{
				OrderID:       parent.ID,
				CustomerID:    parent.CustomerID,
				CancelledIDs:  cancelledIDs,
				RestoredItems: restored,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit order cancelled")
		}

		detail, err := repo.FindOrderDetail(ctx, parent.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cancelled order")
		}
		cancelled = detail
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrderCancelled()
	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, cancelled.ID.String()), "order cancelled")
	}
	return cancelled, nil
}

func (s *service) RecomputeParentStatus(ctx context.Context, parentID uuid.UUID) (enums.OrderStatus, error) {
	if parentID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	var status enums.OrderStatus
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		status, err = recomputeParent(ctx, s.repo.WithTx(tx), parentID)
		return err
	})
	return status, err
}

// recomputeParent writes the aggregated child status onto the parent and
// returns the parent's resulting status.
func recomputeParent(ctx context.Context, repo Repository, parentID uuid.UUID) (enums.OrderStatus, error) {
	parent, err := repo.FindOrderForUpdate(ctx, parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parent order")
	}
	statuses, err := repo.ListChildStatuses(ctx, parentID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load child statuses")
	}
	next, ok := AggregateStatus(statuses)
	if !ok || next == parent.Status {
		return parent.Status, nil
	}
	if err := repo.UpdateStatus(ctx, parentID, next); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update parent status")
	}
	return next, nil
}

func (s *service) UpdateSellerOrderStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error) {
	if input.SellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", input.Status))
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller order")
		}
		if order.SellerID == nil || order.ParentOrderID == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		if *order.SellerID != input.SellerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to seller")
		}

		// parent first, then the child, matching CancelOrder
		if _, err := repo.FindOrderForUpdate(ctx, *order.ParentOrderID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock parent order")
		}
		order, err = repo.FindOrderForUpdate(ctx, input.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock seller order")
		}

		from := order.Status
		if !from.CanTransitionTo(input.Status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot move order from %s to %s", from, input.Status)).
				WithDetails(map[string]any{"from": from, "to": input.Status})
		}
		if err := repo.UpdateStatus(ctx, order.ID, input.Status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update seller order status")
		}

		if input.Status == enums.OrderStatusCancelled {
			items, err := repo.FindOrderItems(ctx, order.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order items")
			}
			for _, item := range items {
				if err := repo.RestoreStock(ctx, item.MedicineID, item.Quantity); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore stock")
				}
			}
		}

		parentStatus, err := recomputeParent(ctx, repo, *order.ParentOrderID)
		if err != nil {
			return err
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: input.SellerID, Role: enums.UserRoleSeller},
			Data: payloads.OrderStatusChangedEvent{
				OrderID:       order.ID,
				ParentOrderID: *order.ParentOrderID,
				SellerID:      input.SellerID,
				From:          from,
				To:            input.Status,
				ParentStatus:  parentStatus,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit status change")
		}

		detail, err := repo.FindOrderDetail(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller order")
		}
		updated = detail
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.StatusChanged(string(input.Status))
	return updated, nil
}

func (s *service) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*OrderList, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return s.ListParentOrders(ctx, ParentOrderFilters{CustomerID: &customerID}, params)
}

func (s *service) GetCustomerOrder(ctx context.Context, orderID, customerID uuid.UUID) (*models.Order, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	order, err := s.repo.FindOrderDetail(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.CustomerID != customerID || !order.IsParent() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) ListSellerOrders(ctx context.Context, sellerID uuid.UUID, filters SellerOrderFilters, params pagination.Params) (*OrderList, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	normalized, err := params.Normalize(OrderSortable)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	rows, total, err := s.repo.ListSellerOrders(ctx, sellerID, filters, normalized)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller orders")
	}
	page := pagination.NewPage(rows, total, normalized)
	return &page, nil
}

func (s *service) ListParentOrders(ctx context.Context, filters ParentOrderFilters, params pagination.Params) (*OrderList, error) {
	normalized, err := params.Normalize(OrderSortable)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	rows, total, err := s.repo.ListParentOrders(ctx, filters, normalized)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	page := pagination.NewPage(rows, total, normalized)
	return &page, nil
}

// mergeItems validates the requested lines and folds duplicate medicines into
// one line, keeping first-seen order.
func mergeItems(items []OrderItemInput) ([]OrderItemInput, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	merged := make([]OrderItemInput, 0, len(items))
	index := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		if item.MedicineID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "medicineId is required for every item")
		}
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
				WithDetails(map[string]any{"medicineId": item.MedicineID, "quantity": item.Quantity})
		}
		if i, ok := index[item.MedicineID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.MedicineID] = len(merged)
		merged = append(merged, item)
	}
	return merged, nil
}

// partitionBySeller checks availability and groups lines per seller in the
// order sellers first appear. Prices are snapshotted from the catalog read.
func partitionBySeller(items []OrderItemInput, medicines map[uuid.UUID]models.Medicine) ([]*sellerGroup, error) {
	var groups []*sellerGroup
	bySeller := make(map[uuid.UUID]*sellerGroup)
	for _, item := range items {
		medicine, ok := medicines[item.MedicineID]
		if !ok || !medicine.IsActive() {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("medicine %s not found", item.MedicineID)).
				WithDetails(map[string]any{"medicineId": item.MedicineID})
		}
		if medicine.Stock < item.Quantity {
			return nil, insufficientStock(medicine, item.Quantity)
		}

		group, ok := bySeller[medicine.SellerID]
		if !ok {
			group = &sellerGroup{sellerID: medicine.SellerID, subtotal: decimal.Zero}
			bySeller[medicine.SellerID] = group
			groups = append(groups, group)
		}
		line := models.OrderItem{
			MedicineID: medicine.ID,
			Quantity:   item.Quantity,
			Price:      medicine.Price,
		}
		group.items = append(group.items, line)
		group.subtotal = group.subtotal.Add(line.LineTotal())
	}
	return groups, nil
}

func insufficientStock(medicine models.Medicine, requested int) *pkgerrors.Error {
	name := medicine.Name
	if name == "" {
		name = medicine.ID.String()
	}
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, fmt.Sprintf("insufficient stock for %s", name)).
		WithDetails(map[string]any{
			"medicineId": medicine.ID,
			"requested":  requested,
			"available":  medicine.Stock,
		})
}
