package payloads

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medistore/medistore-backend/pkg/enums"
)

// OrderPlacedEvent is emitted once per parent order after fan-out.
type OrderPlacedEvent struct {
	OrderID      uuid.UUID        `json:"orderId"`
	CustomerID   uuid.UUID        `json:"customerId"`
	SellerOrders []SellerOrderRef `json:"sellerOrders"`
	TotalAmount  decimal.Decimal  `json:"totalAmount"`
}

// SellerOrderRef points at one child order of a placement.
type SellerOrderRef struct {
	OrderID     uuid.UUID       `json:"orderId"`
	SellerID    uuid.UUID       `json:"sellerId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// OrderCancelledEvent is emitted when a customer or seller cancels.
type OrderCancelledEvent struct {
	OrderID       uuid.UUID   `json:"orderId"`
	CustomerID    uuid.UUID   `json:"customerId"`
	CancelledIDs  []uuid.UUID `json:"cancelledIds"`
	RestoredItems int         `json:"restoredItems"`
}

// OrderStatusChangedEvent is emitted when a seller advances a child order.
type OrderStatusChangedEvent struct {
	OrderID       uuid.UUID         `json:"orderId"`
	ParentOrderID uuid.UUID         `json:"parentOrderId"`
	SellerID      uuid.UUID         `json:"sellerId"`
	From          enums.OrderStatus `json:"from"`
	To            enums.OrderStatus `json:"to"`
	ParentStatus  enums.OrderStatus `json:"parentStatus"`
}

// UserStatusChangedEvent is emitted when an admin suspends or restores a user.
type UserStatusChangedEvent struct {
	UserID uuid.UUID        `json:"userId"`
	From   enums.UserStatus `json:"from"`
	To     enums.UserStatus `json:"to"`
}
