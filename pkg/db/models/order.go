package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/medistore/medistore-backend/pkg/enums"
	"github.com/medistore/medistore-backend/pkg/types"
)

// Order is either a parent (customer-facing, no seller, no parent) or a
// seller order (SellerID and ParentOrderID set) produced by the fan-out.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CustomerID      uuid.UUID             `gorm:"column:customer_id;type:uuid;not null;index" json:"customerId"`
	SellerID        *uuid.UUID            `gorm:"column:seller_id;type:uuid;index" json:"sellerId,omitempty"`
	ParentOrderID   *uuid.UUID            `gorm:"column:parent_order_id;type:uuid;index" json:"parentOrderId,omitempty"`
	TotalAmount     decimal.Decimal       `gorm:"column:total_amount;type:numeric(12,2);not null" json:"totalAmount"`
	ShippingAddress types.ShippingAddress `gorm:"embedded" json:"shippingAddress"`
	Status          enums.OrderStatus     `gorm:"column:status;type:text;not null;default:'PLACED'" json:"status"`
	Children        []Order               `gorm:"foreignKey:ParentOrderID" json:"sellerOrders,omitempty"`
	Items           []OrderItem           `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Customer        *User                 `gorm:"foreignKey:CustomerID" json:"-"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

// IsParent reports whether the order is a customer-facing parent order.
func (o Order) IsParent() bool {
	return o.ParentOrderID == nil && o.SellerID == nil
}

// ChildStatuses returns the statuses of the loaded child orders.
func (o Order) ChildStatuses() []enums.OrderStatus {
	statuses := make([]enums.OrderStatus, 0, len(o.Children))
	for _, child := range o.Children {
		statuses = append(statuses, child.Status)
	}
	return statuses
}
