package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medistore/medistore-backend/pkg/db/models"
	"github.com/medistore/medistore-backend/pkg/enums"
	"github.com/medistore/medistore-backend/pkg/pagination"
	"github.com/medistore/medistore-backend/pkg/types"
)

// OrderItemInput is one cart line of a placement request.
type OrderItemInput struct {
	MedicineID uuid.UUID `json:"medicineId" validate:"required"`
	Quantity   int       `json:"quantity" validate:"required,min=1"`
}

// PlaceOrderRequest is the POST /orders body. TotalAmount is accepted for
// compatibility but ignored; totals are computed from catalog prices.
type PlaceOrderRequest struct {
	Items           []OrderItemInput      `json:"items" validate:"required,min=1,dive"`
	ShippingAddress types.ShippingAddress `json:"shippingAddress"`
	TotalAmount     *decimal.Decimal      `json:"totalAmount,omitempty"`
}

// PlaceOrderInput carries a validated placement for the service.
type PlaceOrderInput struct {
	CustomerID      uuid.UUID
	Items           []OrderItemInput
	ShippingAddress types.ShippingAddress
}

// CancelOrderInput identifies the parent order a customer wants cancelled.
type CancelOrderInput struct {
	OrderID    uuid.UUID
	CustomerID uuid.UUID
}

// UpdateStatusRequest is the PATCH /seller/orders/{id}/status body.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatusInput moves a seller order to Status.
type UpdateStatusInput struct {
	OrderID  uuid.UUID
	SellerID uuid.UUID
	Status   enums.OrderStatus
}

// ParentOrderFilters narrows parent order listings.
type ParentOrderFilters struct {
	CustomerID *uuid.UUID
	Status     *enums.OrderStatus
}

// SellerOrderFilters narrows seller order listings.
type SellerOrderFilters struct {
	Status *enums.OrderStatus
}

// OrderList is one page of orders.
type OrderList = pagination.Page[models.Order]

// OrderSortable whitelists the sort keys accepted by order listings.
var OrderSortable = pagination.Sortable{
	Columns: map[string]string{
		"created_at":  "created_at",
		"createdAt":   "created_at",
		"updated_at":  "updated_at",
		"updatedAt":   "updated_at",
		"totalAmount": "total_amount",
		"status":      "status",
	},
	Default: "created_at",
}

// sellerGroup collects the lines of one seller during fan-out.
type sellerGroup struct {
	sellerID uuid.UUID
	items    []models.OrderItem
	subtotal decimal.Decimal
}
