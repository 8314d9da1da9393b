package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medistore/medistore-backend/pkg/db/models"
	"github.com/medistore/medistore-backend/pkg/enums"
	"github.com/medistore/medistore-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and the stock they
// reserve.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindMedicinesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Medicine, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	DecrementStock(ctx context.Context, medicineID uuid.UUID, qty int) (bool, error)
	RestoreStock(ctx context.Context, medicineID uuid.UUID, qty int) error
	FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindOrderForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindOrderDetail(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]models.Order, error)
	ListChildStatuses(ctx context.Context, parentID uuid.UUID) ([]enums.OrderStatus, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	ListParentOrders(ctx context.Context, filters ParentOrderFilters, params pagination.Params) ([]models.Order, int64, error)
	ListSellerOrders(ctx context.Context, sellerID uuid.UUID, filters SellerOrderFilters, params pagination.Params) ([]models.Order, int64, error)
}
