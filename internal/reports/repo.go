package reports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/medistore/medistore-backend/pkg/db/models"
	"github.com/medistore/medistore-backend/pkg/enums"
)

// OrderScope selects parent orders when SellerID is nil, otherwise the seller
// orders of that seller.
type OrderScope struct {
	SellerID *uuid.UUID
}

func (s OrderScope) apply(db *gorm.DB) *gorm.DB {
	if s.SellerID == nil {
		return db.Where("orders.parent_order_id IS NULL")
	}
	return db.Where("orders.seller_id = ?", *s.SellerID)
}

// Repository runs the aggregate queries behind the dashboards.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CountUsers(ctx context.Context, role *enums.UserRole) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if role != nil {
		q = q.Where("role = ?", *role)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *Repository) CountMedicines(ctx context.Context, sellerID *uuid.UUID, status *enums.MedicineStatus) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Medicine{})
	if sellerID != nil {
		q = q.Where("seller_id = ?", *sellerID)
	}
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// MedicineCounts returns the number of medicines per seller.
func (r *Repository) MedicineCounts(ctx context.Context, sellerIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	return r.groupCount(ctx, &models.Medicine{}, "seller_id", sellerIDs)
}

// SellerOrderCounts returns the number of seller orders per seller.
func (r *Repository) SellerOrderCounts(ctx context.Context, sellerIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	return r.groupCount(ctx, &models.Order{}, "seller_id", sellerIDs)
}

func (r *Repository) groupCount(ctx context.Context, model any, column string, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		Key   uuid.UUID `gorm:"column:k"`
		Count int64     `gorm:"column:cnt"`
	}
	err := r.db.WithContext(ctx).
		Model(model).
		Select(column+" AS k, COUNT(*) AS cnt").
		Where(column+" IN ?", ids).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.Key] = row.Count
	}
	return out, nil
}

func (r *Repository) CountOrders(ctx context.Context, scope OrderScope, status *enums.OrderStatus) (int64, error) {
	q := scope.apply(r.db.WithContext(ctx).Model(&models.Order{}))
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *Repository) CountReviews(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).Count(&n).Error
	return n, err
}

// Revenue sums the totals of non-cancelled orders in scope.
func (r *Repository) Revenue(ctx context.Context, scope OrderScope) (decimal.Decimal, error) {
	var out struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	err := scope.apply(r.db.WithContext(ctx).Model(&models.Order{})).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Where("status <> ?", enums.OrderStatusCancelled).
		Scan(&out).Error
	return out.Total, err
}

func (r *Repository) RecentOrders(ctx context.Context, scope OrderScope, limit int) ([]models.Order, error) {
	q := scope.apply(r.db.WithContext(ctx).Model(&models.Order{})).Preload("Customer")
	if scope.SellerID == nil {
		q = q.Preload("Children.Items.Medicine")
	} else {
		q = q.Preload("Items.Medicine")
	}
	var rows []models.Order
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

// TopSelling ranks medicines by quantity sold across non-cancelled seller
// orders, optionally restricted to one seller.
func (r *Repository) TopSelling(ctx context.Context, sellerID *uuid.UUID, limit int) ([]TopSellingMedicine, error) {
	q := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.medicine_id AS id, medicines.name AS name, "+
			"SUM(order_items.quantity) AS total_sold, "+
			"SUM(order_items.price * order_items.quantity) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN medicines ON medicines.id = order_items.medicine_id").
		Where("orders.status <> ?", enums.OrderStatusCancelled)
	if sellerID != nil {
		q = q.Where("orders.seller_id = ?", *sellerID)
	}
	var rows []TopSellingMedicine
	err := q.Group("order_items.medicine_id, medicines.name").
		Order("total_sold DESC, name ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
