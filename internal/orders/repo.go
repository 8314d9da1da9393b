package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/medistore/medistore-backend/pkg/db/models"
	"github.com/medistore/medistore-backend/pkg/enums"
	"github.com/medistore/medistore-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindMedicinesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Medicine, error) {
	var rows []models.Medicine
	if len(ids) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&items).Error
}

// DecrementStock reserves qty units with a single conditional update. It
// reports false when the row no longer holds enough stock.
func (r *repository) DecrementStock(ctx context.Context, medicineID uuid.UUID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Medicine{}).
		Where("id = ? AND stock >= ?", medicineID, qty).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", qty),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) RestoreStock(ctx context.Context, medicineID uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.Medicine{}).
		Where("id = ?", medicineID).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", qty),
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *repository) FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindOrderForUpdate takes a row lock. Parents are always locked before their
// children so cancellation and seller updates cannot deadlock.
func (r *repository) FindOrderForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindOrderDetail(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Medicine").
		Preload("Children", orderByCreated).
		Preload("Children.Items.Medicine").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) ListChildren(ctx context.Context, parentID uuid.UUID) ([]models.Order, error) {
	var children []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("parent_order_id = ?", parentID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&children).Error
	return children, err
}

func (r *repository) ListChildStatuses(ctx context.Context, parentID uuid.UUID) ([]enums.OrderStatus, error) {
	var statuses []enums.OrderStatus
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("parent_order_id = ?", parentID).
		Pluck("status", &statuses).Error
	return statuses, err
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *repository) ListParentOrders(ctx context.Context, filters ParentOrderFilters, params pagination.Params) ([]models.Order, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&models.Order{}).Where("parent_order_id IS NULL")
		if filters.CustomerID != nil {
			db = db.Where("customer_id = ?", *filters.CustomerID)
		}
		if filters.Status != nil {
			db = db.Where("status = ?", *filters.Status)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Children", orderByCreated).
		Preload("Children.Items.Medicine").
		Order(params.OrderClause(OrderSortable)).
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *repository) ListSellerOrders(ctx context.Context, sellerID uuid.UUID, filters SellerOrderFilters, params pagination.Params) ([]models.Order, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&models.Order{}).Where("seller_id = ?", sellerID)
		if filters.Status != nil {
			db = db.Where("status = ?", *filters.Status)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Items.Medicine").
		Order(params.OrderClause(OrderSortable)).
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).Error
	return rows, total, err
}

func orderByCreated(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}
