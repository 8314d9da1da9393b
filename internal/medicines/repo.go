package medicines

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medistore/medistore-backend/pkg/db/models"
	"github.com/medistore/medistore-backend/pkg/enums"
	"github.com/medistore/medistore-backend/pkg/pagination"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActive returns one page of the public catalog.
func (r *Repository) ListActive(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Medicine, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&models.Medicine{}).Where("status = ?", enums.MedicineStatusActive)
		if search := strings.TrimSpace(filters.Search); search != "" {
			pattern := "%" + strings.ToLower(search) + "%"
			db = db.Where("(LOWER(name) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?)", pattern, pattern)
		}
		if len(filters.CategoryIDs) > 0 {
			db = db.Where("category_id IN ?", filters.CategoryIDs)
		}
		if filters.MinPrice != nil {
			db = db.Where("price >= ?", *filters.MinPrice)
		}
		if filters.MaxPrice != nil {
			db = db.Where("price <= ?", *filters.MaxPrice)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Medicine
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Category").
		Preload("Seller").
		Order(params.OrderClause(MedicineSortable)).
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *Repository) ListBySeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) ([]models.Medicine, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.Medicine{}).Where("seller_id = ?", sellerID)
	}

	var total int64
	if err := r.db.WithContext(ctx).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Medicine
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Category").
		Order(params.OrderClause(MedicineSortable)).
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Medicine, error) {
	var m models.Medicine
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Seller").
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindOwned loads a medicine only when it belongs to sellerID.
func (r *Repository) FindOwned(ctx context.Context, id, sellerID uuid.UUID) (*models.Medicine, error) {
	var m models.Medicine
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND seller_id = ?", id, sellerID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *Repository) Create(ctx context.Context, m *models.Medicine) error {
	return r.db.WithContext(ctx).Omit("Category", "Seller").Create(m).Error
}

func (r *Repository) Update(ctx context.Context, id, sellerID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Medicine{}).
		Where("id = ? AND seller_id = ?", id, sellerID).
		Updates(updates).Error
}

// Delete removes the medicine and its reviews.
func (r *Repository) Delete(ctx context.Context, id, sellerID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("medicine_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND seller_id = ?", id, sellerID).Delete(&models.Medicine{}).Error
	})
}

// OrderItemCounts returns how many order lines reference each medicine.
func (r *Repository) OrderItemCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		MedicineID uuid.UUID `gorm:"column:medicine_id"`
		Count      int64     `gorm:"column:cnt"`
	}
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Select("medicine_id, COUNT(*) AS cnt").
		Where("medicine_id IN ?", ids).
		Group("medicine_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.MedicineID] = row.Count
	}
	return out, nil
}
