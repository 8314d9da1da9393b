package categories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medistore/medistore-backend/pkg/db/models"
	"github.com/medistore/medistore-backend/pkg/enums"
)

const medicineCountSelect = "categories.*, (SELECT COUNT(*) FROM medicines WHERE medicines.category_id = categories.id) AS medicine_count"

// Repository persists categories.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]categoryRow, error) {
	var rows []categoryRow
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Select(medicineCountSelect).
		Order("name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*categoryRow, error) {
	var rows []categoryRow
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Select(medicineCountSelect).
		Where("categories.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *Repository) ListActiveMedicines(ctx context.Context, categoryID uuid.UUID) ([]models.Medicine, error) {
	var rows []models.Medicine
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND status = ?", categoryID, enums.MedicineStatusActive).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, name string, description *string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":        name,
			"description": description,
			"updated_at":  time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{})
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) CountMedicines(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Medicine{}).Where("category_id = ?", id).Count(&n).Error
	return n, err
}
