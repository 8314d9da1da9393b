package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medistore/medistore-backend/pkg/db/models"
	"github.com/medistore/medistore-backend/pkg/pagination"
)

// RatingStats aggregates the reviews of one medicine.
type RatingStats struct {
	MedicineID    uuid.UUID `gorm:"column:medicine_id"`
	AverageRating float64   `gorm:"column:average_rating"`
	ReviewCount   int64     `gorm:"column:review_count"`
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Omit("Customer", "Medicine").Create(review).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Medicine").
		Where("id = ?", id).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *Repository) MedicineExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Medicine{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Review{}).Where("id = ?", id).Updates(updates).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Review{}).Error
}

func (r *Repository) ListByMedicine(ctx context.Context, medicineID uuid.UUID, params pagination.Params) ([]models.Review, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.Review{}).Where("medicine_id = ?", medicineID)
	}

	var total int64
	if err := r.db.WithContext(ctx).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Review
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Customer").
		Order(params.OrderClause(ReviewSortable)).
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).Error
	return rows, total, err
}

// LatestForMedicine returns up to limit reviews, newest first.
func (r *Repository) LatestForMedicine(ctx context.Context, medicineID uuid.UUID, limit int) ([]models.Review, error) {
	var rows []models.Review
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("medicine_id = ?", medicineID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// StatsFor returns rating stats keyed by medicine id. Medicines without
// reviews are absent from the map.
func (r *Repository) StatsFor(ctx context.Context, medicineIDs []uuid.UUID) (map[uuid.UUID]RatingStats, error) {
	out := make(map[uuid.UUID]RatingStats, len(medicineIDs))
	if len(medicineIDs) == 0 {
		return out, nil
	}
	var rows []RatingStats
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("medicine_id, AVG(rating) AS average_rating, COUNT(*) AS review_count").
		Where("medicine_id IN ?", medicineIDs).
		Group("medicine_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.MedicineID] = row
	}
	return out, nil
}
