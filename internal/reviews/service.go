package reviews

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/medistore/medistore-backend/pkg/db"
	"github.com/medistore/medistore-backend/pkg/db/models"
	pkgerrors "github.com/medistore/medistore-backend/pkg/errors"
	"github.com/medistore/medistore-backend/pkg/pagination"
)

// Service manages customer reviews of medicines.
type Service interface {
	Create(ctx context.Context, customerID uuid.UUID, req CreateReviewRequest) (*ReviewDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ReviewDTO, error)
	Update(ctx context.Context, id, customerID uuid.UUID, req UpdateReviewRequest) (*ReviewDTO, error)
	Delete(ctx context.Context, id, customerID uuid.UUID) error
	ListByMedicine(ctx context.Context, medicineID uuid.UUID, params pagination.Params) (*ReviewList, error)
}

type repository interface {
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	MedicineExists(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByMedicine(ctx context.Context, medicineID uuid.UUID, params pagination.Params) ([]models.Review, int64, error)
}

type service struct {
	repo repository
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, customerID uuid.UUID, req CreateReviewRequest) (*ReviewDTO, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if req.MedicineID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "medicineId is required")
	}
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}

	exists, err := s.repo.MedicineExists(ctx, req.MedicineID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load medicine")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "medicine not found")
	}

	review := &models.Review{
		CustomerID: customerID,
		MedicineID: req.MedicineID,
		Rating:     req.Rating,
		Comment:    trimComment(req.Comment),
	}
	if err := s.repo.Create(ctx, review); err != nil {
		if dbpkg.IsUniqueViolation(err, "reviews_customer_medicine_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "you have already reviewed this medicine")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return s.Get(ctx, review.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ReviewDTO, error) {
	review, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(*review)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id, customerID uuid.UUID, req UpdateReviewRequest) (*ReviewDTO, error) {
	review, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you can only modify your own reviews")
	}

	updates := map[string]any{}
	if req.Rating != nil {
		if err := validateRating(*req.Rating); err != nil {
			return nil, err
		}
		updates["rating"] = *req.Rating
	}
	if req.Comment != nil {
		updates["comment"] = trimComment(req.Comment)
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}
	updates["updated_at"] = time.Now().UTC()

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update review")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id, customerID uuid.UUID) error {
	review, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if review.CustomerID != customerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "you can only delete your own reviews")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	return nil
}

func (s *service) ListByMedicine(ctx context.Context, medicineID uuid.UUID, params pagination.Params) (*ReviewList, error) {
	normalized, err := params.Normalize(ReviewSortable)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	rows, total, err := s.repo.ListByMedicine(ctx, medicineID, normalized)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	page := pagination.NewPage(FromModels(rows), total, normalized)
	return &page, nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	return review, nil
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	return nil
}

func trimComment(comment *string) *string {
	if comment == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*comment)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// RoundRating rounds an average rating to one decimal place.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
