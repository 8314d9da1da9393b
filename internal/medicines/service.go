package medicines

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/medistore/medistore-backend/internal/reviews"
	"github.com/medistore/medistore-backend/pkg/db/models"
	"github.com/medistore/medistore-backend/pkg/enums"
	pkgerrors "github.com/medistore/medistore-backend/pkg/errors"
	"github.com/medistore/medistore-backend/pkg/logger"
	"github.com/medistore/medistore-backend/pkg/pagination"
)

const detailReviewLimit = 50

// Service exposes the public catalog and the seller inventory workflows.
type Service interface {
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*MedicineList, error)
	Get(ctx context.Context, id uuid.UUID) (*MedicineDetail, error)
	Create(ctx context.Context, sellerID uuid.UUID, req CreateMedicineRequest) (*SellerMedicineDTO, error)
	Update(ctx context.Context, id, sellerID uuid.UUID, req UpdateMedicineRequest) (*SellerMedicineDTO, error)
	Delete(ctx context.Context, id, sellerID uuid.UUID) error
	ListSeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*SellerMedicineList, error)
}

type repository interface {
	ListActive(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Medicine, int64, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) ([]models.Medicine, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Medicine, error)
	FindOwned(ctx context.Context, id, sellerID uuid.UUID) (*models.Medicine, error)
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, m *models.Medicine) error
	Update(ctx context.Context, id, sellerID uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id, sellerID uuid.UUID) error
	OrderItemCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error)
}

type ratingSource interface {
	StatsFor(ctx context.Context, medicineIDs []uuid.UUID) (map[uuid.UUID]reviews.RatingStats, error)
	LatestForMedicine(ctx context.Context, medicineID uuid.UUID, limit int) ([]models.Review, error)
}

type service struct {
	repo    repository
	ratings ratingSource
	logg    *logger.Logger
}

// NewService builds the medicine service. logg may be nil.
func NewService(repo repository, ratings ratingSource, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("medicines repository required")
	}
	if ratings == nil {
		return nil, fmt.Errorf("rating source required")
	}
	return &service{repo: repo, ratings: ratings, logg: logg}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*MedicineList, error) {
	normalized, err := params.Normalize(MedicineSortable)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if filters.MinPrice != nil && filters.MaxPrice != nil && filters.MinPrice.GreaterThan(*filters.MaxPrice) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minPrice must not exceed maxPrice")
	}

	rows, total, err := s.repo.ListActive(ctx, filters, normalized)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list medicines")
	}
	stats, err := s.ratings.StatsFor(ctx, medicineIDs(rows))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rating stats")
	}

	out := make([]MedicineDTO, 0, len(rows))
	for _, m := range rows {
		out = append(out, fromModel(m, stats[m.ID]))
	}
	page := pagination.NewPage(out, total, normalized)
	return &page, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*MedicineDetail, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "medicine not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load medicine")
	}
	if !m.IsActive() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "medicine not found")
	}

	stats, err := s.ratings.StatsFor(ctx, []uuid.UUID{m.ID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rating stats")
	}
	latest, err := s.ratings.LatestForMedicine(ctx, m.ID, detailReviewLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reviews")
	}
	return &MedicineDetail{
		MedicineDTO: fromModel(*m, stats[m.ID]),
		Reviews:     reviews.FromModels(latest),
	}, nil
}

func (s *service) Create(ctx context.Context, sellerID uuid.UUID, req CreateMedicineRequest) (*SellerMedicineDTO, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}
	if req.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}
	status := enums.MedicineStatusActive
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", *req.Status))
		}
		status = *req.Status
	}
	if err := s.requireCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	m := &models.Medicine{
		Name:         name,
		Description:  req.Description,
		Manufacturer: req.Manufacturer,
		Price:        req.Price.Round(2),
		Stock:        req.Stock,
		Image:        req.Image,
		Status:       status,
		SellerID:     sellerID,
		CategoryID:   req.CategoryID,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create medicine")
	}
	if s.logg != nil {
		ctx = s.logg.WithField(ctx, "medicine_id", m.ID.String())
		s.logg.Info(ctx, "medicine created")
	}
	return s.sellerView(ctx, m.ID, sellerID)
}

func (s *service) Update(ctx context.Context, id, sellerID uuid.UUID, req UpdateMedicineRequest) (*SellerMedicineDTO, error) {
	if _, err := s.findOwned(ctx, id, sellerID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Manufacturer != nil {
		updates["manufacturer"] = *req.Manufacturer
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return nil, err
		}
		updates["price"] = req.Price.Round(2)
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
		}
		updates["stock"] = *req.Stock
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.CategoryID != nil {
		if err := s.requireCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", *req.Status))
		}
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}
	updates["updated_at"] = time.Now().UTC()

	if err := s.repo.Update(ctx, id, sellerID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update medicine")
	}
	return s.sellerView(ctx, id, sellerID)
}

// Delete removes a medicine that was never ordered. Ordered medicines stay
// referenced by order history and must be deactivated instead.
func (s *service) Delete(ctx context.Context, id, sellerID uuid.UUID) error {
	if _, err := s.findOwned(ctx, id, sellerID); err != nil {
		return err
	}
	counts, err := s.repo.OrderItemCounts(ctx, []uuid.UUID{id})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count order items")
	}
	if counts[id] > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "medicine has been ordered; set it INACTIVE instead").
			WithDetails(map[string]any{"orderItemCount": counts[id]})
	}
	if err := s.repo.Delete(ctx, id, sellerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete medicine")
	}
	return nil
}

func (s *service) ListSeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*SellerMedicineList, error) {
	normalized, err := params.Normalize(MedicineSortable)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	rows, total, err := s.repo.ListBySeller(ctx, sellerID, normalized)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller medicines")
	}
	out, err := s.sellerRows(ctx, rows)
	if err != nil {
		return nil, err
	}
	page := pagination.NewPage(out, total, normalized)
	return &page, nil
}

func (s *service) sellerView(ctx context.Context, id, sellerID uuid.UUID) (*SellerMedicineDTO, error) {
	m, err := s.findOwned(ctx, id, sellerID)
	if err != nil {
		return nil, err
	}
	rows, err := s.sellerRows(ctx, []models.Medicine{*m})
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func (s *service) sellerRows(ctx context.Context, rows []models.Medicine) ([]SellerMedicineDTO, error) {
	ids := medicineIDs(rows)
	stats, err := s.ratings.StatsFor(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rating stats")
	}
	counts, err := s.repo.OrderItemCounts(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count order items")
	}
	out := make([]SellerMedicineDTO, 0, len(rows))
	for _, m := range rows {
		out = append(out, SellerMedicineDTO{
			MedicineDTO:    fromModel(m, stats[m.ID]),
			IsActive:       m.IsActive(),
			OrderItemCount: counts[m.ID],
		})
	}
	return out, nil
}

func (s *service) findOwned(ctx context.Context, id, sellerID uuid.UUID) (*models.Medicine, error) {
	m, err := s.repo.FindOwned(ctx, id, sellerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "medicine not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load medicine")
	}
	return m, nil
}

func (s *service) requireCategory(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "categoryId is required")
	}
	ok, err := s.repo.CategoryExists(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "category does not exist").
			WithDetails(map[string]any{"categoryId": id})
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	return nil
}

func medicineIDs(rows []models.Medicine) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, m := range rows {
		ids = append(ids, m.ID)
	}
	return ids
}
