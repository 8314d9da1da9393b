package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/medistore/medistore-backend/pkg/db"
	"github.com/medistore/medistore-backend/pkg/db/models"
	pkgerrors "github.com/medistore/medistore-backend/pkg/errors"
)

// Service manages the category catalog.
type Service interface {
	List(ctx context.Context) ([]CategoryDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CategoryDetail, error)
	Create(ctx context.Context, req CategoryRequest) (*CategoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, req CategoryRequest) (*CategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository interface {
	List(ctx context.Context) ([]categoryRow, error)
	FindByID(ctx context.Context, id uuid.UUID) (*categoryRow, error)
	ListActiveMedicines(ctx context.Context, categoryID uuid.UUID) ([]models.Medicine, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, id uuid.UUID, name string, description *string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	CountMedicines(ctx context.Context, id uuid.UUID) (int64, error)
}

type service struct {
	repo repository
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("categories repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CategoryDetail, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	medicines, err := s.repo.ListActiveMedicines(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list category medicines")
	}
	if medicines == nil {
		medicines = []models.Medicine{}
	}
	return &CategoryDetail{CategoryDTO: fromRow(*row), Medicines: medicines}, nil
}

func (s *service) Create(ctx context.Context, req CategoryRequest) (*CategoryDTO, error) {
	name, description, err := normalize(req)
	if err != nil {
		return nil, err
	}
	category := &models.Category{Name: name, Description: description}
	if err := s.repo.Create(ctx, category); err != nil {
		if dbpkg.IsUniqueViolation(err, "categories_name_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("category %q already exists", name))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	dto := fromRow(categoryRow{Category: *category})
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req CategoryRequest) (*CategoryDTO, error) {
	name, description, err := normalize(req)
	if err != nil {
		return nil, err
	}
	found, err := s.repo.Update(ctx, id, name, description)
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "categories_name_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("category %q already exists", name))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := fromRow(*row)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	count, err := s.repo.CountMedicines(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count category medicines")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category still has medicines").
			WithDetails(map[string]any{"medicineCount": count})
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	return nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*categoryRow, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return row, nil
}

func normalize(req CategoryRequest) (string, *string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	var description *string
	if req.Description != nil {
		trimmed := strings.TrimSpace(*req.Description)
		description = &trimmed
	}
	return name, description, nil
}
