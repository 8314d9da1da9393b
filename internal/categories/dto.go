package categories

import (
	"time"

	"github.com/google/uuid"

	"github.com/medistore/medistore-backend/pkg/db/models"
)

// CategoryRequest is the create/update payload.
type CategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// CategoryDTO is a category with the number of medicines filed under it.
type CategoryDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	MedicineCount int64     `json:"medicineCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CategoryDetail adds the active medicines of the category.
type CategoryDetail struct {
	CategoryDTO
	Medicines []models.Medicine `json:"medicines"`
}

type categoryRow struct {
	models.Category
	MedicineCount int64 `gorm:"column:medicine_count"`
}

func fromRow(row categoryRow) CategoryDTO {
	return CategoryDTO{
		ID:            row.ID,
		Name:          row.Name,
		Description:   row.Description,
		MedicineCount: row.MedicineCount,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
