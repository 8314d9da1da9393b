package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/medistore/medistore-backend/pkg/db/models"
	"github.com/medistore/medistore-backend/pkg/pagination"
)

// CreateReviewRequest is the body of POST /api/reviews.
type CreateReviewRequest struct {
	MedicineID uuid.UUID `json:"medicineId" validate:"required"`
	Rating     int       `json:"rating" validate:"required,min=1,max=5"`
	Comment    *string   `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// UpdateReviewRequest carries the fields a customer may change.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// Author is the public projection of the reviewing customer.
type Author struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image *string   `json:"image"`
}

// MedicineRef names the reviewed medicine.
type MedicineRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ReviewDTO struct {
	ID         uuid.UUID    `json:"id"`
	MedicineID uuid.UUID    `json:"medicineId"`
	CustomerID uuid.UUID    `json:"customerId"`
	Rating     int          `json:"rating"`
	Comment    *string      `json:"comment"`
	Customer   *Author      `json:"customer,omitempty"`
	Medicine   *MedicineRef `json:"medicine,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

type ReviewList = pagination.Page[ReviewDTO]

// ReviewSortable lists the sort keys accepted by review listings.
var ReviewSortable = pagination.Sortable{
	Columns: map[string]string{
		"created_at": "created_at",
		"createdAt":  "created_at",
		"rating":     "rating",
	},
	Default: "created_at",
}

// FromModel projects a review with whatever relations were preloaded.
func FromModel(r models.Review) ReviewDTO {
	dto := ReviewDTO{
		ID:         r.ID,
		MedicineID: r.MedicineID,
		CustomerID: r.CustomerID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.Customer != nil {
		dto.Customer = &Author{ID: r.Customer.ID, Name: r.Customer.Name, Image: r.Customer.Image}
	}
	if r.Medicine != nil {
		dto.Medicine = &MedicineRef{ID: r.Medicine.ID, Name: r.Medicine.Name}
	}
	return dto
}

func FromModels(rows []models.Review) []ReviewDTO {
	out := make([]ReviewDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromModel(r))
	}
	return out
}
