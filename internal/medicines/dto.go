package medicines

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medistore/medistore-backend/internal/reviews"
	"github.com/medistore/medistore-backend/pkg/db/models"
	"github.com/medistore/medistore-backend/pkg/enums"
	"github.com/medistore/medistore-backend/pkg/pagination"
)

// CreateMedicineRequest is the seller payload for a new catalog entry.
type CreateMedicineRequest struct {
	Name         string                `json:"name" validate:"required,min=2,max=200"`
	Description  *string               `json:"description,omitempty" validate:"omitempty,max=5000"`
	Manufacturer *string               `json:"manufacturer,omitempty" validate:"omitempty,max=200"`
	Price        decimal.Decimal       `json:"price"`
	Stock        int                   `json:"stock" validate:"gte=0"`
	Image        *string               `json:"image,omitempty" validate:"omitempty,url"`
	CategoryID   uuid.UUID             `json:"categoryId" validate:"required"`
	Status       *enums.MedicineStatus `json:"status,omitempty"`
}

// UpdateMedicineRequest patches a seller's medicine. Nil fields are untouched.
type UpdateMedicineRequest struct {
	Name         *string               `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Description  *string               `json:"description,omitempty" validate:"omitempty,max=5000"`
	Manufacturer *string               `json:"manufacturer,omitempty" validate:"omitempty,max=200"`
	Price        *decimal.Decimal      `json:"price,omitempty"`
	Stock        *int                  `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Image        *string               `json:"image,omitempty" validate:"omitempty,url"`
	CategoryID   *uuid.UUID            `json:"categoryId,omitempty"`
	Status       *enums.MedicineStatus `json:"status,omitempty"`
}

// ListFilters narrows the public catalog.
type ListFilters struct {
	Search      string
	CategoryIDs []uuid.UUID
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
}

// MedicineDTO is the public catalog row.
type MedicineDTO struct {
	ID            uuid.UUID            `json:"id"`
	Name          string               `json:"name"`
	Description   *string              `json:"description"`
	Manufacturer  *string              `json:"manufacturer"`
	Price         decimal.Decimal      `json:"price"`
	Stock         int                  `json:"stock"`
	Image         *string              `json:"image"`
	Status        enums.MedicineStatus `json:"status"`
	SellerID      uuid.UUID            `json:"sellerId"`
	CategoryID    uuid.UUID            `json:"categoryId"`
	Category      *models.Category     `json:"category,omitempty"`
	Seller        *models.UserSummary  `json:"seller,omitempty"`
	AverageRating float64              `json:"averageRating"`
	ReviewCount   int64                `json:"reviewCount"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// MedicineDetail adds the newest reviews.
type MedicineDetail struct {
	MedicineDTO
	Reviews []reviews.ReviewDTO `json:"reviews"`
}

// SellerMedicineDTO is the seller's inventory row.
type SellerMedicineDTO struct {
	MedicineDTO
	IsActive       bool  `json:"isActive"`
	OrderItemCount int64 `json:"orderItemCount"`
}

type MedicineList = pagination.Page[MedicineDTO]
type SellerMedicineList = pagination.Page[SellerMedicineDTO]

// MedicineSortable whitelists sort keys for medicine listings.
var MedicineSortable = pagination.Sortable{
	Columns: map[string]string{
		"created_at": "created_at",
		"createdAt":  "created_at",
		"updated_at": "updated_at",
		"updatedAt":  "updated_at",
		"name":       "name",
		"price":      "price",
		"stock":      "stock",
	},
	Default: "created_at",
}

func fromModel(m models.Medicine, stats reviews.RatingStats) MedicineDTO {
	dto := MedicineDTO{
		ID:            m.ID,
		Name:          m.Name,
		Description:   m.Description,
		Manufacturer:  m.Manufacturer,
		Price:         m.Price,
		Stock:         m.Stock,
		Image:         m.Image,
		Status:        m.Status,
		SellerID:      m.SellerID,
		CategoryID:    m.CategoryID,
		Category:      m.Category,
		AverageRating: reviews.RoundRating(stats.AverageRating),
		ReviewCount:   stats.ReviewCount,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Seller != nil {
		dto.Seller = m.Seller.Summary()
	}
	return dto
}
