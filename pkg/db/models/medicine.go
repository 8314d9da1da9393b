package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/medistore/medistore-backend/pkg/enums"
)

// Medicine is a seller-owned catalog entry. Stock is decremented by order
// placement and restored by cancellation.
type Medicine struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name         string               `gorm:"column:name;not null" json:"name"`
	Description  *string              `gorm:"column:description" json:"description"`
	Manufacturer *string              `gorm:"column:manufacturer" json:"manufacturer"`
	Price        decimal.Decimal      `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	Stock        int                  `gorm:"column:stock;not null;default:0" json:"stock"`
	Image        *string              `gorm:"column:image" json:"image"`
	Status       enums.MedicineStatus `gorm:"column:status;type:text;not null;default:'ACTIVE'" json:"status"`
	SellerID     uuid.UUID            `gorm:"column:seller_id;type:uuid;not null;index" json:"sellerId"`
	CategoryID   uuid.UUID            `gorm:"column:category_id;type:uuid;not null;index" json:"categoryId"`
	Category     *Category            `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Seller       *User                `gorm:"foreignKey:SellerID" json:"-"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (m *Medicine) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

// IsActive reports whether the medicine is publicly listed.
func (m Medicine) IsActive() bool {
	return m.Status == enums.MedicineStatusActive
}
