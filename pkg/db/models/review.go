package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a customer's rating of a medicine. One per customer and medicine.
type Review struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;not null;uniqueIndex:reviews_customer_medicine_key" json:"customerId"`
	MedicineID uuid.UUID `gorm:"column:medicine_id;type:uuid;not null;uniqueIndex:reviews_customer_medicine_key;index" json:"medicineId"`
	Rating     int       `gorm:"column:rating;not null" json:"rating"`
	Comment    *string   `gorm:"column:comment" json:"comment"`
	Customer   *User     `gorm:"foreignKey:CustomerID" json:"-"`
	Medicine   *Medicine `gorm:"foreignKey:MedicineID" json:"-"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (r *Review) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
