package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem is immutable once written. Price is the unit price at order time.
type OrderItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrderID    uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index" json:"orderId"`
	MedicineID uuid.UUID       `gorm:"column:medicine_id;type:uuid;not null;index" json:"medicineId"`
	Quantity   int             `gorm:"column:quantity;not null" json:"quantity"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	Medicine   *Medicine       `gorm:"foreignKey:MedicineID" json:"medicine,omitempty"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// LineTotal returns price multiplied by quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
