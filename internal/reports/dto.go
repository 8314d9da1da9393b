package reports

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medistore/medistore-backend/pkg/db/models"
	"github.com/medistore/medistore-backend/pkg/enums"
)

const (
	recentOrderLimit = 5
	topSellingLimit  = 5
)

// TopSellingMedicine ranks a medicine by units sold in non-cancelled orders.
// Revenue uses the unit price captured on each order line.
type TopSellingMedicine struct {
	ID        uuid.UUID       `json:"id" gorm:"column:id"`
	Name      string          `json:"name" gorm:"column:name"`
	TotalSold int64           `json:"totalSold" gorm:"column:total_sold"`
	Revenue   decimal.Decimal `json:"revenue" gorm:"column:revenue"`
}

type RecentOrderLine struct {
	MedicineID   uuid.UUID       `json:"medicineId"`
	MedicineName string          `json:"medicineName"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

type RecentOrder struct {
	ID          uuid.UUID           `json:"id"`
	Status      enums.OrderStatus   `json:"status"`
	TotalAmount decimal.Decimal     `json:"totalAmount"`
	Customer    *models.UserSummary `json:"customer,omitempty"`
	Items       []RecentOrderLine   `json:"items"`
	CreatedAt   time.Time           `json:"createdAt"`
}

type SellerDashboard struct {
	TotalMedicines      int64                `json:"totalMedicines"`
	ActiveMedicines     int64                `json:"activeMedicines"`
	TotalOrders         int64                `json:"totalOrders"`
	PendingOrders       int64                `json:"pendingOrders"`
	TotalRevenue        decimal.Decimal      `json:"totalRevenue"`
	RecentOrders        []RecentOrder        `json:"recentOrders"`
	TopSellingMedicines []TopSellingMedicine `json:"topSellingMedicines"`
}

type AdminDashboard struct {
	TotalUsers          int64                `json:"totalUsers"`
	TotalSellers        int64                `json:"totalSellers"`
	TotalCustomers      int64                `json:"totalCustomers"`
	TotalMedicines      int64                `json:"totalMedicines"`
	TotalOrders         int64                `json:"totalOrders"`
	TotalReviews        int64                `json:"totalReviews"`
	TotalRevenue        decimal.Decimal      `json:"totalRevenue"`
	RecentOrders        []RecentOrder        `json:"recentOrders"`
	TopSellingMedicines []TopSellingMedicine `json:"topSellingMedicines"`
}

// recentOrderFromModel flattens an order. Parent orders carry their lines on
// the children, seller orders carry them directly.
func recentOrderFromModel(o models.Order) RecentOrder {
	out := RecentOrder{
		ID:          o.ID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		Customer:    o.Customer.Summary(),
		Items:       []RecentOrderLine{},
		CreatedAt:   o.CreatedAt,
	}
	lines := o.Items
	for _, child := range o.Children {
		lines = append(lines, child.Items...)
	}
	for _, item := range lines {
		line := RecentOrderLine{MedicineID: item.MedicineID, Quantity: item.Quantity, Price: item.Price}
		if item.Medicine != nil {
			line.MedicineName = item.Medicine.Name
		}
		out.Items = append(out.Items, line)
	}
	return out
}
