package reports

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/medistore/medistore-backend/pkg/db/dbtest"
	"github.com/medistore/medistore-backend/pkg/db/models"
	"github.com/medistore/medistore-backend/pkg/enums"
	"github.com/medistore/medistore-backend/pkg/types"
)

type world struct {
	db       *gorm.DB
	svc      Service
	repo     *Repository
	customer models.User
	sellerA  models.User
	sellerB  models.User
	aspirin  models.Medicine
	vitamin  models.Medicine
	bandage  models.Medicine
}

func newWorld(t *testing.T) *world {
	t.Helper()
	conn := dbtest.Open(t, "reports")
	repo := NewRepository(conn)
	svc, err := NewService(repo)
	require.NoError(t, err)

	w := &world{db: conn, svc: svc, repo: repo}
	w.customer = w.user(t, "c@example.com", enums.UserRoleCustomer)
	w.sellerA = w.user(t, "a@example.com", enums.UserRoleSeller)
	w.sellerB = w.user(t, "b@example.com", enums.UserRoleSeller)
	w.user(t, "admin@example.com", enums.UserRoleAdmin)

	category := models.Category{Name: "General"}
	require.NoError(t, conn.Create(&category).Error)
	w.aspirin = w.medicine(t, "Aspirin", "2.00", w.sellerA, category, enums.MedicineStatusActive)
	w.vitamin = w.medicine(t, "Vitamin C", "5.00", w.sellerA, category, enums.MedicineStatusInactive)
	w.bandage = w.medicine(t, "Bandage", "1.50", w.sellerB, category, enums.MedicineStatusActive)
	return w
}

func (w *world) user(t *testing.T, email string, role enums.UserRole) models.User {
	t.Helper()
	u := models.User{Name: email, Email: email, PasswordHash: "x", Role: role, Status: enums.UserStatusActive}
	require.NoError(t, w.db.Create(&u).Error)
	return u
}

func (w *world) medicine(t *testing.T, name, price string, seller models.User, category models.Category, status enums.MedicineStatus) models.Medicine {
	t.Helper()
	m := models.Medicine{
		Name: name, Price: decimal.RequireFromString(price), Stock: 100,
		Status: status, SellerID: seller.ID, CategoryID: category.ID,
	}
	require.NoError(t, w.db.Create(&m).Error)
	return m
}

type line struct {
	medicine models.Medicine
	qty      int
}

// order writes a parent with one seller order per seller present in lines.
func (w *world) order(t *testing.T, age time.Duration, childStatus enums.OrderStatus, lines ...line) models.Order {
	t.Helper()
	created := time.Now().UTC().Add(-age)
	address := types.ShippingAddress{FullName: "C", Address: "1 Main St", City: "Town", ZipCode: "1000", Phone: "555"}

	bySeller := map[uuid.UUID][]line{}
	var sellers []uuid.UUID
	total := decimal.Zero
	for _, l := range lines {
		if _, ok := bySeller[l.medicine.SellerID]; !ok {
			sellers = append(sellers, l.medicine.SellerID)
		}
		bySeller[l.medicine.SellerID] = append(bySeller[l.medicine.SellerID], l)
		total = total.Add(l.medicine.Price.Mul(decimal.NewFromInt(int64(l.qty))))
	}

	parent := models.Order{
		CustomerID: w.customer.ID, TotalAmount: total, ShippingAddress: address,
		Status: childStatus, CreatedAt: created,
	}
	require.NoError(t, w.db.Omit("Children", "Items", "Customer").Create(&parent).Error)

	for _, sellerID := range sellers {
		sid, pid := sellerID, parent.ID
		subtotal := decimal.Zero
		for _, l := range bySeller[sellerID] {
			subtotal = subtotal.Add(l.medicine.Price.Mul(decimal.NewFromInt(int64(l.qty))))
		}
		child := models.Order{
			CustomerID: w.customer.ID, SellerID: &sid, ParentOrderID: &pid, TotalAmount: subtotal,
			ShippingAddress: address, Status: childStatus, CreatedAt: created,
		}
		require.NoError(t, w.db.Omit("Children", "Items", "Customer").Create(&child).Error)
		for _, l := range bySeller[sellerID] {
			require.NoError(t, w.db.Omit("Medicine").Create(&models.OrderItem{
				OrderID: child.ID, MedicineID: l.medicine.ID, Quantity: l.qty, Price: l.medicine.Price,
			}).Error)
		}
	}
	return parent
}

func TestSellerDashboard(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	w.order(t, 3*time.Hour, enums.OrderStatusDelivered, line{w.aspirin, 3}, line{w.bandage, 2})
	w.order(t, 2*time.Hour, enums.OrderStatusPlaced, line{w.vitamin, 1}, line{w.aspirin, 1})
	w.order(t, time.Hour, enums.OrderStatusCancelled, line{w.vitamin, 10})

	dash, err := w.svc.SellerDashboard(ctx, w.sellerA.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), dash.TotalMedicines)
	require.Equal(t, int64(1), dash.ActiveMedicines)
	require.Equal(t, int64(3), dash.TotalOrders)
	require.Equal(t, int64(1), dash.PendingOrders)
	require.True(t, decimal.RequireFromString("13").Equal(dash.TotalRevenue), dash.TotalRevenue.String())

	require.Len(t, dash.RecentOrders, 3)
	require.Equal(t, enums.OrderStatusCancelled, dash.RecentOrders[0].Status)
	require.NotNil(t, dash.RecentOrders[0].Customer)
	require.Equal(t, "Vitamin C", dash.RecentOrders[0].Items[0].MedicineName)

	require.Len(t, dash.TopSellingMedicines, 2)
	require.Equal(t, "Aspirin", dash.TopSellingMedicines[0].Name)
	require.Equal(t, int64(4), dash.TopSellingMedicines[0].TotalSold)
	require.True(t, decimal.RequireFromString("8").Equal(dash.TopSellingMedicines[0].Revenue))
	require.Equal(t, int64(1), dash.TopSellingMedicines[1].TotalSold)
}

func TestAdminDashboard(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	w.order(t, 2*time.Hour, enums.OrderStatusDelivered, line{w.aspirin, 3}, line{w.bandage, 2})
	w.order(t, time.Hour, enums.OrderStatusCancelled, line{w.bandage, 40})
	require.NoError(t, w.db.Create(&models.Review{CustomerID: w.customer.ID, MedicineID: w.aspirin.ID, Rating: 5}).Error)

	dash, err := w.svc.AdminDashboard(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(4), dash.TotalUsers)
	require.Equal(t, int64(2), dash.TotalSellers)
	require.Equal(t, int64(1), dash.TotalCustomers)
	require.Equal(t, int64(3), dash.TotalMedicines)
	require.Equal(t, int64(2), dash.TotalOrders)
	require.Equal(t, int64(1), dash.TotalReviews)
	require.True(t, decimal.RequireFromString("9").Equal(dash.TotalRevenue), dash.TotalRevenue.String())

	require.Len(t, dash.RecentOrders, 2)
	require.Len(t, dash.RecentOrders[1].Items, 2)

	require.Len(t, dash.TopSellingMedicines, 2)
	require.Equal(t, "Aspirin", dash.TopSellingMedicines[0].Name)
	require.Equal(t, int64(3), dash.TopSellingMedicines[0].TotalSold)
	require.Equal(t, "Bandage", dash.TopSellingMedicines[1].Name)
	require.Equal(t, int64(2), dash.TopSellingMedicines[1].TotalSold)
}

func TestGroupCounts(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	w.order(t, time.Hour, enums.OrderStatusPlaced, line{w.aspirin, 1}, line{w.bandage, 1})

	medicines, err := w.repo.MedicineCounts(ctx, []uuid.UUID{w.sellerA.ID, w.sellerB.ID, w.customer.ID})
	require.NoError(t, err)
	require.Equal(t, int64(2), medicines[w.sellerA.ID])
	require.Equal(t, int64(1), medicines[w.sellerB.ID])
	require.Zero(t, medicines[w.customer.ID])

	orders, err := w.repo.SellerOrderCounts(ctx, []uuid.UUID{w.sellerA.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), orders[w.sellerA.ID])
}
