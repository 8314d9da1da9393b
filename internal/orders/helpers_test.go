package orders

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbpkg "github.com/medistore/medistore-backend/pkg/db"
	"github.com/medistore/medistore-backend/pkg/db/models"
	"github.com/medistore/medistore-backend/pkg/enums"
	pkgerrors "github.com/medistore/medistore-backend/pkg/errors"
	"github.com/medistore/medistore-backend/pkg/outbox"
	"github.com/medistore/medistore-backend/pkg/types"
)

type fixture struct {
	db       *gorm.DB
	repo     Repository
	svc      Service
	customer models.User
	sellerA  models.User
	sellerB  models.User
	category models.Category
}

func openMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:orders_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

// openFileDB returns a database where concurrent writers serialize on BEGIN
// IMMEDIATE instead of failing.
func openFileDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "orders.db") + "?_busy_timeout=5000&_txlock=immediate"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithDB(t, openMemoryDB(t))
}

func newFixtureWithDB(t *testing.T, conn *gorm.DB) *fixture {
	t.Helper()
	require.NoError(t, conn.AutoMigrate(models.All()...))

	f := &fixture{db: conn, repo: NewRepository(conn)}
	f.customer = f.addUser(t, "customer@example.com", enums.UserRoleCustomer)
	f.sellerA = f.addUser(t, "seller-a@example.com", enums.UserRoleSeller)
	f.sellerB = f.addUser(t, "seller-b@example.com", enums.UserRoleSeller)
	f.category = models.Category{Name: "Pain Relief"}
	require.NoError(t, conn.Create(&f.category).Error)

	svc, err := NewService(f.repo, dbpkg.Wrap(conn), outbox.NewService(outbox.NewRepository(conn), nil), nil, nil)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *fixture) addUser(t *testing.T, email string, role enums.UserRole) models.User {
	t.Helper()
	user := models.User{
		Name:         email,
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
		Status:       enums.UserStatusActive,
	}
	require.NoError(t, f.db.Create(&user).Error)
	return user
}

func (f *fixture) addMedicine(t *testing.T, seller models.User, name, price string, stock int) models.Medicine {
	t.Helper()
	medicine := models.Medicine{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
		Status:     enums.MedicineStatusActive,
		SellerID:   seller.ID,
		CategoryID: f.category.ID,
	}
	require.NoError(t, f.db.Create(&medicine).Error)
	return medicine
}

func (f *fixture) stockOf(t *testing.T, id uuid.UUID) int {
	t.Helper()
	var medicine models.Medicine
	require.NoError(t, f.db.First(&medicine, "id = ?", id).Error)
	return medicine.Stock
}

func (f *fixture) count(t *testing.T, model any, where ...any) int64 {
	t.Helper()
	var n int64
	q := f.db.Model(model)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func (f *fixture) place(t *testing.T, customer models.User, items ...OrderItemInput) *models.Order {
	t.Helper()
	order, err := f.svc.PlaceOrder(context.Background(), PlaceOrderInput{
		CustomerID:      customer.ID,
		Items:           items,
		ShippingAddress: testAddress(),
	})
	require.NoError(t, err)
	return order
}

func childFor(t *testing.T, parent *models.Order, seller models.User) models.Order {
	t.Helper()
	for _, child := range parent.Children {
		if child.SellerID != nil && *child.SellerID == seller.ID {
			return child
		}
	}
	t.Fatalf("no seller order for %s", seller.Email)
	return models.Order{}
}

func line(m models.Medicine, qty int) OrderItemInput {
	return OrderItemInput{MedicineID: m.ID, Quantity: qty}
}

func testAddress() types.ShippingAddress {
	return types.ShippingAddress{
		FullName: "Jane Doe",
		Address:  "12 Harbor Road",
		City:     "Dhaka",
		ZipCode:  "1207",
		Phone:    "+8801700000000",
	}
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	require.Equal(t, code, typed.Code(), err.Error())
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got), "want %s got %s", want, got)
}

func newTxRunner(conn *gorm.DB) *dbpkg.Client {
	return dbpkg.Wrap(conn)
}

func newOutbox(conn *gorm.DB) *outbox.Service {
	return outbox.NewService(outbox.NewRepository(conn), nil)
}
