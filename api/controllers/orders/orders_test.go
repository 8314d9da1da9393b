package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medistore/medistore-backend/api/middleware"
	internalorders "github.com/medistore/medistore-backend/internal/orders"
	"github.com/medistore/medistore-backend/pkg/db/models"
	"github.com/medistore/medistore-backend/pkg/enums"
	pkgerrors "github.com/medistore/medistore-backend/pkg/errors"
	"github.com/medistore/medistore-backend/pkg/pagination"
)

type stubOrdersService struct {
	internalorders.Service

	place        func(ctx context.Context, input internalorders.PlaceOrderInput) (*models.Order, error)
	cancel       func(ctx context.Context, input internalorders.CancelOrderInput) (*models.Order, error)
	get          func(ctx context.Context, orderID, customerID uuid.UUID) (*models.Order, error)
	listCustomer func(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*internalorders.OrderList, error)
	listSeller   func(ctx context.Context, sellerID uuid.UUID, filters internalorders.SellerOrderFilters, params pagination.Params) (*internalorders.OrderList, error)
	updateStatus func(ctx context.Context, input internalorders.UpdateStatusInput) (*models.Order, error)
}

func (s *stubOrdersService) PlaceOrder(ctx context.Context, input internalorders.PlaceOrderInput) (*models.Order, error) {
	return s.place(ctx, input)
}

func (s *stubOrdersService) CancelOrder(ctx context.Context, input internalorders.CancelOrderInput) (*models.Order, error) {
	return s.cancel(ctx, input)
}

func (s *stubOrdersService) GetCustomerOrder(ctx context.Context, orderID, customerID uuid.UUID) (*models.Order, error) {
	return s.get(ctx, orderID, customerID)
}

func (s *stubOrdersService) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*internalorders.OrderList, error) {
	return s.listCustomer(ctx, customerID, params)
}

func (s *stubOrdersService) ListSellerOrders(ctx context.Context, sellerID uuid.UUID, filters internalorders.SellerOrderFilters, params pagination.Params) (*internalorders.OrderList, error) {
	return s.listSeller(ctx, sellerID, filters, params)
}

func (s *stubOrdersService) UpdateSellerOrderStatus(ctx context.Context, input internalorders.UpdateStatusInput) (*models.Order, error) {
	return s.updateStatus(ctx, input)
}

type envelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Code    string           `json:"code"`
	Data    json.RawMessage  `json:"data"`
	Meta    *pagination.Meta `json:"meta"`
}

func serve(t *testing.T, method, pattern, target, body string, userID uuid.UUID, handler http.HandlerFunc) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	r := chi.NewRouter()
	r.Method(method, pattern, handler)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if userID != uuid.Nil {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	return resp, env
}

const validOrderBody = `{
	"items": [{"medicineId": "%s", "quantity": 2}],
	"shippingAddress": {"fullName": "Jane Doe", "address": "1 Main St", "city": "Dhaka", "zipCode": "1207", "phone": "+8801700000000"}
}`

func TestPlaceReportsSellerOrderCount(t *testing.T) {
	customerID := uuid.New()
	medicineID := uuid.New()
	var captured internalorders.PlaceOrderInput
	svc := &stubOrdersService{
		place: func(ctx context.Context, input internalorders.PlaceOrderInput) (*models.Order, error) {
			captured = input
			return &models.Order{
				ID:          uuid.New(),
				CustomerID:  input.CustomerID,
				TotalAmount: decimal.NewFromInt(30),
				Status:      enums.OrderStatusPlaced,
				Children:    []models.Order{{ID: uuid.New()}, {ID: uuid.New()}},
			}, nil
		},
	}

	body := strings.Replace(validOrderBody, "%s", medicineID.String(), 1)
	resp, env := serve(t, http.MethodPost, "/api/orders", "/api/orders", body, customerID, Place(svc, nil))

	require.Equal(t, http.StatusCreated, resp.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Order placed successfully and split into 2 seller order(s)", env.Message)
	assert.Equal(t, customerID, captured.CustomerID)
	require.Len(t, captured.Items, 1)
	assert.Equal(t, medicineID, captured.Items[0].MedicineID)
	assert.Equal(t, 2, captured.Items[0].Quantity)
	assert.Equal(t, "Dhaka", captured.ShippingAddress.City)
}

func TestPlaceRejectsEmptyItems(t *testing.T) {
	svc := &stubOrdersService{}
	body := `{"items": [], "shippingAddress": {"fullName": "Jane", "address": "1 Main", "city": "X", "zipCode": "1", "phone": "2"}}`
	resp, env := serve(t, http.MethodPost, "/api/orders", "/api/orders", body, uuid.New(), Place(svc, nil))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, string(pkgerrors.CodeValidation), env.Code)
}

func TestPlaceSurfacesInsufficientStock(t *testing.T) {
	svc := &stubOrdersService{
		place: func(ctx context.Context, input internalorders.PlaceOrderInput) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock for Paracetamol")
		},
	}
	body := strings.Replace(validOrderBody, "%s", uuid.NewString(), 1)
	resp, env := serve(t, http.MethodPost, "/api/orders", "/api/orders", body, uuid.New(), Place(svc, nil))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.False(t, env.Success)
	assert.Equal(t, string(pkgerrors.CodeInsufficientStock), env.Code)
	assert.Equal(t, "insufficient stock for Paracetamol", env.Message)
}

func TestPlaceRequiresAuthenticatedUser(t *testing.T) {
	body := strings.Replace(validOrderBody, "%s", uuid.NewString(), 1)
	resp, _ := serve(t, http.MethodPost, "/api/orders", "/api/orders", body, uuid.Nil, Place(&stubOrdersService{}, nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestListReturnsPageMeta(t *testing.T) {
	customerID := uuid.New()
	svc := &stubOrdersService{
		listCustomer: func(ctx context.Context, id uuid.UUID, params pagination.Params) (*internalorders.OrderList, error) {
			assert.Equal(t, customerID, id)
			assert.Equal(t, 2, params.Page)
			assert.Equal(t, 5, params.Limit)
			page := pagination.NewPage([]models.Order{{ID: uuid.New()}}, 6, params)
			return &page, nil
		},
	}
	resp, env := serve(t, http.MethodGet, "/api/orders", "/api/orders?page=2&limit=5", "", customerID, List(svc, nil))

	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 2, env.Meta.TotalPages)
	assert.EqualValues(t, 6, env.Meta.Total)
}

func TestDetailNotFound(t *testing.T) {
	svc := &stubOrdersService{
		get: func(ctx context.Context, orderID, customerID uuid.UUID) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		},
	}
	id := uuid.New()
	resp, env := serve(t, http.MethodGet, "/api/orders/{id}", "/api/orders/"+id.String(), "", uuid.New(), Detail(svc, nil))

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, string(pkgerrors.CodeNotFound), env.Code)
}

func TestDetailRejectsMalformedID(t *testing.T) {
	resp, env := serve(t, http.MethodGet, "/api/orders/{id}", "/api/orders/not-a-uuid", "", uuid.New(), Detail(&stubOrdersService{}, nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, string(pkgerrors.CodeValidation), env.Code)
}

func TestCancelPassesIdentity(t *testing.T) {
	customerID, orderID := uuid.New(), uuid.New()
	svc := &stubOrdersService{
		cancel: func(ctx context.Context, input internalorders.CancelOrderInput) (*models.Order, error) {
			assert.Equal(t, customerID, input.CustomerID)
			assert.Equal(t, orderID, input.OrderID)
			return &models.Order{ID: orderID, Status: enums.OrderStatusCancelled}, nil
		},
	}
	resp, env := serve(t, http.MethodPatch, "/api/orders/{id}/cancel", "/api/orders/"+orderID.String()+"/cancel", "", customerID, Cancel(svc, nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Order cancelled successfully", env.Message)
}

func TestCancelNotCancellable(t *testing.T) {
	svc := &stubOrdersService{
		cancel: func(ctx context.Context, input internalorders.CancelOrderInput) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotCancellable, "order can no longer be cancelled")
		},
	}
	id := uuid.New()
	resp, env := serve(t, http.MethodPatch, "/api/orders/{id}/cancel", "/api/orders/"+id.String()+"/cancel", "", uuid.New(), Cancel(svc, nil))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, string(pkgerrors.CodeNotCancellable), env.Code)
}

func TestSellerListParsesStatusFilter(t *testing.T) {
	sellerID := uuid.New()
	svc := &stubOrdersService{
		listSeller: func(ctx context.Context, id uuid.UUID, filters internalorders.SellerOrderFilters, params pagination.Params) (*internalorders.OrderList, error) {
			require.NotNil(t, filters.Status)
			assert.Equal(t, enums.OrderStatusShipped, *filters.Status)
			page := pagination.NewPage[models.Order](nil, 0, params)
			return &page, nil
		},
	}
	resp, _ := serve(t, http.MethodGet, "/api/seller/orders", "/api/seller/orders?status=shipped", "", sellerID, SellerList(svc, nil))
	assert.Equal(t, http.StatusOK, resp.Code)

	resp, env := serve(t, http.MethodGet, "/api/seller/orders", "/api/seller/orders?status=lost", "", sellerID, SellerList(svc, nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, string(pkgerrors.CodeValidation), env.Code)
}

func TestSellerUpdateStatus(t *testing.T) {
	sellerID, orderID := uuid.New(), uuid.New()
	svc := &stubOrdersService{
		updateStatus: func(ctx context.Context, input internalorders.UpdateStatusInput) (*models.Order, error) {
			assert.Equal(t, sellerID, input.SellerID)
			assert.Equal(t, enums.OrderStatusProcessing, input.Status)
			return &models.Order{ID: input.OrderID, Status: input.Status}, nil
		},
	}
	target := "/api/seller/orders/" + orderID.String() + "/status"
	resp, env := serve(t, http.MethodPatch, "/api/seller/orders/{id}/status", target, `{"status":"processing"}`, sellerID, SellerUpdateStatus(svc, nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, env.Success)
}

func TestSellerUpdateStatusRejectsUnknownStatus(t *testing.T) {
	target := "/api/seller/orders/" + uuid.NewString() + "/status"
	resp, env := serve(t, http.MethodPatch, "/api/seller/orders/{id}/status", target, `{"status":"LOST"}`, uuid.New(), SellerUpdateStatus(&stubOrdersService{}, nil))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, string(pkgerrors.CodeValidation), env.Code)
}

func TestSellerUpdateStatusSurfacesStateConflict(t *testing.T) {
	svc := &stubOrdersService{
		updateStatus: func(ctx context.Context, input internalorders.UpdateStatusInput) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot move order from DELIVERED to SHIPPED")
		},
	}
	target := "/api/seller/orders/" + uuid.NewString() + "/status"
	resp, env := serve(t, http.MethodPatch, "/api/seller/orders/{id}/status", target, `{"status":"SHIPPED"}`, uuid.New(), SellerUpdateStatus(svc, nil))

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, string(pkgerrors.CodeStateConflict), env.Code)
}
