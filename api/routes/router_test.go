package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medistore/medistore-backend/internal/medicines"
	"github.com/medistore/medistore-backend/internal/reports"
	"github.com/medistore/medistore-backend/internal/seller"
	pkgAuth "github.com/medistore/medistore-backend/pkg/auth"
	"github.com/medistore/medistore-backend/pkg/config"
	"github.com/medistore/medistore-backend/pkg/enums"
	"github.com/medistore/medistore-backend/pkg/logger"
	"github.com/medistore/medistore-backend/pkg/metrics"
	"github.com/medistore/medistore-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSessions struct{ ok bool }

func (s stubSessions) HasSession(context.Context, string) (bool, error) { return s.ok, nil }

type stubMedicines struct {
	medicines.Service
}

func (stubMedicines) List(_ context.Context, _ medicines.ListFilters, params pagination.Params) (*medicines.MedicineList, error) {
	page := pagination.NewPage[medicines.MedicineDTO](nil, 0, params)
	return &page, nil
}

type stubSeller struct {
	seller.Service
}

func (stubSeller) Dashboard(context.Context, uuid.UUID) (*reports.SellerDashboard, error) {
	return &reports.SellerDashboard{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", AllowedOrigins: []string{"http://localhost:3000"}},
		JWT: config.JWTConfig{Secret: "router-secret", Issuer: "medistore", ExpirationMinutes: 10},
	}
}

func newTestRouter(t *testing.T, sessionsOK bool) (http.Handler, *config.Config) {
	t.Helper()
	cfg := testConfig()
	reg := prometheus.NewRegistry()
	return NewRouter(Dependencies{
		Config:    cfg,
		Logger:    logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard}),
		DB:        stubPinger{},
		Sessions:  stubSessions{ok: sessionsOK},
		Gatherer:  reg,
		HTTP:      metrics.NewHTTPMetrics(reg),
		Medicines: stubMedicines{},
		Seller:    stubSeller{},
	}), cfg
}

func bearer(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, _, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	require.NoError(t, err)
	return "Bearer " + token
}

func do(t *testing.T, h http.Handler, method, path, auth string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func TestHealthRoutes(t *testing.T) {
	h, _ := newTestRouter(t, true)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health/live", "").Code)

	ready := do(t, h, http.MethodGet, "/health/ready", "")
	require.Equal(t, http.StatusOK, ready.Code)
	var body struct {
		Data struct {
			Checks map[string]string `json:"checks"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(ready.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Data.Checks["db"])
	assert.Equal(t, "skipped", body.Data.Checks["redis"])
}

func TestMetricsRouteRecordsRequests(t *testing.T) {
	h, _ := newTestRouter(t, true)
	do(t, h, http.MethodGet, "/api/medicines", "")

	resp := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "http_request_duration_seconds")
}

func TestPublicCatalogNeedsNoToken(t *testing.T) {
	h, _ := newTestRouter(t, true)
	resp := do(t, h, http.MethodGet, "/api/medicines?page=1&limit=5", "")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h, _ := newTestRouter(t, true)
	for _, path := range []string{"/api/orders", "/api/seller/dashboard", "/api/admin/users", "/api/auth/me"} {
		assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, path, "").Code, path)
	}
}

func TestRoleGates(t *testing.T) {
	h, cfg := newTestRouter(t, true)

	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodGet, "/api/seller/dashboard", bearer(t, cfg, enums.UserRoleCustomer)).Code)
	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodGet, "/api/orders", bearer(t, cfg, enums.UserRoleSeller)).Code)
	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodGet, "/api/admin/dashboard", bearer(t, cfg, enums.UserRoleSeller)).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/seller/dashboard", bearer(t, cfg, enums.UserRoleSeller)).Code)
}

func TestRevokedSessionIsRejected(t *testing.T) {
	h, cfg := newTestRouter(t, false)
	resp := do(t, h, http.MethodGet, "/api/seller/dashboard", bearer(t, cfg, enums.UserRoleSeller))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	h, _ := newTestRouter(t, true)
	resp := do(t, h, http.MethodGet, "/api/nope", "")
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), `"success":false`)
}
