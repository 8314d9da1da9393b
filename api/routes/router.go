package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/medistore/medistore-backend/api/controllers"
	ordercontrollers "github.com/medistore/medistore-backend/api/controllers/orders"
	"github.com/medistore/medistore-backend/api/middleware"
	"github.com/medistore/medistore-backend/api/responses"
	"github.com/medistore/medistore-backend/internal/admin"
	"github.com/medistore/medistore-backend/internal/auth"
	"github.com/medistore/medistore-backend/internal/categories"
	"github.com/medistore/medistore-backend/internal/medicines"
	"github.com/medistore/medistore-backend/internal/orders"
	"github.com/medistore/medistore-backend/internal/reviews"
	"github.com/medistore/medistore-backend/internal/seller"
	"github.com/medistore/medistore-backend/pkg/auth/session"
	"github.com/medistore/medistore-backend/pkg/config"
	"github.com/medistore/medistore-backend/pkg/enums"
	pkgerrors "github.com/medistore/medistore-backend/pkg/errors"
	"github.com/medistore/medistore-backend/pkg/logger"
	"github.com/medistore/medistore-backend/pkg/metrics"
	"github.com/medistore/medistore-backend/pkg/redis"
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type idempotencyStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	IdempotencyKey(scope, id string) string
}

// Dependencies carries everything the HTTP surface needs.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    *redis.Client
	Sessions session.AccessSessionChecker
	Gatherer prometheus.Gatherer
	HTTP     *metrics.HTTPMetrics

	Auth       auth.Service
	Categories categories.Service
	Medicines  medicines.Service
	Reviews    reviews.Service
	Orders     orders.Service
	Seller     seller.Service
	Admin      admin.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	// a nil *redis.Client must not reach the middleware as a non-nil interface
	var (
		limiter     rateLimiter
		idempotency idempotencyStore
		redisPinger controllers.Pinger
	)
	if deps.Redis != nil {
		limiter = deps.Redis
		idempotency = deps.Redis
		redisPinger = deps.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTP),
		middleware.CORS(cfg.App.AllowedOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found").
			WithDetails(map[string]any{"path": r.URL.Path}))
	})

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	authenticate := middleware.Auth(cfg.JWT, deps.Sessions, logg)
	idempotent := middleware.Idempotency(idempotency, cfg.Idempotency.TTL, logg)
	customerOnly := middleware.RequireRole(logg, enums.UserRoleCustomer)
	sellerOnly := middleware.RequireRole(logg, enums.UserRoleSeller)
	adminOnly := middleware.RequireRole(logg, enums.UserRoleAdmin)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg, logg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    deps.DB,
			"redis": redisPinger,
		}))
	})
	r.Get("/", controllers.HealthLive(cfg, logg))
	r.Handle("/metrics", controllers.Metrics(deps.Gatherer))

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, limiter, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/me", controllers.AuthMe(deps.Auth, logg))
			r.Put("/me", controllers.AuthUpdateMe(deps.Auth, logg))
			r.Post("/sign-out", controllers.AuthSignOut(deps.Auth, logg))
		})
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", controllers.CategoryList(deps.Categories, logg))
		r.Get("/{id}", controllers.CategoryDetail(deps.Categories, logg))
		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Post("/", controllers.CategoryCreate(deps.Categories, logg))
			r.Put("/{id}", controllers.CategoryUpdate(deps.Categories, logg))
			r.Delete("/{id}", controllers.CategoryDelete(deps.Categories, logg))
		})
	})

	r.Route("/api/medicines", func(r chi.Router) {
		r.Get("/", controllers.MedicineList(deps.Medicines, logg))
		r.Get("/{id}", controllers.MedicineDetail(deps.Medicines, logg))
	})

	r.Route("/api/reviews", func(r chi.Router) {
		r.Get("/medicine/{medicineId}", controllers.ReviewListByMedicine(deps.Reviews, logg))
		r.Get("/{id}", controllers.ReviewDetail(deps.Reviews, logg))
		r.Group(func(r chi.Router) {
			r.Use(authenticate, customerOnly)
			r.With(idempotent).Post("/", controllers.ReviewCreate(deps.Reviews, logg))
			r.Put("/{id}", controllers.ReviewUpdate(deps.Reviews, logg))
			r.Delete("/{id}", controllers.ReviewDelete(deps.Reviews, logg))
		})
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authenticate, customerOnly)
		r.With(idempotent).Post("/", ordercontrollers.Place(deps.Orders, logg))
		r.Get("/", ordercontrollers.List(deps.Orders, logg))
		r.Get("/{id}", ordercontrollers.Detail(deps.Orders, logg))
		r.With(idempotent).Patch("/{id}/cancel", ordercontrollers.Cancel(deps.Orders, logg))
	})

	r.Route("/api/seller", func(r chi.Router) {
		r.Use(authenticate, sellerOnly)
		r.Route("/medicines", func(r chi.Router) {
			r.Get("/", controllers.SellerMedicineList(deps.Medicines, logg))
			r.With(idempotent).Post("/", controllers.SellerMedicineCreate(deps.Medicines, logg))
			r.Put("/{id}", controllers.SellerMedicineUpdate(deps.Medicines, logg))
			r.Delete("/{id}", controllers.SellerMedicineDelete(deps.Medicines, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.SellerList(deps.Orders, logg))
			r.With(idempotent).Patch("/{id}/status", ordercontrollers.SellerUpdateStatus(deps.Orders, logg))
		})
		r.Get("/profile", controllers.SellerProfile(deps.Seller, logg))
		r.Put("/profile", controllers.SellerUpdateProfile(deps.Seller, logg))
		r.Get("/dashboard", controllers.SellerDashboard(deps.Seller, logg))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authenticate, adminOnly)
		r.Get("/users", controllers.AdminListUsers(deps.Admin, logg))
		r.Patch("/users/{id}", controllers.AdminUpdateUserStatus(deps.Admin, logg))
		r.Get("/orders", controllers.AdminListOrders(deps.Admin, logg))
		r.Get("/sellers", controllers.AdminListSellers(deps.Admin, logg))
		r.Get("/dashboard", controllers.AdminDashboard(deps.Admin, logg))
	})

	return r
}
