package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/medistore/medistore-backend/api"
	"github.com/medistore/medistore-backend/api/routes"
	"github.com/medistore/medistore-backend/internal/admin"
	"github.com/medistore/medistore-backend/internal/auth"
	"github.com/medistore/medistore-backend/internal/categories"
	"github.com/medistore/medistore-backend/internal/medicines"
	"github.com/medistore/medistore-backend/internal/orders"
	"github.com/medistore/medistore-backend/internal/reports"
	"github.com/medistore/medistore-backend/internal/reviews"
	"github.com/medistore/medistore-backend/internal/seller"
	"github.com/medistore/medistore-backend/internal/users"
	"github.com/medistore/medistore-backend/pkg/auth/session"
	"github.com/medistore/medistore-backend/pkg/config"
	"github.com/medistore/medistore-backend/pkg/db"
	"github.com/medistore/medistore-backend/pkg/logger"
	"github.com/medistore/medistore-backend/pkg/metrics"
	"github.com/medistore/medistore-backend/pkg/migrate"
	"github.com/medistore/medistore-backend/pkg/outbox"
	"github.com/medistore/medistore-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	services, err := buildServices(cfg, logg, dbClient, sessionManager, registry)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	handler := routes.NewRouter(routes.Dependencies{
		Config:     cfg,
		Logger:     logg,
		DB:         dbClient,
		Redis:      redisClient,
		Sessions:   sessionManager,
		Gatherer:   registry,
		HTTP:       metrics.NewHTTPMetrics(registry),
		Auth:       services.auth,
		Categories: services.categories,
		Medicines:  services.medicines,
		Reviews:    services.reviews,
		Orders:     services.orders,
		Seller:     services.seller,
		Admin:      services.admin,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	server := api.NewServer(":"+port, handler, logg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": server.Addr(),
	})
	logg.Info(ctx, "starting api server")

	if err := server.Run(ctx); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}

type serviceSet struct {
	auth       auth.Service
	categories categories.Service
	medicines  medicines.Service
	reviews    reviews.Service
	orders     orders.Service
	seller     seller.Service
	admin      admin.Service
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, sessions *session.Manager, reg prometheus.Registerer) (*serviceSet, error) {
	gdb := dbClient.DB()
	userRepo := users.NewRepository(gdb)
	reviewRepo := reviews.NewRepository(gdb)
	reportRepo := reports.NewRepository(gdb)
	outboxService := outbox.NewService(outbox.NewRepository(gdb), logg)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessions,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		return nil, err
	}

	categoryService, err := categories.NewService(categories.NewRepository(gdb))
	if err != nil {
		return nil, err
	}

	reviewService, err := reviews.NewService(reviewRepo)
	if err != nil {
		return nil, err
	}

	medicineService, err := medicines.NewService(medicines.NewRepository(gdb), reviewRepo, logg)
	if err != nil {
		return nil, err
	}

	orderService, err := orders.NewService(
		orders.NewRepository(gdb),
		dbClient,
		outboxService,
		metrics.NewOrderMetrics(reg),
		logg,
	)
	if err != nil {
		return nil, err
	}

	reportService, err := reports.NewService(reportRepo)
	if err != nil {
		return nil, err
	}

	sellerService, err := seller.NewService(authService, reportRepo, reportService)
	if err != nil {
		return nil, err
	}

	adminService, err := admin.NewService(admin.ServiceParams{
		Users:      userRepo,
		Tx:         dbClient,
		Outbox:     outboxService,
		Sessions:   sessions,
		Orders:     orderService,
		Counters:   reportRepo,
		Dashboards: reportService,
		Logger:     logg,
	})
	if err != nil {
		return nil, err
	}

	return &serviceSet{
		auth:       authService,
		categories: categoryService,
		medicines:  medicineService,
		reviews:    reviewService,
		orders:     orderService,
		seller:     sellerService,
		admin:      adminService,
	}, nil
}
