package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/medistore/medistore-backend/pkg/config"
	"github.com/medistore/medistore-backend/pkg/db"
	"github.com/medistore/medistore-backend/pkg/env"
	"github.com/medistore/medistore-backend/pkg/logger"
	"github.com/medistore/medistore-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	name := flag.String("admin-name", env.Get("MEDISTORE_SEED_ADMIN_NAME", "MediStore Admin"), "admin display name")
	email := flag.String("admin-email", env.Get("MEDISTORE_SEED_ADMIN_EMAIL", "admin@medistore.com"), "admin email")
	password := flag.String("admin-password", os.Getenv("MEDISTORE_SEED_ADMIN_PASSWORD"), "admin password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{"env": cfg.App.Env, "admin_email": *email})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	result, err := seed(ctx, dbClient.DB(), adminSeed{Name: *name, Email: *email, Password: *password}, cfg.Password)
	if err != nil {
		logg.Error(ctx, "seed failed", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"admin_created":      result.AdminCreated,
		"categories_created": result.CategoriesCreated,
	})
	logg.Info(ctx, "seed complete")
}
