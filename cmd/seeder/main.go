package main

import (
	"context"

	"erp-backend/config"
	"erp-backend/internal/database"
	"erp-backend/internal/repository"

	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewDevelopment()
	defer func() { _ = log.Sync() }()

	log.Info("starting database seeding")

	// Standalone script, so load .env by hand.
	if !config.LoadEnvFile() {
		log.Warn(".env file not found, using system environment variables")
	}
	cfg := config.Load()

	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	seed := database.SeedConfig{
		AdminEmail:    config.GetEnv("SEED_ADMIN_EMAIL", ""),
		AdminPassword: config.GetEnv("SEED_ADMIN_PASSWORD", ""),
		AdminName:     config.GetEnv("SEED_ADMIN_NAME", ""),
	}
	if seed.AdminEmail == "" {
		log.Warn("SEED_ADMIN_EMAIL not set, skipping the super admin")
	}

	if err := database.SeedAll(context.Background(), repository.NewStore(db), seed, log); err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}
	log.Info("seeding finished")
}
