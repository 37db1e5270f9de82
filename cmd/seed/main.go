package main

import (
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/logger"
	"complaintdesk/backend/internal/seed"
	"complaintdesk/backend/internal/storage"
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, dotenv, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.Environment)
	defer log.Sync()
	if !dotenv {
		log.Warn("no .env file loaded, using process environment")
	}

	db, err := storage.OpenPostgres(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	st := storage.NewStorageService(db, nil)
	if err := st.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if _, err := seed.Run(context.Background(), st, logger.WithComponent(log, "seed")); err != nil {
		log.Error("seeding failed", zap.Error(err))
		return err
	}
	log.Info("database seeded successfully")
	return nil
}
