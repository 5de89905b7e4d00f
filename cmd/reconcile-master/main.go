package main

import (
	"context"
	"fmt"

	"github.com/oeh-wirtschaft/oeh-backend/internal/config"
	"github.com/oeh-wirtschaft/oeh-backend/internal/database"
	"github.com/oeh-wirtschaft/oeh-backend/internal/logger"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
	"github.com/oeh-wirtschaft/oeh-backend/internal/service"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Services ───────────────────────────────────────────
	operatorRepo := repository.NewOperatorRepository(pool)
	activityService := service.NewActivityService(repository.NewActivityRepository(pool), nil, log)
	authService := service.NewAuthService(cfg, operatorRepo, nil, activityService, log)
	operatorService := service.NewOperatorService(cfg.Master, operatorRepo, authService, activityService, log)

	fmt.Println("=== Reconcile Master Operator ===")
	fmt.Println("This command resets the master account to the MASTER_ADMIN_* settings.")

	master, err := operatorService.EnsureMaster(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to reconcile master operator")
	}

	fmt.Printf("\nSuccess! Master '%s' (%s) is active with ID: %d\n", master.Username, master.Email, master.ID)
}
