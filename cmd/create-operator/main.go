package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/oeh-wirtschaft/oeh-backend/internal/config"
	"github.com/oeh-wirtschaft/oeh-backend/internal/database"
	"github.com/oeh-wirtschaft/oeh-backend/internal/logger"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
	"github.com/oeh-wirtschaft/oeh-backend/internal/service"
	"golang.org/x/term"
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

	// Operators are created on behalf of the master account.
	master, err := operatorService.EnsureMaster(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to reconcile master operator")
	}

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string) string {
		fmt.Print(label)
		s, _ := reader.ReadString('\n')
		return strings.TrimSpace(s)
	}

	fmt.Println("=== Create New Operator ===")

	req := &model.CreateOperatorRequest{
		Username:    prompt("Enter Username: "),
		Email:       prompt("Enter Email: "),
		DisplayName: prompt("Enter Display Name: "),
	}
	if req.Username == "" || req.Email == "" {
		fmt.Println("Error: Username and email are required")
		return
	}
	if req.DisplayName == "" {
		req.DisplayName = req.Username
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // Newline after password input
	if err != nil {
		fmt.Println("Error reading password")
		return
	}
	req.Password = string(bytePassword)
	if len(req.Password) < 8 {
		fmt.Println("Error: Password must be at least 8 characters")
		return
	}

	role := prompt("Enter Role (admin/editor, default editor): ")
	if role == "" {
		role = string(model.RoleEditor)
	}
	req.Role = model.Role(role)
	if req.Role == model.RoleMaster {
		fmt.Println("Error: The master role is reserved for the configured master account")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	op, err := operatorService.Create(ctx, master, req)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create operator")
	}

	fmt.Printf("\nSuccess! Operator '%s' (%s, %s) created with ID: %d\n", op.Username, op.Email, op.Role, op.ID)
}
