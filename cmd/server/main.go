package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oeh-wirtschaft/oeh-backend/internal/catalog"
	"github.com/oeh-wirtschaft/oeh-backend/internal/config"
	"github.com/oeh-wirtschaft/oeh-backend/internal/database"
	"github.com/oeh-wirtschaft/oeh-backend/internal/handler"
	"github.com/oeh-wirtschaft/oeh-backend/internal/logger"
	"github.com/oeh-wirtschaft/oeh-backend/internal/mailer"
	"github.com/oeh-wirtschaft/oeh-backend/internal/metrics"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
	"github.com/oeh-wirtschaft/oeh-backend/internal/router"
	"github.com/oeh-wirtschaft/oeh-backend/internal/service"
	"github.com/oeh-wirtschaft/oeh-backend/internal/validator"
	"github.com/oeh-wirtschaft/oeh-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("mail_driver", cfg.Mail.Driver).
		Msg("Starting ÖH Wirtschaft backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL and Redis ───────────────────────────────
	conns, err := database.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open backing stores")
	}
	defer conns.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	operatorRepo := repository.NewOperatorRepository(conns.Pool)
	courseRepo := repository.NewCourseRepository(conns.Pool)
	codeRepo := repository.NewVerificationCodeRepository(conns.Pool)
	newsRepo := repository.NewNewsRepository(conns.Pool)
	eventRepo := repository.NewEventRepository(conns.Pool)
	studyRepo := repository.NewStudyRepository(conns.Pool)
	settingRepo := repository.NewSettingRepository(conns.Pool)
	activityRepo := repository.NewActivityRepository(conns.Pool)
	dashboardRepo := repository.NewDashboardRepository(conns.Pool)
	cache := repository.NewRedisStore(conns.Redis)

	// ─── Initialize Infrastructure ─────────────────────────────────────
	m := metrics.New()
	mail := mailer.New(cfg.Mail, log)
	cat, err := catalog.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load course catalog")
	}

	// ─── Initialize Services ──────────────────────────────────────────
	activityService := service.NewActivityService(activityRepo, cache, log)
	authService := service.NewAuthService(cfg, operatorRepo, cache, activityService, log)
	operatorService := service.NewOperatorService(cfg.Master, operatorRepo, authService, activityService, log)
	courseService := service.NewCourseService(courseRepo, cat, activityService, log)
	verificationService := service.NewVerificationService(cfg.Codes, courseRepo, codeRepo, cache, mail, m, log)
	codeService := service.NewCodeService(cfg.Codes, codeRepo, activityService, m, log)
	newsService := service.NewNewsService(newsRepo, activityService, log)
	eventService := service.NewEventService(eventRepo, activityService, log)
	studyService := service.NewStudyService(studyRepo, activityService, log)
	settingService := service.NewSettingService(settingRepo, activityService, log)
	contactService := service.NewContactService(settingService, mail, m, log)
	dashboardService := service.NewDashboardService(dashboardRepo, operatorRepo, activityService)

	// ─── Reconcile Master and Seed Data ────────────────────────────────
	master, err := operatorService.EnsureMaster(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to reconcile master operator")
	}
	log.Info().Int("id", master.ID).Str("username", master.Username).Msg("Master operator ready")

	if cfg.SeedCatalog {
		n, err := cat.SeedCourses(ctx, courseRepo)
		if err != nil {
			log.Warn().Err(err).Msg("Course seed failed")
		} else if n > 0 {
			log.Info().Int("courses", n).Msg("Seeded course catalog")
		}
		seeded, err := cat.SeedStudy(ctx, studyRepo, master.ID)
		if err != nil {
			log.Warn().Err(err).Msg("Study seed failed")
		} else if seeded {
			log.Info().Msg("Seeded study directory")
		}
	}

	// ─── Start Background Workers ─────────────────────────────────────
	sweeper := worker.NewCodeSweeper(codeRepo, m, cfg.Codes.SweepInterval, cfg.Codes.Retention, log)
	go sweeper.Start(ctx)

	// ─── Initialize Handlers ──────────────────────────────────────────
	checks := map[string]handler.HealthCheck{
		"postgres": conns.Pool.Ping,
		"redis": func(ctx context.Context) error {
			return conns.Redis.Ping(ctx).Err()
		},
	}

	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Operator:     handler.NewOperatorHandler(operatorService),
		Course:       handler.NewCourseHandler(courseService),
		Verification: handler.NewVerificationHandler(verificationService),
		Code:         handler.NewCodeHandler(codeService),
		News:         handler.NewNewsHandler(newsService),
		Event:        handler.NewEventHandler(eventService),
		Study:        handler.NewStudyHandler(studyService),
		Setting:      handler.NewSettingHandler(settingService),
		Contact:      handler.NewContactHandler(contactService),
		Dashboard:    handler.NewDashboardHandler(dashboardService, activityService),
		WS:           handler.NewWSHandler(cache, activityService, log, cfg.AllowedOrigins),
		System:       handler.NewSystemHandler(checks, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, router.Deps{
		Config:  cfg,
		Auth:    authService,
		Metrics: m,
		Log:     log,
	}, handlers)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// Stops the sweeper, the rate limiter cleanup loops and open activity streams.
	cancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
