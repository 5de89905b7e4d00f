package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/oeh-wirtschaft/oeh-backend/internal/catalog"
	"github.com/oeh-wirtschaft/oeh-backend/internal/config"
	"github.com/oeh-wirtschaft/oeh-backend/internal/database"
	"github.com/oeh-wirtschaft/oeh-backend/internal/logger"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
	"github.com/oeh-wirtschaft/oeh-backend/internal/service"
)

func main() {
	importAll := flag.Bool("import", false, "Import missing catalog courses even when the table is not empty")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	cat, err := catalog.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load catalog")
	}

	operatorRepo := repository.NewOperatorRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	studyRepo := repository.NewStudyRepository(pool)

	activityService := service.NewActivityService(repository.NewActivityRepository(pool), nil, log)
	authService := service.NewAuthService(cfg, operatorRepo, nil, activityService, log)
	operatorService := service.NewOperatorService(cfg.Master, operatorRepo, authService, activityService, log)

	// Seeded study updates are attributed to the master account.
	master, err := operatorService.EnsureMaster(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to reconcile master operator")
	}

	fmt.Println("=== Seeding Catalog ===")

	if *importAll {
		imported, skipped, err := cat.ImportCourses(ctx, courseRepo)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to import courses")
		}
		fmt.Printf("Courses: %d imported, %d already present\n", imported, skipped)
	} else {
		n, err := cat.SeedCourses(ctx, courseRepo)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to seed courses")
		}
		fmt.Printf("Courses: %d inserted\n", n)
	}

	seeded, err := cat.SeedStudy(ctx, studyRepo, master.ID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed study directory")
	}
	if seeded {
		fmt.Println("Study directory: seeded")
	} else {
		fmt.Println("Study directory: already populated, skipped")
	}

	fmt.Println("\nDone.")
}
