package main

import (
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gobayes/adapters/postgres"
	"gobayes/adapters/stats/comparators"
	"gobayes/adapters/stats/interval"
	"gobayes/app"
	"gobayes/internal"
	"gobayes/internal/config"
	"gobayes/internal/errors"
	"gobayes/ports"
	"gobayes/ui"
)

// initDatabase connects and migrates when DATABASE_URL is set. A missing
// URL is not an error: the service runs computation-only.
func initDatabase(cfg *config.Config, logger *internal.Logger) (ports.ExperimentRepository, error) {
	if cfg.Database.URL == "" {
		logger.Info("DATABASE_URL not set, running without persistence")
		return nil, nil
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := postgres.Migrate(db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}
	logger.Info("connected to postgres")
	return postgres.NewExperimentRepository(db), nil
}

func main() {
	// Missing .env is fine, environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := internal.DefaultLogger

	repo, err := initDatabase(cfg, logger)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	engine := comparators.NewEngine()
	calc := interval.NewCalculator(cfg.Compare.Workers)
	service := app.NewComparisonService(engine, calc, repo, logger)

	httpApp := ui.NewApp(service, repo, cfg, logger)
	if err := httpApp.Serve(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
