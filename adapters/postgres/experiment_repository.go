package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gobayes/domain/core"
	"gobayes/models"
	"gobayes/ports"

	"github.com/jmoiron/sqlx"
)

// ExperimentRepositoryImpl implements ExperimentRepository for PostgreSQL
type ExperimentRepositoryImpl struct {
	db *sqlx.DB
}

// NewExperimentRepository creates a new PostgreSQL experiment repository
func NewExperimentRepository(db *sqlx.DB) ports.ExperimentRepository {
	return &ExperimentRepositoryImpl{db: db}
}

// Migrate creates the experiment tables when they do not exist.
func Migrate(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS experiments (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			prior_alpha DOUBLE PRECISION NOT NULL,
			prior_beta DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS comparisons (
			id UUID PRIMARY KEY,
			experiment_id UUID NOT NULL REFERENCES experiments(id) ON DELETE CASCADE,
			entity_a TEXT NOT NULL,
			successes_a BIGINT NOT NULL,
			trials_a BIGINT NOT NULL,
			entity_b TEXT NOT NULL,
			successes_b BIGINT NOT NULL,
			trials_b BIGINT NOT NULL,
			strategy TEXT NOT NULL,
			probability DOUBLE PRECISION NOT NULL,
			estimate DOUBLE PRECISION NOT NULL,
			interval_low DOUBLE PRECISION NOT NULL,
			interval_high DOUBLE PRECISION NOT NULL,
			level DOUBLE PRECISION NOT NULL,
			metadata JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comparisons_experiment ON comparisons(experiment_id)`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveExperiment inserts or updates an experiment
func (r *ExperimentRepositoryImpl) SaveExperiment(ctx context.Context, exp *models.Experiment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO experiments (id, name, prior_alpha, prior_beta, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			prior_alpha = EXCLUDED.prior_alpha,
			prior_beta = EXCLUDED.prior_beta`,
		exp.ID, exp.Name, exp.PriorAlpha, exp.PriorBeta, exp.CreatedAt)
	return err
}

// GetExperiment retrieves an experiment by ID
func (r *ExperimentRepositoryImpl) GetExperiment(ctx context.Context, id string) (*models.Experiment, error) {
	var exp models.Experiment
	err := r.db.GetContext(ctx, &exp, `
		SELECT id, name, prior_alpha, prior_beta, created_at
		FROM experiments WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NewNotFoundError("experiment", id)
	}
	if err != nil {
		return nil, err
	}
	return &exp, nil
}

// ListExperiments returns all experiments, newest first
func (r *ExperimentRepositoryImpl) ListExperiments(ctx context.Context) ([]models.Experiment, error) {
	experiments := []models.Experiment{}
	err := r.db.SelectContext(ctx, &experiments, `
		SELECT id, name, prior_alpha, prior_beta, created_at
		FROM experiments ORDER BY created_at DESC`)
	return experiments, err
}

// SaveComparison persists one comparison outcome
func (r *ExperimentRepositoryImpl) SaveComparison(ctx context.Context, rec *models.ComparisonRecord) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO comparisons (
			id, experiment_id, entity_a, successes_a, trials_a,
			entity_b, successes_b, trials_b, strategy, probability,
			estimate, interval_low, interval_high, level, metadata, created_at
		) VALUES (
			:id, :experiment_id, :entity_a, :successes_a, :trials_a,
			:entity_b, :successes_b, :trials_b, :strategy, :probability,
			:estimate, :interval_low, :interval_high, :level, :metadata, :created_at
		)`, rec)
	return err
}

// ListComparisons returns every comparison recorded for an experiment
func (r *ExperimentRepositoryImpl) ListComparisons(ctx context.Context, experimentID string) ([]models.ComparisonRecord, error) {
	records := []models.ComparisonRecord{}
	err := r.db.SelectContext(ctx, &records, `
		SELECT id, experiment_id, entity_a, successes_a, trials_a,
		       entity_b, successes_b, trials_b, strategy, probability,
		       estimate, interval_low, interval_high, level, metadata, created_at
		FROM comparisons
		WHERE experiment_id = $1
		ORDER BY created_at DESC`, experimentID)
	return records, err
}
