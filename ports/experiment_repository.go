package ports

import (
	"context"

	"gobayes/models"
)

// ExperimentRepository persists experiments and their comparison outcomes.
type ExperimentRepository interface {
	SaveExperiment(ctx context.Context, exp *models.Experiment) error
	GetExperiment(ctx context.Context, id string) (*models.Experiment, error)
	ListExperiments(ctx context.Context) ([]models.Experiment, error)

	SaveComparison(ctx context.Context, rec *models.ComparisonRecord) error
	ListComparisons(ctx context.Context, experimentID string) ([]models.ComparisonRecord, error)
}
