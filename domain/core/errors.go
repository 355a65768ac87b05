package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound           = errors.New("resource not found")
	ErrExperimentNotFound = fmt.Errorf("%w: experiment", ErrNotFound)
	ErrComparisonNotFound = fmt.Errorf("%w: comparison", ErrNotFound)

	// Validation errors
	ErrValidation         = errors.New("validation failed")
	ErrInvalidPrior       = errors.New("prior pseudo-counts must be positive")
	ErrInvalidPosterior   = errors.New("posterior parameters must be positive")
	ErrInvalidObservation = errors.New("invalid observation counts")
	ErrInvalidDrawCount   = errors.New("draw count must be positive")
	ErrInvalidGrid        = errors.New("invalid integration grid")
	ErrInvalidConfidence  = errors.New("confidence level must be in (0, 1)")

	// Configuration errors
	ErrUnknownStrategy = errors.New("unknown comparison strategy")
	ErrMissingParam    = errors.New("missing strategy parameter")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w for %s: %s", ErrValidation, field, reason)
}

func NewObservationError(entity EntityKey, successes, trials int64) error {
	return fmt.Errorf("%w: entity %q has successes=%d, trials=%d", ErrInvalidObservation, entity, successes, trials)
}

func NewMissingParamError(strategy string, param string) error {
	return fmt.Errorf("%w: strategy %q requires %s", ErrMissingParam, strategy, param)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidPrior) ||
		errors.Is(err, ErrInvalidPosterior) ||
		errors.Is(err, ErrInvalidObservation) ||
		errors.Is(err, ErrInvalidDrawCount) ||
		errors.Is(err, ErrInvalidGrid) ||
		errors.Is(err, ErrInvalidConfidence)
}

func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrUnknownStrategy) ||
		errors.Is(err, ErrMissingParam)
}
