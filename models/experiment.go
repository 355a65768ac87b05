package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JSONBMap is a custom type for PostgreSQL JSONB columns that maps to map[string]interface{}
type JSONBMap map[string]interface{}

// Value implements driver.Valuer interface
func (j JSONBMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONBMap) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSONBMap)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*j = make(JSONBMap)
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// Experiment groups the observations compared under one shared prior.
type Experiment struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	PriorAlpha float64   `db:"prior_alpha" json:"prior_alpha"`
	PriorBeta  float64   `db:"prior_beta" json:"prior_beta"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ComparisonRecord is one persisted comparison outcome within an experiment.
type ComparisonRecord struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ExperimentID uuid.UUID `db:"experiment_id" json:"experiment_id"`

	EntityA    string `db:"entity_a" json:"entity_a"`
	SuccessesA int64  `db:"successes_a" json:"successes_a"`
	TrialsA    int64  `db:"trials_a" json:"trials_a"`
	EntityB    string `db:"entity_b" json:"entity_b"`
	SuccessesB int64  `db:"successes_b" json:"successes_b"`
	TrialsB    int64  `db:"trials_b" json:"trials_b"`

	Strategy    string  `db:"strategy" json:"strategy"`
	Probability float64 `db:"probability" json:"probability"`
	Estimate    float64 `db:"estimate" json:"estimate"`
	IntervalLow float64 `db:"interval_low" json:"interval_low"`
	IntervalHi  float64 `db:"interval_high" json:"interval_high"`
	Level       float64 `db:"level" json:"level"`

	Metadata  JSONBMap  `db:"metadata" json:"metadata,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
