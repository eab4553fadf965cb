package repository

import (
	"fmt"

	"github.com/fits-community/fits-tracker/internal/models"
)

// RunRepository handles the append-only fetch-run audit log. Rows are never
// updated or deleted; presence of a row is what marks a completed run.
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a new run repository.
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// Record appends one audit row.
func (r *RunRepository) Record(run *models.FetchRun) error {
	if err := r.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to record fetch run: %w", err)
	}
	return nil
}

// ListRecent returns the most recent runs, newest first.
func (r *RunRepository) ListRecent(limit int) ([]models.FetchRun, error) {
	var runs []models.FetchRun
	err := r.db.Order("id DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list fetch runs: %w", err)
	}
	return runs, nil
}
