package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fits-community/fits-tracker/internal/models"
)

// AggregateRepository handles weekly and monthly aggregate storage. The only
// write operation is a transactional replace of a whole period, so readers
// never observe a half-rebuilt period.
type AggregateRepository struct {
	db *DB
}

// NewAggregateRepository creates a new aggregate repository.
func NewAggregateRepository(db *DB) *AggregateRepository {
	return &AggregateRepository{db: db}
}

// ReplaceWeek atomically swaps the stored row set for one week.
func (r *AggregateRepository) ReplaceWeek(periodStart time.Time, rows []models.WeeklyAggregate) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("period_start = ?", periodStart).Delete(&models.WeeklyAggregate{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("failed to replace weekly aggregates for %s: %w",
			periodStart.Format("2006-01-02"), err)
	}
	return nil
}

// ReplaceMonth atomically swaps the stored row set for one month.
func (r *AggregateRepository) ReplaceMonth(monthStart time.Time, rows []models.MonthlyAggregate) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("month_start = ?", monthStart).Delete(&models.MonthlyAggregate{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("failed to replace monthly aggregates for %s: %w",
			monthStart.Format("2006-01-02"), err)
	}
	return nil
}

// GetWeek retrieves the stored aggregate rows for one week, ranked order.
func (r *AggregateRepository) GetWeek(periodStart time.Time) ([]models.WeeklyAggregate, error) {
	var rows []models.WeeklyAggregate
	err := r.db.Where("period_start = ?", periodStart).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get weekly aggregates for %s: %w",
			periodStart.Format("2006-01-02"), err)
	}
	return rows, nil
}

// GetMonth retrieves the stored aggregate rows for one month, ranked order.
func (r *AggregateRepository) GetMonth(monthStart time.Time) ([]models.MonthlyAggregate, error) {
	var rows []models.MonthlyAggregate
	err := r.db.Where("month_start = ?", monthStart).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly aggregates for %s: %w",
			monthStart.Format("2006-01-02"), err)
	}
	return rows, nil
}
