package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fits-community/fits-tracker/internal/models"
)

// ScoreRepository handles daily-score database operations.
type ScoreRepository struct {
	db *DB
}

// NewScoreRepository creates a new score repository.
func NewScoreRepository(db *DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// Upsert writes a daily score with last-write-wins semantics: a later fetch
// for the same (stat_date, playfab_id) replaces the row entirely.
func (r *ScoreRepository) Upsert(score *models.DailyScore) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stat_date"}, {Name: "playfab_id"}},
		UpdateAll: true,
	}).Create(score).Error
	if err != nil {
		return fmt.Errorf("failed to upsert score for %s on %s: %w",
			score.PlayFabID, score.StatDate.Format("2006-01-02"), err)
	}
	return nil
}

// GetByDate retrieves all scores for one stat date ordered by upstream position.
func (r *ScoreRepository) GetByDate(date time.Time) ([]models.DailyScore, error) {
	var scores []models.DailyScore
	err := r.db.Where("stat_date = ?", date).
		Order("position ASC").
		Find(&scores).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get scores for %s: %w", date.Format("2006-01-02"), err)
	}
	return scores, nil
}

// GetRange retrieves all scores with stat_date in [start, end], ordered by
// stat_date then position. The aggregators rely on the date ordering for the
// earliest-wins best-day tie break.
func (r *ScoreRepository) GetRange(start, end time.Time) ([]models.DailyScore, error) {
	var scores []models.DailyScore
	err := r.db.Where("stat_date BETWEEN ? AND ?", start, end).
		Order("stat_date ASC, position ASC").
		Find(&scores).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get scores between %s and %s: %w",
			start.Format("2006-01-02"), end.Format("2006-01-02"), err)
	}
	return scores, nil
}

// ExportRow is one joined daily-score row for export.
type ExportRow struct {
	StatDate       time.Time `gorm:"column:stat_date"`
	StatisticName  string    `gorm:"column:statistic_name"`
	Position       int       `gorm:"column:position"`
	Score          int64     `gorm:"column:score"`
	PlayFabID      string    `gorm:"column:playfab_id"`
	DisplayName    *string   `gorm:"column:display_name"`
	Platform       *string   `gorm:"column:platform"`
	PlatformUserID *string   `gorm:"column:platform_user_id"`
}

// GetRangeWithPlayers retrieves joined score+player rows for export.
func (r *ScoreRepository) GetRangeWithPlayers(start, end time.Time) ([]ExportRow, error) {
	var rows []ExportRow
	err := r.db.Model(&models.DailyScore{}).
		Select("daily_scores.stat_date, daily_scores.statistic_name, daily_scores.position, daily_scores.score, daily_scores.playfab_id, players.display_name, players.platform, players.platform_user_id").
		Joins("JOIN players ON daily_scores.playfab_id = players.playfab_id").
		Where("daily_scores.stat_date BETWEEN ? AND ?", start, end).
		Order("daily_scores.stat_date ASC, daily_scores.position ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to export scores: %w", err)
	}
	return rows, nil
}

// DateBounds returns the earliest and latest stat_date present. ok is false
// when no daily scores are stored at all.
func (r *ScoreRepository) DateBounds() (minDate, maxDate time.Time, ok bool, err error) {
	var first, last models.DailyScore
	err = r.db.Order("stat_date ASC").First(&first).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("failed to get date bounds: %w", err)
	}
	if err = r.db.Order("stat_date DESC").First(&last).Error; err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("failed to get date bounds: %w", err)
	}
	return first.StatDate, last.StatDate, true, nil
}
