package models

import (
	"time"
)

// WeeklyAggregate holds one player's totals for one Sunday-to-Saturday week.
// The whole week's row set is deleted and rebuilt on every aggregation run.
type WeeklyAggregate struct {
	PeriodStart      time.Time `gorm:"column:period_start;type:date;primaryKey" json:"period_start"`
	PlayFabID        string    `gorm:"column:playfab_id;primaryKey;size:64" json:"playfab_id"`
	PeriodEnd        time.Time `gorm:"column:period_end;type:date;not null" json:"period_end"`
	TotalScore       int64     `gorm:"not null" json:"total_score"`
	DaysParticipated int       `gorm:"not null" json:"days_participated"`
	AverageScore     float64   `gorm:"not null" json:"average_score"`
	BestDailyScore   int64     `gorm:"not null" json:"best_daily_score"`
	BestDailyDate    time.Time `gorm:"type:date;not null" json:"best_daily_date"`
	Position         int       `gorm:"not null" json:"position"` // 0-indexed, descending by total_score
	CalculatedAt     time.Time `gorm:"not null" json:"calculated_at"`
}

// TableName specifies the table name for WeeklyAggregate model.
func (WeeklyAggregate) TableName() string {
	return "weekly_aggregates"
}

// MonthlyAggregate holds one player's totals for one calendar month.
// Structurally identical to WeeklyAggregate, different period grain.
type MonthlyAggregate struct {
	PeriodStart      time.Time `gorm:"column:month_start;type:date;primaryKey" json:"month_start"`
	PlayFabID        string    `gorm:"column:playfab_id;primaryKey;size:64" json:"playfab_id"`
	PeriodEnd        time.Time `gorm:"column:month_end;type:date;not null" json:"month_end"`
	TotalScore       int64     `gorm:"not null" json:"total_score"`
	DaysParticipated int       `gorm:"not null" json:"days_participated"`
	AverageScore     float64   `gorm:"not null" json:"average_score"`
	BestDailyScore   int64     `gorm:"not null" json:"best_daily_score"`
	BestDailyDate    time.Time `gorm:"type:date;not null" json:"best_daily_date"`
	Position         int       `gorm:"not null" json:"position"`
	CalculatedAt     time.Time `gorm:"not null" json:"calculated_at"`
}

// TableName specifies the table name for MonthlyAggregate model.
func (MonthlyAggregate) TableName() string {
	return "monthly_aggregates"
}
