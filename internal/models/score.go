package models

import (
	"time"
)

// DailyScore represents one player's result for one statistic-date. The
// composite key (stat_date, playfab_id) makes a later fetch for the same date
// replace the row entirely.
type DailyScore struct {
	StatDate      time.Time `gorm:"column:stat_date;type:date;primaryKey" json:"stat_date"`
	PlayFabID     string    `gorm:"column:playfab_id;primaryKey;size:64" json:"playfab_id"`
	StatisticName string    `gorm:"size:100;not null" json:"statistic_name"`
	Position      int       `gorm:"not null" json:"position"` // 0-indexed rank as reported upstream
	Score         int64     `gorm:"not null" json:"score"`
	Player        *Player   `gorm:"foreignKey:PlayFabID;references:PlayFabID" json:"player,omitempty"`
}

// TableName specifies the table name for DailyScore model.
func (DailyScore) TableName() string {
	return "daily_scores"
}

// FetchRun is an append-only audit record of one fetch orchestration.
type FetchRun struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	StatDate      time.Time `gorm:"column:stat_date;type:date;not null;index" json:"stat_date"`
	StatisticName string    `gorm:"size:100;not null" json:"statistic_name"`
	FetchedAt     time.Time `gorm:"not null" json:"fetched_at"`
	EntryCount    int       `gorm:"not null" json:"entry_count"`
	APIVersion    int       `gorm:"column:api_version" json:"api_version"`
}

// TableName specifies the table name for FetchRun model.
func (FetchRun) TableName() string {
	return "fetch_runs"
}
