package mocks

import (
	"time"

	"github.com/fits-community/fits-tracker/internal/models"
	"github.com/fits-community/fits-tracker/internal/repository"
)

// MockPlayerRepository is a simple mock for the player repository
type MockPlayerRepository struct {
	UpsertFunc func(player *models.Player, seen time.Time) error
	Upserted   []models.Player
}

func (m *MockPlayerRepository) Upsert(player *models.Player, seen time.Time) error {
	m.Upserted = append(m.Upserted, *player)
	if m.UpsertFunc != nil {
		return m.UpsertFunc(player, seen)
	}
	return nil
}

// MockScoreRepository is a simple mock for the score repository
type MockScoreRepository struct {
	UpsertFunc              func(score *models.DailyScore) error
	GetRangeFunc            func(start, end time.Time) ([]models.DailyScore, error)
	DateBoundsFunc          func() (time.Time, time.Time, bool, error)
	GetRangeWithPlayersFunc func(start, end time.Time) ([]repository.ExportRow, error)
	Upserted                []models.DailyScore
}

func (m *MockScoreRepository) Upsert(score *models.DailyScore) error {
	m.Upserted = append(m.Upserted, *score)
	if m.UpsertFunc != nil {
		return m.UpsertFunc(score)
	}
	return nil
}

func (m *MockScoreRepository) GetRange(start, end time.Time) ([]models.DailyScore, error) {
	if m.GetRangeFunc != nil {
		return m.GetRangeFunc(start, end)
	}
	return nil, nil
}

func (m *MockScoreRepository) DateBounds() (time.Time, time.Time, bool, error) {
	if m.DateBoundsFunc != nil {
		return m.DateBoundsFunc()
	}
	return time.Time{}, time.Time{}, false, nil
}

func (m *MockScoreRepository) GetRangeWithPlayers(start, end time.Time) ([]repository.ExportRow, error) {
	if m.GetRangeWithPlayersFunc != nil {
		return m.GetRangeWithPlayersFunc(start, end)
	}
	return nil, nil
}

// MockRunRepository is a simple mock for the fetch-run audit repository
type MockRunRepository struct {
	RecordFunc func(run *models.FetchRun) error
	Recorded   []models.FetchRun
}

func (m *MockRunRepository) Record(run *models.FetchRun) error {
	m.Recorded = append(m.Recorded, *run)
	if m.RecordFunc != nil {
		return m.RecordFunc(run)
	}
	return nil
}
