package mocks

import (
	"context"

	"github.com/fits-community/fits-tracker/internal/playfab"
)

// MockSource is a simple mock for the upstream leaderboard source
type MockSource struct {
	GetLeaderboardPageFunc         func(ctx context.Context, statistic string, start, max int) (*playfab.Page, error)
	GetLeaderboardAroundPlayerFunc func(ctx context.Context, statistic, playfabID string, max int) (*playfab.Page, error)
	Calls                          []PageCall
	AroundCalls                    []AroundCall
}

// PageCall records one page request for assertions
type PageCall struct {
	Statistic string
	Start     int
	Max       int
}

// AroundCall records one around-player request for assertions
type AroundCall struct {
	Statistic string
	PlayFabID string
	Max       int
}

func (m *MockSource) GetLeaderboardPage(ctx context.Context, statistic string, start, max int) (*playfab.Page, error) {
	m.Calls = append(m.Calls, PageCall{Statistic: statistic, Start: start, Max: max})
	if m.GetLeaderboardPageFunc != nil {
		return m.GetLeaderboardPageFunc(ctx, statistic, start, max)
	}
	return nil, nil
}

func (m *MockSource) GetLeaderboardAroundPlayer(ctx context.Context, statistic, playfabID string, max int) (*playfab.Page, error) {
	m.AroundCalls = append(m.AroundCalls, AroundCall{Statistic: statistic, PlayFabID: playfabID, Max: max})
	if m.GetLeaderboardAroundPlayerFunc != nil {
		return m.GetLeaderboardAroundPlayerFunc(ctx, statistic, playfabID, max)
	}
	return nil, nil
}
