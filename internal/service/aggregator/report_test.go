package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fits-community/fits-tracker/internal/models"
	"github.com/fits-community/fits-tracker/internal/repository"
)

func seedPlayer(t *testing.T, db *repository.DB, playfabID, name string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Player{
		PlayFabID:   playfabID,
		DisplayName: &name,
		FirstSeen:   date(2026, 1, 1),
		LastSeen:    date(2026, 1, 1),
	}).Error)
}

// seedReportWeek fills the week of 2026-01-18 with three days of results:
//
//	19th: p1(100) p2(90) p3(80)
//	20th: p1(120) p2(70)
//	21st: p2(110) p1(60)
func seedReportWeek(t *testing.T, db *repository.DB) {
	t.Helper()
	seedPlayer(t, db, "p1", "Alice")
	seedPlayer(t, db, "p2", "Bob")
	seedPlayer(t, db, "p3", "Cara")

	seedScore(t, db, date(2026, 1, 19), "p1", 0, 100)
	seedScore(t, db, date(2026, 1, 19), "p2", 1, 90)
	seedScore(t, db, date(2026, 1, 19), "p3", 2, 80)
	seedScore(t, db, date(2026, 1, 20), "p1", 0, 120)
	seedScore(t, db, date(2026, 1, 20), "p2", 1, 70)
	seedScore(t, db, date(2026, 1, 21), "p2", 0, 110)
	seedScore(t, db, date(2026, 1, 21), "p1", 1, 60)
}

func TestWeekReport(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestService(t, db)
	seedReportWeek(t, db)

	rpt, err := svc.WeekReport(date(2026, 1, 22))
	require.NoError(t, err)

	assert.True(t, rpt.PeriodStart.Equal(date(2026, 1, 18)))
	assert.True(t, rpt.PeriodEnd.Equal(date(2026, 1, 24)))

	require.NotNil(t, rpt.Champion)
	assert.Equal(t, "p1", rpt.Champion.PlayFabID)
	assert.Equal(t, 2, rpt.Champion.FirstPlaces)
	assert.InDelta(t, 66.7, rpt.Champion.WinPercentage, 0.1)

	require.Len(t, rpt.DailyWinners, 3)
	assert.Equal(t, "p1", rpt.DailyWinners[0].PlayFabID)
	assert.Equal(t, int64(100), rpt.DailyWinners[0].Score)
	assert.Equal(t, "p2", rpt.DailyWinners[2].PlayFabID)
	assert.True(t, rpt.DailyWinners[2].StatDate.Equal(date(2026, 1, 21)))

	require.Len(t, rpt.TopFirstPlaces, 2)
	assert.Equal(t, "p1", rpt.TopFirstPlaces[0].PlayFabID)
	assert.Equal(t, 2, rpt.TopFirstPlaces[0].Count)
	assert.Equal(t, "p2", rpt.TopFirstPlaces[1].PlayFabID)

	// p1 and p2 both have 3 podiums; the tie resolves by playfab_id.
	require.Len(t, rpt.TopPodiums, 3)
	assert.Equal(t, "p1", rpt.TopPodiums[0].PlayFabID)
	assert.Equal(t, 3, rpt.TopPodiums[0].Count)
	assert.Equal(t, "p2", rpt.TopPodiums[1].PlayFabID)
	assert.Equal(t, "p3", rpt.TopPodiums[2].PlayFabID)
	assert.Equal(t, 1, rpt.TopPodiums[2].Count)

	require.Len(t, rpt.TopTens, 3)

	// p3 played a single day and falls under the consistency floor.
	require.Len(t, rpt.MostConsistent, 2)
	assert.Equal(t, "p1", rpt.MostConsistent[0].PlayFabID)
	assert.Equal(t, 3, rpt.MostConsistent[0].DaysPlayed)
	assert.Equal(t, int64(93), rpt.MostConsistent[0].AverageScore)
	assert.Equal(t, int64(120), rpt.MostConsistent[0].MaxScore)
	assert.Equal(t, int64(60), rpt.MostConsistent[0].MinScore)
	assert.Equal(t, "p2", rpt.MostConsistent[1].PlayFabID)

	assert.Equal(t, 3, rpt.Participation.UniquePlayers)
	assert.Equal(t, 3, rpt.Participation.DaysTracked)
	assert.InDelta(t, 7.0/3.0, rpt.Participation.AvgDailyParticipants, 0.01)

	require.NotNil(t, rpt.Scores)
	assert.Equal(t, 7, rpt.Scores.ScoresRecorded)
	assert.Equal(t, int64(90), rpt.Scores.AverageScore)
	assert.Equal(t, int64(120), rpt.Scores.HighestScore)
	assert.Equal(t, int64(60), rpt.Scores.LowestScore)
}

func TestMonthReport(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestService(t, db)
	seedReportWeek(t, db)
	// Next month, must not leak into January.
	seedScore(t, db, date(2026, 2, 1), "p1", 0, 999)

	rpt, err := svc.MonthReport(date(2026, 1, 15))
	require.NoError(t, err)

	assert.True(t, rpt.PeriodStart.Equal(date(2026, 1, 1)))
	assert.True(t, rpt.PeriodEnd.Equal(date(2026, 1, 31)))
	assert.Equal(t, 7, rpt.Scores.ScoresRecorded)
	assert.Equal(t, int64(120), rpt.Scores.HighestScore)

	// Monthly consistency needs five played days; three is not enough.
	assert.Empty(t, rpt.MostConsistent)
}

func TestWeekReport_EmptyPeriod(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestService(t, db)

	rpt, err := svc.WeekReport(date(2026, 1, 22))
	require.NoError(t, err)

	assert.Nil(t, rpt.Champion)
	assert.Nil(t, rpt.Scores)
	assert.Empty(t, rpt.DailyWinners)
	assert.Empty(t, rpt.TopFirstPlaces)
	assert.Empty(t, rpt.MostConsistent)
	assert.Zero(t, rpt.Participation.UniquePlayers)
	assert.Zero(t, rpt.Participation.DaysTracked)
	assert.Zero(t, rpt.Participation.AvgDailyParticipants)
}
