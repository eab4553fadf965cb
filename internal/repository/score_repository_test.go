package repository

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fits-community/fits-tracker/internal/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	db := &DB{gormDB}
	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("Failed to auto-migrate tables: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testDate(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

// seedPlayer creates a player row so score rows have a join target.
func seedPlayer(t *testing.T, db *DB, playfabID string) {
	t.Helper()
	name := "player " + playfabID
	err := db.Create(&models.Player{
		PlayFabID:   playfabID,
		DisplayName: &name,
		FirstSeen:   testDate(2026, 1, 1),
		LastSeen:    testDate(2026, 1, 1),
	}).Error
	if err != nil {
		t.Fatalf("Failed to seed player: %v", err)
	}
}

func TestScoreRepository_UpsertIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScoreRepository(db)
	seedPlayer(t, db, "p1")

	score := &models.DailyScore{
		StatDate:      testDate(2026, 1, 19),
		PlayFabID:     "p1",
		StatisticName: "DailyChallenge_Monday",
		Position:      3,
		Score:         1200,
	}

	if err := repo.Upsert(score); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if err := repo.Upsert(score); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	rows, err := repo.GetByDate(testDate(2026, 1, 19))
	if err != nil {
		t.Fatalf("GetByDate failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row after double upsert, got %d", len(rows))
	}
	if rows[0].Score != 1200 || rows[0].Position != 3 {
		t.Errorf("unexpected row: %+v", rows[0])
	}
}

func TestScoreRepository_UpsertReplacesWholeRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScoreRepository(db)
	seedPlayer(t, db, "p1")

	day := testDate(2026, 1, 19)
	first := &models.DailyScore{StatDate: day, PlayFabID: "p1", StatisticName: "s", Position: 10, Score: 500}
	if err := repo.Upsert(first); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	// Later fetch for the same date: last write wins.
	second := &models.DailyScore{StatDate: day, PlayFabID: "p1", StatisticName: "s", Position: 2, Score: 900}
	if err := repo.Upsert(second); err != nil {
		t.Fatalf("replacing upsert failed: %v", err)
	}

	rows, err := repo.GetByDate(day)
	if err != nil {
		t.Fatalf("GetByDate failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Score != 900 || rows[0].Position != 2 {
		t.Errorf("expected replaced row, got %+v", rows[0])
	}
}

func TestScoreRepository_GetRangeOrdering(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScoreRepository(db)
	seedPlayer(t, db, "p1")
	seedPlayer(t, db, "p2")

	for _, s := range []models.DailyScore{
		{StatDate: testDate(2026, 1, 20), PlayFabID: "p1", StatisticName: "s", Position: 0, Score: 1},
		{StatDate: testDate(2026, 1, 19), PlayFabID: "p2", StatisticName: "s", Position: 1, Score: 2},
		{StatDate: testDate(2026, 1, 19), PlayFabID: "p1", StatisticName: "s", Position: 0, Score: 3},
	} {
		sc := s
		if err := repo.Upsert(&sc); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	rows, err := repo.GetRange(testDate(2026, 1, 19), testDate(2026, 1, 20))
	if err != nil {
		t.Fatalf("GetRange failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	// Ordered by stat_date then position.
	if rows[0].PlayFabID != "p1" || rows[1].PlayFabID != "p2" || rows[2].PlayFabID != "p1" {
		t.Errorf("unexpected ordering: %v, %v, %v", rows[0].PlayFabID, rows[1].PlayFabID, rows[2].PlayFabID)
	}
}

func TestScoreRepository_DateBounds(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScoreRepository(db)

	_, _, ok, err := repo.DateBounds()
	if err != nil {
		t.Fatalf("DateBounds failed: %v", err)
	}
	if ok {
		t.Error("expected ok=false on empty table")
	}

	seedPlayer(t, db, "p1")
	for _, d := range []time.Time{testDate(2026, 1, 19), testDate(2026, 2, 3), testDate(2026, 1, 5)} {
		if err := repo.Upsert(&models.DailyScore{StatDate: d, PlayFabID: "p1", StatisticName: "s", Score: 1}); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	minDate, maxDate, ok, err := repo.DateBounds()
	if err != nil {
		t.Fatalf("DateBounds failed: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true")
	}
	if !minDate.Equal(testDate(2026, 1, 5)) || !maxDate.Equal(testDate(2026, 2, 3)) {
		t.Errorf("unexpected bounds: %s .. %s", minDate, maxDate)
	}
}

func TestScoreRepository_GetRangeWithPlayers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScoreRepository(db)
	seedPlayer(t, db, "p1")

	if err := repo.Upsert(&models.DailyScore{
		StatDate: testDate(2026, 1, 19), PlayFabID: "p1", StatisticName: "s", Position: 0, Score: 42,
	}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	rows, err := repo.GetRangeWithPlayers(testDate(2026, 1, 19), testDate(2026, 1, 19))
	if err != nil {
		t.Fatalf("GetRangeWithPlayers failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].DisplayName == nil || *rows[0].DisplayName != "player p1" {
		t.Errorf("expected joined display name, got %v", rows[0].DisplayName)
	}
	if rows[0].Score != 42 {
		t.Errorf("expected score 42, got %d", rows[0].Score)
	}
}
