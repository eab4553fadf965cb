// Package aggregator rebuilds weekly and monthly ranked aggregates from the
// raw daily score rows. A period is always recomputed whole and swapped in
// one transaction, never incrementally patched.
package aggregator

import (
	"fmt"
	"sort"
	"time"

	"github.com/fits-community/fits-tracker/internal/metrics"
	"github.com/fits-community/fits-tracker/internal/models"
	"github.com/fits-community/fits-tracker/internal/repository"
	"github.com/fits-community/fits-tracker/pkg/logger"
)

// ScoreRepository interface for reading daily rows.
type ScoreRepository interface {
	GetRange(start, end time.Time) ([]models.DailyScore, error)
	GetRangeWithPlayers(start, end time.Time) ([]repository.ExportRow, error)
	DateBounds() (minDate, maxDate time.Time, ok bool, err error)
}

// AggregateRepository interface for period writes.
type AggregateRepository interface {
	ReplaceWeek(periodStart time.Time, rows []models.WeeklyAggregate) error
	ReplaceMonth(monthStart time.Time, rows []models.MonthlyAggregate) error
}

// Service recomputes period aggregates.
type Service struct {
	scores     ScoreRepository
	aggregates AggregateRepository
	log        *logger.Logger
}

// NewService creates a new aggregator service with concrete repository types.
func NewService(scores *repository.ScoreRepository, aggregates *repository.AggregateRepository, log *logger.Logger) *Service {
	return NewServiceWithInterfaces(scores, aggregates, log)
}

// NewServiceWithInterfaces creates a new aggregator service with interface
// dependencies (useful for testing).
func NewServiceWithInterfaces(scores ScoreRepository, aggregates AggregateRepository, log *logger.Logger) *Service {
	return &Service{scores: scores, aggregates: aggregates, log: log}
}

// playerTotals accumulates one player's in-period numbers.
type playerTotals struct {
	playfabID     string
	totalScore    int64
	days          int
	bestScore     int64
	bestScoreDate time.Time
}

// AggregateWeek rebuilds the aggregate for the week containing anchor
// (Sunday through Saturday). A week with no daily rows is skipped without
// touching any stored data for that period.
func (s *Service) AggregateWeek(anchor time.Time) error {
	start, end := WeekStart(anchor), WeekEnd(anchor)

	totals, err := s.collect(start, end)
	if err != nil {
		metrics.AggregationsTotal.WithLabelValues("week", "error").Inc()
		return err
	}
	if len(totals) == 0 {
		s.log.Info().
			Str("period_start", start.Format("2006-01-02")).
			Msg("No daily scores in week, skipping aggregation")
		metrics.AggregationsTotal.WithLabelValues("week", "skipped").Inc()
		return nil
	}

	now := time.Now().UTC()
	rows := make([]models.WeeklyAggregate, 0, len(totals))
	for pos, t := range totals {
		rows = append(rows, models.WeeklyAggregate{
			PeriodStart:      start,
			PeriodEnd:        end,
			PlayFabID:        t.playfabID,
			TotalScore:       t.totalScore,
			DaysParticipated: t.days,
			AverageScore:     float64(t.totalScore) / float64(t.days),
			BestDailyScore:   t.bestScore,
			BestDailyDate:    t.bestScoreDate,
			Position:         pos,
			CalculatedAt:     now,
		})
	}

	if err := s.aggregates.ReplaceWeek(start, rows); err != nil {
		metrics.AggregationsTotal.WithLabelValues("week", "error").Inc()
		return err
	}

	metrics.AggregationsTotal.WithLabelValues("week", "ok").Inc()
	s.log.Info().
		Str("period_start", start.Format("2006-01-02")).
		Str("period_end", end.Format("2006-01-02")).
		Int("players", len(rows)).
		Msg("Weekly aggregate rebuilt")
	return nil
}

// AggregateMonth rebuilds the aggregate for the calendar month containing
// anchor. Unlike weeks, an empty month still replaces (clears) the stored
// period so a month is never left stale after its daily rows change.
func (s *Service) AggregateMonth(anchor time.Time) error {
	start, end := MonthStart(anchor), MonthEnd(anchor)

	totals, err := s.collect(start, end)
	if err != nil {
		metrics.AggregationsTotal.WithLabelValues("month", "error").Inc()
		return err
	}

	now := time.Now().UTC()
	rows := make([]models.MonthlyAggregate, 0, len(totals))
	for pos, t := range totals {
		rows = append(rows, models.MonthlyAggregate{
			PeriodStart:      start,
			PeriodEnd:        end,
			PlayFabID:        t.playfabID,
			TotalScore:       t.totalScore,
			DaysParticipated: t.days,
			AverageScore:     float64(t.totalScore) / float64(t.days),
			BestDailyScore:   t.bestScore,
			BestDailyDate:    t.bestScoreDate,
			Position:         pos,
			CalculatedAt:     now,
		})
	}

	if err := s.aggregates.ReplaceMonth(start, rows); err != nil {
		metrics.AggregationsTotal.WithLabelValues("month", "error").Inc()
		return err
	}

	metrics.AggregationsTotal.WithLabelValues("month", "ok").Inc()
	s.log.Info().
		Str("month_start", start.Format("2006-01-02")).
		Int("players", len(rows)).
		Msg("Monthly aggregate rebuilt")
	return nil
}

// AggregateAllWeeks converges every week touching the stored date range.
// Safe to re-run at any time.
func (s *Service) AggregateAllWeeks() error {
	minDate, maxDate, ok, err := s.scores.DateBounds()
	if err != nil {
		return err
	}
	if !ok {
		s.log.Info().Msg("No daily scores stored, nothing to aggregate")
		return nil
	}

	for start := WeekStart(minDate); !start.After(maxDate); start = start.AddDate(0, 0, 7) {
		if err := s.AggregateWeek(start); err != nil {
			return fmt.Errorf("week %s: %w", start.Format("2006-01-02"), err)
		}
	}
	return nil
}

// AggregateAllMonths converges every month touching the stored date range.
func (s *Service) AggregateAllMonths() error {
	minDate, maxDate, ok, err := s.scores.DateBounds()
	if err != nil {
		return err
	}
	if !ok {
		s.log.Info().Msg("No daily scores stored, nothing to aggregate")
		return nil
	}

	for start := MonthStart(minDate); !start.After(maxDate); start = start.AddDate(0, 1, 0) {
		if err := s.AggregateMonth(start); err != nil {
			return fmt.Errorf("month %s: %w", start.Format("2006-01-02"), err)
		}
	}
	return nil
}

// collect groups the period's daily rows by player and ranks the totals.
// The returned slice index is the 0-based position.
func (s *Service) collect(start, end time.Time) ([]playerTotals, error) {
	scores, err := s.scores.GetRange(start, end)
	if err != nil {
		return nil, err
	}

	byPlayer := make(map[string]*playerTotals)
	for _, sc := range scores {
		t, seen := byPlayer[sc.PlayFabID]
		if !seen {
			t = &playerTotals{playfabID: sc.PlayFabID}
			byPlayer[sc.PlayFabID] = t
		}
		t.totalScore += sc.Score
		t.days++
		// Strict comparison keeps the earliest date on a best-score tie;
		// rows arrive ordered by stat_date.
		if sc.Score > t.bestScore || t.days == 1 {
			t.bestScore = sc.Score
			t.bestScoreDate = sc.StatDate
		}
	}

	totals := make([]playerTotals, 0, len(byPlayer))
	for _, t := range byPlayer {
		totals = append(totals, *t)
	}
	rankTotals(totals)
	return totals, nil
}

// rankTotals orders by total score descending. Equal totals fall back to
// ascending playfab_id so recomputation is deterministic.
func rankTotals(totals []playerTotals) {
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].totalScore != totals[j].totalScore {
			return totals[i].totalScore > totals[j].totalScore
		}
		return totals[i].playfabID < totals[j].playfabID
	})
}
