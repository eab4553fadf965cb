// Package fetcher drives the daily leaderboard fetch pipeline: pagination to
// exhaustion, identity normalization, write-through persistence, run audit.
package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/fits-community/fits-tracker/internal/identity"
	"github.com/fits-community/fits-tracker/internal/metrics"
	"github.com/fits-community/fits-tracker/internal/models"
	"github.com/fits-community/fits-tracker/internal/playfab"
	"github.com/fits-community/fits-tracker/internal/repository"
	"github.com/fits-community/fits-tracker/pkg/logger"
)

// Source interface for upstream leaderboard fetches.
type Source interface {
	GetLeaderboardPage(ctx context.Context, statistic string, start, max int) (*playfab.Page, error)
	GetLeaderboardAroundPlayer(ctx context.Context, statistic, playfabID string, max int) (*playfab.Page, error)
}

// PlayerRepository interface for player upserts.
type PlayerRepository interface {
	Upsert(player *models.Player, seen time.Time) error
}

// ScoreRepository interface for score upserts.
type ScoreRepository interface {
	Upsert(score *models.DailyScore) error
}

// RunRepository interface for audit records.
type RunRepository interface {
	Record(run *models.FetchRun) error
}

// Summary is the result of one fetch orchestration. Success is false when
// pagination stopped on an upstream failure or the audit row could not be
// written; accumulated rows are persisted either way.
type Summary struct {
	Success        bool
	DryRun         bool
	TotalEntries   int
	PlayersUpdated int
	ScoresUpdated  int
}

// Service orchestrates one statistic-date fetch.
type Service struct {
	source     Source
	players    PlayerRepository
	scores     ScoreRepository
	runs       RunRepository
	pageSize   int
	pageDelay  time.Duration
	statPrefix string
	log        *logger.Logger
}

// NewService creates a new fetch orchestrator with concrete repository types.
func NewService(
	source Source,
	players *repository.PlayerRepository,
	scores *repository.ScoreRepository,
	runs *repository.RunRepository,
	pageSize int,
	pageDelay time.Duration,
	statPrefix string,
	log *logger.Logger,
) *Service {
	return NewServiceWithInterfaces(source, players, scores, runs, pageSize, pageDelay, statPrefix, log)
}

// NewServiceWithInterfaces creates a new fetch orchestrator with interface
// dependencies (useful for testing).
func NewServiceWithInterfaces(
	source Source,
	players PlayerRepository,
	scores ScoreRepository,
	runs RunRepository,
	pageSize int,
	pageDelay time.Duration,
	statPrefix string,
	log *logger.Logger,
) *Service {
	return &Service{
		source:     source,
		players:    players,
		scores:     scores,
		runs:       runs,
		pageSize:   pageSize,
		pageDelay:  pageDelay,
		statPrefix: statPrefix,
		log:        log,
	}
}

// StatisticName resolves the upstream statistic for a stat date. The game
// rotates one leaderboard per day of week.
func (s *Service) StatisticName(date time.Time) string {
	return fmt.Sprintf("%s_%s", s.statPrefix, date.Weekday())
}

// FetchDate fetches the leaderboard for the statistic belonging to date.
func (s *Service) FetchDate(ctx context.Context, date time.Time) Summary {
	return s.Fetch(ctx, s.StatisticName(date), date)
}

// WindowRow is one normalized entry in the neighborhood around a player.
type WindowRow struct {
	Position    int
	Score       int64
	PlayFabID   string
	DisplayName *string
	Platform    *string
}

// AroundPlayer fetches the ranked window centered on one player for the
// statistic belonging to date. Read-only: nothing is persisted. In dry-run
// mode the source returns no page and dryRun is true.
func (s *Service) AroundPlayer(ctx context.Context, playfabID string, date time.Time, window int) (rows []WindowRow, dryRun bool, err error) {
	statistic := s.StatisticName(date)

	page, err := s.source.GetLeaderboardAroundPlayer(ctx, statistic, playfabID, window)
	if err != nil {
		return nil, false, err
	}
	if page == nil {
		return nil, true, nil
	}

	rows = make([]WindowRow, 0, len(page.Entries))
	for _, entry := range page.Entries {
		id := identity.Resolve(entry)
		rows = append(rows, WindowRow{
			Position:    entry.Position,
			Score:       entry.StatValue,
			PlayFabID:   entry.PlayFabID,
			DisplayName: id.DisplayName,
			Platform:    id.Platform,
		})
	}
	return rows, false, nil
}

// Fetch pages through the upstream leaderboard for one statistic-date,
// normalizes every entry, writes players and scores through the store, and
// records one audit row. A mid-pagination failure stops the loop but the
// accumulated entries are still persisted: partial data beats none.
func (s *Service) Fetch(ctx context.Context, statistic string, statDate time.Time) Summary {
	s.log.Info().
		Str("statistic", statistic).
		Str("stat_date", statDate.Format("2006-01-02")).
		Msg("Starting leaderboard fetch")

	entries, version, dryRun, pageErr := s.paginate(ctx, statistic)
	if dryRun {
		s.log.Info().Str("statistic", statistic).Msg("Dry run complete, nothing persisted")
		return Summary{Success: true, DryRun: true}
	}

	summary := Summary{Success: pageErr == nil, TotalEntries: len(entries)}
	metrics.FetchEntriesTotal.WithLabelValues(statistic).Add(float64(len(entries)))

	for _, entry := range entries {
		id := identity.Resolve(entry)

		player := &models.Player{
			PlayFabID:      entry.PlayFabID,
			DisplayName:    id.DisplayName,
			Platform:       id.Platform,
			PlatformUserID: id.PlatformUserID,
		}
		if err := s.players.Upsert(player, statDate); err != nil {
			s.log.Warn().Err(err).Str("playfab_id", entry.PlayFabID).Msg("Failed to upsert player")
			metrics.UpsertFailuresTotal.WithLabelValues("player").Inc()
		} else {
			summary.PlayersUpdated++
		}

		score := &models.DailyScore{
			StatDate:      statDate,
			PlayFabID:     entry.PlayFabID,
			StatisticName: statistic,
			Position:      entry.Position,
			Score:         entry.StatValue,
		}
		if err := s.scores.Upsert(score); err != nil {
			s.log.Warn().Err(err).Str("playfab_id", entry.PlayFabID).Msg("Failed to upsert score")
			metrics.UpsertFailuresTotal.WithLabelValues("score").Inc()
		} else {
			summary.ScoresUpdated++
		}
	}

	run := &models.FetchRun{
		StatDate:      statDate,
		StatisticName: statistic,
		FetchedAt:     time.Now().UTC(),
		EntryCount:    len(entries),
		APIVersion:    version,
	}
	if err := s.runs.Record(run); err != nil {
		s.log.Error().Err(err).Msg("Failed to record fetch run")
		summary.Success = false
	}

	status := "ok"
	if !summary.Success {
		status = "partial"
	}
	metrics.FetchRunsTotal.WithLabelValues(status).Inc()

	s.log.Info().
		Str("statistic", statistic).
		Str("stat_date", statDate.Format("2006-01-02")).
		Int("entries", summary.TotalEntries).
		Int("players_updated", summary.PlayersUpdated).
		Int("scores_updated", summary.ScoresUpdated).
		Bool("success", summary.Success).
		Msg("Leaderboard fetch finished")

	return summary
}

// paginate accumulates pages starting at offset 0. A page continues the loop
// only when it is non-empty and exactly full; anything else is the end. A nil
// page is the source's dry-run marker.
func (s *Service) paginate(ctx context.Context, statistic string) (entries []playfab.Entry, version int, dryRun bool, err error) {
	start := 0
	for {
		began := time.Now()
		page, perr := s.source.GetLeaderboardPage(ctx, statistic, start, s.pageSize)
		metrics.PageFetchSeconds.Observe(time.Since(began).Seconds())

		if perr != nil {
			s.log.Warn().
				Err(perr).
				Str("statistic", statistic).
				Int("start_position", start).
				Msg("Page fetch failed, stopping pagination")
			return entries, version, false, perr
		}
		if page == nil {
			return nil, 0, true, nil
		}

		entries = append(entries, page.Entries...)
		version = page.Version

		if len(page.Entries) == 0 || len(page.Entries) < s.pageSize {
			return entries, version, false, nil
		}

		start += s.pageSize

		// Rate-limiting courtesy to the upstream API.
		if s.pageDelay > 0 {
			select {
			case <-ctx.Done():
				return entries, version, false, ctx.Err()
			case <-time.After(s.pageDelay):
			}
		}
	}
}
