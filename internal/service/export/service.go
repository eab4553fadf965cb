// Package export writes stored daily scores out as CSV or JSON for external
// analysis.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fits-community/fits-tracker/internal/repository"
	"github.com/fits-community/fits-tracker/pkg/logger"
)

// Format selects the output encoding.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ScoreRepository interface for reading joined export rows.
type ScoreRepository interface {
	GetRangeWithPlayers(start, end time.Time) ([]repository.ExportRow, error)
}

// Service exports daily scores.
type Service struct {
	scores ScoreRepository
	log    *logger.Logger
}

// NewService creates a new export service.
func NewService(scores ScoreRepository, log *logger.Logger) *Service {
	return &Service{scores: scores, log: log}
}

// record is the JSON shape of one exported row.
type record struct {
	StatDate       string  `json:"stat_date"`
	StatisticName  string  `json:"statistic_name"`
	Position       int     `json:"position"`
	Score          int64   `json:"score"`
	PlayFabID      string  `json:"playfab_id"`
	DisplayName    *string `json:"display_name"`
	Platform       *string `json:"platform"`
	PlatformUserID *string `json:"platform_user_id"`
}

// Export writes all daily scores with stat_date in [start, end] to w.
func (s *Service) Export(w io.Writer, format string, start, end time.Time) (int, error) {
	rows, err := s.scores.GetRangeWithPlayers(start, end)
	if err != nil {
		return 0, err
	}

	records := make([]record, 0, len(rows))
	for _, r := range rows {
		records = append(records, record{
			StatDate:       r.StatDate.Format("2006-01-02"),
			StatisticName:  r.StatisticName,
			Position:       r.Position,
			Score:          r.Score,
			PlayFabID:      r.PlayFabID,
			DisplayName:    r.DisplayName,
			Platform:       r.Platform,
			PlatformUserID: r.PlatformUserID,
		})
	}

	switch format {
	case FormatCSV:
		err = writeCSV(w, records)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(records)
	default:
		return 0, fmt.Errorf("unsupported export format: %q", format)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to write export: %w", err)
	}

	s.log.Info().
		Str("format", format).
		Str("start", start.Format("2006-01-02")).
		Str("end", end.Format("2006-01-02")).
		Int("rows", len(records)).
		Msg("Exported daily scores")
	return len(records), nil
}

func writeCSV(w io.Writer, records []record) error {
	cw := csv.NewWriter(w)
	header := []string{
		"stat_date", "statistic_name", "position", "score",
		"playfab_id", "display_name", "platform", "platform_user_id",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.StatDate,
			r.StatisticName,
			strconv.Itoa(r.Position),
			strconv.FormatInt(r.Score, 10),
			r.PlayFabID,
			deref(r.DisplayName),
			deref(r.Platform),
			deref(r.PlatformUserID),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
