package aggregator

import (
	"sort"
	"time"
)

// Finish thresholds are 0-indexed upstream positions.
const (
	firstPlace = 0
	podiumMax  = 2
	topTenMax  = 9
)

// Consistency requires a minimum number of played days so one lucky day does
// not rank against regulars.
const (
	weekMinConsistencyDays  = 3
	monthMinConsistencyDays = 5
)

// ChampionStat is the player with the most daily wins in a period.
type ChampionStat struct {
	PlayFabID     string  `json:"playfab_id"`
	DisplayName   *string `json:"display_name"`
	FirstPlaces   int     `json:"first_place_count"`
	WinPercentage float64 `json:"win_percentage"`
}

// CountStat is one player's finish count for a ranking bracket.
type CountStat struct {
	PlayFabID   string  `json:"playfab_id"`
	DisplayName *string `json:"display_name"`
	Count       int     `json:"count"`
	Percentage  float64 `json:"percentage"`
}

// ConsistencyStat rates a player's sustained participation. Rating is days
// played times average score, so it rewards showing up and scoring well.
type ConsistencyStat struct {
	PlayFabID    string  `json:"playfab_id"`
	DisplayName  *string `json:"display_name"`
	DaysPlayed   int     `json:"days_played"`
	AverageScore int64   `json:"average_score"`
	MaxScore     int64   `json:"max_score"`
	MinScore     int64   `json:"min_score"`
	Rating       float64 `json:"consistency_rating"`
}

// DailyWinner is the first-place finisher of one stat date.
type DailyWinner struct {
	StatDate    time.Time `json:"stat_date"`
	PlayFabID   string    `json:"playfab_id"`
	DisplayName *string   `json:"display_name"`
	Score       int64     `json:"score"`
}

// ParticipationStats summarizes period attendance.
type ParticipationStats struct {
	UniquePlayers        int     `json:"total_unique_players"`
	DaysTracked          int     `json:"total_days_tracked"`
	AvgDailyParticipants float64 `json:"avg_daily_participants"`
}

// ScoreStats summarizes every score recorded in the period.
type ScoreStats struct {
	ScoresRecorded int   `json:"total_scores_recorded"`
	AverageScore   int64 `json:"average_score"`
	HighestScore   int64 `json:"highest_score"`
	LowestScore    int64 `json:"lowest_score"`
}

// PeriodReport is the full statistics report for one week or month. Champion
// and Scores are nil when the period holds no daily rows.
type PeriodReport struct {
	PeriodStart    time.Time          `json:"period_start"`
	PeriodEnd      time.Time          `json:"period_end"`
	Champion       *ChampionStat      `json:"champion"`
	DailyWinners   []DailyWinner      `json:"daily_winners"`
	TopFirstPlaces []CountStat        `json:"top_first_places"`
	TopPodiums     []CountStat        `json:"top_podium_finishes"`
	TopTens        []CountStat        `json:"top_10_finishes"`
	MostConsistent []ConsistencyStat  `json:"most_consistent"`
	Participation  ParticipationStats `json:"participation_stats"`
	Scores         *ScoreStats        `json:"score_statistics"`
}

// WeekReport builds the statistics report for the week containing anchor.
func (s *Service) WeekReport(anchor time.Time) (*PeriodReport, error) {
	return s.buildReport(WeekStart(anchor), WeekEnd(anchor), weekMinConsistencyDays, 10)
}

// MonthReport builds the statistics report for the month containing anchor.
func (s *Service) MonthReport(anchor time.Time) (*PeriodReport, error) {
	return s.buildReport(MonthStart(anchor), MonthEnd(anchor), monthMinConsistencyDays, 15)
}

// reportAcc accumulates one player's per-period report numbers.
type reportAcc struct {
	playfabID   string
	displayName *string
	firstPlaces int
	podiums     int
	topTens     int
	days        int
	total       int64
	maxScore    int64
	minScore    int64
}

func (s *Service) buildReport(start, end time.Time, minConsistencyDays, consistentLimit int) (*PeriodReport, error) {
	rows, err := s.scores.GetRangeWithPlayers(start, end)
	if err != nil {
		return nil, err
	}

	report := &PeriodReport{PeriodStart: start, PeriodEnd: end}

	byPlayer := make(map[string]*reportAcc)
	daysSeen := make(map[time.Time]struct{})
	for _, r := range rows {
		a, seen := byPlayer[r.PlayFabID]
		if !seen {
			a = &reportAcc{playfabID: r.PlayFabID, maxScore: r.Score, minScore: r.Score}
			byPlayer[r.PlayFabID] = a
		}
		a.displayName = r.DisplayName
		a.days++
		a.total += r.Score
		if r.Score > a.maxScore {
			a.maxScore = r.Score
		}
		if r.Score < a.minScore {
			a.minScore = r.Score
		}

		switch {
		case r.Position == firstPlace:
			a.firstPlaces++
			a.podiums++
			a.topTens++
			// Rows arrive ordered by stat_date, so winners come out in
			// chronological order.
			report.DailyWinners = append(report.DailyWinners, DailyWinner{
				StatDate:    r.StatDate,
				PlayFabID:   r.PlayFabID,
				DisplayName: r.DisplayName,
				Score:       r.Score,
			})
		case r.Position <= podiumMax:
			a.podiums++
			a.topTens++
		case r.Position <= topTenMax:
			a.topTens++
		}

		daysSeen[r.StatDate] = struct{}{}
	}

	daysTracked := len(daysSeen)
	report.Participation = ParticipationStats{
		UniquePlayers: len(byPlayer),
		DaysTracked:   daysTracked,
	}
	if daysTracked > 0 {
		report.Participation.AvgDailyParticipants = float64(len(rows)) / float64(daysTracked)
	}
	if len(rows) == 0 {
		return report, nil
	}

	report.TopFirstPlaces = topCounts(byPlayer, daysTracked, 10, func(a *reportAcc) int { return a.firstPlaces })
	report.TopPodiums = topCounts(byPlayer, daysTracked, 10, func(a *reportAcc) int { return a.podiums })
	report.TopTens = topCounts(byPlayer, daysTracked, 20, func(a *reportAcc) int { return a.topTens })

	if len(report.TopFirstPlaces) > 0 {
		lead := report.TopFirstPlaces[0]
		report.Champion = &ChampionStat{
			PlayFabID:     lead.PlayFabID,
			DisplayName:   lead.DisplayName,
			FirstPlaces:   lead.Count,
			WinPercentage: lead.Percentage,
		}
	}

	report.MostConsistent = consistencyRanking(byPlayer, minConsistencyDays, consistentLimit)

	var sum, high, low int64
	low = rows[0].Score
	for _, r := range rows {
		sum += r.Score
		if r.Score > high {
			high = r.Score
		}
		if r.Score < low {
			low = r.Score
		}
	}
	report.Scores = &ScoreStats{
		ScoresRecorded: len(rows),
		AverageScore:   sum / int64(len(rows)),
		HighestScore:   high,
		LowestScore:    low,
	}

	return report, nil
}

// topCounts ranks players by one finish counter, descending, ties by
// ascending playfab_id. Players with a zero count are omitted.
func topCounts(byPlayer map[string]*reportAcc, daysTracked, limit int, count func(*reportAcc) int) []CountStat {
	stats := make([]CountStat, 0, len(byPlayer))
	for _, a := range byPlayer {
		n := count(a)
		if n == 0 {
			continue
		}
		stat := CountStat{PlayFabID: a.playfabID, DisplayName: a.displayName, Count: n}
		if daysTracked > 0 {
			stat.Percentage = float64(n) / float64(daysTracked) * 100
		}
		stats = append(stats, stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].PlayFabID < stats[j].PlayFabID
	})
	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}

func consistencyRanking(byPlayer map[string]*reportAcc, minDays, limit int) []ConsistencyStat {
	stats := make([]ConsistencyStat, 0, len(byPlayer))
	for _, a := range byPlayer {
		if a.days < minDays {
			continue
		}
		avg := float64(a.total) / float64(a.days)
		stats = append(stats, ConsistencyStat{
			PlayFabID:    a.playfabID,
			DisplayName:  a.displayName,
			DaysPlayed:   a.days,
			AverageScore: a.total / int64(a.days),
			MaxScore:     a.maxScore,
			MinScore:     a.minScore,
			Rating:       float64(a.days) * avg,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Rating != stats[j].Rating {
			return stats[i].Rating > stats[j].Rating
		}
		return stats[i].PlayFabID < stats[j].PlayFabID
	})
	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}
