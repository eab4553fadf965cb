// Package api provides the read-only JSON API over stored leaderboard data.
// It is a thin query+serialize layer; all invariants live in the pipeline.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fits-community/fits-tracker/internal/cache"
	"github.com/fits-community/fits-tracker/internal/metrics"
	"github.com/fits-community/fits-tracker/internal/models"
	"github.com/fits-community/fits-tracker/internal/service/aggregator"
	"github.com/fits-community/fits-tracker/pkg/logger"
)

const dateLayout = "2006-01-02"

// ScoreReader interface for daily score queries.
type ScoreReader interface {
	GetByDate(date time.Time) ([]models.DailyScore, error)
}

// AggregateReader interface for period aggregate queries.
type AggregateReader interface {
	GetWeek(periodStart time.Time) ([]models.WeeklyAggregate, error)
	GetMonth(monthStart time.Time) ([]models.MonthlyAggregate, error)
}

// RunReader interface for audit log queries.
type RunReader interface {
	ListRecent(limit int) ([]models.FetchRun, error)
}

// Health interface for the storage health probe.
type Health interface {
	Health() error
}

// Handler handles read API requests.
type Handler struct {
	scores     ScoreReader
	aggregates AggregateReader
	runs       RunReader
	health     Health
	cache      cache.Cache
	cacheTTL   time.Duration
	log        *logger.Logger
}

// NewHandler creates a new read API handler.
func NewHandler(
	scores ScoreReader,
	aggregates AggregateReader,
	runs RunReader,
	health Health,
	c cache.Cache,
	cacheTTL time.Duration,
	log *logger.Logger,
) *Handler {
	return &Handler{
		scores:     scores,
		aggregates: aggregates,
		runs:       runs,
		health:     health,
		cache:      c,
		cacheTTL:   cacheTTL,
		log:        log,
	}
}

// GetDaily returns the stored scores for one stat date.
// GET /api/v1/daily/:date.
func (h *Handler) GetDaily(c *gin.Context) {
	date, ok := h.parseDate(c, "daily")
	if !ok {
		return
	}

	scores, err := h.scores.GetByDate(date)
	if err != nil {
		h.log.Error().Err(err).Str("date", date.Format(dateLayout)).Msg("Failed to get daily scores")
		h.errorResponse(c, "daily", http.StatusInternalServerError, "Failed to retrieve daily scores")
		return
	}

	metrics.APIRequestsTotal.WithLabelValues("daily", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    scores,
		"meta": gin.H{
			"date":         date.Format(dateLayout),
			"count":        len(scores),
			"generated_at": time.Now().UTC(),
		},
	})
}

// GetWeekly returns the weekly aggregate for the week containing :date.
// GET /api/v1/weekly/:date.
func (h *Handler) GetWeekly(c *gin.Context) {
	date, ok := h.parseDate(c, "weekly")
	if !ok {
		return
	}

	start, end := aggregator.WeekStart(date), aggregator.WeekEnd(date)
	key := "weekly:" + start.Format(dateLayout)

	if h.serveCached(c, "weekly", key, start, end) {
		return
	}

	rows, err := h.aggregates.GetWeek(start)
	if err != nil {
		h.log.Error().Err(err).Str("period_start", start.Format(dateLayout)).Msg("Failed to get weekly aggregate")
		h.errorResponse(c, "weekly", http.StatusInternalServerError, "Failed to retrieve weekly aggregate")
		return
	}

	h.storeAndServe(c, "weekly", key, start, end, rows, len(rows))
}

// GetMonthly returns the monthly aggregate for the month containing :date.
// GET /api/v1/monthly/:date.
func (h *Handler) GetMonthly(c *gin.Context) {
	date, ok := h.parseDate(c, "monthly")
	if !ok {
		return
	}

	start, end := aggregator.MonthStart(date), aggregator.MonthEnd(date)
	key := "monthly:" + start.Format(dateLayout)

	if h.serveCached(c, "monthly", key, start, end) {
		return
	}

	rows, err := h.aggregates.GetMonth(start)
	if err != nil {
		h.log.Error().Err(err).Str("month_start", start.Format(dateLayout)).Msg("Failed to get monthly aggregate")
		h.errorResponse(c, "monthly", http.StatusInternalServerError, "Failed to retrieve monthly aggregate")
		return
	}

	h.storeAndServe(c, "monthly", key, start, end, rows, len(rows))
}

// GetRuns returns the most recent fetch-run audit rows.
// GET /api/v1/runs?limit=20.
func (h *Handler) GetRuns(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := parsePositiveInt(raw)
		if err != nil {
			h.errorResponse(c, "runs", http.StatusBadRequest, "invalid limit parameter: "+raw)
			return
		}
		limit = parsed
	}

	runs, err := h.runs.ListRecent(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list fetch runs")
		h.errorResponse(c, "runs", http.StatusInternalServerError, "Failed to retrieve fetch runs")
		return
	}

	metrics.APIRequestsTotal.WithLabelValues("runs", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    runs,
		"meta": gin.H{
			"count":        len(runs),
			"generated_at": time.Now().UTC(),
		},
	})
}

// GetHealth reports storage health.
// GET /health.
func (h *Handler) GetHealth(c *gin.Context) {
	if err := h.health.Health(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// serveCached replies from the response cache when it can. Cache failures
// fall through to the database; a degraded cache never fails a request.
func (h *Handler) serveCached(c *gin.Context, endpoint, key string, start, end time.Time) bool {
	cached, err := h.cache.Get(c.Request.Context(), key)
	if err != nil {
		h.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		return false
	}
	if cached == "" {
		return false
	}

	metrics.APIRequestsTotal.WithLabelValues(endpoint, "cached").Inc()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    json.RawMessage(cached),
		"meta": gin.H{
			"period_start": start.Format(dateLayout),
			"period_end":   end.Format(dateLayout),
			"cached":       true,
			"generated_at": time.Now().UTC(),
		},
	})
	return true
}

func (h *Handler) storeAndServe(c *gin.Context, endpoint, key string, start, end time.Time, data interface{}, count int) {
	if payload, err := json.Marshal(data); err == nil {
		if err := h.cache.Set(c.Request.Context(), key, string(payload), h.cacheTTL); err != nil {
			h.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
		}
	}

	metrics.APIRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"meta": gin.H{
			"period_start": start.Format(dateLayout),
			"period_end":   end.Format(dateLayout),
			"count":        count,
			"generated_at": time.Now().UTC(),
		},
	})
}

// parseDate validates the :date path parameter. On failure it writes the 400
// response itself and returns ok=false.
func (h *Handler) parseDate(c *gin.Context, endpoint string) (time.Time, bool) {
	raw := c.Param("date")
	date, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		h.errorResponse(c, endpoint, http.StatusBadRequest, "invalid date parameter: "+raw+" (expected YYYY-MM-DD)")
		return time.Time{}, false
	}
	return date, true
}

// errorResponse sends the standardized failure envelope.
func (h *Handler) errorResponse(c *gin.Context, endpoint string, statusCode int, message string) {
	metrics.APIRequestsTotal.WithLabelValues(endpoint, "error").Inc()
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   message,
	})
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 || n > 1000 {
		return 0, fmt.Errorf("limit out of range: %d", n)
	}
	return n, nil
}
