// Package playfab provides a client for the two PlayFab Server API operations
// the pipeline uses: full leaderboard page fetch and player-centered fetch.
package playfab

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fits-community/fits-tracker/internal/config"
	"github.com/fits-community/fits-tracker/pkg/logger"
)

// Failure kinds. Callers treat all of them uniformly (stop pagination); the
// distinction only matters for logging.
var (
	ErrMissingCredential = errors.New("playfab: secret key not configured")
	ErrUnauthorized      = errors.New("playfab: secret key rejected (401)")
	ErrBadStatus         = errors.New("playfab: unexpected response status")
	ErrMalformedResponse = errors.New("playfab: malformed response body")
)

// Client talks to the PlayFab Server API for one title. In dry-run mode no
// network call is ever made; page fetches log the intended request and return
// a nil page.
type Client struct {
	titleID   string
	secretKey string
	dryRun    bool
	http      *http.Client
	baseURL   string
	log       *logger.Logger
}

// NewClient creates a new PlayFab client. dryRun defaults the pipeline to a
// no-op; pass false only when the operator explicitly asked to execute.
func NewClient(cfg *config.PlayFabConfig, dryRun bool, log *logger.Logger) *Client {
	return &Client{
		titleID:   cfg.TitleID,
		secretKey: cfg.SecretKey,
		dryRun:    dryRun,
		http:      &http.Client{Timeout: 30 * time.Second},
		baseURL:   fmt.Sprintf("https://%s.playfabapi.com", cfg.TitleID),
		log:       log,
	}
}

// DryRun reports whether the client is in dry-run mode.
func (c *Client) DryRun() bool {
	return c.dryRun
}

// GetLeaderboardPage fetches one page of the ranked leaderboard for a
// statistic. A nil page with nil error is the dry-run marker.
func (c *Client) GetLeaderboardPage(ctx context.Context, statistic string, start, max int) (*Page, error) {
	if c.dryRun {
		c.log.Info().
			Str("statistic", statistic).
			Int("start_position", start).
			Int("max_results", max).
			Msg("Dry run: skipping GetLeaderboard call")
		return nil, nil
	}

	body := leaderboardRequest{
		StatisticName:   statistic,
		StartPosition:   start,
		MaxResultsCount: max,
		ProfileConstraints: &profileConstraints{
			ShowDisplayName:    true,
			ShowLinkedAccounts: true,
		},
	}
	return c.post(ctx, "/Server/GetLeaderboard", body)
}

// GetLeaderboardAroundPlayer fetches a window of entries centered on one
// player. Same contract as GetLeaderboardPage.
func (c *Client) GetLeaderboardAroundPlayer(ctx context.Context, statistic, playfabID string, max int) (*Page, error) {
	if c.dryRun {
		c.log.Info().
			Str("statistic", statistic).
			Str("playfab_id", playfabID).
			Int("max_results", max).
			Msg("Dry run: skipping GetLeaderboardAroundUser call")
		return nil, nil
	}

	body := aroundPlayerRequest{
		StatisticName:   statistic,
		PlayFabID:       playfabID,
		MaxResultsCount: max,
		ProfileConstraints: &profileConstraints{
			ShowDisplayName:    true,
			ShowLinkedAccounts: true,
		},
	}
	return c.post(ctx, "/Server/GetLeaderboardAroundUser", body)
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (*Page, error) {
	if c.secretKey == "" {
		return nil, ErrMissingCredential
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-SecretKey", c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("playfab request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		// Secret keys expire; flagged separately so operators can tell
		// credential rot apart from transient upstream trouble.
		c.log.Error().Str("path", path).Msg("PlayFab rejected secret key")
		return nil, ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if parsed.Data == nil {
		return nil, fmt.Errorf("%w: missing data envelope", ErrMalformedResponse)
	}

	c.log.Debug().
		Str("path", path).
		Int("entries", len(parsed.Data.Leaderboard)).
		Int("version", parsed.Data.Version).
		Msg("Fetched leaderboard page")

	return &Page{Entries: parsed.Data.Leaderboard, Version: parsed.Data.Version}, nil
}
