package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/hoopcast/internal/metrics"
	"github.com/yourusername/hoopcast/internal/models"
)

const sportsfeedSourceName = "sportsfeed"

// SportsfeedClient fetches schedules, results and team statistics from the
// sportsfeed JSON API. It implements both ScheduleSource and StatsSource.
type SportsfeedClient struct {
	httpClient *RateLimitedHTTPClient
	cache      *FeedCache
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *logrus.Logger
}

// NewSportsfeedClient creates a sportsfeed API client. The cache is
// optional; pass nil to fetch uncached.
func NewSportsfeedClient(httpClient *RateLimitedHTTPClient, cache *FeedCache, baseURL, apiKey string, enabled bool, logger *logrus.Logger) *SportsfeedClient {
	return &SportsfeedClient{
		httpClient: httpClient,
		cache:      cache,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

type scheduleResponse struct {
	Date  string        `json:"date"`
	Games []gamePayload `json:"games"`
}

type gamePayload struct {
	HomeTeam string  `json:"home_team"`
	AwayTeam string  `json:"away_team"`
	Venue    *string `json:"venue"`
	Tipoff   *string `json:"tipoff"`
}

type resultsResponse struct {
	Date    string          `json:"date"`
	Results []resultPayload `json:"results"`
}

type resultPayload struct {
	HomeTeam  string           `json:"home_team"`
	AwayTeam  string           `json:"away_team"`
	HomeScore *decimal.Decimal `json:"home_score"`
	AwayScore *decimal.Decimal `json:"away_score"`
	Status    string           `json:"status"`
}

type teamStatsResponse struct {
	Team  string                     `json:"team"`
	AsOf  string                     `json:"as_of"`
	Stats map[string]decimal.Decimal `json:"stats"`
}

// GamesOn retrieves the games scheduled on the given date
func (c *SportsfeedClient) GamesOn(ctx context.Context, date time.Time) ([]GameListing, error) {
	if c.cache != nil {
		if listings, found := c.cache.GetSchedule(date); found {
			metrics.RecordCacheHit(sportsfeedSourceName)
			return listings, nil
		}
		metrics.RecordCacheMiss(sportsfeedSourceName)
	}

	url := fmt.Sprintf("%s/schedule?date=%s", c.baseURL, date.Format("2006-01-02"))

	var payload scheduleResponse
	if err := c.getJSON(ctx, url, "schedule", &payload); err != nil {
		return nil, err
	}

	listings := make([]GameListing, 0, len(payload.Games))
	for _, game := range payload.Games {
		if game.HomeTeam == "" || game.AwayTeam == "" {
			c.logger.WithField("date", date.Format("2006-01-02")).Warn("skipping malformed schedule entry")
			continue
		}
		listings = append(listings, GameListing{
			HomeTeam: game.HomeTeam,
			AwayTeam: game.AwayTeam,
		})
	}

	if c.cache != nil {
		c.cache.PutSchedule(date, listings)
	}

	return listings, nil
}

// HasGamesOn reports whether at least one game is scheduled on the date.
// It goes through GamesOn so the cache absorbs the follow-up fetch a
// resolver typically makes for the same date.
func (c *SportsfeedClient) HasGamesOn(ctx context.Context, date time.Time) (bool, error) {
	listings, err := c.GamesOn(ctx, date)
	if err != nil {
		return false, err
	}
	return len(listings) > 0, nil
}

// Outcome retrieves the recorded winner of a game. Team identifiers are the
// feed's own, matched case-insensitively against the results page. A game
// without a final result is WinnerUnknown with no error.
func (c *SportsfeedClient) Outcome(ctx context.Context, date time.Time, homeTeam, awayTeam string) (models.Winner, error) {
	url := fmt.Sprintf("%s/results?date=%s", c.baseURL, date.Format("2006-01-02"))

	var payload resultsResponse
	if err := c.getJSON(ctx, url, "results", &payload); err != nil {
		// A day without a published results page is an unknown outcome,
		// not a failure.
		var dsErr DataSourceError
		if errors.As(err, &dsErr) && dsErr.Code == ErrCodeNotFound {
			return models.WinnerUnknown, nil
		}
		return models.WinnerUnknown, err
	}

	for _, result := range payload.Results {
		if !strings.EqualFold(result.HomeTeam, homeTeam) || !strings.EqualFold(result.AwayTeam, awayTeam) {
			continue
		}
		if !strings.EqualFold(result.Status, "final") || result.HomeScore == nil || result.AwayScore == nil {
			return models.WinnerUnknown, nil
		}
		switch result.HomeScore.Cmp(*result.AwayScore) {
		case 1:
			return models.WinnerHome, nil
		case -1:
			return models.WinnerAway, nil
		default:
			return models.WinnerUnknown, nil
		}
	}

	return models.WinnerUnknown, nil
}

// FetchTeamStats retrieves a team's stats as of the given date
func (c *SportsfeedClient) FetchTeamStats(ctx context.Context, canonicalName string, asOf time.Time) (*TeamStats, error) {
	if c.cache != nil {
		if stats, found := c.cache.GetStats(canonicalName, asOf); found {
			metrics.RecordCacheHit(sportsfeedSourceName)
			return stats, nil
		}
		metrics.RecordCacheMiss(sportsfeedSourceName)
	}

	url := fmt.Sprintf("%s/teams/%s/stats?as_of=%s", c.baseURL, teamSlug(canonicalName), asOf.Format("2006-01-02"))

	var payload teamStatsResponse
	if err := c.getJSON(ctx, url, "team_stats", &payload); err != nil {
		return nil, err
	}

	stats := &TeamStats{
		Team:      canonicalName,
		AsOf:      asOf,
		Stats:     payload.Stats,
		FetchedAt: time.Now().UTC(),
	}
	if stats.Stats == nil {
		stats.Stats = map[string]decimal.Decimal{}
	}

	if c.cache != nil {
		c.cache.PutStats(canonicalName, asOf, stats)
	}

	return stats, nil
}

// Name returns the name of the data source
func (c *SportsfeedClient) Name() string {
	return sportsfeedSourceName
}

// IsEnabled returns whether this data source is currently enabled
func (c *SportsfeedClient) IsEnabled() bool {
	return c.enabled
}

// CacheStats exposes the cache counters for readiness and status output
func (c *SportsfeedClient) CacheStats() CacheStats {
	if c.cache == nil {
		return CacheStats{}
	}
	return c.cache.Stats()
}

// Close releases the underlying transport
func (c *SportsfeedClient) Close() error {
	return c.httpClient.Close()
}

// getJSON performs an authenticated GET and decodes the JSON body into out
func (c *SportsfeedClient) getJSON(ctx context.Context, url, operation string, out interface{}) error {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return NewDataSourceError(sportsfeedSourceName, ErrCodeUnknown, "failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return NewDataSourceError(sportsfeedSourceName, ErrCodeNetworkError, fmt.Sprintf("%s request failed", operation), err)
	}
	defer resp.Body.Close()

	metrics.ObserveFetchDuration(sportsfeedSourceName, operation, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp.StatusCode, operation)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewDataSourceError(sportsfeedSourceName, ErrCodeInvalidData, fmt.Sprintf("failed to decode %s response", operation), err)
	}

	return nil
}

func (c *SportsfeedClient) statusError(status int, operation string) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewDataSourceError(sportsfeedSourceName, ErrCodeAuthenticationFailed, "API key rejected", nil)
	case status == http.StatusTooManyRequests:
		return NewDataSourceError(sportsfeedSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case status == http.StatusNotFound:
		return NewDataSourceError(sportsfeedSourceName, ErrCodeNotFound, fmt.Sprintf("%s not found", operation), nil)
	case status >= 500:
		return NewDataSourceError(sportsfeedSourceName, ErrCodeServerError, fmt.Sprintf("server error %d on %s", status, operation), nil)
	default:
		return NewDataSourceError(sportsfeedSourceName, ErrCodeUnknown, fmt.Sprintf("unexpected status %d on %s", status, operation), nil)
	}
}

// teamSlug mirrors the feed's URL convention for team pages
func teamSlug(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "-"))
}
