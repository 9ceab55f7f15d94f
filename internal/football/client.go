// Package football proxies league, team, and fixture data from the
// football-data.org API. Matches are never persisted locally; reminders
// denormalize what they need at creation time.
package football

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/footyclub/backend/internal/metrics"
)

// Client errors
var (
	// ErrTimeout reports that the upstream call exceeded its bound.
	// The caller decides whether to retry; the client never does.
	ErrTimeout       = errors.New("football API request timed out")
	ErrUnknownLeague = errors.New("unknown league")
)

// UpstreamError carries a non-2xx upstream status to the handler layer
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("football API responded with status %d: %s", e.StatusCode, e.Message)
}

// Client calls the football-data.org API with a bounded timeout
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiToken   string
	logger     *slog.Logger
}

// ClientConfig holds configuration for the football API client
type ClientConfig struct {
	BaseURL  string
	APIToken string
	Timeout  time.Duration
	Logger   *slog.Logger
}

// NewClient creates a football API client
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiToken:   cfg.APIToken,
		logger:     cfg.Logger,
	}
}

// ValidLeagueCode reports whether the upstream competition code is one
// the application serves.
func ValidLeagueCode(code string) bool {
	_, ok := leagueNames[code]
	return ok
}

// LeagueCodeForID resolves a UI league id (e.g. "4328") to the upstream
// competition code.
func LeagueCodeForID(id string) (string, bool) {
	code, ok := leagueIDToCode[id]
	return code, ok
}

// LeagueName returns the display name for an upstream competition code
func LeagueName(code string) string {
	return leagueNames[code]
}

// Teams fetches the team list for a competition and returns the raw
// upstream payload after validating its structure.
func (c *Client) Teams(ctx context.Context, leagueCode string) (json.RawMessage, error) {
	if !ValidLeagueCode(leagueCode) {
		return nil, ErrUnknownLeague
	}

	body, err := c.get(ctx, fmt.Sprintf("%s/competitions/%s/teams", c.baseURL, leagueCode))
	if err != nil {
		return nil, err
	}

	var probe struct {
		Teams []json.RawMessage `json:"teams"`
	}
	if err := json.Unmarshal(body, &probe); err != nil || probe.Teams == nil {
		return nil, &UpstreamError{StatusCode: http.StatusInternalServerError, Message: "invalid response structure from football API"}
	}

	return body, nil
}

// Fixtures fetches matches for a competition within a date window and
// transforms them into the event shape the client renders. Dates use
// YYYY-MM-DD; an empty window defaults to the next 7 days.
func (c *Client) Fixtures(ctx context.Context, leagueCode, dateFrom, dateTo string) ([]Event, error) {
	if !ValidLeagueCode(leagueCode) {
		return nil, ErrUnknownLeague
	}

	if dateFrom == "" || dateTo == "" {
		today := time.Now().UTC()
		if dateFrom == "" {
			dateFrom = today.Format(time.DateOnly)
		}
		if dateTo == "" {
			dateTo = today.AddDate(0, 0, 7).Format(time.DateOnly)
		}
	}

	endpoint := fmt.Sprintf("%s/competitions/%s/matches?dateFrom=%s&dateTo=%s",
		c.baseURL, leagueCode, url.QueryEscape(dateFrom), url.QueryEscape(dateTo))

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var list upstreamMatchList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, &UpstreamError{StatusCode: http.StatusInternalServerError, Message: "invalid response structure from football API"}
	}

	events := make([]Event, 0, len(list.Matches))
	for _, m := range list.Matches {
		events = append(events, transformMatch(m, leagueCode))
	}
	return events, nil
}

// get performs an authenticated upstream GET and returns the body for
// 2xx responses. Timeouts surface as ErrTimeout; other failures as
// UpstreamError.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Auth-Token", c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			metrics.FootballUpstreamRequestsTotal.WithLabelValues("timeout").Inc()
			c.logger.Warn("football API request timed out", "endpoint", endpoint)
			return nil, ErrTimeout
		}
		metrics.FootballUpstreamRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.FootballUpstreamRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.FootballUpstreamRequestsTotal.WithLabelValues("upstream_" + strconv.Itoa(resp.StatusCode)).Inc()
		c.logger.Warn("football API error response",
			"endpoint", endpoint,
			"status", resp.StatusCode,
		)
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    truncate(string(body), 200),
		}
	}

	metrics.FootballUpstreamRequestsTotal.WithLabelValues("success").Inc()
	return body, nil
}

// transformMatch maps an upstream match to the client event shape
func transformMatch(m upstreamMatch, leagueCode string) Event {
	dateEvent := m.UTCDate
	strTime := "15:00"
	if idx := strings.IndexByte(m.UTCDate, 'T'); idx > 0 {
		dateEvent = m.UTCDate[:idx]
		if len(m.UTCDate) >= idx+6 {
			strTime = m.UTCDate[idx+1 : idx+6]
		}
	}

	season := "2024"
	if len(m.Season.StartDate) >= 4 {
		season = m.Season.StartDate[:4]
	}

	venue := m.Venue
	if venue == "" {
		venue = "TBD"
	}

	round := "1"
	if m.Matchday > 0 {
		round = strconv.Itoa(m.Matchday)
	}

	return Event{
		IDEvent:          strconv.FormatInt(m.ID, 10),
		StrEvent:         m.HomeTeam.Name + " vs " + m.AwayTeam.Name,
		StrLeague:        LeagueName(leagueCode),
		StrSeason:        season,
		StrHomeTeam:      m.HomeTeam.Name,
		StrAwayTeam:      m.AwayTeam.Name,
		DateEvent:        dateEvent,
		StrTime:          strTime,
		StrVenue:         venue,
		StrHomeTeamBadge: crestURL(m.HomeTeam),
		StrAwayTeamBadge: crestURL(m.AwayTeam),
		IntRound:         round,
		Status:           m.Status,
		Score:            m.Score,
	}
}

// crestURL falls back to the upstream crest CDN when the payload has none
func crestURL(t upstreamTeam) string {
	if t.Crest != "" {
		return t.Crest
	}
	return fmt.Sprintf("https://crests.football-data.org/%d.png", t.ID)
}

// isTimeout reports whether an outbound error was a timeout
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout()
	}
	return false
}

// truncate bounds upstream error detail passed back to clients
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
