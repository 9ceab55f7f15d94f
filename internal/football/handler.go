package football

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Handler handles the football data proxy endpoints. Responses keep the
// upstream-derived shapes the client views render directly, rather than
// the success envelope the first-party endpoints use.
type Handler struct {
	client *Client
	cache  *Cache
	logger *slog.Logger
}

// NewHandler creates a new football Handler instance
func NewHandler(client *Client, cache *Cache, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		client: client,
		cache:  cache,
		logger: logger,
	}
}

// Teams handles GET /api/v1/football/teams?code=PL
func (h *Handler) Teams(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		h.writeError(w, http.StatusBadRequest, "League code is required")
		return
	}
	if !ValidLeagueCode(code) {
		h.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Invalid league code: %s. Must be one of: PL, PD, SA, BL1", code))
		return
	}

	cacheKey := "football:teams:" + code
	if payload, ok := h.cache.Get(r.Context(), cacheKey); ok {
		h.writeJSON(w, http.StatusOK, payload)
		return
	}

	payload, err := h.client.Teams(r.Context(), code)
	if err != nil {
		h.handleUpstreamError(w, err, code)
		return
	}

	h.cache.Set(r.Context(), cacheKey, payload)
	h.writeJSON(w, http.StatusOK, payload)
}

// Fixtures handles GET /api/v1/football/fixtures?leagueId=4328&dateFrom=&dateTo=
func (h *Handler) Fixtures(w http.ResponseWriter, r *http.Request) {
	leagueID := r.URL.Query().Get("leagueId")
	if leagueID == "" {
		h.writeError(w, http.StatusBadRequest, "League ID is required")
		return
	}

	code, ok := LeagueCodeForID(leagueID)
	if !ok {
		h.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Invalid league ID: %s. Valid IDs: 4328 (PL), 4335 (PD), 4332 (SA), 4331 (BL1)", leagueID))
		return
	}

	dateFrom := r.URL.Query().Get("dateFrom")
	dateTo := r.URL.Query().Get("dateTo")
	if !validOptionalDate(dateFrom) || !validOptionalDate(dateTo) {
		h.writeError(w, http.StatusBadRequest, "Dates must be in YYYY-MM-DD format")
		return
	}

	cacheKey := strings.Join([]string{"football:fixtures", code, dateFrom, dateTo}, ":")
	if payload, ok := h.cache.Get(r.Context(), cacheKey); ok {
		h.writeJSON(w, http.StatusOK, payload)
		return
	}

	events, err := h.client.Fixtures(r.Context(), code, dateFrom, dateTo)
	if err != nil {
		h.handleUpstreamError(w, err, code)
		return
	}

	payload, err := json.Marshal(map[string]interface{}{"matches": events})
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to encode fixtures")
		return
	}

	h.cache.Set(r.Context(), cacheKey, payload)
	h.writeJSON(w, http.StatusOK, payload)
}

// handleUpstreamError maps client errors onto user-facing responses
func (h *Handler) handleUpstreamError(w http.ResponseWriter, err error, leagueCode string) {
	if errors.Is(err, ErrTimeout) {
		h.writeError(w, http.StatusGatewayTimeout, "Football data source timed out. Please try again.")
		return
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		switch upstream.StatusCode {
		case http.StatusForbidden:
			h.writeError(w, http.StatusForbidden,
				fmt.Sprintf("API key does not have access to %s. The free tier may only cover some competitions.", LeagueName(leagueCode)))
		case http.StatusNotFound:
			h.writeError(w, http.StatusNotFound,
				fmt.Sprintf("League code '%s' not found", leagueCode))
		case http.StatusTooManyRequests:
			h.writeError(w, http.StatusTooManyRequests,
				"Rate limit exceeded. Please wait a minute and try again.")
		default:
			h.writeError(w, upstream.StatusCode,
				fmt.Sprintf("Football API responded with status: %d", upstream.StatusCode))
		}
		return
	}

	h.logger.Error("football proxy failure", "error", err, "league", leagueCode)
	h.writeError(w, http.StatusInternalServerError, "Failed to fetch data from football API")
}

// writeJSON writes a pre-encoded JSON payload
func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(payload)
}

// writeError writes the {"error": ...} shape the football views expect
func (h *Handler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// validOptionalDate accepts an empty value or a YYYY-MM-DD date
func validOptionalDate(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}
