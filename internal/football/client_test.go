package football

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const upstreamMatchesPayload = `{
	"matches": [
		{
			"id": 497894,
			"utcDate": "2026-09-05T14:00:00Z",
			"status": "SCHEDULED",
			"matchday": 4,
			"venue": "Emirates Stadium",
			"season": {"startDate": "2026-08-15"},
			"homeTeam": {"id": 57, "name": "Arsenal FC", "crest": "https://crests.football-data.org/57.png"},
			"awayTeam": {"id": 61, "name": "Chelsea FC", "crest": ""},
			"score": {"winner": null, "fullTime": {"home": null, "away": null}}
		}
	]
}`

func newUpstreamServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{
		BaseURL:  srv.URL,
		APIToken: "test-token",
		Timeout:  2 * time.Second,
	})
	return srv, client
}

func TestFixtures_TransformsUpstreamMatches(t *testing.T) {
	var gotPath, gotToken string
	_, client := newUpstreamServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("X-Auth-Token")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(upstreamMatchesPayload))
	})

	events, err := client.Fixtures(context.Background(), "PL", "2026-09-01", "2026-09-08")
	if err != nil {
		t.Fatalf("Fixtures failed: %v", err)
	}

	if gotPath != "/competitions/PL/matches" {
		t.Errorf("path = %q", gotPath)
	}
	if gotToken != "test-token" {
		t.Errorf("X-Auth-Token = %q", gotToken)
	}

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	e := events[0]
	if e.IDEvent != "497894" {
		t.Errorf("IDEvent = %q", e.IDEvent)
	}
	if e.StrEvent != "Arsenal FC vs Chelsea FC" {
		t.Errorf("StrEvent = %q", e.StrEvent)
	}
	if e.StrLeague != "Premier League" {
		t.Errorf("StrLeague = %q", e.StrLeague)
	}
	if e.DateEvent != "2026-09-05" || e.StrTime != "14:00" {
		t.Errorf("date/time = %q %q", e.DateEvent, e.StrTime)
	}
	if e.StrSeason != "2026" {
		t.Errorf("StrSeason = %q", e.StrSeason)
	}
	if e.IntRound != "4" {
		t.Errorf("IntRound = %q", e.IntRound)
	}
	if e.StrVenue != "Emirates Stadium" {
		t.Errorf("StrVenue = %q", e.StrVenue)
	}
	if e.StrHomeTeamBadge != "https://crests.football-data.org/57.png" {
		t.Errorf("home badge = %q", e.StrHomeTeamBadge)
	}
	// Empty crest falls back to the CDN URL by team id.
	if e.StrAwayTeamBadge != "https://crests.football-data.org/61.png" {
		t.Errorf("away badge fallback = %q", e.StrAwayTeamBadge)
	}
}

func TestFixtures_DefaultsMissingFields(t *testing.T) {
	_, client := newUpstreamServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"matches":[{"id":1,"utcDate":"2026-09-05T00:00:00Z","homeTeam":{"id":1,"name":"A"},"awayTeam":{"id":2,"name":"B"}}]}`))
	})

	events, err := client.Fixtures(context.Background(), "PL", "", "")
	if err != nil {
		t.Fatalf("Fixtures failed: %v", err)
	}
	e := events[0]
	if e.StrVenue != "TBD" {
		t.Errorf("StrVenue = %q, want TBD", e.StrVenue)
	}
	if e.IntRound != "1" {
		t.Errorf("IntRound = %q, want 1", e.IntRound)
	}
}

func TestFixtures_DefaultDateWindow(t *testing.T) {
	var gotFrom, gotTo string
	_, client := newUpstreamServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotFrom = r.URL.Query().Get("dateFrom")
		gotTo = r.URL.Query().Get("dateTo")
		w.Write([]byte(`{"matches":[]}`))
	})

	if _, err := client.Fixtures(context.Background(), "PL", "", ""); err != nil {
		t.Fatalf("Fixtures failed: %v", err)
	}

	from, err := time.Parse(time.DateOnly, gotFrom)
	if err != nil {
		t.Fatalf("dateFrom %q not a date: %v", gotFrom, err)
	}
	to, err := time.Parse(time.DateOnly, gotTo)
	if err != nil {
		t.Fatalf("dateTo %q not a date: %v", gotTo, err)
	}
	if days := to.Sub(from).Hours() / 24; days != 7 {
		t.Errorf("window = %v days, want 7", days)
	}
}

func TestFixtures_UnknownLeague(t *testing.T) {
	client := NewClient(ClientConfig{BaseURL: "http://unused.invalid", APIToken: "t"})
	if _, err := client.Fixtures(context.Background(), "XX", "", ""); !errors.Is(err, ErrUnknownLeague) {
		t.Errorf("err = %v, want ErrUnknownLeague", err)
	}
}

func TestFixtures_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"matches":[]}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{
		BaseURL:  srv.URL,
		APIToken: "t",
		Timeout:  20 * time.Millisecond,
	})

	if _, err := client.Fixtures(context.Background(), "PL", "", ""); !errors.Is(err, ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
}

func TestFixtures_UpstreamErrorStatus(t *testing.T) {
	for _, status := range []int{http.StatusForbidden, http.StatusNotFound, http.StatusTooManyRequests, http.StatusInternalServerError} {
		_, client := newUpstreamServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"message":"nope"}`))
		})

		_, err := client.Fixtures(context.Background(), "PL", "", "")
		var upstream *UpstreamError
		if !errors.As(err, &upstream) {
			t.Fatalf("status %d: err = %v, want UpstreamError", status, err)
		}
		if upstream.StatusCode != status {
			t.Errorf("StatusCode = %d, want %d", upstream.StatusCode, status)
		}
	}
}

func TestTeams_ReturnsRawPayload(t *testing.T) {
	payload := `{"count":20,"teams":[{"id":57,"name":"Arsenal FC"}]}`
	var gotPath string
	_, client := newUpstreamServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(payload))
	})

	body, err := client.Teams(context.Background(), "PD")
	if err != nil {
		t.Fatalf("Teams failed: %v", err)
	}
	if gotPath != "/competitions/PD/teams" {
		t.Errorf("path = %q", gotPath)
	}
	if string(body) != payload {
		t.Errorf("body = %s", body)
	}
}

func TestTeams_RejectsMalformedUpstreamBody(t *testing.T) {
	_, client := newUpstreamServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected":true}`))
	})

	_, err := client.Teams(context.Background(), "PL")
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want UpstreamError for a malformed body", err)
	}
}

func TestLeagueMappings(t *testing.T) {
	wantCodes := map[string]string{"4328": "PL", "4335": "PD", "4332": "SA", "4331": "BL1"}
	for id, want := range wantCodes {
		code, ok := LeagueCodeForID(id)
		if !ok || code != want {
			t.Errorf("LeagueCodeForID(%s) = %q %v, want %q", id, code, ok, want)
		}
	}
	if _, ok := LeagueCodeForID("9999"); ok {
		t.Error("unknown league id resolved")
	}

	wantNames := map[string]string{"PL": "Premier League", "PD": "LaLiga", "SA": "Serie A", "BL1": "Bundesliga"}
	for code, want := range wantNames {
		if got := LeagueName(code); got != want {
			t.Errorf("LeagueName(%s) = %q, want %q", code, got, want)
		}
	}
}

func TestEvent_JSONShape(t *testing.T) {
	e := Event{IDEvent: "1", StrEvent: "A vs B"}
	raw, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"idEvent", "strEvent", "strHomeTeam", "dateEvent", "strTime", "intRound"} {
		if _, ok := m[key]; !ok {
			t.Errorf("event JSON missing %q", key)
		}
	}
}
