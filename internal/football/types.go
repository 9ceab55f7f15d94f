package football

import "encoding/json"

// League codes accepted by the upstream football-data.org API
var leagueNames = map[string]string{
	"PL":  "Premier League",
	"PD":  "LaLiga",
	"SA":  "Serie A",
	"BL1": "Bundesliga",
}

// leagueIDToCode maps the numeric league ids the client UI uses to the
// upstream competition codes.
var leagueIDToCode = map[string]string{
	"4328": "PL",
	"4335": "PD",
	"4332": "SA",
	"4331": "BL1",
}

// upstreamMatch is the shape of a match in football-data.org responses
type upstreamMatch struct {
	ID       int64  `json:"id"`
	UTCDate  string `json:"utcDate"`
	Status   string `json:"status"`
	Matchday int    `json:"matchday"`
	Venue    string `json:"venue"`
	Season   struct {
		StartDate string `json:"startDate"`
	} `json:"season"`
	HomeTeam upstreamTeam    `json:"homeTeam"`
	AwayTeam upstreamTeam    `json:"awayTeam"`
	Score    json.RawMessage `json:"score"`
}

// upstreamTeam is the shape of a team reference in upstream responses
type upstreamTeam struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Crest string `json:"crest"`
}

// upstreamMatchList is the envelope of the upstream matches endpoint
type upstreamMatchList struct {
	Matches []upstreamMatch `json:"matches"`
}

// Event is the fixture shape the client UI renders. Field names follow
// the event schema the views expect.
type Event struct {
	IDEvent          string          `json:"idEvent"`
	StrEvent         string          `json:"strEvent"`
	StrLeague        string          `json:"strLeague"`
	StrSeason        string          `json:"strSeason"`
	StrHomeTeam      string          `json:"strHomeTeam"`
	StrAwayTeam      string          `json:"strAwayTeam"`
	DateEvent        string          `json:"dateEvent"`
	StrTime          string          `json:"strTime"`
	StrVenue         string          `json:"strVenue"`
	StrHomeTeamBadge string          `json:"strHomeTeamBadge"`
	StrAwayTeamBadge string          `json:"strAwayTeamBadge"`
	IntRound         string          `json:"intRound"`
	Status           string          `json:"status"`
	Score            json.RawMessage `json:"score,omitempty"`
}
