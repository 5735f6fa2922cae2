package footballdata

import "time"

// TeamRef is the short team object embedded in matches and tables.
type TeamRef struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	TLA       string `json:"tla"`
	Crest     string `json:"crest"`
}

// Competition is the short competition object embedded in matches.
type Competition struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Emblem string `json:"emblem"`
}

// ScorePair holds home and away goals; nil until the match has started.
type ScorePair struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// Score is the match score block.
type Score struct {
	Winner   string    `json:"winner"`
	FullTime ScorePair `json:"fullTime"`
}

// Match is one fixture or result.
type Match struct {
	ID          int         `json:"id"`
	UTCDate     time.Time   `json:"utcDate"`
	Status      string      `json:"status"`
	Matchday    *int        `json:"matchday"`
	Competition Competition `json:"competition"`
	HomeTeam    TeamRef     `json:"homeTeam"`
	AwayTeam    TeamRef     `json:"awayTeam"`
	Score       Score       `json:"score"`
}

// Finished reports whether the final score is known.
func (m Match) Finished() bool {
	return m.Status == StatusFinished
}

// Match statuses used by the API.
const (
	StatusScheduled = "SCHEDULED"
	StatusTimed     = "TIMED"
	StatusInPlay    = "IN_PLAY"
	StatusPaused    = "PAUSED"
	StatusFinished  = "FINISHED"
	StatusPostponed = "POSTPONED"
	StatusCancelled = "CANCELLED"
)

type matchesResponse struct {
	Matches []Match `json:"matches"`
}

// Player is one squad entry of a team.
type Player struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Position    string `json:"position"`
	DateOfBirth string `json:"dateOfBirth"`
	Nationality string `json:"nationality"`
	ShirtNumber *int   `json:"shirtNumber"`
}

// Team is the full team resource including its squad.
type Team struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	ShortName string   `json:"shortName"`
	Crest     string   `json:"crest"`
	Venue     string   `json:"venue"`
	Squad     []Player `json:"squad"`
}

// TableRow is one position of a league table.
type TableRow struct {
	Position       int     `json:"position"`
	Team           TeamRef `json:"team"`
	PlayedGames    int     `json:"playedGames"`
	Form           string  `json:"form"`
	Won            int     `json:"won"`
	Draw           int     `json:"draw"`
	Lost           int     `json:"lost"`
	Points         int     `json:"points"`
	GoalsFor       int     `json:"goalsFor"`
	GoalsAgainst   int     `json:"goalsAgainst"`
	GoalDifference int     `json:"goalDifference"`
}

// Standing is one table of a competition (TOTAL, HOME or AWAY).
type Standing struct {
	Stage string     `json:"stage"`
	Type  string     `json:"type"`
	Table []TableRow `json:"table"`
}

// Season is the season a standings response refers to.
type Season struct {
	ID              int    `json:"id"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	CurrentMatchday int    `json:"currentMatchday"`
}

// Standings is the /competitions/{code}/standings resource.
type Standings struct {
	Competition Competition `json:"competition"`
	Season      Season      `json:"season"`
	Standings   []Standing  `json:"standings"`
}

// Total returns the overall table, or nil when the response has none.
func (s *Standings) Total() []TableRow {
	for _, st := range s.Standings {
		if st.Type == "TOTAL" {
			return st.Table
		}
	}
	return nil
}
