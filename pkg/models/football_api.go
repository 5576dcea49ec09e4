package models

import "time"

// Football API Models for external API integration

// FixtureStatusNotStarted is the upstream long status of a fixture that has not kicked off yet
const FixtureStatusNotStarted = "Not Started"

// FootballAPIPaging represents pagination info
type FootballAPIPaging struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// FootballAPIFixtureData represents one entry of the /fixtures response
type FootballAPIFixtureData struct {
	Fixture FootballAPIFixture       `json:"fixture"`
	League  FootballAPIFixtureLeague `json:"league"`
	Teams   FootballAPIFixtureTeams  `json:"teams"`
}

// FootballAPIFixture represents the fixture block
type FootballAPIFixture struct {
	ID        int                      `json:"id"`
	Referee   string                   `json:"referee"`
	Timezone  string                   `json:"timezone"`
	Date      string                   `json:"date"`
	Timestamp int64                    `json:"timestamp"`
	Status    FootballAPIFixtureStatus `json:"status"`
}

// FootballAPIFixtureStatus represents the fixture status
type FootballAPIFixtureStatus struct {
	Long    string `json:"long"`
	Short   string `json:"short"`
	Elapsed *int   `json:"elapsed"`
}

// FootballAPIFixtureLeague represents the league block of a fixture
type FootballAPIFixtureLeague struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Logo    string `json:"logo"`
	Flag    string `json:"flag"`
	Season  int    `json:"season"`
	Round   string `json:"round"`
}

// FootballAPIFixtureTeams holds both sides of a fixture
type FootballAPIFixtureTeams struct {
	Home FootballAPIFixtureTeam `json:"home"`
	Away FootballAPIFixtureTeam `json:"away"`
}

// FootballAPIFixtureTeam represents a team inside a fixture
type FootballAPIFixtureTeam struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Logo   string `json:"logo"`
	Winner *bool  `json:"winner"`
}

// Kickoff returns the kickoff instant, preferring the unix timestamp
func (f FootballAPIFixture) Kickoff() time.Time {
	if f.Timestamp > 0 {
		return time.Unix(f.Timestamp, 0).UTC()
	}
	if t, err := time.Parse(time.RFC3339, f.Date); err == nil {
		return t
	}
	return time.Time{}
}

// IsNotStarted reports whether the fixture has not kicked off (exact, case-sensitive match)
func (f FootballAPIFixture) IsNotStarted() bool {
	return f.Status.Long == FixtureStatusNotStarted
}

// FootballAPIPredictionData represents one entry of the /predictions response
type FootballAPIPredictionData struct {
	Predictions FootballAPIPrediction `json:"predictions"`
}

// FootballAPIPrediction represents the predictions block
type FootballAPIPrediction struct {
	Winner    *FootballAPIPredictionWinner `json:"winner"`
	WinOrDraw *bool                        `json:"win_or_draw"`
	UnderOver *string                      `json:"under_over"`
	Advice    string                       `json:"advice"`
	Percent   FootballAPIPredictionPercent `json:"percent"`
}

// FootballAPIPredictionWinner represents the predicted winner
type FootballAPIPredictionWinner struct {
	ID      *int   `json:"id"`
	Name    string `json:"name"`
	Comment string `json:"comment"`
}

// FootballAPIPredictionPercent holds home/draw/away percentages as strings ("45%")
type FootballAPIPredictionPercent struct {
	Home string `json:"home"`
	Draw string `json:"draw"`
	Away string `json:"away"`
}
