package apifootball

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/matchtips/core/pkg/models"
)

// Fixture-related endpoints and functionality

// GetFixtures fetches fixtures with various filter options
func (c *Client) GetFixtures(ctx context.Context, params map[string]string) ([]models.FootballAPIFixtureData, error) {
	response, err := c.makeRequest(ctx, "/fixtures", params)
	if err != nil {
		return nil, fmt.Errorf("failed to get fixtures: %w", err)
	}

	var fixtures []models.FootballAPIFixtureData
	if len(response.Response) == 0 {
		return fixtures, nil
	}
	if err := json.Unmarshal(response.Response, &fixtures); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fixtures response: %w", err)
	}

	return fixtures, nil
}

// GetLeagueFixturesOnDate fetches the fixtures of one league played on a calendar date
func (c *Client) GetLeagueFixturesOnDate(ctx context.Context, leagueID string, season int, date time.Time) ([]models.FootballAPIFixtureData, error) {
	options := NewFixtureSearchOptions().
		WithDate(date).
		WithLeague(leagueID).
		WithSeason(season)
	return c.GetFixturesAdvanced(ctx, *options)
}

// GetFixturesAdvanced fetches fixtures with multiple filter criteria
func (c *Client) GetFixturesAdvanced(ctx context.Context, options FixtureSearchOptions) ([]models.FootballAPIFixtureData, error) {
	return c.GetFixtures(ctx, options.ToParams())
}

// FixtureSearchOptions represents search options for fixtures
type FixtureSearchOptions struct {
	ID       *int
	Date     *time.Time
	League   string
	Season   *int
	Team     *int
	Status   string // short codes joined by '-', e.g. "NS-TBD"
	Timezone string
}

// ToParams converts FixtureSearchOptions to parameter map
func (o *FixtureSearchOptions) ToParams() map[string]string {
	params := make(map[string]string)

	if o.ID != nil {
		params["id"] = strconv.Itoa(*o.ID)
	}
	if o.Date != nil {
		params["date"] = FormatDate(*o.Date)
	}
	if o.League != "" {
		params["league"] = o.League
	}
	if o.Season != nil {
		params["season"] = strconv.Itoa(*o.Season)
	}
	if o.Team != nil {
		params["team"] = strconv.Itoa(*o.Team)
	}
	if o.Status != "" {
		params["status"] = o.Status
	}
	if o.Timezone != "" {
		params["timezone"] = o.Timezone
	}

	return params
}

// NewFixtureSearchOptions creates a new FixtureSearchOptions instance
func NewFixtureSearchOptions() *FixtureSearchOptions {
	return &FixtureSearchOptions{}
}

// WithID sets the fixture ID filter
func (o *FixtureSearchOptions) WithID(id int) *FixtureSearchOptions {
	o.ID = &id
	return o
}

// WithDate sets the calendar date filter
func (o *FixtureSearchOptions) WithDate(date time.Time) *FixtureSearchOptions {
	o.Date = &date
	return o
}

// WithLeague sets the league filter
func (o *FixtureSearchOptions) WithLeague(leagueID string) *FixtureSearchOptions {
	o.League = leagueID
	return o
}

// WithSeason sets the season filter
func (o *FixtureSearchOptions) WithSeason(season int) *FixtureSearchOptions {
	o.Season = &season
	return o
}

// WithTeam sets the team filter
func (o *FixtureSearchOptions) WithTeam(teamID int) *FixtureSearchOptions {
	o.Team = &teamID
	return o
}

// WithStatus sets the short status filter
func (o *FixtureSearchOptions) WithStatus(status string) *FixtureSearchOptions {
	o.Status = status
	return o
}

// WithTimezone sets the timezone used by the API to interpret the date
func (o *FixtureSearchOptions) WithTimezone(timezone string) *FixtureSearchOptions {
	o.Timezone = timezone
	return o
}
