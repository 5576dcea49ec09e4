package services

import (
	"context"
	"time"

	"github.com/matchtips/core/pkg/models"
)

// FixtureProvider defines the upstream fixtures lookup
type FixtureProvider interface {
	GetLeagueFixturesOnDate(ctx context.Context, leagueID string, season int, date time.Time) ([]models.FootballAPIFixtureData, error)
}

// PredictionProvider defines the upstream predictions lookup
type PredictionProvider interface {
	GetPredictions(ctx context.Context, fixtureID int) ([]models.FootballAPIPredictionData, error)
}

// PredictionFetcher returns the advice for a fixture, or false when there is none
type PredictionFetcher interface {
	FetchPrediction(ctx context.Context, fixtureID int) (string, bool)
}

// FixtureFetcher collects the not-started fixtures of several competitions
type FixtureFetcher interface {
	FetchFixtures(ctx context.Context, competitionIDs []string, date time.Time) *models.CompetitionGroup
}

// MessageComposer turns grouped fixtures into a message; false means nothing to send
type MessageComposer interface {
	Compose(group *models.CompetitionGroup) (string, bool)
}

// Publisher delivers a message to a channel
type Publisher interface {
	Publish(ctx context.Context, channelID string, text string) error
}
