package services

import (
	"context"
	"errors"
	"time"

	"github.com/sourcegraph/conc/iter"

	"github.com/matchtips/core/pkg/apifootball"
	"github.com/matchtips/core/pkg/logger"
	"github.com/matchtips/core/pkg/models"
	"github.com/matchtips/core/pkg/utils"
)

type FixtureService struct {
	client      FixtureProvider
	predictions PredictionFetcher
	season      int
	workers     int
	logger      *logger.Logger
}

// NewFixtureService creates a fixture service. workers bounds concurrent
// prediction lookups inside one competition; 1 keeps them strictly sequential.
func NewFixtureService(client FixtureProvider, predictions PredictionFetcher, season int, workers int, log *logger.Logger) *FixtureService {
	if workers < 1 {
		workers = 1
	}
	return &FixtureService{
		client:      client,
		predictions: predictions,
		season:      season,
		workers:     workers,
		logger:      log,
	}
}

// FetchFixtures queries each competition for the given date and keeps the
// fixtures that have not started yet, each enriched with its prediction.
// A failing competition contributes nothing; the others are still queried.
func (s *FixtureService) FetchFixtures(ctx context.Context, competitionIDs []string, date time.Time) *models.CompetitionGroup {
	log := logger.FromContext(ctx, s.logger)
	group := models.NewCompetitionGroup()

	for _, competitionID := range competitionIDs {
		group.Register(competitionID)

		fixtures, err := s.client.GetLeagueFixturesOnDate(ctx, competitionID, s.season, date)
		if err != nil {
			event := log.Error().
				Err(err).
				Str("action", "fixtures_fetch_failed").
				Str("competition_id", competitionID).
				Str("date", apifootball.FormatDate(date))

			var apiErr *apifootball.APIError
			if errors.As(err, &apiErr) {
				event = event.Int("status_code", apiErr.StatusCode).Str("response_body", apiErr.Body)
			}
			event.Msg("Error fetching league fixtures")
			continue
		}

		upcoming := FilterNotStarted(fixtures)
		records := s.enrich(ctx, competitionID, upcoming)
		for _, record := range records {
			group.Append(record)
		}

		competitionSlug := ""
		if len(upcoming) > 0 {
			competitionSlug = utils.GenerateCompetitionSlug(upcoming[0].League.Country, upcoming[0].League.Name)
		}
		log.WithCompetition(competitionID, competitionSlug).Info().
			Str("action", "fixtures_fetched").
			Int("fixtures_total", len(fixtures)).
			Int("fixtures_not_started", len(records)).
			Msg("Fetched league fixtures")
	}

	return group
}

// FilterNotStarted keeps fixtures whose status is exactly "Not Started", in order
func FilterNotStarted(fixtures []models.FootballAPIFixtureData) []models.FootballAPIFixtureData {
	var upcoming []models.FootballAPIFixtureData
	for _, fixture := range fixtures {
		if fixture.Fixture.IsNotStarted() {
			upcoming = append(upcoming, fixture)
		}
	}
	return upcoming
}

func (s *FixtureService) enrich(ctx context.Context, competitionID string, fixtures []models.FootballAPIFixtureData) []models.FixtureRecord {
	mapper := iter.Mapper[models.FootballAPIFixtureData, models.FixtureRecord]{
		MaxGoroutines: s.workers,
	}

	return mapper.Map(fixtures, func(fixture *models.FootballAPIFixtureData) models.FixtureRecord {
		record := models.FixtureRecord{
			CompetitionID:   competitionID,
			CompetitionName: fixture.League.Name,
			CountryName:     fixture.League.Country,
			FixtureID:       fixture.Fixture.ID,
			HomeTeam:        fixture.Teams.Home.Name,
			AwayTeam:        fixture.Teams.Away.Name,
			Kickoff:         fixture.Fixture.Kickoff(),
		}

		if advice, ok := s.predictions.FetchPrediction(ctx, fixture.Fixture.ID); ok {
			record.Prediction = &advice
		}

		return record
	})
}
