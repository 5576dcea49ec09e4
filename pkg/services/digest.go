package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matchtips/core/pkg/apifootball"
	"github.com/matchtips/core/pkg/logger"
	"github.com/matchtips/core/pkg/message"
	"github.com/matchtips/core/pkg/utils"
)

// RunResult summarises one pipeline run
type RunResult struct {
	RunID        string
	Date         time.Time
	Competitions []CompetitionSummary
	Fixtures     int
	Published    bool
	Chunks       int
	Duration     time.Duration
}

// CompetitionSummary is the per-competition part of a RunResult
type CompetitionSummary struct {
	ID       string
	Slug     string
	Fixtures int
}

// DigestService runs the fetch, compose and publish pipeline
type DigestService struct {
	fixtures     FixtureFetcher
	composer     MessageComposer
	publisher    Publisher
	channelID    string
	competitions []string
	logger       *logger.Logger
}

func NewDigestService(fixtures FixtureFetcher, composer MessageComposer, publisher Publisher, channelID string, competitions []string, log *logger.Logger) *DigestService {
	return &DigestService{
		fixtures:     fixtures,
		composer:     composer,
		publisher:    publisher,
		channelID:    channelID,
		competitions: append([]string(nil), competitions...),
		logger:       log,
	}
}

// Run executes one pipeline run for the given date. When no fixture
// qualifies nothing is published and no error is returned. The only error
// reported is a failed delivery.
func (s *DigestService) Run(ctx context.Context, date time.Time) (*RunResult, error) {
	start := time.Now()
	runID := uuid.New().String()
	log := logger.FromContext(ctx, s.logger).WithRun(runID)
	ctx = log.ToContext(ctx)

	result := &RunResult{RunID: runID, Date: date}

	log.Info().
		Str("action", "digest_start").
		Str("date", apifootball.FormatDate(date)).
		Strs("competitions", s.competitions).
		Msg("Starting fixtures digest")

	group := s.fixtures.FetchFixtures(ctx, s.competitions, date)
	for _, competitionID := range group.Competitions() {
		fixtures := group.Fixtures(competitionID)
		summary := CompetitionSummary{ID: competitionID, Fixtures: len(fixtures)}
		if len(fixtures) > 0 {
			summary.Slug = utils.GenerateCompetitionSlug(fixtures[0].CountryName, fixtures[0].CompetitionName)
		}
		result.Competitions = append(result.Competitions, summary)
	}
	result.Fixtures = group.Len()

	text, ok := s.composer.Compose(group)
	if !ok {
		result.Duration = time.Since(start)
		log.Info().
			Str("action", "digest_skipped").
			Dur("duration", result.Duration).
			Msg("No fixtures found. No message sent.")
		return result, nil
	}

	result.Chunks = len(message.Split(text, message.MaxLength))

	if err := s.publisher.Publish(ctx, s.channelID, text); err != nil {
		result.Duration = time.Since(start)
		return result, fmt.Errorf("failed to publish digest: %w", err)
	}

	result.Published = true
	result.Duration = time.Since(start)

	log.Info().
		Str("action", "digest_complete").
		Int("fixtures", result.Fixtures).
		Int("chunks", result.Chunks).
		Dur("duration", result.Duration).
		Msg("Fixtures digest published")

	return result, nil
}
