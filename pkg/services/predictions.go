package services

import (
	"context"
	"strings"

	"github.com/matchtips/core/pkg/logger"
)

type PredictionService struct {
	client PredictionProvider
	logger *logger.Logger
}

func NewPredictionService(client PredictionProvider, log *logger.Logger) *PredictionService {
	return &PredictionService{
		client: client,
		logger: log,
	}
}

// FetchPrediction returns the advice of the first prediction for the fixture.
// Failures are logged and reported as a missing prediction; there are no retries.
func (s *PredictionService) FetchPrediction(ctx context.Context, fixtureID int) (string, bool) {
	log := logger.FromContext(ctx, s.logger).WithFixture(fixtureID)

	predictions, err := s.client.GetPredictions(ctx, fixtureID)
	if err != nil {
		log.Warn().
			Err(err).
			Str("action", "prediction_fetch_failed").
			Msg("Error fetching prediction for fixture")
		return "", false
	}

	if len(predictions) == 0 {
		log.Warn().
			Str("action", "prediction_missing").
			Str("reason", "empty_response").
			Msg("No prediction returned for fixture")
		return "", false
	}

	advice := strings.TrimSpace(predictions[0].Predictions.Advice)
	if advice == "" {
		log.Warn().
			Str("action", "prediction_missing").
			Str("reason", "empty_advice").
			Msg("Prediction for fixture has no advice")
		return "", false
	}

	return advice, true
}
