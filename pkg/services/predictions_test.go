package services

import (
	"context"
	"errors"
	"testing"

	"github.com/matchtips/core/pkg/logger"
	"github.com/matchtips/core/pkg/models"
)

type mockPredictionProvider struct {
	predictions []models.FootballAPIPredictionData
	err         error
}

func (m *mockPredictionProvider) GetPredictions(ctx context.Context, fixtureID int) ([]models.FootballAPIPredictionData, error) {
	return m.predictions, m.err
}

func prediction(advice string) models.FootballAPIPredictionData {
	var p models.FootballAPIPredictionData
	p.Predictions.Advice = advice
	return p
}

func TestFetchPrediction(t *testing.T) {
	tests := []struct {
		name       string
		provider   *mockPredictionProvider
		wantAdvice string
		wantOK     bool
	}{
		{
			name:       "first prediction advice",
			provider:   &mockPredictionProvider{predictions: []models.FootballAPIPredictionData{prediction("Home Win"), prediction("ignored")}},
			wantAdvice: "Home Win",
			wantOK:     true,
		},
		{
			name:     "upstream error",
			provider: &mockPredictionProvider{err: errors.New("status 500")},
		},
		{
			name:     "empty response",
			provider: &mockPredictionProvider{},
		},
		{
			name:     "blank advice",
			provider: &mockPredictionProvider{predictions: []models.FootballAPIPredictionData{prediction("  ")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewPredictionService(tt.provider, logger.Nop())

			advice, ok := service.FetchPrediction(context.Background(), 42)
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if advice != tt.wantAdvice {
				t.Errorf("advice = %q, want %q", advice, tt.wantAdvice)
			}
		})
	}
}
