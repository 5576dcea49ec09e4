package apifootball

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matchtips/core/pkg/models"
)

// GetPredictions fetches the predictions for a fixture. An empty slice means
// the API has no prediction for it.
func (c *Client) GetPredictions(ctx context.Context, fixtureID int) ([]models.FootballAPIPredictionData, error) {
	response, err := c.makeRequest(ctx, "/predictions", ParamFixture(fixtureID))
	if err != nil {
		return nil, fmt.Errorf("failed to get predictions for fixture %d: %w", fixtureID, err)
	}

	var predictions []models.FootballAPIPredictionData
	if len(response.Response) == 0 {
		return predictions, nil
	}
	if err := json.Unmarshal(response.Response, &predictions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal predictions response: %w", err)
	}

	return predictions, nil
}
