package api

import "time"

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// WebhookResponse is the fixed acknowledgement returned for every inbound update
type WebhookResponse struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}
