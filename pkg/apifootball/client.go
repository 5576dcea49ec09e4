package apifootball

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/matchtips/core/pkg/logger"
	"github.com/matchtips/core/pkg/models"
)

// RateLimitError represents a rate limit error from the API
type RateLimitError struct {
	StatusCode int
	RetryAfter string
	Message    string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter != "" {
		return fmt.Sprintf("rate limit exceeded (status %d), retry after: %s", e.StatusCode, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded (status %d): %s", e.StatusCode, e.Message)
}

func (e *RateLimitError) IsRateLimit() bool {
	return true
}

// APIError represents a general API error
type APIError struct {
	StatusCode int
	Message    string
	Body       string
	Errors     []string
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("API error (status %d): %s - %s", e.StatusCode, e.Message, strings.Join(e.Errors, ", "))
	}
	if e.Body != "" {
		return fmt.Sprintf("API error (status %d): %s: %s", e.StatusCode, e.Message, e.Body)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// Client provides access to the API-Football service
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
	logger      *logger.Logger
}

// Config holds configuration for the API-Football client
type Config struct {
	APIKey           string
	Timeout          time.Duration
	RequestsPerMin   int
	BaseURL          string
	BreakerThreshold uint32        // consecutive failures before the circuit opens
	BreakerCooldown  time.Duration // how long the circuit stays open
	HTTPClient       *http.Client
	Logger           *logger.Logger
}

// DefaultConfig returns a default configuration
func DefaultConfig(apiKey string) *Config {
	return &Config{
		APIKey:           apiKey,
		Timeout:          30 * time.Second,
		RequestsPerMin:   10, // API-Football free plan
		BaseURL:          "https://v3.football.api-sports.io",
		BreakerThreshold: 5,
		BreakerCooldown:  time.Minute,
	}
}

// NewClient creates a new API-Football client
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig("")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	log := config.Logger
	if log == nil {
		log = logger.New("apifootball")
	}

	threshold := config.BreakerThreshold
	if threshold == 0 {
		threshold = 5
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "api-football",
		Timeout: config.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return !isBreakerFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("action", "circuit_state_change").
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("API-Football circuit breaker changed state")
		},
	})

	return &Client{
		httpClient:  httpClient,
		apiKey:      config.APIKey,
		baseURL:     strings.TrimRight(config.BaseURL, "/"),
		rateLimiter: NewRateLimiter(config.RequestsPerMin),
		breaker:     breaker,
		logger:      log,
	}
}

// NewRateLimiter allows requestsPerMinute requests per minute, evenly spaced
func NewRateLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 10
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
}

// isBreakerFailure reports whether err says something about upstream health.
// Transport errors, malformed bodies, 5xx and rate limiting count; a 4xx or
// errors reported inside a 200 body concern one request only.
func isBreakerFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}

	return true
}

// APIResponse represents the standard API-Football response structure
type APIResponse struct {
	Get        string                   `json:"get"`
	Parameters json.RawMessage          `json:"parameters"` // object, or [] when empty
	Errors     interface{}              `json:"errors"`
	Results    int                      `json:"results"`
	Paging     models.FootballAPIPaging `json:"paging"`
	Response   json.RawMessage          `json:"response"`
}

// HasErrors checks if the API response contains errors
func (r *APIResponse) HasErrors() bool {
	if r.Errors == nil {
		return false
	}

	switch errors := r.Errors.(type) {
	case []interface{}:
		return len(errors) > 0
	case map[string]interface{}:
		return len(errors) > 0
	case string:
		return errors != ""
	default:
		return false
	}
}

// GetErrorMessages extracts error messages from the response
func (r *APIResponse) GetErrorMessages() []string {
	if !r.HasErrors() {
		return nil
	}

	var messages []string
	switch errors := r.Errors.(type) {
	case []interface{}:
		for _, err := range errors {
			if errStr, ok := err.(string); ok {
				messages = append(messages, errStr)
			}
		}
	case map[string]interface{}:
		for key, value := range errors {
			if valueStr, ok := value.(string); ok {
				messages = append(messages, fmt.Sprintf("%s: %s", key, valueStr))
			}
		}
	case string:
		messages = append(messages, errors)
	}

	return messages
}

// makeRequest makes a request to the API-Football service through the circuit breaker
func (c *Client) makeRequest(ctx context.Context, endpoint string, params map[string]string) (*APIResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doRequest(ctx, endpoint, params)
	})
	if err != nil {
		return nil, err
	}

	return result.(*APIResponse), nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params map[string]string) (*APIResponse, error) {
	// Build URL with parameters
	u, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint URL: %w", err)
	}

	query := u.Query()
	for key, value := range params {
		query.Set(key, value)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-apisports-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.LogAPICall(http.MethodGet, endpoint, 0, time.Since(start), err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

		var apiErr error
		if resp.StatusCode == http.StatusTooManyRequests {
			apiErr = &RateLimitError{
				StatusCode: resp.StatusCode,
				RetryAfter: resp.Header.Get("Retry-After"),
				Message:    "Daily request limit exceeded",
			}
		} else {
			apiErr = &APIError{
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("API returned status %d", resp.StatusCode),
				Body:       strings.TrimSpace(string(body)),
			}
		}
		c.logger.LogAPICall(http.MethodGet, endpoint, resp.StatusCode, time.Since(start), apiErr)
		return nil, apiErr
	}

	var apiResponse APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.LogAPICall(http.MethodGet, endpoint, resp.StatusCode, time.Since(start), nil)

	// API-Football reports quota and validation problems with status 200
	if apiResponse.HasErrors() {
		errorMessages := apiResponse.GetErrorMessages()

		for _, msg := range errorMessages {
			lower := strings.ToLower(msg)
			if strings.Contains(lower, "request limit") ||
				strings.Contains(lower, "rate limit") ||
				strings.Contains(lower, "quota exceeded") {
				return nil, &RateLimitError{
					StatusCode: http.StatusOK,
					Message:    msg,
				}
			}
		}

		return nil, &APIError{
			StatusCode: http.StatusOK,
			Message:    "API returned errors in response body",
			Errors:     errorMessages,
		}
	}

	return &apiResponse, nil
}

// IsAvailable checks if the API key is configured
func (c *Client) IsAvailable() bool {
	return c.apiKey != ""
}

// Health checks if the API is accessible
func (c *Client) Health(ctx context.Context) error {
	if !c.IsAvailable() {
		return fmt.Errorf("API key not configured")
	}

	_, err := c.makeRequest(ctx, "/status", nil)
	return err
}

// Common parameter builders for convenience
func ParamFixture(fixtureID int) map[string]string {
	return map[string]string{"fixture": strconv.Itoa(fixtureID)}
}

func ParamLeague(leagueID string) map[string]string {
	return map[string]string{"league": leagueID}
}

const dateLayout = "2006-01-02"

// FormatDate renders a calendar date the way the API expects (YYYY-MM-DD)
func FormatDate(date time.Time) string {
	return date.Format(dateLayout)
}

// ParseDate parses a YYYY-MM-DD calendar date in loc
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", raw, err)
	}
	return date, nil
}
