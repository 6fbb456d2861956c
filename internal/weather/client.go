// ABOUTME: WeatherAPI.com client for current conditions, forecasts and location search
// ABOUTME: One HTTP call per request behind a circuit breaker, no retries

package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/harper/wxhistory/internal/models"
	"github.com/sony/gobreaker"
)

// DefaultBaseURL is the WeatherAPI.com v1 endpoint.
const DefaultBaseURL = "https://api.weatherapi.com/v1"

// ForecastDays is how many forecast days are requested.
const ForecastDays = 5

// minQueryLen is the shortest query sent to location search.
const minQueryLen = 2

const maxBodyBytes = 4 << 20

var (
	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("weather api key is not configured")
	// ErrCircuitOpen is returned while the breaker rejects calls.
	ErrCircuitOpen = errors.New("weather api temporarily unavailable")
)

// Provider is the weather-data collaborator.
type Provider interface {
	FetchCurrentAndForecast(ctx context.Context, query string) (models.Snapshot, error)
	SearchLocations(ctx context.Context, query string) ([]Location, error)
}

// Location is one location search suggestion.
type Location struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	URL     string  `json:"url"`
}

// Label renders the suggestion as "Name, Region, Country", skipping blanks.
func (l Location) Label() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.Name, l.Region, l.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// APIError is a failed weather API call.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("weather api: %s (status %d)", e.Message, e.Status)
}

// WeatherAPIClient talks to api.weatherapi.com.
type WeatherAPIClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// Compile-time check that WeatherAPIClient implements Provider.
var _ Provider = (*WeatherAPIClient)(nil)

// Option configures a WeatherAPIClient.
type Option func(*WeatherAPIClient)

// WithBaseURL points the client at another endpoint, for tests.
func WithBaseURL(u string) Option {
	return func(c *WeatherAPIClient) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *WeatherAPIClient) {
		if h != nil {
			c.http = h
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *WeatherAPIClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewWeatherAPIClient creates a client for the given API key.
func NewWeatherAPIClient(apiKey string, opts ...Option) *WeatherAPIClient {
	c := &WeatherAPIClient{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weatherapi",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return c
}

// FetchCurrentAndForecast returns the current conditions and a five day
// forecast for query, kept verbatim as a snapshot.
func (c *WeatherAPIClient) FetchCurrentAndForecast(ctx context.Context, query string) (models.Snapshot, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("days", fmt.Sprint(ForecastDays))
	params.Set("aqi", "no")
	params.Set("alerts", "no")

	body, err := c.get(ctx, "forecast.json", params, "Failed to fetch weather data")
	if err != nil {
		return models.Snapshot{}, err
	}
	snap, err := models.NewSnapshot(body)
	if err != nil {
		return models.Snapshot{}, &APIError{Message: "invalid weather data: " + err.Error()}
	}
	return snap, nil
}

// SearchLocations returns suggestions for query. Queries shorter than two
// characters return an empty list without calling the API.
func (c *WeatherAPIClient) SearchLocations(ctx context.Context, query string) ([]Location, error) {
	if len([]rune(strings.TrimSpace(query))) < minQueryLen {
		return []Location{}, nil
	}
	params := url.Values{}
	params.Set("q", query)

	body, err := c.get(ctx, "search.json", params, "Failed to search locations")
	if err != nil {
		return nil, err
	}

	locations := []Location{}
	if err := json.Unmarshal(body, &locations); err != nil {
		return nil, &APIError{Message: "invalid location search response: " + err.Error()}
	}
	return locations, nil
}

// get performs one GET through the breaker and returns the 2xx body.
func (c *WeatherAPIClient) get(ctx context.Context, endpoint string, params url.Values, fallback string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	params.Set("key", c.apiKey)
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode >= 500 {
			return nil, apiError(resp.StatusCode, body, fallback)
		}
		// Client errors are the caller's fault and must not trip the breaker.
		return &response{status: resp.StatusCode, body: body}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, apiErr
		}
		c.logger.Debug("weather api request failed", "endpoint", endpoint, "error", err)
		return nil, &APIError{Message: fallback + ": " + err.Error()}
	}

	resp, ok := result.(*response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	if resp.status < 200 || resp.status >= 300 {
		return nil, apiError(resp.status, resp.body, fallback)
	}
	return resp.body, nil
}

type response struct {
	status int
	body   []byte
}

// apiError builds an APIError from a {"error":{"message":...}} body,
// falling back to a generic message.
func apiError(status int, body []byte, fallback string) *APIError {
	var payload struct {
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	msg := fallback
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != nil && payload.Error.Message != "" {
		msg = payload.Error.Message
	}
	return &APIError{Status: status, Message: msg}
}

// ValidateLocation reports whether search returns at least one suggestion for query.
func ValidateLocation(ctx context.Context, p Provider, query string) (bool, error) {
	locations, err := p.SearchLocations(ctx, query)
	if err != nil {
		return false, err
	}
	return len(locations) > 0, nil
}
