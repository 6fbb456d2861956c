// ABOUTME: Tests for the WeatherAPI.com client against an httptest server
// ABOUTME: Covers request shape, error messages, short queries and the circuit breaker

package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forecastBody = `{
  "location": {"name": "Tokyo", "region": "Tokyo", "country": "Japan", "lat": 35.69, "lon": 139.69},
  "current": {"temp_c": 8, "humidity": 55, "wind_kph": 9.4, "condition": {"text": "Partly cloudy", "code": 1003}},
  "forecast": {"forecastday": [
    {"date": "2024-01-01", "day": {"maxtemp_c": 10, "mintemp_c": 2, "daily_chance_of_rain": 20, "condition": {"text": "Sunny", "code": 1000}}},
    {"date": "2024-01-02", "day": {"maxtemp_c": 9, "mintemp_c": 3, "daily_chance_of_rain": 80, "condition": {"text": "Light rain", "code": 1183}}}
  ]}
}`

func newTestClient(t *testing.T, h http.HandlerFunc) (*WeatherAPIClient, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewWeatherAPIClient("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client())), &calls
}

func TestFetchCurrentAndForecast(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast.json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "Tokyo", q.Get("q"))
		assert.Equal(t, "5", q.Get("days"))
		assert.Equal(t, "no", q.Get("aqi"))
		assert.Equal(t, "no", q.Get("alerts"))
		_, _ = w.Write([]byte(forecastBody))
	})

	snap, err := client.FetchCurrentAndForecast(context.Background(), "Tokyo")
	require.NoError(t, err)
	temp, ok := snap.TempC()
	assert.True(t, ok)
	assert.Equal(t, 8.0, temp)
	assert.Equal(t, 1003, snap.ConditionCode())

	f, err := DecodeForecast(snap)
	require.NoError(t, err)
	assert.Equal(t, "Japan", f.Location.Country)
	require.Len(t, f.Forecast.Days, 2)
	assert.Equal(t, 80, f.Forecast.Days[1].Day.DailyChanceOfRain)
}

func TestFetch_APIErrorMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":1006,"message":"No matching location found."}}`))
	})

	_, err := client.FetchCurrentAndForecast(context.Background(), "zzzz")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "No matching location found.", apiErr.Message)
}

func TestFetch_GenericMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.FetchCurrentAndForecast(context.Background(), "Tokyo")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Failed to fetch weather data", apiErr.Message)
}

func TestFetch_MissingKey(t *testing.T) {
	client := NewWeatherAPIClient("")
	_, err := client.FetchCurrentAndForecast(context.Background(), "Tokyo")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestSearchLocations(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":1,"name":"Paris","region":"Ile-de-France","country":"France","lat":48.87,"lon":2.33}]`))
	})

	locs, err := client.SearchLocations(context.Background(), "par")
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "Paris, Ile-de-France, France", locs[0].Label())

	locs, err = client.SearchLocations(context.Background(), "p")
	require.NoError(t, err)
	assert.NotNil(t, locs)
	assert.Empty(t, locs)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls), "short queries must not hit the API")
}

func TestValidateLocation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "Atlantis" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[{"name":"Oslo"}]`))
	})

	ok, err := ValidateLocation(context.Background(), client, "Oslo")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ValidateLocation(context.Background(), client, "Atlantis")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCircuitBreakerOpensWithoutRetrying(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"Internal application error."}}`))
	})

	for i := 0; i < 3; i++ {
		_, err := client.FetchCurrentAndForecast(context.Background(), "Tokyo")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Internal application error.", apiErr.Message)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(calls), "each request is a single call")

	_, err := client.FetchCurrentAndForecast(context.Background(), "Tokyo")
	assert.True(t, errors.Is(err, ErrCircuitOpen))
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	for i := 0; i < 5; i++ {
		_, err := client.FetchCurrentAndForecast(context.Background(), "x")
		assert.NotErrorIs(t, err, ErrCircuitOpen)
	}
	assert.Equal(t, int32(5), atomic.LoadInt32(calls))
}
