// ABOUTME: Typed view of a WeatherAPI.com forecast payload
// ABOUTME: Used only for display; the stored snapshot stays opaque

package weather

import (
	"fmt"

	"github.com/harper/wxhistory/internal/models"
)

// Condition is the vendor condition block.
type Condition struct {
	Text string `json:"text"`
	Code int    `json:"code"`
}

// Forecast is the subset of forecast.json the display layer reads.
type Forecast struct {
	Location struct {
		Name      string  `json:"name"`
		Region    string  `json:"region"`
		Country   string  `json:"country"`
		Lat       float64 `json:"lat"`
		Lon       float64 `json:"lon"`
		Localtime string  `json:"localtime"`
	} `json:"location"`
	Current struct {
		LastUpdated string    `json:"last_updated"`
		TempC       float64   `json:"temp_c"`
		FeelsLikeC  float64   `json:"feelslike_c"`
		IsDay       int       `json:"is_day"`
		Condition   Condition `json:"condition"`
		WindKph     float64   `json:"wind_kph"`
		WindDir     string    `json:"wind_dir"`
		Humidity    float64   `json:"humidity"`
		UV          float64   `json:"uv"`
	} `json:"current"`
	Forecast struct {
		Days []ForecastDay `json:"forecastday"`
	} `json:"forecast"`
}

// ForecastDay is one day of the forecast.
type ForecastDay struct {
	Date string `json:"date"`
	Day  struct {
		MaxTempC          float64   `json:"maxtemp_c"`
		MinTempC          float64   `json:"mintemp_c"`
		AvgTempC          float64   `json:"avgtemp_c"`
		DailyChanceOfRain int       `json:"daily_chance_of_rain"`
		Condition         Condition `json:"condition"`
	} `json:"day"`
}

// DecodeForecast reads the typed forecast out of a snapshot.
func DecodeForecast(snap models.Snapshot) (*Forecast, error) {
	var f Forecast
	if err := snap.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}
	return &f, nil
}
