// ABOUTME: GeoJSON generation utilities
// ABOUTME: Converts saved weather searches to GeoJSON FeatureCollections

package geojson

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/harper/wxhistory/internal/models"
)

// FeatureCollection represents a GeoJSON FeatureCollection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature represents a GeoJSON Feature.
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   Geometry               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// Geometry represents a GeoJSON Geometry.
type Geometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

// PointCoordinates represents [longitude, latitude] for a Point.
type PointCoordinates [2]float64

// LineCoordinates represents [[lng, lat], [lng, lat], ...] for a LineString.
type LineCoordinates []PointCoordinates

// ToPointsFeatureCollection converts records to a FeatureCollection of Points.
// Records whose snapshot carries no coordinates are skipped.
func ToPointsFeatureCollection(records []*models.HistoryRecord) *FeatureCollection {
	features := make([]Feature, 0, len(records))

	for _, rec := range records {
		lat, lon, ok := rec.WeatherSnapshot.Coordinates()
		if !ok {
			continue
		}

		props := map[string]interface{}{
			"id":          rec.ID,
			"location":    rec.Location,
			"start_date":  rec.StartDate,
			"end_date":    rec.EndDate,
			"search_date": rec.SearchDate.UTC().Format(time.RFC3339),
			"category":    string(rec.Category()),
		}
		if temp, ok := rec.WeatherSnapshot.TempC(); ok {
			props["temp_c"] = temp
		}
		if text := rec.WeatherSnapshot.ConditionText(); text != "" {
			props["condition"] = text
		}

		features = append(features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: PointCoordinates{lon, lat},
			},
			Properties: props,
		})
	}

	return &FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}

// ToLineFeatureCollection links repeated searches of the same location into
// LineStrings, oldest search first. Locations are grouped case-insensitively and
// emitted in name order.
func ToLineFeatureCollection(records []*models.HistoryRecord) *FeatureCollection {
	byLocation := make(map[string][]*models.HistoryRecord)
	for _, rec := range records {
		if _, _, ok := rec.WeatherSnapshot.Coordinates(); !ok {
			continue
		}
		key := strings.ToLower(rec.Location)
		byLocation[key] = append(byLocation[key], rec)
	}

	keys := make([]string, 0, len(byLocation))
	for k := range byLocation {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	features := make([]Feature, 0, len(keys))
	for _, key := range keys {
		group := byLocation[key]
		if len(group) < 2 {
			// Need at least 2 points for a line
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].SearchDate.Before(group[j].SearchDate)
		})

		coords := make(LineCoordinates, len(group))
		for i, rec := range group {
			lat, lon, _ := rec.WeatherSnapshot.Coordinates()
			coords[i] = PointCoordinates{lon, lat}
		}

		features = append(features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "LineString",
				Coordinates: coords,
			},
			Properties: map[string]interface{}{
				"location":    group[0].Location,
				"point_count": len(group),
			},
		})
	}

	return &FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}

// ToJSON serializes a FeatureCollection to JSON.
func (fc *FeatureCollection) ToJSON() ([]byte, error) {
	return json.Marshal(fc)
}

// ToJSONIndent serializes a FeatureCollection to indented JSON.
func (fc *FeatureCollection) ToJSONIndent() ([]byte, error) {
	return json.MarshalIndent(fc, "", "  ")
}
