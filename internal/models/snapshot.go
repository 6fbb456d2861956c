// ABOUTME: Opaque weather snapshot payload stored verbatim with each record
// ABOUTME: Exposes only the handful of read paths that exports and classification need

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Snapshot holds the weather payload captured at search time. The payload is
// kept as compacted JSON and marshals back to exactly those bytes.
type Snapshot struct {
	raw json.RawMessage
}

// NewSnapshot wraps a JSON document. Empty input yields the zero Snapshot.
func NewSnapshot(data []byte) (Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Snapshot{}, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return Snapshot{}, fmt.Errorf("invalid snapshot json: %w", err)
	}
	if bytes.Equal(buf.Bytes(), []byte("null")) {
		return Snapshot{}, nil
	}
	return Snapshot{raw: buf.Bytes()}, nil
}

// SnapshotFromValue marshals v and wraps the result.
func SnapshotFromValue(v any) (Snapshot, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Snapshot{}, fmt.Errorf("marshal snapshot: %w", err)
	}
	return NewSnapshot(data)
}

// IsZero reports whether no payload is present.
func (s Snapshot) IsZero() bool {
	return len(s.raw) == 0
}

// Raw returns a copy of the stored JSON.
func (s Snapshot) Raw() json.RawMessage {
	return append(json.RawMessage(nil), s.raw...)
}

// Decode unmarshals the full payload into v.
func (s Snapshot) Decode(v any) error {
	if s.IsZero() {
		return fmt.Errorf("empty snapshot")
	}
	return json.Unmarshal(s.raw, v)
}

// MarshalJSON implements json.Marshaler.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	if s.IsZero() {
		return []byte("null"), nil
	}
	return s.Raw(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	snap, err := NewSnapshot(data)
	if err != nil {
		return err
	}
	*s = snap
	return nil
}

// readings is the subset of the payload read by the store's consumers. The
// nested WeatherAPI shape is preferred; flat keys are accepted as a fallback.
type readings struct {
	Location *struct {
		Name string   `json:"name"`
		Lat  *float64 `json:"lat"`
		Lon  *float64 `json:"lon"`
	} `json:"location"`
	Current *struct {
		TempC     *float64 `json:"temp_c"`
		Humidity  *float64 `json:"humidity"`
		WindKph   *float64 `json:"wind_kph"`
		Condition *struct {
			Text string `json:"text"`
			Code *int   `json:"code"`
		} `json:"condition"`
	} `json:"current"`

	TempC         *float64 `json:"temp_c"`
	Humidity      *float64 `json:"humidity"`
	WindKph       *float64 `json:"wind_kph"`
	ConditionCode *int     `json:"condition_code"`
	ConditionText string   `json:"condition_text"`
}

func (s Snapshot) readings() readings {
	var r readings
	if !s.IsZero() {
		// Non-object payloads simply have no readable fields.
		_ = json.Unmarshal(s.raw, &r)
	}
	return r
}

func firstFloat(vals ...*float64) (float64, bool) {
	for _, v := range vals {
		if v != nil {
			return *v, true
		}
	}
	return 0, false
}

// TempC returns the current temperature in Celsius. ok is false when the
// snapshot carries no temperature.
func (s Snapshot) TempC() (float64, bool) {
	r := s.readings()
	if r.Current != nil {
		return firstFloat(r.Current.TempC, r.TempC)
	}
	return firstFloat(r.TempC)
}

// ConditionCode returns the vendor condition code, or 0 when absent.
func (s Snapshot) ConditionCode() int {
	r := s.readings()
	if r.Current != nil && r.Current.Condition != nil && r.Current.Condition.Code != nil {
		return *r.Current.Condition.Code
	}
	if r.ConditionCode != nil {
		return *r.ConditionCode
	}
	return 0
}

// ConditionText returns the human-readable condition.
func (s Snapshot) ConditionText() string {
	r := s.readings()
	if r.Current != nil && r.Current.Condition != nil && r.Current.Condition.Text != "" {
		return r.Current.Condition.Text
	}
	return r.ConditionText
}

// Humidity returns relative humidity in percent.
func (s Snapshot) Humidity() (float64, bool) {
	r := s.readings()
	if r.Current != nil {
		return firstFloat(r.Current.Humidity, r.Humidity)
	}
	return firstFloat(r.Humidity)
}

// WindKph returns wind speed in km/h.
func (s Snapshot) WindKph() (float64, bool) {
	r := s.readings()
	if r.Current != nil {
		return firstFloat(r.Current.WindKph, r.WindKph)
	}
	return firstFloat(r.WindKph)
}

// Coordinates returns the snapshot location's latitude and longitude.
func (s Snapshot) Coordinates() (lat, lon float64, ok bool) {
	r := s.readings()
	if r.Location == nil || r.Location.Lat == nil || r.Location.Lon == nil {
		return 0, 0, false
	}
	return *r.Location.Lat, *r.Location.Lon, true
}
