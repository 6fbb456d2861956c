// ABOUTME: JSON, CSV, XML, Markdown and GeoJSON encoders for record lists
// ABOUTME: All encoders are deterministic and keep the input order

package export

import (
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/harper/wxhistory/internal/geojson"
	"github.com/harper/wxhistory/internal/models"
)

// CSVHeader is the fixed header row of the tabular export.
var CSVHeader = []string{"ID", "Location", "Start Date", "End Date", "Search Date", "Temperature (°C)", "Condition"}

// EncodeJSON writes the full records as a two-space indented JSON array.
// Decoding the content yields records equal to the input.
func EncodeJSON(records []*models.HistoryRecord) (*Document, error) {
	data, err := models.MarshalRecords(records, "  ")
	if err != nil {
		return nil, err
	}
	return &Document{Content: data, FileName: "weather-history.json", MIMEType: "application/json"}, nil
}

// EncodeCSV writes a header plus one row per record. Values containing the
// delimiter, quotes or newlines are quoted. There is no trailing newline.
func EncodeCSV(records []*models.HistoryRecord) (*Document, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, CSVHeader)
	for _, rec := range records {
		rows = append(rows, []string{
			rec.ID,
			rec.Location,
			rec.StartDate,
			rec.EndDate,
			formatSearchDate(rec.SearchDate),
			formatReading(rec.WeatherSnapshot.TempC()),
			rec.WeatherSnapshot.ConditionText(),
		})
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}

	content := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return &Document{Content: content, FileName: "weather-history.csv", MIMEType: "text/csv"}, nil
}

type xmlHistory struct {
	XMLName xml.Name    `xml:"WeatherHistory"`
	Records []xmlRecord `xml:"Record"`
}

type xmlRecord struct {
	ID          string         `xml:"Id"`
	Location    string         `xml:"Location"`
	StartDate   string         `xml:"StartDate"`
	EndDate     string         `xml:"EndDate"`
	SearchDate  string         `xml:"SearchDate"`
	WeatherData xmlWeatherData `xml:"WeatherData"`
}

type xmlWeatherData struct {
	Temperature string `xml:"Temperature"`
	Condition   string `xml:"Condition"`
}

// EncodeXML writes a WeatherHistory document with one Record element per record.
func EncodeXML(records []*models.HistoryRecord) (*Document, error) {
	doc := xmlHistory{Records: make([]xmlRecord, 0, len(records))}
	for _, rec := range records {
		doc.Records = append(doc.Records, xmlRecord{
			ID:         rec.ID,
			Location:   rec.Location,
			StartDate:  rec.StartDate,
			EndDate:    rec.EndDate,
			SearchDate: formatSearchDate(rec.SearchDate),
			WeatherData: xmlWeatherData{
				Temperature: formatReading(rec.WeatherSnapshot.TempC()),
				Condition:   rec.WeatherSnapshot.ConditionText(),
			},
		})
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal xml: %w", err)
	}

	content := make([]byte, 0, len(xml.Header)+len(body))
	content = append(content, xml.Header...)
	content = append(content, body...)
	return &Document{Content: content, FileName: "weather-history.xml", MIMEType: "application/xml"}, nil
}

// EncodeMarkdown writes a human-readable report with one section per record.
func EncodeMarkdown(records []*models.HistoryRecord) *Document {
	var b strings.Builder
	b.WriteString("# Weather History\n\n")

	for _, rec := range records {
		snap := rec.WeatherSnapshot
		fmt.Fprintf(&b, "## %s\n\n", rec.Location)
		fmt.Fprintf(&b, "- **ID:** %s\n", rec.ID)
		fmt.Fprintf(&b, "- **Date Range:** %s to %s\n", rec.StartDate, rec.EndDate)
		fmt.Fprintf(&b, "- **Search Date:** %s\n\n", formatSearchDate(rec.SearchDate))
		b.WriteString("### Weather Data\n\n")
		writeField(&b, "Temperature", withUnit(formatReading(snap.TempC()), "°C"))
		writeField(&b, "Condition", snap.ConditionText())
		writeField(&b, "Humidity", withUnit(formatReading(snap.Humidity()), "%"))
		writeField(&b, "Wind", withUnit(formatReading(snap.WindKph()), " km/h"))
		b.WriteString("\n")
		b.WriteString("---\n\n")
	}

	return &Document{Content: []byte(b.String()), FileName: "weather-history.md", MIMEType: "text/markdown"}
}

// writeField writes a Markdown list item, leaving the value blank when absent.
func writeField(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "- **%s:**", label)
	if value != "" {
		b.WriteString(" " + value)
	}
	b.WriteString("\n")
}

// EncodeGeoJSON writes a FeatureCollection with a Point per record that has coordinates.
func EncodeGeoJSON(records []*models.HistoryRecord) (*Document, error) {
	data, err := geojson.ToPointsFeatureCollection(records).ToJSONIndent()
	if err != nil {
		return nil, fmt.Errorf("marshal geojson: %w", err)
	}
	return &Document{Content: data, FileName: "weather-history.geojson", MIMEType: "application/geo+json"}, nil
}

// EncodeTrack writes a FeatureCollection linking repeated searches of a location.
func EncodeTrack(records []*models.HistoryRecord) (*Document, error) {
	data, err := geojson.ToLineFeatureCollection(records).ToJSONIndent()
	if err != nil {
		return nil, fmt.Errorf("marshal geojson: %w", err)
	}
	return &Document{Content: data, FileName: "weather-history-track.geojson", MIMEType: "application/geo+json"}, nil
}
