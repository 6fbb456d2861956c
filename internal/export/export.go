// ABOUTME: Export encoders for saved weather searches
// ABOUTME: Turns a record list into a named, typed document in one of several formats

package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/harper/wxhistory/internal/models"
)

// Document is an encoded export ready to hand to a download collaborator.
type Document struct {
	Content  []byte
	FileName string
	MIMEType string
}

// Format names an export encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatXML      Format = "xml"
	FormatMarkdown Format = "md"
	FormatGeoJSON  Format = "geojson"
	FormatTrack    Format = "track"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatJSON, FormatCSV, FormatXML, FormatMarkdown, FormatGeoJSON, FormatTrack}
}

// ParseFormat parses a format name. "markdown" is accepted for md.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "xml":
		return FormatXML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "geojson":
		return FormatGeoJSON, nil
	case "track":
		return FormatTrack, nil
	}
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return "", fmt.Errorf("unknown export format %q (use %s)", s, strings.Join(names, ", "))
}

// Encode dispatches to the encoder for format.
func Encode(format Format, records []*models.HistoryRecord) (*Document, error) {
	switch format {
	case FormatJSON:
		return EncodeJSON(records)
	case FormatCSV:
		return EncodeCSV(records)
	case FormatXML:
		return EncodeXML(records)
	case FormatMarkdown:
		return EncodeMarkdown(records), nil
	case FormatGeoJSON:
		return EncodeGeoJSON(records)
	case FormatTrack:
		return EncodeTrack(records)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// formatNumber renders a reading the way a JavaScript number prints: 8, 21.5, -3.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatReading renders a snapshot reading, or "" when the snapshot lacks it.
func formatReading(v float64, ok bool) string {
	if !ok {
		return ""
	}
	return formatNumber(v)
}

func withUnit(s, unit string) string {
	if s == "" {
		return s
	}
	return s + unit
}

func formatSearchDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
