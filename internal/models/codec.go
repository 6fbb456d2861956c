// ABOUTME: JSON encoding for record collections
// ABOUTME: Shared by the persisted slot format and the structured-data export

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalRecords encodes records as a JSON array. HTML escaping is disabled so
// snapshot payloads come back byte-identical. A nil slice encodes as [].
func MarshalRecords(records []*HistoryRecord, indent string) ([]byte, error) {
	if records == nil {
		records = []*HistoryRecord{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalRecords decodes a JSON array of records. Empty input is an empty
// collection; a null element is an error.
func UnmarshalRecords(data []byte) ([]*HistoryRecord, error) {
	records := []*HistoryRecord{}
	if len(bytes.TrimSpace(data)) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if records == nil {
		records = []*HistoryRecord{}
	}
	for i, rec := range records {
		if rec == nil {
			return nil, fmt.Errorf("decode records: element %d is null", i)
		}
	}
	return records, nil
}
