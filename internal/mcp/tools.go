// ABOUTME: MCP tool definitions and handlers
// ABOUTME: Lets AI agents search weather and manage saved weather history

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harper/wxhistory/internal/condition"
	"github.com/harper/wxhistory/internal/export"
	"github.com/harper/wxhistory/internal/history"
	"github.com/harper/wxhistory/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	s.registerSearchWeatherTool()
	s.registerSaveRecordTool()
	s.registerListRecordsTool()
	s.registerGetRecordTool()
	s.registerUpdateRecordTool()
	s.registerDeleteRecordTool()
	s.registerClearRecordsTool()
	s.registerExportRecordsTool()
	s.registerClassifyConditionTool()
}

func textResult(v any) *mcp.CallToolResult {
	jsonBytes, _ := json.MarshalIndent(v, "", "  ") //nolint:errchkjson // output is always serializable
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(jsonBytes)}},
	}
}

func stringProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": desc}
}

var filterProps = map[string]interface{}{
	"location":   stringProp("Case-insensitive substring of the location name"),
	"start_date": stringProp("Only records starting on or after this date (YYYY-MM-DD)"),
	"end_date":   stringProp("Only records ending on or before this date (YYYY-MM-DD)"),
}

// RecordOutput is a saved search as returned to agents.
type RecordOutput struct {
	ID              string    `json:"id"`
	Location        string    `json:"location"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	SearchDate      time.Time `json:"search_date"`
	Category        string    `json:"category"`
	TempC           *float64  `json:"temp_c,omitempty"`
	Condition       string    `json:"condition,omitempty"`
	WeatherSnapshot any       `json:"weather_snapshot,omitempty"`
}

// reading turns an optional snapshot value into a nullable field.
func reading(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}

func toOutput(rec *models.HistoryRecord, withSnapshot bool) RecordOutput {
	out := RecordOutput{
		ID:         rec.ID,
		Location:   rec.Location,
		StartDate:  rec.StartDate,
		EndDate:    rec.EndDate,
		SearchDate: rec.SearchDate,
		Category:   string(rec.Category()),
		TempC:      reading(rec.WeatherSnapshot.TempC()),
		Condition:  rec.WeatherSnapshot.ConditionText(),
	}
	if withSnapshot && !rec.WeatherSnapshot.IsZero() {
		var doc any
		if err := rec.WeatherSnapshot.Decode(&doc); err == nil {
			out.WeatherSnapshot = doc
		}
	}
	return out
}

// SearchWeatherInput defines input for search_weather tool.
type SearchWeatherInput struct {
	Location string `json:"location"`
}

// SearchWeatherOutput defines output for search_weather tool.
type SearchWeatherOutput struct {
	Location  string  `json:"location"`
	TempC     *float64 `json:"temp_c,omitempty"`
	Condition string   `json:"condition,omitempty"`
	Category  string   `json:"category"`
	Humidity  *float64 `json:"humidity,omitempty"`
	WindKph   *float64 `json:"wind_kph,omitempty"`
	Weather   any      `json:"weather,omitempty"`
}

func (s *Server) registerSearchWeatherTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search_weather",
		Description: "Get current conditions and a 5 day forecast for a location without saving anything.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"location": stringProp("Location query (city name, 'lat,lon', postcode)"),
			},
			"required": []string{"location"},
		},
	}, s.handleSearchWeather)
}

func (s *Server) handleSearchWeather(ctx context.Context, _ *mcp.CallToolRequest, input SearchWeatherInput) (*mcp.CallToolResult, SearchWeatherOutput, error) {
	snap, err := s.svc.Search(ctx, input.Location)
	if err != nil {
		return nil, SearchWeatherOutput{}, err
	}
	output := SearchWeatherOutput{
		Location:  input.Location,
		TempC:     reading(snap.TempC()),
		Condition: snap.ConditionText(),
		Category:  string(condition.Classify(snap.ConditionCode())),
		Humidity:  reading(snap.Humidity()),
		WindKph:   reading(snap.WindKph()),
	}
	var doc any
	if err := snap.Decode(&doc); err == nil {
		output.Weather = doc
	}
	return textResult(output), output, nil
}

// SaveRecordInput defines input for save_record tool.
type SaveRecordInput struct {
	Location  string `json:"location"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (s *Server) registerSaveRecordTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "save_record",
		Description: "Fetch the current weather for a location and save it with a date range to the weather history.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"location":   stringProp("Location to look up and save"),
				"start_date": stringProp("Start of the date range (YYYY-MM-DD)"),
				"end_date":   stringProp("End of the date range (YYYY-MM-DD)"),
			},
			"required": []string{"location", "start_date", "end_date"},
		},
	}, s.handleSaveRecord)
}

func (s *Server) handleSaveRecord(ctx context.Context, _ *mcp.CallToolRequest, input SaveRecordInput) (*mcp.CallToolResult, RecordOutput, error) {
	rec, err := s.svc.Save(ctx, history.SaveRequest{
		Location:  input.Location,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	})
	if err != nil {
		return nil, RecordOutput{}, err
	}
	output := toOutput(rec, false)
	return textResult(output), output, nil
}

// ListRecordsInput defines input for list_records tool.
type ListRecordsInput struct {
	Location  string `json:"location,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

func (in ListRecordsInput) filter() *models.Filter {
	f := models.Filter{Location: in.Location, StartDate: in.StartDate, EndDate: in.EndDate}
	if f.IsEmpty() {
		return nil
	}
	return &f
}

// ListRecordsOutput defines output for list_records tool.
type ListRecordsOutput struct {
	Records []RecordOutput `json:"records"`
	Count   int            `json:"count"`
}

func (s *Server) registerListRecordsTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_records",
		Description: "List saved weather searches, most recent first. All filters are optional and combine with AND.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": filterProps,
		},
	}, s.handleListRecords)
}

func (s *Server) handleListRecords(_ context.Context, _ *mcp.CallToolRequest, input ListRecordsInput) (*mcp.CallToolResult, ListRecordsOutput, error) {
	records, err := s.svc.Store().GetAll(input.filter())
	if err != nil {
		return nil, ListRecordsOutput{}, fmt.Errorf("failed to list records: %w", err)
	}
	output := listOutput(records)
	return textResult(output), output, nil
}

func listOutput(records []*models.HistoryRecord) ListRecordsOutput {
	outs := make([]RecordOutput, len(records))
	for i, rec := range records {
		outs[i] = toOutput(rec, false)
	}
	return ListRecordsOutput{Records: outs, Count: len(outs)}
}

// RecordIDInput identifies one record.
type RecordIDInput struct {
	ID string `json:"id"`
}

func idSchema(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"id": stringProp(desc),
		},
		"required": []string{"id"},
	}
}

func (s *Server) registerGetRecordTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_record",
		Description: "Get one saved weather search including the full weather snapshot.",
		InputSchema: idSchema("Record ID"),
	}, s.handleGetRecord)
}

func (s *Server) handleGetRecord(_ context.Context, _ *mcp.CallToolRequest, input RecordIDInput) (*mcp.CallToolResult, RecordOutput, error) {
	rec, err := s.svc.Store().GetByID(input.ID)
	if err != nil {
		return nil, RecordOutput{}, fmt.Errorf("record %s: %w", input.ID, err)
	}
	output := toOutput(rec, true)
	return textResult(output), output, nil
}

// UpdateRecordInput defines input for update_record tool.
type UpdateRecordInput struct {
	ID        string  `json:"id"`
	Location  *string `json:"location,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

func (s *Server) registerUpdateRecordTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "update_record",
		Description: "Change the location or date range of a saved weather search. Omitted fields keep their value.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id":         stringProp("Record ID"),
				"location":   stringProp("New location"),
				"start_date": stringProp("New start date (YYYY-MM-DD)"),
				"end_date":   stringProp("New end date (YYYY-MM-DD)"),
			},
			"required": []string{"id"},
		},
	}, s.handleUpdateRecord)
}

func (s *Server) handleUpdateRecord(ctx context.Context, _ *mcp.CallToolRequest, input UpdateRecordInput) (*mcp.CallToolResult, RecordOutput, error) {
	rec, err := s.svc.Edit(ctx, input.ID, history.EditRequest{
		Location:  input.Location,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	})
	if err != nil {
		return nil, RecordOutput{}, err
	}
	output := toOutput(rec, false)
	return textResult(output), output, nil
}

// DeleteRecordOutput defines output for delete_record tool.
type DeleteRecordOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (s *Server) registerDeleteRecordTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "delete_record",
		Description: "Delete a saved weather search. Deleting an unknown ID is not an error; deleted is false.",
		InputSchema: idSchema("Record ID"),
	}, s.handleDeleteRecord)
}

func (s *Server) handleDeleteRecord(_ context.Context, _ *mcp.CallToolRequest, input RecordIDInput) (*mcp.CallToolResult, DeleteRecordOutput, error) {
	removed, err := s.svc.Store().Delete(input.ID)
	if err != nil {
		return nil, DeleteRecordOutput{}, fmt.Errorf("failed to delete record: %w", err)
	}
	output := DeleteRecordOutput{ID: input.ID, Deleted: removed}
	return textResult(output), output, nil
}

// ClearRecordsInput defines input for clear_records tool.
type ClearRecordsInput struct {
	Confirm bool `json:"confirm"`
}

// ClearRecordsOutput defines output for clear_records tool.
type ClearRecordsOutput struct {
	Cleared int `json:"cleared"`
}

func (s *Server) registerClearRecordsTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "clear_records",
		Description: "Delete every saved weather search. Requires confirm=true.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"confirm": map[string]interface{}{
					"type":        "boolean",
					"description": "Must be true to clear the history",
				},
			},
			"required": []string{"confirm"},
		},
	}, s.handleClearRecords)
}

func (s *Server) handleClearRecords(_ context.Context, _ *mcp.CallToolRequest, input ClearRecordsInput) (*mcp.CallToolResult, ClearRecordsOutput, error) {
	if !input.Confirm {
		return nil, ClearRecordsOutput{}, errors.New("refusing to clear history without confirm=true")
	}
	store := s.svc.Store()
	n, err := store.Count()
	if err != nil {
		return nil, ClearRecordsOutput{}, err
	}
	if err := store.ClearAll(); err != nil {
		return nil, ClearRecordsOutput{}, fmt.Errorf("failed to clear records: %w", err)
	}
	output := ClearRecordsOutput{Cleared: n}
	return textResult(output), output, nil
}

// ExportRecordsInput defines input for export_records tool.
type ExportRecordsInput struct {
	Format    string `json:"format"`
	Location  string `json:"location,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// ExportRecordsOutput defines output for export_records tool.
type ExportRecordsOutput struct {
	FileName string `json:"file_name"`
	MIMEType string `json:"mime_type"`
	Records  int    `json:"records"`
	Content  string `json:"content"`
}

func (s *Server) registerExportRecordsTool() {
	props := map[string]interface{}{
		"format": map[string]interface{}{
			"type":        "string",
			"description": "Export format",
			"enum":        []string{"json", "csv", "xml", "md", "geojson", "track"},
		},
	}
	for k, v := range filterProps {
		props[k] = v
	}
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "export_records",
		Description: "Export saved weather searches as JSON, CSV, XML, Markdown or GeoJSON text.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": props,
			"required":   []string{"format"},
		},
	}, s.handleExportRecords)
}

func (s *Server) handleExportRecords(_ context.Context, _ *mcp.CallToolRequest, input ExportRecordsInput) (*mcp.CallToolResult, ExportRecordsOutput, error) {
	format, err := export.ParseFormat(input.Format)
	if err != nil {
		return nil, ExportRecordsOutput{}, err
	}
	filter := ListRecordsInput{Location: input.Location, StartDate: input.StartDate, EndDate: input.EndDate}.filter()
	records, err := s.svc.Store().GetAll(filter)
	if err != nil {
		return nil, ExportRecordsOutput{}, fmt.Errorf("failed to list records: %w", err)
	}
	doc, err := export.Encode(format, records)
	if err != nil {
		return nil, ExportRecordsOutput{}, err
	}
	output := ExportRecordsOutput{
		FileName: doc.FileName,
		MIMEType: doc.MIMEType,
		Records:  len(records),
		Content:  string(doc.Content),
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: output.Content}},
	}, output, nil
}

// ClassifyConditionInput defines input for classify_condition tool.
type ClassifyConditionInput struct {
	Code int `json:"code"`
}

// ClassifyConditionOutput defines output for classify_condition tool.
type ClassifyConditionOutput struct {
	Code     int    `json:"code"`
	Category string `json:"category"`
	Icon     string `json:"icon"`
	Known    bool   `json:"known"`
}

func (s *Server) registerClassifyConditionTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "classify_condition",
		Description: "Map a WeatherAPI.com condition code to sunny, cloudy, rainy, snowy or stormy.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"code": map[string]interface{}{
					"type":        "integer",
					"description": "WeatherAPI.com condition code, e.g. 1003",
				},
			},
			"required": []string{"code"},
		},
	}, s.handleClassifyCondition)
}

func (s *Server) handleClassifyCondition(_ context.Context, _ *mcp.CallToolRequest, input ClassifyConditionInput) (*mcp.CallToolResult, ClassifyConditionOutput, error) {
	cat := condition.Classify(input.Code)
	output := ClassifyConditionOutput{
		Code:     input.Code,
		Category: string(cat),
		Icon:     cat.Icon(),
		Known:    condition.Known(input.Code),
	}
	return textResult(output), output, nil
}
