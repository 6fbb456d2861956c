// ABOUTME: MCP resource definitions
// ABOUTME: Exposes the saved weather history and the condition table as read-only views

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harper/wxhistory/internal/condition"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	recordsURI    = "wxhistory://records"
	conditionsURI = "wxhistory://conditions"
)

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		Name:        recordsURI,
		Description: "All saved weather searches, most recent first",
		URI:         recordsURI,
		MIMEType:    "application/json",
	}, s.handleRecordsResource)

	s.mcp.AddResource(&mcp.Resource{
		Name:        conditionsURI,
		Description: "Condition codes grouped by weather category",
		URI:         conditionsURI,
		MIMEType:    "application/json",
	}, s.handleConditionsResource)
}

func jsonResource(uri string, v any) *mcp.ReadResourceResult {
	jsonBytes, _ := json.MarshalIndent(v, "", "  ") //nolint:errchkjson // output is always serializable
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		},
	}
}

func (s *Server) handleRecordsResource(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	records, err := s.svc.Store().GetAll(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return jsonResource(recordsURI, listOutput(records)), nil
}

// ConditionGroup is one category and the codes that map to it.
type ConditionGroup struct {
	Category string `json:"category"`
	Icon     string `json:"icon"`
	Codes    []int  `json:"codes"`
}

func (s *Server) handleConditionsResource(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	groups := make([]ConditionGroup, 0, len(condition.Categories()))
	for _, c := range condition.Categories() {
		groups = append(groups, ConditionGroup{Category: string(c), Icon: c.Icon(), Codes: condition.Codes(c)})
	}
	return jsonResource(conditionsURI, groups), nil
}
