// ABOUTME: MCP server initialization and configuration
// ABOUTME: Sets up server with weather history tools and resources for AI agents

package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harper/wxhistory/internal/history"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server around the history service.
type Server struct {
	mcp    *mcp.Server
	svc    *history.Service
	logger *slog.Logger
}

// NewServer creates MCP server with all capabilities.
func NewServer(svc *history.Service, logger *slog.Logger) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("history service is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "wxhistory",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:    mcpServer,
		svc:    svc,
		logger: logger,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("mcp server starting", "transport", "stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
