// ABOUTME: MCP resource implementations for the fit workout tracker.
// ABOUTME: Provides fit://workouts/recent, fit://dashboard, and fit://progress resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/fit/internal/metrics"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	recentWorkoutsURI = "fit://workouts/recent"
	dashboardURI      = "fit://dashboard"
	progressURI       = "fit://progress"

	recentResourceLimit = 10
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentWorkoutsURI,
		Name:        "Recent Workouts",
		Description: "Last 10 workouts with exercises and sets",
		MIMEType:    "application/json",
	}, s.handleRecentResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         dashboardURI,
		Name:        "Training Dashboard",
		Description: "Total workouts, total minutes, streak status, and recent activity",
		MIMEType:    "application/json",
	}, s.handleDashboardResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         progressURI,
		Name:        "Training Progress",
		Description: "Volume trend, weekly frequency, and total tons lifted",
		MIMEType:    "application/json",
	}, s.handleProgressResource)
}

// Resource handlers

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	workouts := metrics.Recent(s.app.Workouts(), recentResourceLimit)
	return jsonResource(recentWorkoutsURI, map[string]any{
		"workouts": workouts,
		"count":    len(workouts),
	})
}

func (s *Server) handleDashboardResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(dashboardURI, s.app.Dashboard())
}

func (s *Server) handleProgressResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(progressURI, s.app.Progress())
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
