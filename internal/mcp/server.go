// ABOUTME: MCP server setup for the fit workout tracker.
// ABOUTME: Wraps the MCP server around an app so tools share its workouts and coach.
package mcp

import (
	"context"
	"sync"

	"github.com/harperreed/fit/internal/app"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps the MCP server with app access.
type Server struct {
	mcpServer *mcp.Server
	app       *app.App

	// logMu serializes log_workout calls, which share the app's draft.
	logMu sync.Mutex
}

// NewServer creates a new MCP server over the given app.
func NewServer(a *app.App) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fit",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		app:       a,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
