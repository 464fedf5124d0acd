// Package mcp exposes the continuum core over the Model Context Protocol.
package mcp

import (
	"log/slog"

	"github.com/atteev/continuum/internal/domain/activity"
	"github.com/atteev/continuum/internal/domain/capture"
	"github.com/atteev/continuum/internal/domain/dashboard"
	"github.com/atteev/continuum/internal/domain/phase"
	"github.com/atteev/continuum/internal/domain/project"
	"github.com/atteev/continuum/internal/domain/reflection"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Services contains all domain services needed by MCP.
type Services struct {
	Phases      *phase.Service
	Projects    *project.Service
	Captures    *capture.Service
	Activity    *activity.Service
	Reflections *reflection.Service
	Dashboard   *dashboard.Service
}

// Config contains server configuration.
type Config struct {
	Services Services
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and doc resources.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "continuum",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
