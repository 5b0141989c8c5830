package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clausewise/clausewise/internal/archive"
	"github.com/clausewise/clausewise/internal/pipeline"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string
}

// defaultIdentity namespaces stdio sessions, which have no cookies.
const defaultIdentity = "local"

// Server wraps the MCP server around the analysis pipeline.
type Server struct {
	mcpServer *server.MCPServer
	pipeline  *pipeline.Pipeline
	archive   *archive.Client // nil: search_analyses unavailable
}

// NewServer creates an MCP server exposing the analysis tools.
func NewServer(config Config, p *pipeline.Pipeline, a *archive.Client) *Server {
	mcpServer := server.NewMCPServer(
		config.Name,
		config.Version,
		server.WithToolCapabilities(true),
	)

	s := &Server{
		mcpServer: mcpServer,
		pipeline:  p,
		archive:   a,
	}

	analyzeTool := mcp.NewTool("analyze_tos",
		mcp.WithDescription("Analyze a Terms of Service document for risky clauses. Provide a URL or pasted text."),
		mcp.WithString("url",
			mcp.Description("URL of the ToS document"),
		),
		mcp.WithString("text",
			mcp.Description("Pasted ToS text (wins over url when both are given)"),
		),
		mcp.WithString("user",
			mcp.Description("Identity namespace for profile and snapshots (default: local)"),
		),
	)
	mcpServer.AddTool(analyzeTool, s.analyzeHandler)

	diffTool := mcp.NewTool("diff_tos",
		mcp.WithDescription("Re-fetch a ToS URL and report what changed since the last stored snapshot."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("URL of the ToS document"),
		),
		mcp.WithString("user",
			mcp.Description("Identity namespace for profile and snapshots (default: local)"),
		),
	)
	mcpServer.AddTool(diffTool, s.diffHandler)

	if a != nil {
		searchTool := mcp.NewTool("search_analyses",
			mcp.WithDescription("Search previously archived ToS analyses by clause title, tag, or summary."),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Search query string"),
			),
			mcp.WithString("user",
				mcp.Description("Identity namespace to search (default: local)"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results to return (default: 10)"),
			),
		)
		mcpServer.AddTool(searchTool, s.searchHandler)
	}

	return s
}

// analyzeHandler handles the analyze_tos tool call.
func (s *Server) analyzeHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url := req.GetString("url", "")
	text := req.GetString("text", "")
	identity := req.GetString("user", defaultIdentity)

	result, err := s.pipeline.Analyze(ctx, identity, pipeline.AnalyzeRequest{
		TosURL:  url,
		TosText: text,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analyze failed: %v", err)), nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// diffHandler handles the diff_tos tool call.
func (s *Server) diffHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required"), nil
	}
	identity := req.GetString("user", defaultIdentity)

	diff, err := s.pipeline.Diff(ctx, identity, url)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("diff failed: %v", err)), nil
	}

	data, err := json.Marshal(diff)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal diff: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// searchHandler handles the search_analyses tool call.
func (s *Server) searchHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}
	identity := req.GetString("user", defaultIdentity)
	limit := req.GetInt("limit", 10)

	results, err := s.archive.Search(ctx, identity, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	data, err := json.Marshal(results)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ServeStdio starts the MCP server using stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
