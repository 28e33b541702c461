package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/djangolens/djangolens/internal/project"
	"github.com/djangolens/djangolens/internal/search"
)

// fileTool describes one extractor tool operating on a single file path.
type fileTool struct {
	name        string
	description string
	handler     func(extractor project.Extractor, path string) interface{}
}

var fileTools = []fileTool{
	{
		name:        "django_models",
		description: "Extract Django model classes and their fields from a models.py file. Returns model names, field names, field types, and 0-based line numbers for navigation.",
		handler: func(e project.Extractor, path string) interface{} {
			return e.Models(path)
		},
	},
	{
		name:        "django_urls",
		description: "Extract URL patterns from a Django urls.py file, recursively expanding include() directives into sibling apps. Returns patterns, view names, and 0-based line numbers.",
		handler: func(e project.Extractor, path string) interface{} {
			return e.URLs(path, "")
		},
	},
	{
		name:        "django_admin",
		description: "Extract admin registrations from a Django admin.py file: class-based, admin.site.register calls, and @admin.register decorators. Associated model names are resolved best-effort.",
		handler: func(e project.Extractor, path string) interface{} {
			return e.Admins(path)
		},
	},
	{
		name:        "django_settings",
		description: "Extract top-level UPPER_CASE settings from a Django settings.py file, folding multi-line values. Returns keys, raw values, and 0-based line numbers.",
		handler: func(e project.Extractor, path string) interface{} {
			return e.Settings(path)
		},
	},
}

// AddExtractorTools registers the four per-file extractor tools with an
// MCP server. Composable with other tool registrations.
func AddExtractorTools(s *server.MCPServer, extractor project.Extractor) {
	for _, ft := range fileTools {
		tool := mcp.NewTool(
			ft.name,
			mcp.WithDescription(ft.description),
			mcp.WithString("path",
				mcp.Required(),
				mcp.Description("Absolute path of the file to scan")),
		)
		s.AddTool(tool, createFileToolHandler(ft, extractor))
	}
}

// createFileToolHandler creates the handler for one file-scoped tool.
func createFileToolHandler(ft fileTool, extractor project.Extractor) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		path, err := parseStringArg(argsMap, "path", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result := ft.handler(extractor, path)
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s result: %w", ft.name, err)
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

// SymbolSearcher is the search contract the symbol-search tool depends on.
type SymbolSearcher interface {
	Query(q string, limit int) ([]search.Hit, error)
}

// AddSymbolSearchTool registers the project-wide symbol search tool.
func AddSymbolSearchTool(s *server.MCPServer, searcher SymbolSearcher) {
	tool := mcp.NewTool(
		"django_symbol_search",
		mcp.WithDescription("Search extracted Django symbols (models, fields, URL patterns, admin classes, settings keys) by name. Returns matches with file path and 0-based line number."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Symbol name or fragment to search for")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default: 10)")),
	)
	s.AddTool(tool, createSymbolSearchHandler(searcher))
}

func createSymbolSearchHandler(searcher SymbolSearcher) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		query, err := parseStringArg(argsMap, "query", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := parseIntArg(argsMap, "limit", 10)

		hits, err := searcher.Query(query, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, err := json.MarshalIndent(hits, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode search result: %w", err)
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}
