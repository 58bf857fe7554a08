package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcputils "github.com/mvp-joe/cortex-skeleton/internal/mcp-utils"
	"github.com/mvp-joe/cortex-skeleton/internal/skeleton/extractor"
)

const fallbackHint = "read the full file instead"

// AddGetSkeletonTool registers the get_skeleton tool with an MCP server.
// This function is composable - it can be combined with other tool registrations.
func AddGetSkeletonTool(s *server.MCPServer, source SkeletonSource, config *ServerConfig) {
	tool := mcp.NewTool(
		"get_skeleton",
		mcp.WithDescription("Return a compact outline of a source file: imports, classes with their methods, and top-level functions with signatures and docstrings. Supports Python, JavaScript, TypeScript, Java, C/C++, Rust and Go. When no skeleton can be produced the tool returns an error and the full file should be read instead."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File path, relative to the project root or absolute. The extension selects the language.")),
		mcp.WithString("content",
			mcp.Description("Optional file content. When given, the file is not read from disk and path only selects the language.")),
		mcp.WithBoolean("full_docs",
			mcp.Description("Include complete docstrings instead of their first line.")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createGetSkeletonHandler(source, config))
}

// createGetSkeletonHandler creates the handler function for get_skeleton tool.
func createGetSkeletonHandler(source SkeletonSource, config *ServerConfig) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}

		path, err := parseStringArg(argsMap, "path", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		content, err := parseOptionalStringArg(argsMap, "content")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		fullDocs := parseBoolArg(argsMap, "full_docs", config.FullDocs)

		if !source.Supports(path) {
			return mcp.NewToolResultError(fmt.Sprintf("no skeleton support for %s; %s", path, fallbackHint)), nil
		}

		data, err := readSource(config.RootDir, path, content)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		text, ok := source.ExtractSkeleton(path, data, fullDocs)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("no skeleton available for %s; %s", path, fallbackHint)), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}

// AddGetSkeletonsTool registers the get_skeletons batch tool.
func AddGetSkeletonsTool(s *server.MCPServer, source SkeletonSource, config *ServerConfig) {
	tool := mcp.NewTool(
		"get_skeletons",
		mcp.WithDescription("Return skeletons for several files at once as JSON. Entries with fallback=true have no skeleton; read those files in full."),
		mcp.WithArray("paths",
			mcp.Required(),
			mcp.Description("File paths, relative to the project root or absolute."),
			mcp.Items(map[string]any{"type": "string"})),
		mcp.WithBoolean("full_docs",
			mcp.Description("Include complete docstrings instead of their first line.")),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum number of paths to process (1-%d, default: %d).", config.MaxBatch, config.MaxBatch))),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createGetSkeletonsHandler(source, config))
}

func createGetSkeletonsHandler(source SkeletonSource, config *ServerConfig) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var req GetSkeletonsRequest
		if err := mcputils.CoerceBindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		paths := req.Paths
		if len(paths) == 0 {
			return mcp.NewToolResultError("paths parameter is required"), nil
		}
		fullDocs := config.FullDocs
		if req.FullDocs != nil {
			fullDocs = *req.FullDocs
		}
		limit := clampInt(req.Limit, config.MaxBatch, 1, config.MaxBatch)
		if len(paths) > limit {
			paths = paths[:limit]
		}

		response := GetSkeletonsResponse{Results: make([]SkeletonResult, 0, len(paths))}
		for _, path := range paths {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			result := skeletonFor(source, config.RootDir, path, fullDocs)
			if result.Fallback {
				response.Fallbacks++
			}
			response.Results = append(response.Results, result)
		}
		response.Total = len(response.Results)

		return marshalToolResponse(response)
	}
}

func skeletonFor(source SkeletonSource, rootDir, path string, fullDocs bool) SkeletonResult {
	result := SkeletonResult{Path: path, Fallback: true}
	if lang, ok := extractor.DetectLanguage(path); ok {
		result.Language = string(lang)
	}

	if !source.Supports(path) {
		result.Error = "unsupported language"
		return result
	}

	data, err := readSource(rootDir, path, nil)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	text, ok := source.ExtractSkeleton(path, data, fullDocs)
	if !ok {
		result.Error = "no skeleton available"
		return result
	}
	result.Skeleton = text
	result.Fallback = false
	return result
}

// AddListLanguagesTool registers the list_skeleton_languages tool.
func AddListLanguagesTool(s *server.MCPServer, source SkeletonSource) {
	tool := mcp.NewTool(
		"list_skeleton_languages",
		mcp.WithDescription("List the languages and file extensions get_skeleton can outline."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return marshalToolResponse(supportedLanguages(source))
	})
}
