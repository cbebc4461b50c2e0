package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"guidebook/internal/templates"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	ToolListTemplates    = "list_templates"
	ToolGetStyleGuide    = "get_style_guide"
	ToolGetBestPractices = "get_best_practices"

	argLanguage = "language"
)

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(ToolListTemplates,
			mcp.WithDescription("List all available style guide and best practices templates, grouped by category."),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleListTemplates,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(ToolGetStyleGuide,
			mcp.WithDescription("Get the style guide template for a programming language or framework."),
			mcp.WithString(argLanguage,
				mcp.Required(),
				mcp.Description("Language name as it appears in list_templates, e.g. 'python' or 'javascript'"),
			),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.getHandler(templates.StyleGuides),
	)

	s.mcpServer.AddTool(
		mcp.NewTool(ToolGetBestPractices,
			mcp.WithDescription("Get the best practices template for a programming language or framework."),
			mcp.WithString(argLanguage,
				mcp.Required(),
				mcp.Description("Language or framework name as it appears in list_templates, e.g. 'react' or 'python'"),
			),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.getHandler(templates.BestPractices),
	)
}

func (s *Server) handleListTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	listing, err := s.index.List()
	if err != nil {
		return errorResult(err), nil
	}

	data, err := json.MarshalIndent(listing, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding listing: %w", err)
	}

	return mcp.NewToolResultStructured(listing, string(data)), nil
}

func (s *Server) getHandler(category templates.Category) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		language, err := req.RequireString(argLanguage)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error: missing required argument '%s'", argLanguage)), nil
		}

		s.logger.Debug("Template requested", "tool", req.Params.Name, "language", language, "category", category)

		doc, err := s.index.Get(language, category)
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(doc.Content), nil
	}
}
