package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"guidebook/internal/templates"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	resourceScheme   = "guidebook://templates/"
	resourceTemplate = resourceScheme + "{category}/{language}"
	markdownMIME     = "text/markdown"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(resourceTemplate, "Template",
			mcp.WithTemplateDescription("A style guide or best practices document. Category is style_guide or best_practices."),
			mcp.WithTemplateMIMEType(markdownMIME),
		),
		s.handleReadTemplate,
	)
}

// ResourceURI returns the resource address of a template.
func ResourceURI(language string, category templates.Category) string {
	return resourceScheme + category.Kind() + "/" + language
}

// parseResourceURI splits guidebook://templates/{category}/{language}.
func parseResourceURI(uri string) (string, templates.Category, error) {
	rest, ok := strings.CutPrefix(uri, resourceScheme)
	if !ok {
		return "", 0, fmt.Errorf("unsupported resource %q", uri)
	}

	kind, language, ok := strings.Cut(rest, "/")
	if !ok || language == "" {
		return "", 0, fmt.Errorf("resource %q has no language", uri)
	}

	category, err := templates.ParseCategory(kind)
	if err != nil {
		return "", 0, err
	}
	return language, category, nil
}

func (s *Server) handleReadTemplate(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	language, category, err := parseResourceURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	doc, err := s.index.Get(language, category)
	if err != nil {
		return nil, errors.New(templates.Sentinel(err))
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: markdownMIME,
			Text:     doc.Content,
		},
	}, nil
}
