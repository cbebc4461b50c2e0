package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"guidebook/internal/logging"
	"guidebook/internal/templates"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestServer(t *testing.T, files map[string]string) (*Server, string) {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	logger, _ := logging.NewTestLogger()
	return NewServer(templates.NewIndex(dir, logger), logger, "test"), dir
}

func callTool(t *testing.T, s *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	var (
		result *mcp.CallToolResult
		err    error
	)
	switch name {
	case ToolListTemplates:
		result, err = s.handleListTemplates(context.Background(), req)
	case ToolGetStyleGuide:
		result, err = s.getHandler(templates.StyleGuides)(context.Background(), req)
	case ToolGetBestPractices:
		result, err = s.getHandler(templates.BestPractices)(context.Background(), req)
	default:
		t.Fatalf("unknown tool %q", name)
	}
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", result.Content[0])
	return text.Text
}

func TestNewServer(t *testing.T) {
	s, _ := createTestServer(t, nil)

	require.NotNil(t, s.MCPServer())
	assert.NotNil(t, s.index)
	assert.NotNil(t, s.logger)
}

func TestNewServer_NilLoggerAndEmptyVersion(t *testing.T) {
	s := NewServer(templates.NewIndex(t.TempDir(), nil), nil, "")
	assert.NotNil(t, s.logger)
}

func TestToolsListOverJSONRPC(t *testing.T) {
	s, _ := createTestServer(t, nil)
	ctx := context.Background()

	s.MCPServer().HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`))
	resp := s.MCPServer().HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `"list_templates"`)
	assert.Contains(t, out, `"get_style_guide"`)
	assert.Contains(t, out, `"get_best_practices"`)
	assert.Contains(t, out, `"language"`)
}

func TestListTemplatesTool(t *testing.T) {
	s, _ := createTestServer(t, map[string]string{
		"python_style_guide.md":     "Use 4 spaces",
		"javascript_style_guide.md": "Semicolons",
		"react_best_practices.md":   "Hooks",
		"README.md":                 "ignored",
	})

	result := callTool(t, s, ToolListTemplates, nil)
	assert.False(t, result.IsError)

	var listing templates.Listing
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &listing))

	assert.Equal(t, []string{"javascript", "python"}, listing.StyleGuides.Languages)
	assert.Equal(t, []string{"javascript_style_guide.md", "python_style_guide.md"}, listing.StyleGuides.Files)
	assert.Equal(t, []string{"react"}, listing.BestPractices.Languages)
	assert.Equal(t, []string{"react_best_practices.md"}, listing.BestPractices.Files)

	assert.Equal(t, listing, result.StructuredContent)
}

func TestListTemplatesTool_EmptyDirectory(t *testing.T) {
	s, _ := createTestServer(t, nil)

	result := callTool(t, s, ToolListTemplates, nil)
	assert.False(t, result.IsError)
	assert.JSONEq(t,
		`{"style_guides":{"languages":[],"files":[]},"best_practices":{"languages":[],"files":[]}}`,
		resultText(t, result))
}

func TestListTemplatesTool_DirectoryFailure(t *testing.T) {
	s, dir := createTestServer(t, nil)
	require.NoError(t, os.Remove(dir))

	result := callTool(t, s, ToolListTemplates, nil)
	assert.True(t, result.IsError)
	assert.True(t, strings.HasPrefix(resultText(t, result), "Error listing templates: "))
}

func TestGetTools(t *testing.T) {
	s, _ := createTestServer(t, map[string]string{
		"python_style_guide.md":   "Use 4 spaces",
		"react_best_practices.md": "# React\n\nPrefer hooks.\n",
	})

	tests := []struct {
		name    string
		tool    string
		args    map[string]any
		want    string
		isError bool
	}{
		{"style guide", ToolGetStyleGuide, map[string]any{"language": "python"}, "Use 4 spaces", false},
		{"best practices", ToolGetBestPractices, map[string]any{"language": "react"}, "# React\n\nPrefer hooks.\n", false},
		{
			"missing best practices",
			ToolGetBestPractices,
			map[string]any{"language": "nonexistent"},
			"Error: Template 'nonexistent_best_practices.md' not found",
			true,
		},
		{
			"wrong category",
			ToolGetStyleGuide,
			map[string]any{"language": "react"},
			"Error: Template 'react_style_guide.md' not found",
			true,
		},
		{
			"missing argument",
			ToolGetStyleGuide,
			map[string]any{},
			"Error: missing required argument 'language'",
			true,
		},
		{
			"non-string argument",
			ToolGetBestPractices,
			map[string]any{"language": 42},
			"Error: missing required argument 'language'",
			true,
		},
		{
			"traversal",
			ToolGetStyleGuide,
			map[string]any{"language": "../python"},
			"Error: Template '../python_style_guide.md' rejected: filename contains path separators",
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, s, tt.tool, tt.args)
			assert.Equal(t, tt.isError, result.IsError)
			assert.Equal(t, tt.want, resultText(t, result))
		})
	}
}

func TestReadTemplateResource(t *testing.T) {
	s, _ := createTestServer(t, map[string]string{
		"go_style_guide.md":    "gofmt everything",
		"go_best_practices.md": "errors are values",
	})

	for _, c := range templates.Categories {
		uri := ResourceURI("go", c)

		req := mcp.ReadResourceRequest{}
		req.Params.URI = uri

		contents, err := s.handleReadTemplate(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, contents, 1)

		text, ok := contents[0].(mcp.TextResourceContents)
		require.True(t, ok, "contents is %T", contents[0])
		assert.Equal(t, uri, text.URI)
		assert.Equal(t, "text/markdown", text.MIMEType)
		assert.NotEmpty(t, text.Text)
	}
}

func TestReadTemplateResource_Errors(t *testing.T) {
	s, _ := createTestServer(t, map[string]string{"go_style_guide.md": "x"})

	tests := []struct {
		uri     string
		wantErr string
	}{
		{"guidebook://templates/style_guide/rust", "Error: Template 'rust_style_guide.md' not found"},
		{"guidebook://templates/cookbook/go", "unknown category"},
		{"guidebook://templates/style_guide/", "has no language"},
		{"guidebook://templates/style_guide", "has no language"},
		{"file:///etc/passwd", "unsupported resource"},
		{"guidebook://templates/style_guide/../../etc", "rejected"},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			req := mcp.ReadResourceRequest{}
			req.Params.URI = tt.uri

			_, err := s.handleReadTemplate(context.Background(), req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResourceURI(t *testing.T) {
	assert.Equal(t, "guidebook://templates/style_guide/python", ResourceURI("python", templates.StyleGuides))
	assert.Equal(t, "guidebook://templates/best_practices/react", ResourceURI("react", templates.BestPractices))
}
