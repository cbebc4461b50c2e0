package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"guidebook/internal/logging"
	"guidebook/internal/templates"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerName is the name announced during the MCP handshake.
const ServerName = "guidebook"

const instructions = "Coding style guides and best practices for programming languages and frameworks. " +
	"Call list_templates to discover the available languages, then fetch a document with " +
	"get_style_guide or get_best_practices."

// Server exposes a template index over MCP.
type Server struct {
	index     *templates.Index
	logger    *logging.AppLogger
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server and registers its tools and the template
// resource. A nil logger uses the default logger.
func NewServer(index *templates.Index, logger *logging.AppLogger, version string) *Server {
	if logger == nil {
		logger = logging.GetDefault()
	}
	if version == "" {
		version = "dev"
	}

	s := &Server{
		index:  index,
		logger: logger,
		mcpServer: server.NewMCPServer(
			ServerName,
			version,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
			server.WithInstructions(instructions),
			server.WithRecovery(),
		),
	}

	s.registerTools()
	s.registerResources()

	logger.Debug("MCP server created", "version", version, "templates_dir", index.Dir())
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Serve speaks MCP over stdin/stdout until EOF or ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	return s.ServeIO(ctx, os.Stdin, os.Stdout)
}

// ServeIO is Serve over arbitrary streams.
func (s *Server) ServeIO(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("Starting MCP server", "templates_dir", s.index.Dir())

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(s.logger.StandardLog())

	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		s.logger.Error("MCP server stopped", "error", err)
		return fmt.Errorf("mcp server: %w", err)
	}

	s.logger.Info("MCP server stopped")
	return nil
}

// errorResult turns a lookup failure into a tool error carrying the sentinel
// text.
func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(templates.Sentinel(err))
}
