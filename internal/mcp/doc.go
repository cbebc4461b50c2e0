// Package mcp serves a templates.Index over the Model Context Protocol using
// mcp-go (github.com/mark3labs/mcp-go).
//
// # Tools
//
//   - list_templates: JSON listing of both categories
//   - get_style_guide(language): the {language}_style_guide.md document
//   - get_best_practices(language): the {language}_best_practices.md document
//
// Lookup failures are returned as tool errors whose text is the sentinel
// string from templates.Sentinel, e.g. "Error: Template 'x_style_guide.md'
// not found". They never surface as protocol errors.
//
// # Resources
//
// Documents are also readable as guidebook://templates/{category}/{language},
// where category is style_guide or best_practices.
//
// # Usage
//
// The server is started by an MCP client as a subprocess:
//
//	guidebook serve
//
// It reads JSON-RPC requests from stdin and writes responses to stdout until
// EOF. Logging goes to stderr, or to guidebook.log when DEBUG is set.
package mcp
