// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the docshelf catalog for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/docshelf/internal/apperr"
	"github.com/starford/docshelf/internal/docservice"
	"github.com/starford/docshelf/internal/grouping"
	"github.com/starford/docshelf/internal/metrics"
	"github.com/starford/docshelf/internal/storage"
)

const (
	catalogURI       = "docshelf://catalog"
	catalogFormatURI = "docshelf://catalog-format"

	maxFileText = 1 << 20
)

// Server wraps the MCP server with docshelf tools.
type Server struct {
	mcp   *server.MCPServer
	svc   *docservice.Service
	files storage.Provider
}

// New creates a new MCP server with all docshelf tools registered. files may
// be nil, in which case read_document_file is not offered.
func New(svc *docservice.Service, files storage.Provider, version string) *Server {
	s := &Server{svc: svc, files: files}

	s.mcp = server.NewMCPServer(
		"docshelf",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_documents",
		mcp.WithDescription("Search the document catalog by title, description, or category. "+
			"Returns matching records grouped by category in display order. "+
			"Omit the query to list the whole catalog."),
		mcp.WithString("query", mcp.Description("Case-insensitive substring to match")),
	), s.searchDocuments)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List catalog categories in display order with record counts."),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("get_document",
		mcp.WithDescription("Return the catalog record that links to the given file."),
		mcp.WithString("file", mcp.Required(), mcp.Description("Link target of the record (e.g. docs/onboarding.pdf)")),
	), s.getDocument)

	if files != nil {
		s.mcp.AddTool(mcp.NewTool("read_document_file",
			mcp.WithDescription("Read the text content of a document file served by docshelf. "+
				"Binary files such as PDFs are rejected."),
			mcp.WithString("file", mcp.Required(), mcp.Description("Path relative to the files root")),
		), s.readDocumentFile)
	}

	s.mcp.AddResource(
		mcp.NewResource(catalogURI, "Document Catalog",
			mcp.WithResourceDescription("Every catalog record grouped by category, as JSON."),
			mcp.WithMIMEType("application/json"),
		),
		s.readCatalogResource,
	)

	s.mcp.AddResource(
		mcp.NewResource(catalogFormatURI, "Catalog Format",
			mcp.WithResourceDescription("Record fields, data sources, and display rules of the catalog."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readCatalogFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

type searchResult struct {
	Groups []grouping.Group `json:"groups"`
	Total  int              `json:"total"`
}

func (s *Server) catalogJSON(ctx context.Context, query string) ([]byte, error) {
	groups := s.svc.Groups(ctx, query)
	if groups == nil {
		groups = []grouping.Group{}
	}
	total := grouping.Count(groups)
	metrics.ObserveRender(metrics.SourceMCP, total)
	return json.MarshalIndent(searchResult{Groups: groups, Total: total}, "", "  ")
}

func (s *Server) searchDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := ""
	if q, err := req.RequireString("query"); err == nil {
		query = q
	}
	out, err := s.catalogJSON(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listCategories(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(s.svc.Categories(ctx, ""), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, err := req.RequireString("file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.Document(ctx, file)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", file)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(doc, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readDocumentFile(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, err := req.RequireString("file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.files.Read(file)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", file)), nil
	}
	if len(data) > maxFileText {
		return mcp.NewToolResultError(fmt.Sprintf("file too large: %s (%d bytes)", file, len(data))), nil
	}
	if !utf8.Valid(data) {
		return mcp.NewToolResultError(fmt.Sprintf("not a text file: %s", file)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) readCatalogResource(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	out, err := s.catalogJSON(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("mcpserver: encode catalog: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      catalogURI,
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}

func (s *Server) readCatalogFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      catalogFormatURI,
			MIMEType: "text/markdown",
			Text:     CatalogFormat,
		},
	}, nil
}
