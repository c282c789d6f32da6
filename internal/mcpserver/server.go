// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the document archive to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tomhoover/paperless-ngx/internal/consumer"
	"github.com/tomhoover/paperless-ngx/internal/storage"
	"github.com/tomhoover/paperless-ngx/internal/store"
)

// Server wraps the MCP server with document archive tools.
type Server struct {
	mcp      *server.MCPServer
	db       store.DocumentStore
	media    storage.Provider
	consumer *consumer.Consumer
}

// New creates a new MCP server with all archive tools registered.
func New(db store.DocumentStore, media storage.Provider, c *consumer.Consumer) *Server {
	s := &Server{db: db, media: media, consumer: c}

	s.mcp = server.NewMCPServer(
		"Paperless",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_documents",
		mcp.WithDescription("Full-text search through document titles and content."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchDocuments)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read a document's metadata and extracted text content by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Numeric document id")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List recent documents (newest first)."),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("list_tags",
		mcp.WithDescription("List all tags with their ids."),
	), s.listTags)

	s.mcp.AddTool(mcp.NewTool("upload_document",
		mcp.WithDescription("Upload a document into the archive. The filename SHOULD follow "+
			"the ingest conventions (date prefix, title) described by the get_ingest_contract "+
			"tool or the paperless://document-format resource."),
		mcp.WithString("filename", mcp.Required(), mcp.Description("Original filename, e.g. '20250115Z - Invoice.pdf'")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Base64-encoded file content")),
	), s.uploadDocument)

	s.mcp.AddTool(mcp.NewTool("get_ingest_contract",
		mcp.WithDescription("Returns the canonical document ingest contract. "+
			"Call this before uploading documents."),
	), s.getIngestContract)

	// Resource: document ingest contract.
	s.mcp.AddResource(
		mcp.NewResource("paperless://document-format", "Document Ingest Contract",
			mcp.WithResourceDescription("Canonical filename and ingest conventions for uploaded documents."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
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

func (s *Server) searchDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.db.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawID, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var id int64
	if _, scanErr := fmt.Sscanf(rawID, "%d", &id); scanErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid id: %s", rawID)), nil
	}
	doc, err := s.db.GetDocument(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", rawID)), nil
	}
	out, _ := json.MarshalIndent(doc, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, _, err := s.db.ListDocuments(50, 0, 0, "-created")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var lines []string
	for _, d := range docs {
		lines = append(lines, fmt.Sprintf("%d\t%s\t%s", d.ID, d.Created.Format("2006-01-02"), d.Title))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no documents"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) listTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags, err := s.db.ListTags()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(tags, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getIngestContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(IngestContract), nil
}

func (s *Server) readContractResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "paperless://document-format",
			MIMEType: "text/markdown",
			Text:     IngestContract,
		},
	}, nil
}
