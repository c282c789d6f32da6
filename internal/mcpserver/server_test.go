package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tomhoover/paperless-ngx/internal/consumer"
	"github.com/tomhoover/paperless-ngx/internal/models"
	"github.com/tomhoover/paperless-ngx/internal/store"
	"github.com/tomhoover/paperless-ngx/internal/testutil"
)

func testServer(t *testing.T) (*Server, *store.DB) {
	t.Helper()

	db := testutil.TestDB(t)
	_, media := testutil.TestMedia(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	c := consumer.New(db, media, nil, logger, nil)

	srv := New(db, media, c)
	return srv, db
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_documents":
		result, err = srv.searchDocuments(ctx, req)
	case "read_document":
		result, err = srv.readDocument(ctx, req)
	case "list_documents":
		result, err = srv.listDocuments(ctx, req)
	case "list_tags":
		result, err = srv.listTags(ctx, req)
	case "upload_document":
		result, err = srv.uploadDocument(ctx, req)
	case "get_ingest_contract":
		result, err = srv.getIngestContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestUploadAndReadDocument(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "upload_document", map[string]interface{}{
		"filename": "20230405Z - Insurance policy.txt",
		"content":  b64("policy text body"),
	})
	if r.IsError {
		t.Fatalf("upload error: %s", resultText(r))
	}
	var up uploadDocResult
	if err := json.Unmarshal([]byte(resultText(r)), &up); err != nil {
		t.Fatalf("bad upload result: %v", err)
	}
	if up.Title != "Insurance policy" {
		t.Errorf("title = %q", up.Title)
	}

	r = callTool(t, srv, "read_document", map[string]interface{}{"id": "1"})
	if r.IsError {
		t.Fatalf("read error: %s", resultText(r))
	}
	var doc models.Document
	_ = json.Unmarshal([]byte(resultText(r)), &doc)
	if doc.Title != "Insurance policy" {
		t.Errorf("read title = %q", doc.Title)
	}
}

func TestUploadDuplicateRejected(t *testing.T) {
	srv, _ := testServer(t)

	args := map[string]interface{}{
		"filename": "a.txt",
		"content":  b64("same bytes"),
	}
	if r := callTool(t, srv, "upload_document", args); r.IsError {
		t.Fatalf("first upload error: %s", resultText(r))
	}
	args["filename"] = "b.txt"
	r := callTool(t, srv, "upload_document", args)
	if !r.IsError || !strings.Contains(resultText(r), "already exists") {
		t.Errorf("duplicate result = %q, want already-exists error", resultText(r))
	}
}

func TestUploadRejectsBadExtension(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "upload_document", map[string]interface{}{
		"filename": "evil.exe",
		"content":  b64("MZ"),
	})
	if !r.IsError {
		t.Error("expected error for disallowed extension")
	}
}

func TestUploadRejectsMismatchedContent(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "upload_document", map[string]interface{}{
		"filename": "fake.pdf",
		"content":  b64("this is plainly not a pdf"),
	})
	if !r.IsError || !strings.Contains(resultText(r), "does not match extension") {
		t.Errorf("result = %q, want magic-bytes error", resultText(r))
	}
}

func TestReadDocumentMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_document", map[string]interface{}{"id": "42"})
	if !r.IsError {
		t.Error("expected error for missing document")
	}
}

func TestListDocuments(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "list_documents", map[string]interface{}{})
	if resultText(r) != "no documents" {
		t.Errorf("empty list = %q", resultText(r))
	}

	callTool(t, srv, "upload_document", map[string]interface{}{
		"filename": "one.txt", "content": b64("1"),
	})
	r = callTool(t, srv, "list_documents", map[string]interface{}{})
	if !strings.Contains(resultText(r), "one") {
		t.Errorf("list = %q", resultText(r))
	}
}

func TestListTags(t *testing.T) {
	srv, db := testServer(t)
	tag := models.Tag{Name: "invoices"}
	if err := db.CreateTag(&tag); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "list_tags", map[string]interface{}{})
	if !strings.Contains(resultText(r), "invoices") {
		t.Errorf("tags = %q", resultText(r))
	}
}

func TestSearchDocuments(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "upload_document", map[string]interface{}{
		"filename": "searchable.txt", "content": b64("content"),
	})

	r := callTool(t, srv, "search_documents", map[string]interface{}{"query": "searchable"})
	if r.IsError {
		t.Fatalf("search error: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), "searchable") {
		t.Errorf("search results = %q", resultText(r))
	}
}

func TestIngestContract(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_ingest_contract", map[string]interface{}{})
	if !strings.Contains(resultText(r), "Date prefix") {
		t.Errorf("contract = %q", resultText(r))
	}
}
