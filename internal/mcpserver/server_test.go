package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/docshelf/internal/docservice"
	"github.com/starford/docshelf/internal/models"
	"github.com/starford/docshelf/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	_, files := testutil.TestFiles(t, map[string]string{
		"docs/notes.txt": "plain text notes",
		"docs/blob.bin":  "\xff\xfe\x00binary",
	})
	return New(testutil.TestService(t, nil), files, "test")
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
	case "list_categories":
		result, err = srv.listCategories(ctx, req)
	case "get_document":
		result, err = srv.getDocument(ctx, req)
	case "read_document_file":
		result, err = srv.readDocumentFile(ctx, req)
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

func TestSearchDocuments_All(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "search_documents", map[string]interface{}{})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	var got searchResult
	if err := json.Unmarshal([]byte(resultText(r)), &got); err != nil {
		t.Fatal(err)
	}
	if got.Total != 7 {
		t.Errorf("total = %d, want 7", got.Total)
	}
	if len(got.Groups) != 3 {
		t.Errorf("groups = %d, want 3", len(got.Groups))
	}
}

func TestSearchDocuments_Query(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "search_documents", map[string]interface{}{"query": "PYTHON"})
	var got searchResult
	if err := json.Unmarshal([]byte(resultText(r)), &got); err != nil {
		t.Fatal(err)
	}
	if got.Total != 1 || got.Groups[0].Documents[0].Title != "Understanding core principles of data analysis" {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestSearchDocuments_NoMatch(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "search_documents", map[string]interface{}{"query": "zzzz"})
	if !strings.Contains(resultText(r), `"groups": []`) {
		t.Errorf("result = %s, want an empty groups array", resultText(r))
	}
}

func TestListCategories(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "list_categories", map[string]interface{}{})
	var got []docservice.CategoryCount
	if err := json.Unmarshal([]byte(resultText(r)), &got); err != nil {
		t.Fatal(err)
	}
	want := []docservice.CategoryCount{
		{Name: "Data Science", Count: 2},
		{Name: "Engineering", Count: 3},
		{Name: "Handbook", Count: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
}

func TestGetDocument(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "get_document", map[string]interface{}{"file": "docs/onboarding.pdf"})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	var got models.Document
	if err := json.Unmarshal([]byte(resultText(r)), &got); err != nil {
		t.Fatal(err)
	}
	if got.Title != "Onboarding guide" || got.Category != "Handbook" {
		t.Errorf("document = %+v", got)
	}
}

func TestGetDocument_Missing(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "get_document", map[string]interface{}{"file": "docs/nope.pdf"})
	if !r.IsError {
		t.Error("expected error for missing document")
	}
	if !strings.Contains(resultText(r), "not found") {
		t.Errorf("result = %q", resultText(r))
	}
}

func TestGetDocument_RequiresFile(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "get_document", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error without file argument")
	}
}

func TestReadDocumentFile(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "read_document_file", map[string]interface{}{"file": "docs/notes.txt"})
	if r.IsError || resultText(r) != "plain text notes" {
		t.Errorf("result = %q (error=%v)", resultText(r), r.IsError)
	}

	r = callTool(t, srv, "read_document_file", map[string]interface{}{"file": "docs/blob.bin"})
	if !r.IsError {
		t.Error("expected error for binary file")
	}

	r = callTool(t, srv, "read_document_file", map[string]interface{}{"file": "../outside.txt"})
	if !r.IsError {
		t.Error("expected error for path outside the files root")
	}
}

func TestCatalogResource(t *testing.T) {
	srv := testServer(t)

	contents, err := srv.readCatalogResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents type = %T", contents[0])
	}
	if tc.URI != catalogURI || tc.MIMEType != "application/json" {
		t.Errorf("resource = %s %s", tc.URI, tc.MIMEType)
	}
	var got searchResult
	if err := json.Unmarshal([]byte(tc.Text), &got); err != nil {
		t.Fatal(err)
	}
	if got.Total != 7 {
		t.Errorf("total = %d, want 7", got.Total)
	}
}

func TestCatalogFormatResource(t *testing.T) {
	srv := testServer(t)

	contents, err := srv.readCatalogFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	tc := contents[0].(mcp.TextResourceContents)
	if !strings.Contains(tc.Text, "updated") {
		t.Error("format description does not mention the updated field")
	}
}

func TestNew_WithoutFiles(t *testing.T) {
	srv := New(testutil.TestService(t, nil), nil, "test")
	if srv.MCPServer() == nil {
		t.Fatal("MCPServer is nil")
	}
}
