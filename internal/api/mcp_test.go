package api

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kalambet/complaintd/internal/storage"
)

func newTestMCPDeps(t *testing.T) (MCPDeps, *storage.Store) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return MCPDeps{Store: store}, store
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func saveMCPComplaint(t *testing.T, store *storage.Store, id, status, category string) {
	t.Helper()
	err := store.SaveComplaint(storage.Complaint{
		ID:        id,
		Text:      "сайт не работает",
		Status:    status,
		Sentiment: "negative",
		Category:  category,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("saving complaint: %v", err)
	}
}

func TestMCPTool_ListComplaints(t *testing.T) {
	deps, store := newTestMCPDeps(t)
	saveMCPComplaint(t, store, "c1", storage.StatusOpen, "technical")
	saveMCPComplaint(t, store, "c2", storage.StatusClosed, "payment")

	handler := mcpListComplaints(deps)
	result, err := handler(context.Background(), makeCallToolRequest("list_complaints", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}

	var complaints []json.RawMessage
	if err := json.Unmarshal([]byte(toolText(t, result)), &complaints); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(complaints) != 2 {
		t.Fatalf("expected 2 complaints, got %d", len(complaints))
	}
}

func TestMCPTool_ListComplaints_StatusFilter(t *testing.T) {
	deps, store := newTestMCPDeps(t)
	saveMCPComplaint(t, store, "c1", storage.StatusOpen, "technical")
	saveMCPComplaint(t, store, "c2", storage.StatusClosed, "payment")

	handler := mcpListComplaints(deps)
	result, err := handler(context.Background(), makeCallToolRequest("list_complaints", map[string]interface{}{
		"status": "closed",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := toolText(t, result)
	if !strings.Contains(text, "c2") || strings.Contains(text, "c1") {
		t.Fatalf("expected only c2 in response, got: %s", text)
	}
}

func TestMCPTool_ListComplaints_Empty(t *testing.T) {
	deps, _ := newTestMCPDeps(t)

	handler := mcpListComplaints(deps)
	result, err := handler(context.Background(), makeCallToolRequest("list_complaints", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := toolText(t, result); text != "[]" {
		t.Fatalf("expected empty array, got: %s", text)
	}
}

func TestMCPTool_GetComplaint(t *testing.T) {
	deps, store := newTestMCPDeps(t)
	saveMCPComplaint(t, store, "c1", storage.StatusOpen, "technical")

	handler := mcpGetComplaint(deps)
	result, err := handler(context.Background(), makeCallToolRequest("get_complaint", map[string]interface{}{
		"id": "c1",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}

	var c storage.Complaint
	if err := json.Unmarshal([]byte(toolText(t, result)), &c); err != nil {
		t.Fatalf("failed to parse complaint: %v", err)
	}
	if c.ID != "c1" || c.Category != "technical" {
		t.Fatalf("unexpected complaint: %+v", c)
	}
}

func TestMCPTool_GetComplaint_MissingID(t *testing.T) {
	deps, _ := newTestMCPDeps(t)

	handler := mcpGetComplaint(deps)
	result, err := handler(context.Background(), makeCallToolRequest("get_complaint", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing id")
	}
}

func TestMCPTool_GetComplaint_NotFound(t *testing.T) {
	deps, _ := newTestMCPDeps(t)

	handler := mcpGetComplaint(deps)
	result, err := handler(context.Background(), makeCallToolRequest("get_complaint", map[string]interface{}{
		"id": "missing",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for unknown complaint")
	}
}

func TestMCPTool_UpdateComplaintStatus(t *testing.T) {
	deps, store := newTestMCPDeps(t)
	saveMCPComplaint(t, store, "c1", storage.StatusOpen, "technical")

	handler := mcpUpdateComplaintStatus(deps)
	result, err := handler(context.Background(), makeCallToolRequest("update_complaint_status", map[string]interface{}{
		"id":     "c1",
		"status": "closed",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}

	c, err := store.GetComplaint("c1")
	if err != nil {
		t.Fatalf("getting complaint: %v", err)
	}
	if c.Status != storage.StatusClosed {
		t.Fatalf("status = %q, want closed", c.Status)
	}
}

func TestMCPTool_ComplaintSummary(t *testing.T) {
	deps, store := newTestMCPDeps(t)
	saveMCPComplaint(t, store, "c1", storage.StatusOpen, "technical")
	saveMCPComplaint(t, store, "c2", storage.StatusOpen, "payment")
	saveMCPComplaint(t, store, "c3", storage.StatusClosed, "technical")

	handler := mcpComplaintSummary(deps)
	result, err := handler(context.Background(), makeCallToolRequest("complaint_summary", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}

	var summary storage.ComplaintSummary
	if err := json.Unmarshal([]byte(toolText(t, result)), &summary); err != nil {
		t.Fatalf("failed to parse summary: %v", err)
	}
	if summary.Total != 3 {
		t.Fatalf("total = %d, want 3", summary.Total)
	}
	if summary.ByCategory["technical"] != 2 {
		t.Fatalf("technical count = %d, want 2", summary.ByCategory["technical"])
	}
}
