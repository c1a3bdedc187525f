package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/complaintd/internal/storage"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store *storage.Store
}

// NewMCPServer creates an MCP server exposing operator tools over the
// complaint store: listing, inspection, status updates, and aggregate
// summaries. All tools are read/update only; classification happens
// exclusively in the ingestion path.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"complaintd",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions("complaintd — customer complaint store with sentiment and category labels."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("list_complaints",
			mcp.WithDescription("List stored complaints, newest first, optionally filtered by status or category."),
			mcp.WithString("status", mcp.Description("Filter by status (open, closed)")),
			mcp.WithString("category", mcp.Description("Filter by category (technical, payment, other)")),
			mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 20)")),
		),
		mcpListComplaints(deps),
	)

	s.AddTool(
		mcp.NewTool("get_complaint",
			mcp.WithDescription("Fetch a single complaint by id."),
			mcp.WithString("id", mcp.Description("Complaint id"), mcp.Required()),
		),
		mcpGetComplaint(deps),
	)

	s.AddTool(
		mcp.NewTool("update_complaint_status",
			mcp.WithDescription("Set the status of a complaint (e.g. close it after handling)."),
			mcp.WithString("id", mcp.Description("Complaint id"), mcp.Required()),
			mcp.WithString("status", mcp.Description("New status (open, closed)"), mcp.Required()),
		),
		mcpUpdateComplaintStatus(deps),
	)

	s.AddTool(
		mcp.NewTool("complaint_summary",
			mcp.WithDescription("Aggregate complaint counts by status, category and sentiment."),
		),
		mcpComplaintSummary(deps),
	)

	return s
}

func mcpListComplaints(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 20)
		if limit <= 0 {
			limit = 20
		}
		if limit > 100 {
			limit = 100
		}

		complaints, err := deps.Store.ListComplaints(storage.ComplaintFilter{
			Status:   req.GetString("status", ""),
			Category: req.GetString("category", ""),
			Limit:    limit,
		})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list complaints: %v", err)), nil
		}
		if len(complaints) == 0 {
			return mcpText("[]"), nil
		}

		b, err := json.Marshal(complaints)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal complaints: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpGetComplaint(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}

		complaint, err := deps.Store.GetComplaint(id)
		if err == storage.ErrNotFound {
			return mcpError(fmt.Sprintf("complaint %s not found", id)), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to get complaint: %v", err)), nil
		}

		b, err := json.Marshal(complaint)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal complaint: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpUpdateComplaintStatus(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}
		status, err := req.RequireString("status")
		if err != nil {
			return mcpError("status is required"), nil
		}

		complaint, err := deps.Store.UpdateComplaint(id, storage.ComplaintUpdate{Status: &status})
		if err == storage.ErrNotFound {
			return mcpError(fmt.Sprintf("complaint %s not found", id)), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to update complaint: %v", err)), nil
		}

		return mcpText(fmt.Sprintf("Complaint %s is now %s (updated %s)",
			complaint.ID, complaint.Status, time.Now().UTC().Format(time.RFC3339))), nil
	}
}

func mcpComplaintSummary(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summary, err := deps.Store.SummarizeComplaints()
		if err != nil {
			return mcpError(fmt.Sprintf("failed to summarize complaints: %v", err)), nil
		}

		b, err := json.Marshal(summary)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal summary: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
