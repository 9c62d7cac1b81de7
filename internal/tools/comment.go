package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/opsforge/jiramate/internal/jira"
)

// AddCommentTool handles add_ticket_comment.
type AddCommentTool struct {
	client *jira.Client
}

// NewAddCommentTool creates the tool with its Jira client.
func NewAddCommentTool(client *jira.Client) *AddCommentTool {
	return &AddCommentTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *AddCommentTool) Definition() mcp.Tool {
	return mcp.NewTool("add_ticket_comment",
		mcp.WithDescription("Add a comment to a Jira ticket."),
		mcp.WithString("ticket_key",
			mcp.Required(),
			mcp.Description("The Jira ticket key (e.g., 'PROJ-123')"),
		),
		mcp.WithString("comment",
			mcp.Required(),
			mcp.Description("The comment text to add"),
		),
	)
}

// Handle processes the tool call.
func (t *AddCommentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ticketKey := strings.TrimSpace(req.GetString("ticket_key", ""))
	if ticketKey == "" {
		return mcp.NewToolResultError("Error: ticket_key is required"), nil
	}
	comment := req.GetString("comment", "")
	if comment == "" {
		return mcp.NewToolResultError("Error: comment is required"), nil
	}

	if _, err := t.client.AddComment(ctx, ticketKey, comment); err != nil {
		return errorResult(err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Added comment to %s\nURL: %s",
		ticketKey, t.client.BrowseURL(ticketKey))), nil
}
