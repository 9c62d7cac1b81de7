package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/opsforge/jiramate/internal/jira"
	"github.com/opsforge/jiramate/internal/settings"
)

// AvailableTicketsTool handles get_available_tickets: unassigned work
// in the actionable status, ready to be picked up.
type AvailableTicketsTool struct {
	client   *jira.Client
	settings *settings.Settings
}

// NewAvailableTicketsTool creates the tool with its dependencies.
func NewAvailableTicketsTool(client *jira.Client, s *settings.Settings) *AvailableTicketsTool {
	return &AvailableTicketsTool{client: client, settings: s}
}

// Definition returns the MCP tool definition for registration.
func (t *AvailableTicketsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_available_tickets",
		mcp.WithDescription(
			"Get unassigned tickets that are ready to be picked up. Returns tickets "+
				"in the actionable status (configured via ACTIONABLE_STATUS, default 'To Do').",
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of tickets to return (default: 50)"),
			mcp.DefaultNumber(defaultListResults),
		),
		mcp.WithString("status",
			mcp.Description("Override the actionable status filter"),
		),
		mcp.WithString("project",
			mcp.Description("Filter by project key (e.g., 'PROJ')"),
		),
	)
}

// Handle processes the tool call.
func (t *AvailableTicketsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := req.GetString("status", "")
	if status == "" {
		status = t.settings.ActionableStatus
	}

	q := jira.NewQuery().Unassigned().Status(status)
	if project := req.GetString("project", ""); project != "" {
		q.Project(project)
	} else {
		q.ProjectIn(t.settings.ProjectKeys)
	}

	tickets, err := t.client.Search(ctx, q.String(), req.GetInt("max_results", defaultListResults))
	if err != nil {
		return errorResult(err), nil
	}

	return mcp.NewToolResultText(formatTicketList(tickets, "available ticket(s)")), nil
}
