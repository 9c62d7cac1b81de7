package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/opsforge/jiramate/internal/jira"
)

// defaultListResults caps list tools when the caller gives no limit.
const defaultListResults = 50

// AssignedTicketsTool handles get_assigned_tickets: everything assigned
// to the authenticated user, completed work excluded by default.
type AssignedTicketsTool struct {
	client *jira.Client
}

// NewAssignedTicketsTool creates the tool with its Jira client.
func NewAssignedTicketsTool(client *jira.Client) *AssignedTicketsTool {
	return &AssignedTicketsTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *AssignedTicketsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_assigned_tickets",
		mcp.WithDescription(
			"Get all Jira tickets assigned to me. By default excludes completed "+
				"tickets. Optionally filter by status or project.",
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of tickets to return (default: 50)"),
			mcp.DefaultNumber(defaultListResults),
		),
		mcp.WithString("status",
			mcp.Description("Filter by status (e.g., 'In Progress', 'To Do', 'Done')"),
		),
		mcp.WithString("project",
			mcp.Description("Filter by project key (e.g., 'PROJ')"),
		),
		mcp.WithBoolean("exclude_done",
			mcp.Description("Exclude completed tickets (default: true)"),
			mcp.DefaultBool(true),
		),
	)
}

// Handle processes the tool call.
func (t *AssignedTicketsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := jira.NewQuery().AssignedToCurrentUser()
	if req.GetBool("exclude_done", true) {
		q.NotDone()
	}
	if status := req.GetString("status", ""); status != "" {
		q.Status(status)
	}
	if project := req.GetString("project", ""); project != "" {
		q.Project(project)
	}

	tickets, err := t.client.Search(ctx, q.String(), req.GetInt("max_results", defaultListResults))
	if err != nil {
		return errorResult(err), nil
	}

	return mcp.NewToolResultText(formatTicketList(tickets, "ticket(s) assigned to you")), nil
}
