package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/opsforge/jiramate/internal/jira"
)

// EpicTicketsTool handles get_epic_tickets: the children of one epic,
// grouped by status in the output.
type EpicTicketsTool struct {
	client *jira.Client
}

// NewEpicTicketsTool creates the tool with its Jira client.
func NewEpicTicketsTool(client *jira.Client) *EpicTicketsTool {
	return &EpicTicketsTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *EpicTicketsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_epic_tickets",
		mcp.WithDescription("Get all tickets/stories that belong to a specific epic."),
		mcp.WithString("epic_key",
			mcp.Required(),
			mcp.Description("The epic key (e.g., 'PROJ-100')"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of tickets to return (default: 50)"),
			mcp.DefaultNumber(defaultListResults),
		),
		mcp.WithBoolean("include_done",
			mcp.Description("Include completed tickets (default: true)"),
			mcp.DefaultBool(true),
		),
	)
}

// Handle processes the tool call.
func (t *EpicTicketsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	epicKey := strings.TrimSpace(req.GetString("epic_key", ""))
	if epicKey == "" {
		return mcp.NewToolResultError("Error: epic_key is required"), nil
	}

	q := jira.NewQuery().Parent(epicKey).OrderBy("status ASC, updated DESC")
	if !req.GetBool("include_done", true) {
		q.NotDone()
	}

	tickets, err := t.client.Search(ctx, q.String(), req.GetInt("max_results", defaultListResults))
	if err != nil {
		return errorResult(err), nil
	}

	if len(tickets) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No tickets found under epic %s", epicKey)), nil
	}

	// Group by status, preserving first-seen order.
	var order []string
	byStatus := make(map[string][]jira.Ticket)
	for _, ticket := range tickets {
		if _, seen := byStatus[ticket.Status]; !seen {
			order = append(order, ticket.Status)
		}
		byStatus[ticket.Status] = append(byStatus[ticket.Status], ticket)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d ticket(s) under epic %s:\n", len(tickets), epicKey)
	for _, status := range order {
		group := byStatus[status]
		fmt.Fprintf(&sb, "\n### %s (%d)\n", status, len(group))
		for _, ticket := range group {
			fmt.Fprintf(&sb,
				"• [%s] %s\n"+
					"  Type: %s | Priority: %s | Assignee: %s\n"+
					"  URL: %s\n",
				ticket.Key, ticket.Summary,
				ticket.Type, ticket.Priority, orFallback(ticket.Assignee, "Unassigned"),
				ticket.URL,
			)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}
