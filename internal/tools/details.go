package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/opsforge/jiramate/internal/jira"
)

// recentComments caps how many trailing comments the detail view shows.
const recentComments = 5

// TicketDetailsTool handles get_ticket_details: the full view of one
// ticket including description, comments and available transitions.
type TicketDetailsTool struct {
	client *jira.Client
}

// NewTicketDetailsTool creates the tool with its Jira client.
func NewTicketDetailsTool(client *jira.Client) *TicketDetailsTool {
	return &TicketDetailsTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *TicketDetailsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_ticket_details",
		mcp.WithDescription(
			"Get detailed information about a specific Jira ticket including "+
				"description and comments.",
		),
		mcp.WithString("ticket_key",
			mcp.Required(),
			mcp.Description("The Jira ticket key (e.g., 'PROJ-123')"),
		),
	)
}

// Handle processes the tool call.
func (t *TicketDetailsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ticketKey := strings.TrimSpace(req.GetString("ticket_key", ""))
	if ticketKey == "" {
		return mcp.NewToolResultError("Error: ticket_key is required"), nil
	}

	d, err := t.client.GetIssue(ctx, ticketKey)
	if err != nil {
		return errorResult(err), nil
	}

	epic := "None"
	if d.EpicKey != "" {
		epic = fmt.Sprintf("%s (%s)", d.EpicKey, d.EpicSummary)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Ticket: %s\n", d.Key)
	fmt.Fprintf(&sb, "Summary: %s\n", d.Summary)
	fmt.Fprintf(&sb, "Status: %s\n", d.Status)
	fmt.Fprintf(&sb, "Available transitions: %s\n", orFallback(strings.Join(d.AvailableTransitions, ", "), "None"))
	fmt.Fprintf(&sb, "Priority: %s\n", d.Priority)
	fmt.Fprintf(&sb, "Project: %s\n", d.Project)
	fmt.Fprintf(&sb, "Type: %s\n", d.Type)
	fmt.Fprintf(&sb, "Sprint: %s\n", orFallback(d.Sprint, "None"))
	fmt.Fprintf(&sb, "Epic: %s\n", epic)
	fmt.Fprintf(&sb, "Labels: %s\n", orFallback(strings.Join(d.Labels, ", "), "None"))
	fmt.Fprintf(&sb, "Assignee: %s\n", orFallback(d.Assignee, "Unassigned"))
	fmt.Fprintf(&sb, "Reporter: %s\n", orFallback(d.Reporter, "Unknown"))
	fmt.Fprintf(&sb, "Created: %s\n", d.Created)
	fmt.Fprintf(&sb, "Updated: %s\n", d.Updated)
	fmt.Fprintf(&sb, "URL: %s\n", d.URL)
	fmt.Fprintf(&sb, "\nDescription:\n%s\n", orFallback(d.Description, "No description"))

	if len(d.Comments) > 0 {
		fmt.Fprintf(&sb, "\nComments (%d):\n", len(d.Comments))
		start := 0
		if len(d.Comments) > recentComments {
			start = len(d.Comments) - recentComments
		}
		for _, c := range d.Comments[start:] {
			fmt.Fprintf(&sb, "\n--- %s (%s) ---\n%s\n", c.Author, c.Created, c.Body)
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}
