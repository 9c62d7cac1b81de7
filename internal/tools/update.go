package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/opsforge/jiramate/internal/jira"
	"github.com/opsforge/jiramate/internal/settings"
	"github.com/opsforge/jiramate/internal/workflow"
)

// UpdateTicketTool handles update_ticket_details: a partial field
// update, optionally followed by a status transition.
type UpdateTicketTool struct {
	client   *jira.Client
	settings *settings.Settings
}

// NewUpdateTicketTool creates the tool with its dependencies.
func NewUpdateTicketTool(client *jira.Client, s *settings.Settings) *UpdateTicketTool {
	return &UpdateTicketTool{client: client, settings: s}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateTicketTool) Definition() mcp.Tool {
	return mcp.NewTool("update_ticket_details",
		mcp.WithDescription(
			"Update fields on an existing Jira ticket. Only provided fields will be "+
				"updated. Can also transition the ticket to a new status.",
		),
		mcp.WithString("ticket_key",
			mcp.Required(),
			mcp.Description("The Jira ticket key (e.g., 'PROJ-123')"),
		),
		mcp.WithString("summary",
			mcp.Description("New ticket title/summary"),
		),
		mcp.WithString("description",
			mcp.Description("New description"),
		),
		mcp.WithString("status",
			mcp.Description("Transition to a new status (e.g., 'In Progress', 'Done', 'To Do')"),
		),
		mcp.WithString("assignee",
			mcp.Description("Assignee: use 'me' for self-assignment, 'unassigned' to remove the assignee, or a Jira account ID."),
		),
		mcp.WithString("priority",
			mcp.Description("Priority (e.g., 'Highest', 'High', 'Medium', 'Low', 'Lowest')"),
		),
		mcp.WithArray("labels",
			mcp.Description("Labels to set on the ticket (e.g., ['backend', 'urgent']). Replaces existing labels."),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithNumber("sprint",
			mcp.Description("Sprint ID (numeric) to move the ticket to"),
		),
		mcp.WithString("epic_key",
			mcp.Description("Epic key to link this ticket to (e.g., 'PROJ-100')"),
		),
	)
}

// Handle processes the tool call.
func (t *UpdateTicketTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ticketKey := strings.TrimSpace(req.GetString("ticket_key", ""))
	if ticketKey == "" {
		return mcp.NewToolResultError("Error: ticket_key is required"), nil
	}

	fields, err := t.buildFields(ctx, req)
	if err != nil {
		return errorResult(err), nil
	}

	status := req.GetString("status", "")
	if len(fields) == 0 && status == "" {
		return mcp.NewToolResultError("Error: no fields to update and no status transition requested"), nil
	}

	if len(fields) > 0 {
		if err := t.client.UpdateIssue(ctx, ticketKey, fields); err != nil {
			return errorResult(err), nil
		}
	}

	output := fmt.Sprintf("Updated ticket: %s", ticketKey)
	if status != "" {
		if err := t.client.Transition(ctx, ticketKey, status); err != nil {
			return errorResult(err), nil
		}
		output += fmt.Sprintf("\nStatus: %s", status)
	}
	output += fmt.Sprintf("\nURL: %s", t.client.BrowseURL(ticketKey))

	return mcp.NewToolResultText(output), nil
}

// buildFields assembles the partial update payload from the provided
// arguments. Absent arguments contribute nothing.
func (t *UpdateTicketTool) buildFields(ctx context.Context, req mcp.CallToolRequest) (map[string]any, error) {
	fields := make(map[string]any)

	if summary := req.GetString("summary", ""); summary != "" {
		fields["summary"] = summary
	}
	if description := req.GetString("description", ""); description != "" {
		fields["description"] = jira.Document(description)
	}
	if priority := req.GetString("priority", ""); priority != "" {
		fields["priority"] = map[string]string{"name": priority}
	}
	if labels := req.GetStringSlice("labels", nil); labels != nil {
		fields["labels"] = labels
	}
	if sprint := req.GetInt("sprint", 0); sprint != 0 {
		fields[t.settings.SprintField] = sprint
	}
	if epicKey := req.GetString("epic_key", ""); epicKey != "" {
		fields["parent"] = map[string]string{"key": epicKey}
	}

	if assignee, ok := req.GetArguments()["assignee"]; ok {
		value, _ := assignee.(string)
		switch strings.ToLower(value) {
		case "", "unassigned":
			fields["assignee"] = nil
		case "me":
			accountID, err := t.client.Myself(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get current user info for self-assignment: %w", err)
			}
			fields["assignee"] = map[string]string{"accountId": accountID}
		default:
			fields["assignee"] = workflow.AssigneeField(value)
		}
	}

	return fields, nil
}
