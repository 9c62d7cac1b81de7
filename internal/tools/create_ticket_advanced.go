package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/opsforge/jiramate/internal/workflow"
)

// CreateTicketAdvancedTool handles create_new_ticket_advanced: full
// control over every creation field, still duplicate-checked.
type CreateTicketAdvancedTool struct {
	workflow *workflow.Service
}

// NewCreateTicketAdvancedTool creates the tool with its workflow service.
func NewCreateTicketAdvancedTool(w *workflow.Service) *CreateTicketAdvancedTool {
	return &CreateTicketAdvancedTool{workflow: w}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateTicketAdvancedTool) Definition() mcp.Tool {
	return mcp.NewTool("create_new_ticket_advanced",
		mcp.WithDescription(
			"Create a new Jira ticket with full control over all fields. Use "+
				"create_new_ticket for quick creation with defaults.",
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Ticket title/summary"),
		),
		mcp.WithString("project",
			mcp.Description("Project key (e.g., 'PROJ'). Falls back to the configured default."),
		),
		mcp.WithString("description",
			mcp.Description("Detailed description of the ticket"),
		),
		mcp.WithString("issue_type",
			mcp.Description("Issue type (e.g., 'Task', 'Bug', 'Story'). Falls back to DEFAULT_ISSUE_TYPE."),
		),
		mcp.WithString("priority",
			mcp.Description("Priority (e.g., 'Highest', 'High', 'Medium', 'Low', 'Lowest'). Falls back to DEFAULT_PRIORITY."),
		),
		mcp.WithString("epic_key",
			mcp.Description("Epic key to link this ticket to (e.g., 'PROJ-100')"),
		),
		mcp.WithArray("labels",
			mcp.Description("Labels to add to the ticket (e.g., ['backend', 'urgent'])"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("assignee",
			mcp.Description("Assignee account ID or email"),
		),
	)
}

// Handle processes the tool call.
func (t *CreateTicketAdvancedTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary := strings.TrimSpace(req.GetString("summary", ""))
	if summary == "" {
		return mcp.NewToolResultError("Error: summary is required"), nil
	}

	outcome, err := t.workflow.Create(ctx, workflow.Request{
		Summary:     summary,
		Description: req.GetString("description", ""),
		Project:     req.GetString("project", ""),
		EpicKey:     req.GetString("epic_key", ""),
		IssueType:   req.GetString("issue_type", ""),
		Priority:    req.GetString("priority", ""),
		Labels:      req.GetStringSlice("labels", nil),
		Assignee:    req.GetString("assignee", ""),
	})
	if err != nil {
		return errorResult(err), nil
	}

	text := fmt.Sprintf("%sCreated ticket: %s\nProject: %s | Type: %s | Priority: %s\nURL: %s",
		outcome.Warning(), outcome.Key, outcome.Project, outcome.IssueType, outcome.Priority, outcome.URL)
	return mcp.NewToolResultText(text), nil
}
