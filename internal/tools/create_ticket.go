package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/opsforge/jiramate/internal/workflow"
)

// CreateTicketTool handles create_new_ticket: quick ticket creation
// with process defaults, routed through the duplicate-aware workflow.
type CreateTicketTool struct {
	workflow *workflow.Service
}

// NewCreateTicketTool creates the tool with its workflow service.
func NewCreateTicketTool(w *workflow.Service) *CreateTicketTool {
	return &CreateTicketTool{workflow: w}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateTicketTool) Definition() mcp.Tool {
	return mcp.NewTool("create_new_ticket",
		mcp.WithDescription(
			"Create a new Jira ticket using default settings. Uses the current "+
				"default project and sprint from config (set via update_config). "+
				"Automatically checks for similar existing tickets and warns if "+
				"potential duplicates are found. Ticket descriptions MUST include: "+
				"(1) a 1-2 sentence introduction explaining the context/problem, and "+
				"(2) bulleted success criteria defining what 'done' looks like.",
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Ticket title/summary"),
		),
		mcp.WithString("description",
			mcp.Description("Detailed description of the ticket"),
		),
		mcp.WithString("epic_key",
			mcp.Description("Epic key to link this ticket to (e.g., 'PROJ-100')"),
		),
	)
}

// Handle processes the tool call.
func (t *CreateTicketTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary := strings.TrimSpace(req.GetString("summary", ""))
	if summary == "" {
		return mcp.NewToolResultError("Error: summary is required"), nil
	}

	outcome, err := t.workflow.Create(ctx, workflow.Request{
		Summary:     summary,
		Description: req.GetString("description", ""),
		EpicKey:     req.GetString("epic_key", ""),
	})
	if err != nil {
		return errorResult(err), nil
	}

	text := fmt.Sprintf("%sCreated ticket: %s\nProject: %s | Type: %s | Priority: %s\nURL: %s",
		outcome.Warning(), outcome.Key, outcome.Project, outcome.IssueType, outcome.Priority, outcome.URL)
	return mcp.NewToolResultText(text), nil
}
