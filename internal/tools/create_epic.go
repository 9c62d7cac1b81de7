package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/opsforge/jiramate/internal/workflow"
)

// CreateEpicTool handles create_new_epic: epic creation with the same
// duplicate check as tickets.
type CreateEpicTool struct {
	workflow *workflow.Service
}

// NewCreateEpicTool creates the tool with its workflow service.
func NewCreateEpicTool(w *workflow.Service) *CreateEpicTool {
	return &CreateEpicTool{workflow: w}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateEpicTool) Definition() mcp.Tool {
	return mcp.NewTool("create_new_epic",
		mcp.WithDescription(
			"Create a new Jira epic. Automatically checks for similar existing "+
				"epics before creation and warns if potential duplicates are found.",
		),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project key (e.g., 'PROJ')"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Epic title/summary"),
		),
		mcp.WithString("description",
			mcp.Description("Detailed description of the epic"),
		),
	)
}

// Handle processes the tool call.
func (t *CreateEpicTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := strings.TrimSpace(req.GetString("project", ""))
	summary := strings.TrimSpace(req.GetString("summary", ""))
	if project == "" || summary == "" {
		return mcp.NewToolResultError("Error: project and summary are required"), nil
	}

	outcome, err := t.workflow.Create(ctx, workflow.Request{
		Summary:     summary,
		Description: req.GetString("description", ""),
		Project:     project,
		Epic:        true,
	})
	if err != nil {
		return errorResult(err), nil
	}

	text := fmt.Sprintf("%sCreated epic: %s\nURL: %s", outcome.Warning(), outcome.Key, outcome.URL)
	return mcp.NewToolResultText(text), nil
}
