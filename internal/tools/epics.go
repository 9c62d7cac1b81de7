package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/opsforge/jiramate/internal/jira"
	"github.com/opsforge/jiramate/internal/settings"
)

// AvailableEpicsTool handles get_available_epics: open epics new work
// can be linked under.
type AvailableEpicsTool struct {
	client   *jira.Client
	settings *settings.Settings
}

// NewAvailableEpicsTool creates the tool with its dependencies.
func NewAvailableEpicsTool(client *jira.Client, s *settings.Settings) *AvailableEpicsTool {
	return &AvailableEpicsTool{client: client, settings: s}
}

// Definition returns the MCP tool definition for registration.
func (t *AvailableEpicsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_available_epics",
		mcp.WithDescription(
			"Get open epics that can be used to link new work. Returns epics that "+
				"are not yet completed.",
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of epics to return (default: 50)"),
			mcp.DefaultNumber(defaultListResults),
		),
		mcp.WithString("project",
			mcp.Description("Filter by project key (e.g., 'PROJ')"),
		),
	)
}

// Handle processes the tool call.
func (t *AvailableEpicsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := jira.NewQuery().IssueType("Epic").NotDone()
	if project := req.GetString("project", ""); project != "" {
		q.Project(project)
	} else {
		q.ProjectIn(t.settings.ProjectKeys)
	}

	epics, err := t.client.Search(ctx, q.String(), req.GetInt("max_results", defaultListResults))
	if err != nil {
		return errorResult(err), nil
	}

	if len(epics) == 0 {
		return mcp.NewToolResultText("No open epics found."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d open epic(s):\n", len(epics))
	for _, e := range epics {
		fmt.Fprintf(&sb,
			"\n• [%s] %s\n"+
				"  Status: %s | Priority: %s | Project: %s\n"+
				"  URL: %s\n",
			e.Key, e.Summary, e.Status, e.Priority, e.Project, e.URL,
		)
	}
	return mcp.NewToolResultText(sb.String()), nil
}
