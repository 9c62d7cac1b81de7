package tools

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/opsforge/jiramate/internal/config"
	"github.com/opsforge/jiramate/internal/jira"
	"github.com/opsforge/jiramate/internal/logging"
	"github.com/opsforge/jiramate/internal/settings"
)

// ListSprintsTool handles list_sprints: active and future sprints from
// the agile boards of the configured projects, with their ids for use
// with update_config.
type ListSprintsTool struct {
	client   *jira.Client
	settings *settings.Settings
	store    config.Store
}

// NewListSprintsTool creates the tool with its dependencies.
func NewListSprintsTool(client *jira.Client, s *settings.Settings, store config.Store) *ListSprintsTool {
	return &ListSprintsTool{client: client, settings: s, store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *ListSprintsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_sprints",
		mcp.WithDescription(
			"List available sprints from Jira boards. Shows active and future "+
				"sprints with their IDs, which can be used with update_config to set "+
				"the default sprint for ticket creation.",
		),
		mcp.WithNumber("board_id",
			mcp.Description("Specific board ID to fetch sprints from. If not provided, searches for boards in configured projects."),
		),
		mcp.WithBoolean("include_closed",
			mcp.Description("Include closed sprints in results (default: false)"),
			mcp.DefaultBool(false),
		),
	)
}

// stateOrder sorts sprint states: active first, then future, then closed.
var stateOrder = map[string]int{"active": 0, "future": 1, "closed": 2}

// Handle processes the tool call.
func (t *ListSprintsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	states := "active,future"
	if req.GetBool("include_closed", false) {
		states += ",closed"
	}

	var sprints []jira.Sprint
	var boardsChecked []string

	if boardID := req.GetInt("board_id", 0); boardID != 0 {
		fetched, err := t.client.Sprints(ctx, boardID, states)
		if err != nil {
			return errorResult(err), nil
		}
		sprints = fetched
		boardsChecked = append(boardsChecked, fmt.Sprintf("Board %d", boardID))
	} else {
		if len(t.settings.ProjectKeys) == 0 {
			return mcp.NewToolResultError(
				"Error: no PROJECT_KEYS configured. Set PROJECT_KEYS or provide a board_id."), nil
		}
		for _, projectKey := range t.settings.ProjectKeys {
			boards, err := t.client.Boards(ctx, projectKey)
			if err != nil {
				logging.Warn("listing boards failed", "project", projectKey, "error", err)
				continue
			}
			for _, board := range boards {
				boardsChecked = append(boardsChecked, fmt.Sprintf("%s (%s)", board.Name, board.Type))
				fetched, err := t.client.Sprints(ctx, board.ID, states)
				if err != nil {
					// Kanban boards have no sprints; skip them.
					continue
				}
				sprints = append(sprints, fetched...)
			}
		}
	}

	if len(sprints) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"No sprints found. Boards checked: %s", strings.Join(boardsChecked, ", "))), nil
	}

	// The same sprint can appear on multiple boards.
	seen := make(map[int]bool)
	unique := sprints[:0]
	for _, s := range sprints {
		if !seen[s.ID] {
			seen[s.ID] = true
			unique = append(unique, s)
		}
	}

	sort.Slice(unique, func(i, j int) bool {
		oi, ok := stateOrder[unique[i].State]
		if !ok {
			oi = 99
		}
		oj, ok := stateOrder[unique[j].State]
		if !ok {
			oj = 99
		}
		if oi != oj {
			return oi < oj
		}
		return unique[i].ID < unique[j].ID
	})

	currentID := t.store.DefaultSprintID()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d sprint(s):\n", len(unique))
	if currentID != "" {
		fmt.Fprintf(&sb, "\nCurrent default sprint ID: %s\n", currentID)
	}
	for _, s := range unique {
		marker := ""
		if strconv.Itoa(s.ID) == currentID {
			marker = " (current default)"
		}
		dates := ""
		if s.StartDate != "" && s.EndDate != "" {
			dates = fmt.Sprintf(" | %s to %s", datePart(s.StartDate), datePart(s.EndDate))
		}
		fmt.Fprintf(&sb, "\n• [%s] %s%s\n  ID: %d%s\n",
			strings.ToUpper(s.State), s.Name, marker, s.ID, dates)
	}
	sb.WriteString("\nUse update_config with default_sprint_id to change the default.")

	return mcp.NewToolResultText(sb.String()), nil
}

// datePart trims an ISO timestamp to its date component.
func datePart(ts string) string {
	if len(ts) > 10 {
		return ts[:10]
	}
	return ts
}
