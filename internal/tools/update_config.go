package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/opsforge/jiramate/internal/config"
	"github.com/opsforge/jiramate/internal/settings"
)

// UpdateConfigTool handles update_config: read or mutate the persisted
// runtime settings (default project, default sprint). Calling it with
// no arguments shows the current values.
type UpdateConfigTool struct {
	store    config.Store
	settings *settings.Settings
}

// NewUpdateConfigTool creates the tool with its dependencies.
func NewUpdateConfigTool(store config.Store, s *settings.Settings) *UpdateConfigTool {
	return &UpdateConfigTool{store: store, settings: s}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateConfigTool) Definition() mcp.Tool {
	available := "none configured"
	if len(t.settings.ProjectKeys) > 0 {
		available = strings.Join(t.settings.ProjectKeys, ", ")
	}

	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Update configuration settings. Changes are saved to the config file "+
				"and persist across restarts. Available projects: " + available + ". " +
				"Use list_sprints to find sprint IDs.",
		),
		mcp.WithNumber("default_sprint_id",
			mcp.Description("Set the default sprint ID for ticket creation. Use list_sprints to see available sprints. Pass 0 to clear the default."),
		),
	}
	if len(t.settings.ProjectKeys) > 0 {
		opts = append(opts, mcp.WithString("default_project",
			mcp.Description("Set the default project for ticket creation. Must be one of: "+available),
			mcp.Enum(t.settings.ProjectKeys...),
		))
	} else {
		opts = append(opts, mcp.WithString("default_project",
			mcp.Description("Set the default project for ticket creation."),
		))
	}

	return mcp.NewTool("update_config", opts...)
}

// Handle processes the tool call.
func (t *UpdateConfigTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	if len(args) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Current configuration:\n  • default_project: %s\n  • default_sprint_id: %s",
			orFallback(t.store.DefaultProject(), "(not set)"),
			orFallback(t.store.DefaultSprintID(), "(not set)"),
		)), nil
	}

	var changes []string

	if _, ok := args["default_project"]; ok {
		projectKey := strings.ToUpper(strings.TrimSpace(req.GetString("default_project", "")))
		if projectKey != "" {
			if len(t.settings.ProjectKeys) > 0 && !containsKey(t.settings.ProjectKeys, projectKey) {
				return mcp.NewToolResultError(fmt.Sprintf(
					"Error: '%s' is not a configured project. Available: %s",
					projectKey, strings.Join(t.settings.ProjectKeys, ", "))), nil
			}
			old := t.store.DefaultProject()
			if err := t.store.SetDefaultProject(projectKey); err != nil {
				return errorResult(err), nil
			}
			if old != "" && old != projectKey {
				changes = append(changes, fmt.Sprintf("default_project: %s → %s", old, projectKey))
			} else {
				changes = append(changes, fmt.Sprintf("default_project: %s", projectKey))
			}
		}
	}

	if _, ok := args["default_sprint_id"]; ok {
		// An explicit 0 clears the stored default.
		value := ""
		if sprintID := req.GetInt("default_sprint_id", 0); sprintID != 0 {
			value = fmt.Sprintf("%d", sprintID)
		}
		old := t.store.DefaultSprintID()
		if err := t.store.SetDefaultSprintID(value); err != nil {
			return errorResult(err), nil
		}
		switch {
		case value == "":
			changes = append(changes, fmt.Sprintf("default_sprint_id: %s → (not set)", orFallback(old, "(not set)")))
		case old != "" && old != value:
			changes = append(changes, fmt.Sprintf("default_sprint_id: %s → %s", old, value))
		default:
			changes = append(changes, fmt.Sprintf("default_sprint_id: %s", value))
		}
	}

	if len(changes) == 0 {
		return mcp.NewToolResultText("No changes made. Provide at least one setting to update."), nil
	}

	return mcp.NewToolResultText("Updated configuration:\n  • " + strings.Join(changes, "\n  • ")), nil
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
