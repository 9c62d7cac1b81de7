package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/opsforge/jiramate/internal/jira"
	"github.com/opsforge/jiramate/internal/settings"
)

// SearchSimilarTool handles search_similar_tickets: fuzzy full-text
// search used to find duplicates or related work before creating new
// tickets.
type SearchSimilarTool struct {
	client   *jira.Client
	settings *settings.Settings
}

// NewSearchSimilarTool creates the tool with its dependencies.
func NewSearchSimilarTool(client *jira.Client, s *settings.Settings) *SearchSimilarTool {
	return &SearchSimilarTool{client: client, settings: s}
}

// Definition returns the MCP tool definition for registration.
func (t *SearchSimilarTool) Definition() mcp.Tool {
	return mcp.NewTool("search_similar_tickets",
		mcp.WithDescription(
			"Search for tickets with similar text to find potential duplicates or "+
				"related work. Uses Jira's text search for fuzzy keyword matching.",
		),
		mcp.WithString("search_text",
			mcp.Required(),
			mcp.Description("Text to search for in ticket summaries and descriptions"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of results (default: 10)"),
			mcp.DefaultNumber(jira.DefaultSimilarResults),
		),
		mcp.WithBoolean("include_done",
			mcp.Description("Include completed tickets in search (default: false)"),
			mcp.DefaultBool(false),
		),
		mcp.WithString("project",
			mcp.Description("Filter by project key for faster searches (e.g., 'PROJ')"),
		),
	)
}

// Handle processes the tool call.
func (t *SearchSimilarTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	searchText := strings.TrimSpace(req.GetString("search_text", ""))
	if searchText == "" {
		return mcp.NewToolResultError("Error: search_text is required"), nil
	}

	tickets, err := t.client.SearchSimilar(ctx, searchText, jira.SimilarOptions{
		MaxResults:  req.GetInt("max_results", jira.DefaultSimilarResults),
		IncludeDone: req.GetBool("include_done", false),
		Project:     req.GetString("project", ""),
		ProjectKeys: t.settings.ProjectKeys,
	})
	if err != nil {
		return errorResult(err), nil
	}

	if len(tickets) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No similar tickets found for: %s", searchText)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d potentially similar ticket(s):\n", len(tickets))
	for _, ticket := range tickets {
		fmt.Fprintf(&sb,
			"\n• [%s] %s\n"+
				"  Status: %s | Assignee: %s\n"+
				"  Project: %s | Type: %s\n"+
				"  Preview: %s\n"+
				"  URL: %s\n",
			ticket.Key, ticket.Summary,
			ticket.Status, orFallback(ticket.Assignee, "Unassigned"),
			ticket.Project, ticket.Type,
			ticket.DescriptionPreview(),
			ticket.URL,
		)
	}
	return mcp.NewToolResultText(sb.String()), nil
}
