// Package tools implements the MCP tool handlers.
//
// Each tool is a struct receiving its dependencies at construction and
// exposing Definition() for registration plus Handle() for invocation.
// Every handler returns a single text block; errors of any kind are
// rendered as text error results rather than structured faults, since
// the calling agent has no supervisory layer acting on error codes.
package tools

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/opsforge/jiramate/internal/jira"
)

// errorResult renders any error as a text error result.
func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err))
}

// orFallback substitutes fallback for an empty value in output.
func orFallback(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// formatTicketList renders a bullet list of tickets. header names what
// was listed, e.g. "ticket(s) assigned to you". An empty list always
// yields a "No ... found." message, never an empty string.
func formatTicketList(tickets []jira.Ticket, header string) string {
	if len(tickets) == 0 {
		return fmt.Sprintf("No %s found.", header)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d %s:\n", len(tickets), header)
	for _, t := range tickets {
		fmt.Fprintf(&sb,
			"\n• [%s] %s\n"+
				"  Status: %s | Priority: %s | Project: %s\n"+
				"  Type: %s | Updated: %s\n"+
				"  URL: %s\n",
			t.Key, t.Summary,
			t.Status, t.Priority, t.Project,
			orFallback(t.Type, "N/A"), orFallback(t.Updated, "N/A"),
			t.URL,
		)
	}
	return sb.String()
}
