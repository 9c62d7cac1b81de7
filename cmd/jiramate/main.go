// Jiramate: a Jira MCP server.
//
// Exposes the team's Jira instance as MCP tools over stdio: listing and
// inspecting tickets, duplicate-aware ticket/epic creation, updates,
// transitions, comments, sprint discovery and runtime configuration.
//
// Usage:
//
//	jiramate serve     # Start MCP server (stdio transport)
//	jiramate version   # Print version
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	appserver "github.com/opsforge/jiramate/internal/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
	case "--version", "-v", "version":
		fmt.Printf("jiramate v%s\n", appserver.Version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	s, err := appserver.New()
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Stdout belongs to the MCP stdio transport; all diagnostics go to
	// stderr via internal/logging.
	return server.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Jiramate v%s — Jira MCP Server

Usage:
  jiramate serve     Start the MCP server (stdio transport)
  jiramate version   Print version

Environment:
  JIRA_HOST           Jira base URL (required), e.g. https://acme.atlassian.net
  JIRA_EMAIL          Account email (required)
  JIRA_API_TOKEN      API token (required)
  ACTIONABLE_STATUS   Status considered ready to pick up (default "To Do")
  PROJECT_KEYS        Comma-separated project key allowlist
  DEFAULT_PRIORITY    Priority for new tickets (default "Medium")
  DEFAULT_ISSUE_TYPE  Issue type for new tickets (default "Task")
  SPRINT_FIELD        Sprint custom field id (default "customfield_10020")
  JIRAMATE_CONFIG     Path of the persisted config file (default "config.json")

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "jiramate": {
        "command": "jiramate",
        "args": ["serve"]
      }
    }
  }
`, appserver.Version)
}
