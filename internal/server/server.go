// Package server wires all components and creates the MCP server.
//
// This is the composition root: it loads settings, builds the Jira
// client, the config store and the creation workflow, and injects them
// into the tools. No business logic lives here — only wiring.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/opsforge/jiramate/internal/config"
	"github.com/opsforge/jiramate/internal/jira"
	"github.com/opsforge/jiramate/internal/logging"
	"github.com/opsforge/jiramate/internal/settings"
	"github.com/opsforge/jiramate/internal/tools"
	"github.com/opsforge/jiramate/internal/workflow"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools registered.
// This is the single place where all dependencies are resolved.
func New() (*server.MCPServer, error) {
	cfg, err := settings.Load()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	logging.Info("starting jiramate", "version", Version, "host", cfg.Host)

	client := jira.NewClient(cfg.Host, cfg.Email, cfg.APIToken)

	defaultProject := ""
	if len(cfg.ProjectKeys) > 0 {
		defaultProject = cfg.ProjectKeys[0]
	}
	store := config.NewFileStore(cfg.ConfigPath, defaultProject)
	if p := store.DefaultProject(); p != "" {
		logging.Debug("default project resolved", "project", p)
	}

	creation := workflow.NewService(client, store, workflow.Defaults{
		IssueType:   cfg.DefaultIssueType,
		Priority:    cfg.DefaultPriority,
		SprintField: cfg.SprintField,
	})

	s := server.NewMCPServer(
		"jiramate",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Read tools ---

	assigned := tools.NewAssignedTicketsTool(client)
	s.AddTool(assigned.Definition(), assigned.Handle)

	available := tools.NewAvailableTicketsTool(client, cfg)
	s.AddTool(available.Definition(), available.Handle)

	epics := tools.NewAvailableEpicsTool(client, cfg)
	s.AddTool(epics.Definition(), epics.Handle)

	epicTickets := tools.NewEpicTicketsTool(client)
	s.AddTool(epicTickets.Definition(), epicTickets.Handle)

	details := tools.NewTicketDetailsTool(client)
	s.AddTool(details.Definition(), details.Handle)

	search := tools.NewSearchSimilarTool(client, cfg)
	s.AddTool(search.Definition(), search.Handle)

	// --- Creation tools (duplicate-aware workflow) ---

	createTicket := tools.NewCreateTicketTool(creation)
	s.AddTool(createTicket.Definition(), createTicket.Handle)

	createEpic := tools.NewCreateEpicTool(creation)
	s.AddTool(createEpic.Definition(), createEpic.Handle)

	createAdvanced := tools.NewCreateTicketAdvancedTool(creation)
	s.AddTool(createAdvanced.Definition(), createAdvanced.Handle)

	// --- Mutation tools ---

	update := tools.NewUpdateTicketTool(client, cfg)
	s.AddTool(update.Definition(), update.Handle)

	comment := tools.NewAddCommentTool(client)
	s.AddTool(comment.Definition(), comment.Handle)

	// --- Sprint and configuration tools ---

	sprints := tools.NewListSprintsTool(client, cfg, store)
	s.AddTool(sprints.Definition(), sprints.Handle)

	updateConfig := tools.NewUpdateConfigTool(store, cfg)
	s.AddTool(updateConfig.Definition(), updateConfig.Handle)

	return s, nil
}

// serverInstructions tells the calling agent how to use the tools well.
func serverInstructions() string {
	return `You have access to a Jira assistant exposing the team's issue tracker.

## Workflow guidance

- Before creating any ticket or epic, check for existing work with
  search_similar_tickets. The creation tools also run this check
  automatically and will warn about potential duplicates, but the
  warning never blocks creation — review it and close the new ticket
  yourself if it duplicates existing work.
- Ticket descriptions should include: (1) a 1-2 sentence introduction
  explaining the context or problem, and (2) bulleted success criteria
  defining what "done" looks like.
- Use get_available_epics to find an epic to link new work under, and
  pass its key as epic_key when creating tickets.
- Use list_sprints to discover sprint IDs, then update_config to set
  the default sprint applied to newly created tickets.
- To move a ticket through its workflow, use update_ticket_details with
  a status; if the transition name is not valid from the current state,
  the error lists the valid alternatives.

## Conventions

- Statuses, priorities and issue types are named exactly as the Jira
  instance defines them; transition names match case-insensitively.
- All tools return plain text. Empty result sets say so explicitly.`
}
