// Package workflow implements the duplicate-aware creation flow: before
// a ticket or epic is created, existing open work is searched for
// similar text, and any matches are attached to the outcome as a
// non-blocking warning. Creation always proceeds.
package workflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/opsforge/jiramate/internal/config"
	"github.com/opsforge/jiramate/internal/jira"
)

// similarLimit caps the similarity search issued before creation.
const similarLimit = 5

// warnLimit caps how many candidates the warning block lists; the total
// count reported may exceed it.
const warnLimit = 3

// ValidationError is a request rejected before any remote call: a
// missing required argument or an unresolvable project.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Tracker is the slice of the Jira client the workflow needs.
// Narrowed to an interface so tests can count calls on a double.
type Tracker interface {
	SearchSimilar(ctx context.Context, text string, opts jira.SimilarOptions) ([]jira.Ticket, error)
	CreateIssue(ctx context.Context, fields map[string]any) (jira.CreatedIssue, error)
	BrowseURL(key string) string
}

// Defaults are the per-process fallbacks applied when a request leaves
// a field empty.
type Defaults struct {
	IssueType   string
	Priority    string
	SprintField string
}

// Service orchestrates similarity search and creation.
type Service struct {
	tracker  Tracker
	store    config.Store
	defaults Defaults
}

// NewService wires the workflow with its collaborators.
func NewService(tracker Tracker, store config.Store, defaults Defaults) *Service {
	return &Service{tracker: tracker, store: store, defaults: defaults}
}

// Request describes a ticket or epic to create.
type Request struct {
	Summary     string
	Description string
	// Project is the explicit target project key; it wins over every
	// other resolution source.
	Project string
	// EpicKey links the new ticket under an epic; when no explicit
	// Project is given, the project is inferred from its prefix.
	EpicKey   string
	IssueType string
	Priority  string
	Labels    []string
	// Assignee is an account id, or an email address when it contains "@".
	Assignee string
	// Epic marks epic creation: the issue type is forced to "Epic",
	// priority and default sprint are not applied, and the similarity
	// search text gets an "Epic" discriminator appended.
	Epic bool
}

// Outcome is the result of a creation: the new issue plus the
// similarity candidates found beforehand. Candidates never block
// creation; they are informational only.
type Outcome struct {
	Key       string
	URL       string
	Project   string
	IssueType string
	Priority  string
	Similar   []jira.Ticket
}

// Warning renders the duplicate warning block, listing at most three
// candidates and the true total found. Empty when nothing matched.
func (o *Outcome) Warning() string {
	if len(o.Similar) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "⚠️ WARNING: Found %d potentially similar ticket(s):\n", len(o.Similar))
	for i, t := range o.Similar {
		if i == warnLimit {
			break
		}
		fmt.Fprintf(&sb, "  • [%s] %s (%s)\n", t.Key, t.Summary, t.Status)
	}
	sb.WriteString("\nProceeding with creation...\n\n")
	return sb.String()
}

// ProjectFromIssueKey infers a project key from an issue key by
// stripping the trailing issue number: "PROJ2-100" yields "PROJ2".
// A key with no dash is returned unchanged.
func ProjectFromIssueKey(key string) string {
	if i := strings.LastIndex(key, "-"); i >= 0 {
		return key[:i]
	}
	return key
}

// resolveProject applies the precedence order: explicit argument, then
// epic-key prefix, then the configured default.
func (s *Service) resolveProject(req Request) (string, error) {
	if req.Project != "" {
		return req.Project, nil
	}
	if req.EpicKey != "" {
		return ProjectFromIssueKey(req.EpicKey), nil
	}
	if p := s.store.DefaultProject(); p != "" {
		return p, nil
	}
	return "", &ValidationError{
		Reason: "no project specified and no default project configured. Set PROJECT_KEYS or use update_config.",
	}
}

// Create runs the workflow: validate, search for similar open work,
// then create unconditionally.
//
// The search and the create are two independent remote calls with no
// transactional relationship: another actor can create an identical
// item in between, and nothing guards against that.
func (s *Service) Create(ctx context.Context, req Request) (*Outcome, error) {
	if strings.TrimSpace(req.Summary) == "" {
		return nil, &ValidationError{Reason: "summary is required"}
	}
	project, err := s.resolveProject(req)
	if err != nil {
		return nil, err
	}

	searchText := req.Summary
	if req.Epic {
		// Heuristic discriminator, not a filter: biases the fuzzy match
		// toward existing epics.
		searchText += " Epic"
	}
	similar, err := s.tracker.SearchSimilar(ctx, searchText, jira.SimilarOptions{
		MaxResults: similarLimit,
		Project:    project,
	})
	if err != nil {
		return nil, err
	}

	issueType := req.IssueType
	if issueType == "" {
		issueType = s.defaults.IssueType
	}
	if req.Epic {
		issueType = "Epic"
	}

	fields := map[string]any{
		"project":   map[string]string{"key": project},
		"summary":   req.Summary,
		"issuetype": map[string]string{"name": issueType},
	}

	priority := ""
	if !req.Epic {
		priority = req.Priority
		if priority == "" {
			priority = s.defaults.Priority
		}
		fields["priority"] = map[string]string{"name": priority}
	}

	if req.Description != "" {
		fields["description"] = jira.Document(req.Description)
	}
	if req.EpicKey != "" {
		fields["parent"] = map[string]string{"key": req.EpicKey}
	}
	if len(req.Labels) > 0 {
		fields["labels"] = req.Labels
	}
	if req.Assignee != "" {
		fields["assignee"] = AssigneeField(req.Assignee)
	}

	// Default sprint applies to plain ticket creation only; epics are
	// never sprint-scoped.
	if !req.Epic {
		if sprintID := s.store.DefaultSprintID(); sprintID != "" {
			if id, err := strconv.Atoi(sprintID); err == nil {
				fields[s.defaults.SprintField] = id
			}
		}
	}

	created, err := s.tracker.CreateIssue(ctx, fields)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Key:       created.Key,
		URL:       s.tracker.BrowseURL(created.Key),
		Project:   project,
		IssueType: issueType,
		Priority:  priority,
		Similar:   similar,
	}, nil
}

// AssigneeField builds the assignee sub-object Jira expects: account id
// normally, email address when the value contains "@".
func AssigneeField(assignee string) map[string]string {
	if strings.Contains(assignee, "@") {
		return map[string]string{"emailAddress": assignee}
	}
	return map[string]string{"accountId": assignee}
}
