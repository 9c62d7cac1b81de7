package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/opsforge/jiramate/internal/jira"
)

// fakeTracker counts calls and records what the workflow sent.
type fakeTracker struct {
	searchCalls int
	searchText  string
	searchOpts  jira.SimilarOptions
	similar     []jira.Ticket
	searchErr   error

	createCalls  int
	createFields map[string]any
	created      jira.CreatedIssue
	createErr    error
}

func (f *fakeTracker) SearchSimilar(ctx context.Context, text string, opts jira.SimilarOptions) ([]jira.Ticket, error) {
	f.searchCalls++
	f.searchText = text
	f.searchOpts = opts
	return f.similar, f.searchErr
}

func (f *fakeTracker) CreateIssue(ctx context.Context, fields map[string]any) (jira.CreatedIssue, error) {
	f.createCalls++
	f.createFields = fields
	return f.created, f.createErr
}

func (f *fakeTracker) BrowseURL(key string) string {
	return "https://acme.atlassian.net/browse/" + key
}

// fakeStore is an in-memory config.Store.
type fakeStore struct {
	project string
	sprint  string
}

func (f *fakeStore) DefaultProject() string             { return f.project }
func (f *fakeStore) SetDefaultProject(key string) error { f.project = key; return nil }
func (f *fakeStore) DefaultSprintID() string            { return f.sprint }
func (f *fakeStore) SetDefaultSprintID(id string) error { f.sprint = id; return nil }

func testDefaults() Defaults {
	return Defaults{IssueType: "Task", Priority: "Medium", SprintField: "customfield_10020"}
}

func newTestService(tracker *fakeTracker, store *fakeStore) *Service {
	if tracker.created.Key == "" {
		tracker.created = jira.CreatedIssue{ID: "10001", Key: "PROJ-123"}
	}
	return NewService(tracker, store, testDefaults())
}

func TestCreate_ExplicitProjectWinsOverEverything(t *testing.T) {
	tracker := &fakeTracker{}
	svc := newTestService(tracker, &fakeStore{project: "DEFAULT"})

	outcome, err := svc.Create(context.Background(), Request{
		Summary: "Fix login bug",
		Project: "X",
		EpicKey: "OTHER-100",
	})
	require.NoError(t, err)

	assert.Equal(t, "X", outcome.Project)
	assert.Equal(t, map[string]string{"key": "X"}, tracker.createFields["project"])
}

func TestCreate_ProjectInferredFromEpicKeyPrefix(t *testing.T) {
	tracker := &fakeTracker{}
	svc := newTestService(tracker, &fakeStore{})

	outcome, err := svc.Create(context.Background(), Request{
		Summary: "Child ticket",
		EpicKey: "PROJ2-100",
	})
	require.NoError(t, err)

	assert.Equal(t, "PROJ2", outcome.Project)
	assert.Equal(t, map[string]string{"key": "PROJ2-100"}, tracker.createFields["parent"])
}

func TestCreate_FallsBackToConfiguredDefault(t *testing.T) {
	tracker := &fakeTracker{}
	svc := newTestService(tracker, &fakeStore{project: "TEAM"})

	outcome, err := svc.Create(context.Background(), Request{Summary: "Something"})
	require.NoError(t, err)

	assert.Equal(t, "TEAM", outcome.Project)
}

func TestCreate_NoResolvableProjectFailsBeforeAnyRemoteCall(t *testing.T) {
	tracker := &fakeTracker{}
	svc := newTestService(tracker, &fakeStore{})

	_, err := svc.Create(context.Background(), Request{Summary: "Orphan"})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, 0, tracker.searchCalls)
	assert.Equal(t, 0, tracker.createCalls)
}

func TestCreate_EmptySummaryFailsBeforeAnyRemoteCall(t *testing.T) {
	tracker := &fakeTracker{}
	svc := newTestService(tracker, &fakeStore{project: "TEAM"})

	_, err := svc.Create(context.Background(), Request{Summary: "   "})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, 0, tracker.searchCalls)
	assert.Equal(t, 0, tracker.createCalls)
}

func TestCreate_AlwaysSearchesBeforeCreating(t *testing.T) {
	tracker := &fakeTracker{}
	svc := newTestService(tracker, &fakeStore{project: "PROJ"})

	_, err := svc.Create(context.Background(), Request{Summary: "Fix login bug"})
	require.NoError(t, err)

	assert.Equal(t, 1, tracker.searchCalls)
	assert.Equal(t, 1, tracker.createCalls)
	assert.Equal(t, "Fix login bug", tracker.searchText)
	assert.Equal(t, 5, tracker.searchOpts.MaxResults)
	assert.Equal(t, "PROJ", tracker.searchOpts.Project)
	assert.False(t, tracker.searchOpts.IncludeDone)
}

func TestCreate_MatchesNeverBlockCreation(t *testing.T) {
	tracker := &fakeTracker{similar: []jira.Ticket{
		{Key: "PROJ-50", Summary: "Login broken", Status: "In Progress"},
	}}
	svc := newTestService(tracker, &fakeStore{project: "PROJ"})

	outcome, err := svc.Create(context.Background(), Request{Summary: "Fix login bug"})
	require.NoError(t, err)

	assert.Equal(t, 1, tracker.createCalls)
	assert.Len(t, outcome.Similar, 1)
}

func TestCreate_SearchFailureAbortsCreation(t *testing.T) {
	tracker := &fakeTracker{searchErr: &jira.APIError{StatusCode: 502, Body: "bad gateway"}}
	svc := newTestService(tracker, &fakeStore{project: "PROJ"})

	_, err := svc.Create(context.Background(), Request{Summary: "Fix login bug"})

	var apiErr *jira.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, tracker.createCalls)
}

func TestCreate_CreateFailurePropagates(t *testing.T) {
	tracker := &fakeTracker{createErr: errors.New("boom")}
	svc := newTestService(tracker, &fakeStore{project: "PROJ"})

	_, err := svc.Create(context.Background(), Request{Summary: "Fix login bug"})
	require.Error(t, err)
}

func TestCreate_EpicAppendsSearchDiscriminator(t *testing.T) {
	tracker := &fakeTracker{}
	svc := newTestService(tracker, &fakeStore{})

	_, err := svc.Create(context.Background(), Request{
		Summary: "Payments rework",
		Project: "PROJ",
		Epic:    true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Payments rework Epic", tracker.searchText)
}

func TestCreate_EpicForcesTypeAndSkipsPriorityAndSprint(t *testing.T) {
	tracker := &fakeTracker{}
	svc := newTestService(tracker, &fakeStore{sprint: "42"})

	_, err := svc.Create(context.Background(), Request{
		Summary: "Payments rework",
		Project: "PROJ",
		Epic:    true,
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"name": "Epic"}, tracker.createFields["issuetype"])
	assert.NotContains(t, tracker.createFields, "priority")
	assert.NotContains(t, tracker.createFields, "customfield_10020")
}

func TestCreate_TicketGetsDefaultsAndConfiguredSprint(t *testing.T) {
	tracker := &fakeTracker{}
	svc := newTestService(tracker, &fakeStore{project: "PROJ", sprint: "42"})

	_, err := svc.Create(context.Background(), Request{Summary: "Plain ticket"})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"name": "Task"}, tracker.createFields["issuetype"])
	assert.Equal(t, map[string]string{"name": "Medium"}, tracker.createFields["priority"])
	assert.Equal(t, 42, tracker.createFields["customfield_10020"])
}

func TestCreate_NoSprintFieldWhenUnconfigured(t *testing.T) {
	tracker := &fakeTracker{}
	svc := newTestService(tracker, &fakeStore{project: "PROJ"})

	_, err := svc.Create(context.Background(), Request{Summary: "Plain ticket"})
	require.NoError(t, err)

	assert.NotContains(t, tracker.createFields, "customfield_10020")
}

func TestCreate_ExplicitTypeAndPriorityWinOverDefaults(t *testing.T) {
	tracker := &fakeTracker{}
	svc := newTestService(tracker, &fakeStore{project: "PROJ"})

	_, err := svc.Create(context.Background(), Request{
		Summary:   "A bug",
		IssueType: "Bug",
		Priority:  "Highest",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"name": "Bug"}, tracker.createFields["issuetype"])
	assert.Equal(t, map[string]string{"name": "Highest"}, tracker.createFields["priority"])
}

func TestCreate_DescriptionWrappedLabelsAndAssigneePassedThrough(t *testing.T) {
	tracker := &fakeTracker{}
	svc := newTestService(tracker, &fakeStore{project: "PROJ"})

	_, err := svc.Create(context.Background(), Request{
		Summary:     "Full ticket",
		Description: "Context.\n- done when X",
		Labels:      []string{"backend", "urgent"},
		Assignee:    "someone@example.com",
	})
	require.NoError(t, err)

	assert.Contains(t, tracker.createFields, "description")
	assert.Equal(t, []string{"backend", "urgent"}, tracker.createFields["labels"])
	assert.Equal(t, map[string]string{"emailAddress": "someone@example.com"}, tracker.createFields["assignee"])
}

func TestCreate_OutcomeCarriesKeyAndBrowseURL(t *testing.T) {
	tracker := &fakeTracker{created: jira.CreatedIssue{ID: "1", Key: "PROJ-777"}}
	svc := newTestService(tracker, &fakeStore{project: "PROJ"})

	outcome, err := svc.Create(context.Background(), Request{Summary: "Fix login bug"})
	require.NoError(t, err)

	assert.Equal(t, "PROJ-777", outcome.Key)
	assert.Equal(t, "https://acme.atlassian.net/browse/PROJ-777", outcome.URL)
}

func TestOutcome_WarningEmptyWithoutCandidates(t *testing.T) {
	outcome := &Outcome{}
	assert.Equal(t, "", outcome.Warning())
}

func TestOutcome_WarningListsAtMostThreeButStatesTrueTotal(t *testing.T) {
	var similar []jira.Ticket
	for i := 1; i <= 7; i++ {
		similar = append(similar, jira.Ticket{
			Key:     fmt.Sprintf("PROJ-%d", i),
			Summary: fmt.Sprintf("Candidate %d", i),
			Status:  "To Do",
		})
	}
	outcome := &Outcome{Similar: similar}

	warning := outcome.Warning()

	assert.Contains(t, warning, "Found 7 potentially similar ticket(s)")
	assert.Contains(t, warning, "[PROJ-1] Candidate 1 (To Do)")
	assert.Contains(t, warning, "[PROJ-2] Candidate 2 (To Do)")
	assert.Contains(t, warning, "[PROJ-3] Candidate 3 (To Do)")
	assert.NotContains(t, warning, "PROJ-4")
	assert.Contains(t, warning, "Proceeding with creation")
}

func TestProjectFromIssueKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"PROJ-123", "PROJ"},
		{"PROJ2-100", "PROJ2"},
		{"AB-CD-12", "AB-CD"},
		{"NODASH", "NODASH"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ProjectFromIssueKey(tt.key), tt.key)
	}
}
