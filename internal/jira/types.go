package jira

import "encoding/json"

// named is the {"name": ...} sub-object Jira uses for status, priority,
// project and issue type.
type named struct {
	Name string `json:"name"`
}

// user is a Jira user reference.
type user struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
}

// searchIssue is one issue in a search response. Description stays raw
// because Jira returns either a plain string (API v2) or an ADF
// document (API v3).
type searchIssue struct {
	Key    string       `json:"key"`
	Fields searchFields `json:"fields"`
}

type searchFields struct {
	Summary     string          `json:"summary"`
	Status      named           `json:"status"`
	Priority    *named          `json:"priority"`
	Project     named           `json:"project"`
	IssueType   named           `json:"issuetype"`
	Assignee    *user           `json:"assignee"`
	Created     string          `json:"created"`
	Updated     string          `json:"updated"`
	Description json.RawMessage `json:"description"`
}

// searchResponse is the body of POST /rest/api/3/search/jql.
type searchResponse struct {
	Issues []searchIssue `json:"issues"`
}

// issueEnvelope is the get-by-id response with expand=names. Fields is
// kept raw so custom fields (the dynamically-named sprint field in
// particular) can be located via the names map.
type issueEnvelope struct {
	Key    string                     `json:"key"`
	Names  map[string]string          `json:"names"`
	Fields map[string]json.RawMessage `json:"fields"`
}

// CreatedIssue is the response to a create call.
type CreatedIssue struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// Transition is one entry of the list-transitions response.
type Transition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type transitionsResponse struct {
	Transitions []Transition `json:"transitions"`
}

// Board is a Scrum or Kanban board from the agile API.
type Board struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type boardsResponse struct {
	Values []Board `json:"values"`
}

// Sprint is a sprint from the agile API.
type Sprint struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	State     string `json:"state"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	// BoardID is the board the sprint was fetched from, not part of the
	// wire payload.
	BoardID int `json:"-"`
}

type sprintsResponse struct {
	Values []Sprint `json:"values"`
}

// comment is one entry of an issue's comment list. Body stays raw for
// the same string-or-document reason as descriptions.
type comment struct {
	Author  user            `json:"author"`
	Created string          `json:"created"`
	Body    json.RawMessage `json:"body"`
}

type commentList struct {
	Comments []comment `json:"comments"`
}

// parentRef is the parent (epic) sub-object on an issue.
type parentRef struct {
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
	} `json:"fields"`
}

// sprintValue is one sprint entry inside a sprint custom field.
type sprintValue struct {
	Name  string `json:"name"`
	State string `json:"state"`
}
