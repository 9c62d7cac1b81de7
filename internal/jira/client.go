// Package jira is a typed client for the Jira Cloud REST API and the
// agile board API family. Responses are normalized into flat records
// (see normalize.go); queries are built with the JQL builder (jql.go).
//
// The client performs no caching, no rate limiting and no retries: a
// non-2xx response surfaces immediately as an *APIError.
package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// defaultTimeout bounds every call except full-text search.
	defaultTimeout = 30 * time.Second
	// searchTimeout is longer because Jira's full-text index is the
	// slowest path the server touches.
	searchTimeout = 60 * time.Second
)

// searchFieldList is the field set requested on every search; the
// normalizer knows how to read exactly these.
var searchFieldList = []string{
	"summary", "status", "priority", "created", "updated",
	"project", "issuetype", "assignee", "description",
}

// APIError is any non-success HTTP response from Jira. It carries the
// status code and raw body so the caller sees exactly what Jira said.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Jira API error %d: %s", e.StatusCode, e.Body)
}

// TransitionError reports a transition name that matched none of the
// transitions currently available on the issue.
type TransitionError struct {
	Name      string
	Available []string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition %q not found. Available: %s", e.Name, strings.Join(e.Available, ", "))
}

// Client talks to one Jira instance with basic auth on every call.
type Client struct {
	host       string
	authHeader string

	http   *http.Client
	search *http.Client
}

// NewClient builds a client for the given host and credential pair.
func NewClient(host, email, apiToken string) *Client {
	credentials := base64.StdEncoding.EncodeToString([]byte(email + ":" + apiToken))
	return &Client{
		host:       strings.TrimRight(host, "/"),
		authHeader: "Basic " + credentials,
		http:       &http.Client{Timeout: defaultTimeout},
		search:     &http.Client{Timeout: searchTimeout},
	}
}

// BrowseURL returns the human-facing URL for an issue key.
func (c *Client) BrowseURL(key string) string {
	return c.host + "/browse/" + key
}

// do executes one request and returns the response body. Any non-2xx
// status becomes an *APIError.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, query url.Values, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	u := c.host + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

// Search runs a JQL query and returns normalized tickets. This is the
// only call using the longer search timeout.
func (c *Client) Search(ctx context.Context, jql string, maxResults int) ([]Ticket, error) {
	body := map[string]any{
		"jql":        jql,
		"maxResults": maxResults,
		"fields":     searchFieldList,
	}
	data, err := c.do(ctx, c.search, http.MethodPost, "/rest/api/3/search/jql", nil, body)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	tickets := make([]Ticket, 0, len(resp.Issues))
	for _, issue := range resp.Issues {
		tickets = append(tickets, newTicket(issue, c.host))
	}
	return tickets, nil
}

// SimilarOptions tunes a similarity search.
type SimilarOptions struct {
	// MaxResults caps the result count; <= 0 means DefaultSimilarResults.
	MaxResults int
	// IncludeDone keeps completed issues in the results.
	IncludeDone bool
	// Project scopes the search to one project key.
	Project string
	// ProjectKeys scopes the search to the configured allowlist when no
	// explicit Project is given.
	ProjectKeys []string
}

// DefaultSimilarResults is the similarity search result cap used when
// the caller does not specify one.
const DefaultSimilarResults = 10

// SearchSimilar runs a fuzzy full-text search for issues resembling
// text, used for duplicate detection before creation.
func (c *Client) SearchSimilar(ctx context.Context, text string, opts SimilarOptions) ([]Ticket, error) {
	max := opts.MaxResults
	if max <= 0 {
		max = DefaultSimilarResults
	}

	q := NewQuery().Text(text)
	if !opts.IncludeDone {
		q.NotDone()
	}
	if opts.Project != "" {
		q.Project(opts.Project)
	} else {
		q.ProjectIn(opts.ProjectKeys)
	}

	return c.Search(ctx, q.String(), max)
}

// GetIssue fetches one issue with all fields plus field display names,
// and the transitions currently available on it, normalized into a
// TicketDetails.
func (c *Client) GetIssue(ctx context.Context, key string) (*TicketDetails, error) {
	params := url.Values{}
	params.Set("fields", "*all")
	params.Set("expand", "names")

	data, err := c.do(ctx, c.http, http.MethodGet, "/rest/api/2/issue/"+key, params, nil)
	if err != nil {
		return nil, err
	}

	var envelope issueEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decoding issue %s: %w", key, err)
	}

	// Transition availability is best-effort detail: a failure here
	// should not hide the issue itself.
	var transitionNames []string
	if transitions, err := c.Transitions(ctx, key); err == nil {
		for _, t := range transitions {
			transitionNames = append(transitionNames, t.Name)
		}
	}

	details := newTicketDetails(envelope, c.host)
	details.AvailableTransitions = transitionNames
	return details, nil
}

// CreateIssue creates an issue from a field map keyed by schema field
// name and returns its id and key.
func (c *Client) CreateIssue(ctx context.Context, fields map[string]any) (CreatedIssue, error) {
	data, err := c.do(ctx, c.http, http.MethodPost, "/rest/api/3/issue", nil, map[string]any{"fields": fields})
	if err != nil {
		return CreatedIssue{}, err
	}
	var created CreatedIssue
	if err := json.Unmarshal(data, &created); err != nil {
		return CreatedIssue{}, fmt.Errorf("decoding create response: %w", err)
	}
	return created, nil
}

// UpdateIssue applies a partial field map to an existing issue.
func (c *Client) UpdateIssue(ctx context.Context, key string, fields map[string]any) error {
	_, err := c.do(ctx, c.http, http.MethodPut, "/rest/api/3/issue/"+key, nil, map[string]any{"fields": fields})
	return err
}

// Transitions lists the transitions currently available on an issue.
func (c *Client) Transitions(ctx context.Context, key string) ([]Transition, error) {
	data, err := c.do(ctx, c.http, http.MethodGet, "/rest/api/3/issue/"+key+"/transitions", nil, nil)
	if err != nil {
		return nil, err
	}
	var resp transitionsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding transitions: %w", err)
	}
	return resp.Transitions, nil
}

// Transition moves an issue to the transition matching name
// case-insensitively. An unmatched name returns a *TransitionError
// listing the valid alternatives so the caller can retry.
func (c *Client) Transition(ctx context.Context, key, name string) error {
	transitions, err := c.Transitions(ctx, key)
	if err != nil {
		return err
	}

	var id string
	available := make([]string, 0, len(transitions))
	for _, t := range transitions {
		available = append(available, t.Name)
		if strings.EqualFold(t.Name, name) {
			id = t.ID
			break
		}
	}
	if id == "" {
		return &TransitionError{Name: name, Available: available}
	}

	body := map[string]any{"transition": map[string]string{"id": id}}
	_, err = c.do(ctx, c.http, http.MethodPost, "/rest/api/3/issue/"+key+"/transitions", nil, body)
	return err
}

// AddComment posts an ADF-wrapped comment and returns its id.
func (c *Client) AddComment(ctx context.Context, key, text string) (string, error) {
	data, err := c.do(ctx, c.http, http.MethodPost, "/rest/api/3/issue/"+key+"/comment", nil,
		map[string]any{"body": Document(text)})
	if err != nil {
		return "", err
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("decoding comment response: %w", err)
	}
	return resp.ID, nil
}

// Myself returns the caller's account id, needed for self-assignment.
func (c *Client) Myself(ctx context.Context) (string, error) {
	data, err := c.do(ctx, c.http, http.MethodGet, "/rest/api/3/myself", nil, nil)
	if err != nil {
		return "", err
	}
	var me user
	if err := json.Unmarshal(data, &me); err != nil {
		return "", fmt.Errorf("decoding myself response: %w", err)
	}
	return me.AccountID, nil
}

// Boards lists the agile boards for a project.
func (c *Client) Boards(ctx context.Context, projectKey string) ([]Board, error) {
	params := url.Values{}
	params.Set("projectKeyOrId", projectKey)

	data, err := c.do(ctx, c.http, http.MethodGet, "/rest/agile/1.0/board", params, nil)
	if err != nil {
		return nil, err
	}
	var resp boardsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding boards: %w", err)
	}
	return resp.Values, nil
}

// Sprints lists a board's sprints in the given states
// ("active,future" or "active,future,closed").
func (c *Client) Sprints(ctx context.Context, boardID int, states string) ([]Sprint, error) {
	params := url.Values{}
	params.Set("state", states)

	data, err := c.do(ctx, c.http, http.MethodGet, fmt.Sprintf("/rest/agile/1.0/board/%d/sprint", boardID), params, nil)
	if err != nil {
		return nil, err
	}
	var resp sprintsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding sprints: %w", err)
	}
	sprints := resp.Values
	for i := range sprints {
		sprints[i].BoardID = boardID
	}
	return sprints, nil
}
