package jira

import (
	"encoding/json"
	"sort"
	"strings"
)

// PreviewLimit caps description previews on similarity candidates.
const PreviewLimit = 200

// Ticket is the flat projection of a search result issue.
type Ticket struct {
	Key      string
	Summary  string
	Status   string
	Priority string
	Project  string
	Type     string
	Assignee string
	Created  string
	Updated  string
	// Description is the full flattened description text.
	Description string
	URL         string
}

// DescriptionPreview returns the description truncated to PreviewLimit
// characters. The ellipsis marker is appended only when text was
// actually cut.
func (t Ticket) DescriptionPreview() string {
	return Preview(t.Description)
}

// Preview truncates s to PreviewLimit characters, appending "..." only
// when text was actually cut. Counted in runes so multibyte text is
// neither over-truncated nor split mid-character.
func Preview(s string) string {
	runes := []rune(s)
	if len(runes) > PreviewLimit {
		return string(runes[:PreviewLimit]) + "..."
	}
	return s
}

func newTicket(issue searchIssue, host string) Ticket {
	f := issue.Fields
	t := Ticket{
		Key:         issue.Key,
		Summary:     f.Summary,
		Status:      f.Status.Name,
		Project:     f.Project.Name,
		Type:        f.IssueType.Name,
		Created:     f.Created,
		Updated:     f.Updated,
		Description: FlattenDocument(f.Description),
		URL:         host + "/browse/" + issue.Key,
	}
	if f.Priority != nil {
		t.Priority = f.Priority.Name
	}
	if f.Assignee != nil {
		t.Assignee = f.Assignee.DisplayName
	}
	return t
}

// Comment is a flattened issue comment.
type Comment struct {
	Author  string
	Created string
	Body    string
}

// TicketDetails is the flat projection of a full get-by-id response.
type TicketDetails struct {
	Key                  string
	Summary              string
	Status               string
	AvailableTransitions []string
	Priority             string
	Project              string
	Type                 string
	Sprint               string
	EpicKey              string
	EpicSummary          string
	Labels               []string
	Assignee             string
	Reporter             string
	Created              string
	Updated              string
	Description          string
	Comments             []Comment
	URL                  string
}

// field decodes one raw field from the envelope into out; absent or
// malformed fields are simply left at their zero value.
func field(fields map[string]json.RawMessage, name string, out any) bool {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func newTicketDetails(envelope issueEnvelope, host string) *TicketDetails {
	f := envelope.Fields
	d := &TicketDetails{
		Key: envelope.Key,
		URL: host + "/browse/" + envelope.Key,
	}

	field(f, "summary", &d.Summary)
	field(f, "created", &d.Created)
	field(f, "updated", &d.Updated)
	field(f, "labels", &d.Labels)

	var n named
	if field(f, "status", &n) {
		d.Status = n.Name
	}
	if field(f, "priority", &n) {
		d.Priority = n.Name
	}
	if field(f, "project", &n) {
		d.Project = n.Name
	}
	if field(f, "issuetype", &n) {
		d.Type = n.Name
	}

	var u user
	if field(f, "assignee", &u) {
		d.Assignee = u.DisplayName
	}
	u = user{}
	if field(f, "reporter", &u) {
		d.Reporter = u.DisplayName
	}

	if raw, ok := f["description"]; ok {
		d.Description = strings.TrimSpace(FlattenDocument(raw))
	}

	var parent parentRef
	if field(f, "parent", &parent) {
		d.EpicKey = parent.Key
		d.EpicSummary = parent.Fields.Summary
	}

	var comments commentList
	if field(f, "comment", &comments) {
		for _, c := range comments.Comments {
			d.Comments = append(d.Comments, Comment{
				Author:  c.Author.DisplayName,
				Created: c.Created,
				Body:    FlattenDocument(c.Body),
			})
		}
	}

	d.Sprint = sprintName(envelope)
	return d
}

// sprintName locates the sprint custom field by scanning the expanded
// field names for one containing "sprint". The field id varies per Jira
// instance, so it cannot be hardcoded on the read path. An active
// sprint is preferred when the issue belongs to several. Candidate
// field ids are visited in sorted order so the pick is stable when
// several field names match.
func sprintName(envelope issueEnvelope) string {
	var ids []string
	for id, name := range envelope.Names {
		if strings.Contains(strings.ToLower(name), "sprint") {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	for _, id := range ids {
		raw, ok := envelope.Fields[id]
		if !ok || string(raw) == "null" {
			continue
		}

		var values []sprintValue
		if err := json.Unmarshal(raw, &values); err == nil {
			picked := ""
			for _, s := range values {
				if s.State == "active" {
					return s.Name
				}
				if picked == "" {
					picked = s.Name
				}
			}
			if picked != "" {
				return picked
			}
			continue
		}

		var single sprintValue
		if err := json.Unmarshal(raw, &single); err == nil && single.Name != "" {
			return single.Name
		}
	}
	return ""
}
