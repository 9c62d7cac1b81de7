package jira

import (
	"fmt"
	"strings"
)

// DefaultOrder is appended to every query unless overridden: results
// come back most-recently-updated first, which keeps list output stable.
const DefaultOrder = "updated DESC"

// Query builds a JQL string from AND-joined clauses.
//
// Operands are wrapped in double quotes by quote(). Embedded quote
// characters are NOT escaped — callers must not pass untrusted text
// containing quotes, or the query semantics can change.
type Query struct {
	clauses []string
	order   string
}

// NewQuery returns an empty query with the default ordering.
func NewQuery() *Query {
	return &Query{order: DefaultOrder}
}

// quote renders an operand as a JQL string literal. Centralized so an
// escaping policy, if ever added, lives in exactly one place.
func quote(operand string) string {
	return `"` + operand + `"`
}

// AssignedToCurrentUser restricts to issues assigned to the caller.
func (q *Query) AssignedToCurrentUser() *Query {
	q.clauses = append(q.clauses, "assignee = currentUser()")
	return q
}

// Unassigned restricts to issues with no assignee.
func (q *Query) Unassigned() *Query {
	q.clauses = append(q.clauses, "assignee IS EMPTY")
	return q
}

// Status restricts to a specific status name.
func (q *Query) Status(name string) *Query {
	q.clauses = append(q.clauses, "status = "+quote(name))
	return q
}

// NotDone excludes issues whose status category is "Done".
func (q *Query) NotDone() *Query {
	q.clauses = append(q.clauses, `statusCategory != "Done"`)
	return q
}

// Project restricts to a single project key.
func (q *Query) Project(key string) *Query {
	q.clauses = append(q.clauses, "project = "+quote(key))
	return q
}

// ProjectIn restricts to a set of project keys. A nil or empty set adds
// no clause.
func (q *Query) ProjectIn(keys []string) *Query {
	if len(keys) == 0 {
		return q
	}
	q.clauses = append(q.clauses, fmt.Sprintf("project IN (%s)", strings.Join(keys, ", ")))
	return q
}

// IssueType restricts to an issue type name.
func (q *Query) IssueType(name string) *Query {
	q.clauses = append(q.clauses, "issuetype = "+name)
	return q
}

// Text adds a fuzzy full-text match clause.
func (q *Query) Text(s string) *Query {
	q.clauses = append(q.clauses, "text ~ "+quote(s))
	return q
}

// Parent restricts to children of the given issue key.
func (q *Query) Parent(key string) *Query {
	q.clauses = append(q.clauses, "parent = "+quote(key))
	return q
}

// OrderBy overrides the default ordering clause.
func (q *Query) OrderBy(order string) *Query {
	q.order = order
	return q
}

// String renders the final JQL.
func (q *Query) String() string {
	return strings.Join(q.clauses, " AND ") + " ORDER BY " + q.order
}
