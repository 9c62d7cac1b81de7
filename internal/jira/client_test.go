package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "user@example.com", "secret-token")
}

func TestClient_SendsBasicAuthOnEveryCall(t *testing.T) {
	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("user@example.com:secret-token"))

	var got string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(searchResponse{})
	})

	_, err := client.Search(context.Background(), `project = "PROJ" ORDER BY updated DESC`, 10)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestClient_SearchPostsQueryBody(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"issues": []map[string]any{
				{"key": "PROJ-1", "fields": map[string]any{
					"summary": "First",
					"status":  map[string]string{"name": "To Do"},
					"project": map[string]string{"name": "Proj"},
				}},
			},
		})
	})

	tickets, err := client.Search(context.Background(), "text ~ \"x\" ORDER BY updated DESC", 5)
	require.NoError(t, err)

	assert.Equal(t, "/rest/api/3/search/jql", gotPath)
	assert.Equal(t, `text ~ "x" ORDER BY updated DESC`, gotBody["jql"])
	assert.Equal(t, float64(5), gotBody["maxResults"])
	assert.Contains(t, gotBody["fields"], "summary")
	assert.Contains(t, gotBody["fields"], "description")

	require.Len(t, tickets, 1)
	assert.Equal(t, "PROJ-1", tickets[0].Key)
	assert.Equal(t, "To Do", tickets[0].Status)
}

func TestClient_NonSuccessBecomesAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errorMessages":["bad jql"]}`))
	})

	_, err := client.Search(context.Background(), "nonsense", 5)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "bad jql")
	assert.Contains(t, apiErr.Error(), "400")
}

func TestClient_CreateIssue(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/rest/api/3/issue", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(CreatedIssue{ID: "10001", Key: "PROJ-123"})
	})

	created, err := client.CreateIssue(context.Background(), map[string]any{
		"summary": "New ticket",
		"project": map[string]string{"key": "PROJ"},
	})
	require.NoError(t, err)

	assert.Equal(t, "PROJ-123", created.Key)
	fields := gotBody["fields"].(map[string]any)
	assert.Equal(t, "New ticket", fields["summary"])
}

func TestClient_TransitionMatchesCaseInsensitively(t *testing.T) {
	var applied map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/api/3/issue/PROJ-1/transitions", r.URL.Path)
		if r.Method == http.MethodGet {
			json.NewEncoder(w).Encode(transitionsResponse{Transitions: []Transition{
				{ID: "11", Name: "To Do"},
				{ID: "21", Name: "Done"},
			}})
			return
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&applied))
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.Transition(context.Background(), "PROJ-1", "done")
	require.NoError(t, err)

	transition := applied["transition"].(map[string]any)
	assert.Equal(t, "21", transition["id"])
}

func TestClient_TransitionNotFoundListsAlternatives(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(transitionsResponse{Transitions: []Transition{
			{ID: "11", Name: "To Do"},
			{ID: "31", Name: "In Progress"},
		}})
	})

	err := client.Transition(context.Background(), "PROJ-1", "Blocked")

	var transErr *TransitionError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, "Blocked", transErr.Name)
	assert.Equal(t, []string{"To Do", "In Progress"}, transErr.Available)
	assert.Contains(t, transErr.Error(), "To Do, In Progress")
}

func TestClient_GetIssueExpandsNamesAndTransitions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/api/2/issue/PROJ-9":
			assert.Equal(t, "*all", r.URL.Query().Get("fields"))
			assert.Equal(t, "names", r.URL.Query().Get("expand"))
			json.NewEncoder(w).Encode(map[string]any{
				"key": "PROJ-9",
				"fields": map[string]any{
					"summary": "Detailed",
					"status":  map[string]string{"name": "To Do"},
				},
			})
		case "/rest/api/3/issue/PROJ-9/transitions":
			json.NewEncoder(w).Encode(transitionsResponse{Transitions: []Transition{
				{ID: "21", Name: "Done"},
			}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	details, err := client.GetIssue(context.Background(), "PROJ-9")
	require.NoError(t, err)

	assert.Equal(t, "Detailed", details.Summary)
	assert.Equal(t, []string{"Done"}, details.AvailableTransitions)
}

func TestClient_AddCommentWrapsTextInDocument(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/api/3/issue/PROJ-1/comment", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]string{"id": "5001"})
	})

	id, err := client.AddComment(context.Background(), "PROJ-1", "note")
	require.NoError(t, err)
	assert.Equal(t, "5001", id)

	body := gotBody["body"].(map[string]any)
	assert.Equal(t, "doc", body["type"])
}

func TestClient_SprintsCarryBoardID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/agile/1.0/board/7/sprint", r.URL.Path)
		assert.Equal(t, "active,future", r.URL.Query().Get("state"))
		json.NewEncoder(w).Encode(map[string]any{
			"values": []map[string]any{
				{"id": 42, "name": "Sprint 42", "state": "active"},
			},
		})
	})

	sprints, err := client.Sprints(context.Background(), 7, "active,future")
	require.NoError(t, err)

	require.Len(t, sprints, 1)
	assert.Equal(t, 42, sprints[0].ID)
	assert.Equal(t, 7, sprints[0].BoardID)
}

func TestClient_BrowseURL(t *testing.T) {
	client := NewClient("https://acme.atlassian.net/", "u", "t")
	assert.Equal(t, "https://acme.atlassian.net/browse/PROJ-1", client.BrowseURL("PROJ-1"))
}

func TestClient_ContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(searchResponse{})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, "x", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
