package hubclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListLabels_Pagination(t *testing.T) {
	// 3 labels with page size 2 forces two requests.
	labels := []Label{{Name: "bug"}, {Name: "docs"}, {Name: "feature"}}
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/labels", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		page := r.URL.Query().Get("page")
		switch page {
		case "1":
			writeJSON(t, w, labels[:2])
		case "2":
			writeJSON(t, w, labels[2:])
		default:
			t.Fatalf("unexpected page %q", page)
		}
	}))
	defer srv.Close()

	c, err := New(srv.URL, "acme", "widgets", WithToken("secret"), WithPageSize(2))
	require.NoError(t, err)

	got, err := c.ListLabels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, labels, got)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestCreateMilestone_ReturnsAssignedNumber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/repos/acme/widgets/milestones", r.URL.Path)

		var payload NewMilestone
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		writeJSON(t, w, Milestone{ID: 99, Number: 4, Title: payload.Title})
	}))
	defer srv.Close()

	c, err := New(srv.URL, "acme", "widgets")
	require.NoError(t, err)

	created, err := c.CreateMilestone(context.Background(), NewMilestone{Title: "v1.0"})
	require.NoError(t, err)
	assert.Equal(t, 4, created.Number)
	assert.Equal(t, "v1.0", created.Title)
}

func TestDo_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := New(srv.URL, "acme", "widgets")
	require.NoError(t, err)

	_, err = c.ListIssues(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "not found")
}

func TestListSubIssues_Path(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/issues/7/sub_issues", r.URL.Path)
		writeJSON(t, w, []SubIssue{{ParentNumber: 7, ChildNumber: 9}})
	}))
	defer srv.Close()

	c, err := New(srv.URL, "acme", "widgets")
	require.NoError(t, err)

	subs, err := c.ListSubIssues(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, 9, subs[0].ChildNumber)
}

func TestNew_Validation(t *testing.T) {
	_, err := New("", "o", "r")
	require.Error(t, err)

	_, err = New("http://x", "", "r")
	require.Error(t, err)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("encode: %v", err)
	}
}
