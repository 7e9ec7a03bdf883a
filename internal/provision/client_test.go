package provision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "secret-key"

// fakeServer is an in-memory stand-in for the provisioning API.
type fakeServer struct {
	mu             sync.Mutex
	teams          []map[string]any
	projects       []map[string]any
	teamCreates    int
	projectCreates int
	detailCalls    int
	failStatus     int
}

func (f *fakeServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(BasePath+"/teams/", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorize(w, r) {
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{"results": f.teams})
		case http.MethodPost:
			var body map[string]any
			if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
				return
			}
			assert.Equal(t, "joinable", body["visibility"])
			f.teamCreates++
			team := map[string]any{"id": "team-" + strconv.Itoa(f.teamCreates), "name": body["name"]}
			f.teams = append(f.teams, team)
			writeJSON(w, http.StatusCreated, team)
		}
	})
	mux.HandleFunc(BasePath+"/projects/", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorize(w, r) {
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		rest := strings.TrimPrefix(r.URL.Path, BasePath+"/projects/")
		switch {
		case r.Method == http.MethodGet && rest == "":
			team := r.URL.Query().Get("team")
			var out []map[string]any
			for _, p := range f.projects {
				if team == "" || p["team"] == team {
					out = append(out, map[string]any{"id": p["id"], "team": p["team"], "name": p["name"]})
				}
			}
			writeJSON(w, http.StatusOK, map[string]any{"results": out})
		case r.Method == http.MethodGet:
			f.detailCalls++
			id := strings.TrimSuffix(rest, "/")
			for _, p := range f.projects {
				if strconv.Itoa(int(p["id"].(float64))) == id {
					writeJSON(w, http.StatusOK, p)
					return
				}
			}
			writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Not found."})
		case r.Method == http.MethodPost:
			var body map[string]any
			if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
				return
			}
			assert.Equal(t, "team_members", body["visibility"])
			f.projectCreates++
			id := float64(len(f.projects) + 1)
			p := map[string]any{
				"id":   id,
				"team": body["team"],
				"name": body["name"],
				"dsn":  "https://key" + strconv.Itoa(int(id)) + "@errors.example.com/" + strconv.Itoa(int(id)),
			}
			f.projects = append(f.projects, p)
			writeJSON(w, http.StatusCreated, map[string]any{"id": id, "team": body["team"], "name": body["name"]})
		}
	})
	return mux
}

func (f *fakeServer) authorize(w http.ResponseWriter, r *http.Request) bool {
	if f.failStatus != 0 {
		writeJSON(w, f.failStatus, map[string]any{"detail": "boom"})
		return false
	}
	if r.Header.Get("Authorization") != "Bearer "+testKey {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Invalid token."})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T) (*Client, *fakeServer) {
	t.Helper()
	fake := &fakeServer{}
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, testKey)
	require.NoError(t, err)
	return c, fake
}

func TestNewValidatesInput(t *testing.T) {
	_, err := New("", testKey)
	assert.Error(t, err)

	_, err = New("errors.example.com", "")
	assert.Error(t, err)

	c, err := New("errors.example.com/", testKey)
	require.NoError(t, err)
	assert.Equal(t, "https://errors.example.com", c.BaseURL())
}

func TestTestConnection(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	assert.True(t, c.TestConnection(ctx))

	fake.failStatus = http.StatusInternalServerError
	assert.False(t, c.TestConnection(ctx))
}

func TestTestConnectionWrongKey(t *testing.T) {
	_, fake := newTestClient(t)
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	c, err := New(srv.URL, "wrong")
	require.NoError(t, err)
	assert.False(t, c.TestConnection(context.Background()))
}

func TestUnreachableHostIsNoResult(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, testKey, WithTimeout(time.Second))
	require.NoError(t, err)
	ctx := context.Background()

	assert.False(t, c.TestConnection(ctx))
	assert.Empty(t, c.ListTeams(ctx))
	_, ok := c.CreateTeam(ctx, "x")
	assert.False(t, ok)
	_, ok = c.GetOrCreateProject(ctx, StringID("t"), "p")
	assert.False(t, ok)
}

func TestGetOrCreateTeamIsCaseInsensitive(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	first, ok := c.GetOrCreateTeam(ctx, "MyTeam")
	require.True(t, ok)
	second, ok := c.GetOrCreateTeam(ctx, "myteam")
	require.True(t, ok)

	assert.Equal(t, 1, fake.teamCreates)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "MyTeam", second.Name)
}

func TestGetOrCreateProjectFetchesDetails(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	team, ok := c.GetOrCreateTeam(ctx, "Platform")
	require.True(t, ok)

	created, ok := c.GetOrCreateProject(ctx, team.ID, "Billing")
	require.True(t, ok)
	assert.Equal(t, "https://key1@errors.example.com/1", created.DSN)
	assert.Equal(t, 1, fake.detailCalls)

	found, ok := c.GetOrCreateProject(ctx, team.ID, "BILLING")
	require.True(t, ok)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, created.DSN, found.DSN)
	assert.Equal(t, 1, fake.projectCreates)
	assert.Equal(t, 2, fake.detailCalls)
}

func TestProjectsAreScopedToTeam(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	a, _ := c.GetOrCreateTeam(ctx, "A")
	b, _ := c.GetOrCreateTeam(ctx, "B")
	_, ok := c.GetOrCreateProject(ctx, a.ID, "api")
	require.True(t, ok)
	_, ok = c.GetOrCreateProject(ctx, b.ID, "api")
	require.True(t, ok)

	assert.Equal(t, 2, fake.projectCreates)
	assert.Len(t, c.ListProjects(ctx, a.ID), 1)
}

func TestCreateFailureIsNoResult(t *testing.T) {
	c, fake := newTestClient(t)
	fake.failStatus = http.StatusBadRequest

	_, ok := c.CreateTeam(context.Background(), "x")

	assert.False(t, ok)
}

func TestIDRoundTrip(t *testing.T) {
	var ids []ID
	require.NoError(t, json.Unmarshal([]byte(`["abc", 42, null]`), &ids))

	assert.Equal(t, StringID("abc"), ids[0])
	assert.Equal(t, NumericID(42), ids[1])
	assert.True(t, ids[2].IsZero())

	out, err := json.Marshal(ids[:2])
	require.NoError(t, err)
	assert.JSONEq(t, `["abc", 42]`, string(out))
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{Method: "GET", Path: "/teams/", Status: 403, Detail: "denied"}
	assert.Equal(t, "GET /teams/: status 403: denied", err.Error())
}
