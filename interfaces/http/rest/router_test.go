package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tangle-backend/application/store"
	"tangle-backend/domain/graph"
	"tangle-backend/infrastructure/config"
	"tangle-backend/infrastructure/persistence/memory"
	"tangle-backend/infrastructure/search"
	"tangle-backend/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		StorageDriver: config.DriverMemory,
		EnableMetrics: false,
		EnableCORS:    false,
	}
	registry := store.NewRegistry(func(userID string) *store.Store {
		return store.NewStore(store.Dependencies{
			Blobs:   memory.NewBlobStore(),
			Matcher: search.NewFuzzyMatcher(search.Options{}),
			Builder: graph.NewBuilder(nil),
			Logger:  zap.NewNop(),
		})
	})

	router := NewRouter(cfg, registry, nil, nil, zap.NewNop())
	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, srv *httptest.Server, method, path, userID, body string) (*http.Response, common.APIResponse) {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var envelope common.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/health", "/ready"} {
		resp, err := srv.Client().Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestAPI_MissingIdentityRejected(t *testing.T) {
	srv := newTestServer(t)

	resp, envelope := doRequest(t, srv, http.MethodGet, "/api/v1/graph", "", "")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "UNAUTHORIZED", envelope.Error.Code)
}

func TestCreateCaptureAndGetGraph(t *testing.T) {
	srv := newTestServer(t)

	// Create
	resp, envelope := doRequest(t, srv, http.MethodPost, "/api/v1/captures", "alice",
		`{"text":"Learned #rust today"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, envelope.Success)

	created := envelope.Data.(map[string]interface{})
	assert.NotEmpty(t, created["id"])
	assert.NotEmpty(t, created["createdAt"])

	// Graph reflects it
	resp, envelope = doRequest(t, srv, http.MethodGet, "/api/v1/graph", "alice", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data graph.Data
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &data))

	require.Len(t, data.Nodes, 2)
	assert.Equal(t, graph.NodeTypeCapture, data.Nodes[0].Type)
	assert.Equal(t, "Tag|rust", data.Nodes[1].ID)
	require.Len(t, data.Edges, 1)
}

func TestCreateCapture_ValidationErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing text", `{}`},
		{"not json", `{{{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, envelope := doRequest(t, srv, http.MethodPost, "/api/v1/captures", "alice", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.False(t, envelope.Success)
		})
	}
}

func TestCreateCapture_LengthLimitEnforced(t *testing.T) {
	srv := newTestServer(t)
	oversized := strings.Repeat("a", config.DefaultDynamic().Limits.MaxCaptureLength+1)

	resp, envelope := doRequest(t, srv, http.MethodPost, "/api/v1/captures", "alice",
		`{"text":"`+oversized+`"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION", envelope.Error.Code)
}

func TestImportCaptures(t *testing.T) {
	srv := newTestServer(t)

	resp, envelope := doRequest(t, srv, http.MethodPost, "/api/v1/captures/import", "alice",
		`{"captures":[{"text":"one #a"},{"text":"two #b"}]}`)

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	imported := envelope.Data.(map[string]interface{})
	assert.Equal(t, float64(2), imported["imported"])
}

func TestDeleteCapture(t *testing.T) {
	srv := newTestServer(t)

	_, envelope := doRequest(t, srv, http.MethodPost, "/api/v1/captures", "alice",
		`{"text":"to delete"}`)
	id := envelope.Data.(map[string]interface{})["id"].(string)

	resp, _ := doRequest(t, srv, http.MethodDelete, "/api/v1/captures/"+id, "alice", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, envelope = doRequest(t, srv, http.MethodGet, "/api/v1/graph", "alice", "")
	var data graph.Data
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &data))
	assert.Empty(t, data.Nodes)
}

func TestClearCaptures(t *testing.T) {
	srv := newTestServer(t)
	doRequest(t, srv, http.MethodPost, "/api/v1/captures", "alice", `{"text":"one"}`)
	doRequest(t, srv, http.MethodPost, "/api/v1/captures", "alice", `{"text":"two"}`)

	resp, envelope := doRequest(t, srv, http.MethodDelete, "/api/v1/captures", "alice", "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	cleared := envelope.Data.(map[string]interface{})
	assert.Equal(t, true, cleared["cleared"])
}

func TestSearch_FiltersByQuery(t *testing.T) {
	srv := newTestServer(t)
	doRequest(t, srv, http.MethodPost, "/api/v1/captures", "alice", `{"text":"learning #rust"}`)
	doRequest(t, srv, http.MethodPost, "/api/v1/captures", "alice", `{"text":"cooking dinner"}`)

	resp, envelope := doRequest(t, srv, http.MethodGet, "/api/v1/search?q=rust", "alice", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data graph.Data
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &data))

	captures := 0
	for _, n := range data.Nodes {
		if n.Type == graph.NodeTypeCapture {
			captures++
			assert.Contains(t, strings.ToLower(n.Text), "rust")
		}
	}
	assert.Equal(t, 1, captures)
}

func TestPublish(t *testing.T) {
	srv := newTestServer(t)
	doRequest(t, srv, http.MethodPost, "/api/v1/captures", "alice", `{"text":"shareable"}`)

	resp, envelope := doRequest(t, srv, http.MethodPost, "/api/v1/publish", "alice", "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	published := envelope.Data.(map[string]interface{})
	assert.NotEmpty(t, published["ref"])
}

func TestUsersAreIsolated(t *testing.T) {
	srv := newTestServer(t)
	doRequest(t, srv, http.MethodPost, "/api/v1/captures", "alice", `{"text":"alice's note"}`)

	_, envelope := doRequest(t, srv, http.MethodGet, "/api/v1/graph", "bob", "")

	var data graph.Data
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &data))
	assert.Empty(t, data.Nodes)
}
