package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"appforge/internal/gateway/handler"
	artifactrepo "appforge/internal/gateway/repository/artifact"
	projectrepo "appforge/internal/gateway/repository/project"
	"appforge/internal/gateway/server"
	projectuc "appforge/internal/gateway/usecase/project"
	"appforge/internal/health"
	"appforge/internal/ledger"
	"appforge/internal/session"
	"appforge/internal/tools"
)

func newTestServer(t *testing.T, probes ...health.Probe) (*httptest.Server, *projectuc.Service) {
	t.Helper()

	store := projectrepo.NewMemoryStore()
	sessions := session.NewManager()
	projects := projectuc.New(store, sessions)

	reg := tools.NewRegistry(tools.NewDocsSearchTool())
	toolset := tools.NewInstrumented(reg, ledger.NewRecorder(ledger.NewMemoryStore()))

	svc := handler.NewService(
		projects,
		artifactrepo.NewMemoryStore(),
		toolset,
		health.NewAggregator(probes...),
		nil,
	)
	ts := httptest.NewServer(server.NewMux(svc))
	t.Cleanup(ts.Close)
	return ts, projects
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestProjectLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/projects", map[string]string{
		"name":        "todo app",
		"description": "a small list",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[projectrepo.Project](t, resp)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "todo app", created.Name)

	resp = doJSON(t, http.MethodGet, ts.URL+"/projects/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[projectrepo.Project](t, resp)
	require.Equal(t, created.ID, got.ID)

	newName := "todo app v2"
	resp = doJSON(t, http.MethodPatch, ts.URL+"/projects/"+created.ID, map[string]*string{
		"name": &newName,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[projectrepo.Project](t, resp)
	require.Equal(t, newName, updated.Name)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/projects/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, ts.URL+"/projects/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateProjectValidation(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/projects", map[string]string{"name": "   "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	require.Equal(t, "name", body["field"])
}

func TestGetMissingProjectIs404(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		resp := doJSON(t, method, ts.URL+"/projects/nope", nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode, method)
		resp.Body.Close()
	}
}

func TestUpdateRejectsUnknownFields(t *testing.T) {
	ts, projects := newTestServer(t)
	p, err := projects.Create(t.Context(), "app", "")
	require.NoError(t, err)

	resp := doJSON(t, http.MethodPatch, ts.URL+"/projects/"+p.ID, map[string]string{
		"owner": "someone",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestProjectStateReflectsToolOutputs(t *testing.T) {
	ts, projects := newTestServer(t)
	p, err := projects.Create(t.Context(), "app", "")
	require.NoError(t, err)

	out := json.RawMessage(`{"success":true,"previewUrl":"https://preview.dev/abc"}`)
	err = projects.AppendMessage(t.Context(), p.ID, session.Message{
		ID:   "m1",
		Role: session.RoleAssistant,
		Parts: []session.Part{{
			Type:       "tool-generateApp",
			ToolCallID: "call-1",
			State:      session.PartStateOutputAvailable,
			Output:     out,
		}},
	})
	require.NoError(t, err)

	resp := doJSON(t, http.MethodGet, ts.URL+"/projects/"+p.ID+"/state", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decode[session.DerivedState](t, resp)
	require.Equal(t, "https://preview.dev/abc", state.LatestPreviewURL)
}

func TestArtifactRoundTrip(t *testing.T) {
	ts, projects := newTestServer(t)
	p, err := projects.Create(t.Context(), "app", "")
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut,
		ts.URL+"/projects/"+p.ID+"/artifacts/src/App.tsx",
		strings.NewReader("export default function App() {}"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, ts.URL+"/projects/"+p.ID+"/artifacts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listing := decode[map[string][]string](t, resp)
	require.Equal(t, []string{"src/App.tsx"}, listing["artifacts"])

	resp = doJSON(t, http.MethodGet, ts.URL+"/projects/"+p.ID+"/artifacts/src/App.tsx", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, ts.URL+"/projects/"+p.ID+"/artifacts/missing.txt", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestAppendContext(t *testing.T) {
	ts, projects := newTestServer(t)
	p, err := projects.Create(t.Context(), "app", "")
	require.NoError(t, err)

	resp := doJSON(t, http.MethodPost, ts.URL+"/projects/"+p.ID+"/context", map[string]any{
		"content": map[string]string{"requirement": "dark mode"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, ts.URL+"/projects/"+p.ID+"/context", map[string]any{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCallToolRoutes(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/tools/docs.search", map[string]any{
		"projectId": "p1",
		"input":     map[string]string{"query": "deploy"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/tools/no.such.tool", map[string]any{})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestListTools(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/tools", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string][]tools.ToolSpec](t, resp)
	require.NotEmpty(t, body["tools"])
}

func TestChatRejectsEmptyHistory(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/chat", map[string]any{
		"projectId": "p1",
		"model":     "google/gemini-2.0-flash",
		"messages":  []any{},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestChatWithoutProviderIs503(t *testing.T) {
	ts, projects := newTestServer(t)
	p, err := projects.Create(t.Context(), "app", "")
	require.NoError(t, err)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/chat", map[string]any{
		"projectId": p.ID,
		"model":     "google/gemini-2.0-flash",
		"messages": []session.Message{{
			ID:    "m1",
			Role:  session.RoleUser,
			Parts: []session.Part{{Type: "text", Text: "build me a todo app"}},
		}},
	})
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp.Body.Close()

	// The user's turn was persisted even though no provider answered.
	_, msgs, err := projects.GetWithMessages(t.Context(), p.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
}

func TestChatAcceptsFlatContentField(t *testing.T) {
	ts, projects := newTestServer(t)
	p, err := projects.Create(t.Context(), "app", "")
	require.NoError(t, err)

	// Clients send a flat content string on each message alongside parts.
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/chat", map[string]any{
		"projectId": p.ID,
		"model":     "google/gemini-2.0-flash",
		"messages": []map[string]any{{
			"id":      "m1",
			"role":    "user",
			"content": "build me a todo app",
			"parts":   []map[string]string{{"type": "text", "text": "build me a todo app"}},
		}},
	})
	require.NotEqual(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp.Body.Close()

	_, msgs, err := projects.GetWithMessages(t.Context(), p.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "build me a todo app", msgs[0].Parts[0].Text)

	// content alone, with no parts, still produces a text part.
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/chat", map[string]any{
		"projectId": p.ID,
		"model":     "google/gemini-2.0-flash",
		"messages": []map[string]any{{
			"id":      "m2",
			"role":    "user",
			"content": "add dark mode",
		}},
	})
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp.Body.Close()

	_, msgs, err = projects.GetWithMessages(t.Context(), p.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, "add dark mode", msgs[1].Parts[0].Text)
}

func TestReadyEndpoint(t *testing.T) {
	cases := []struct {
		name   string
		status health.Status
		want   int
	}{
		{"healthy", health.StatusHealthy, http.StatusOK},
		{"unhealthy critical", health.StatusUnhealthy, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			probe := health.Probe{
				Name:     "storage",
				Critical: true,
				Check: func(_ context.Context) health.CheckResult {
					return health.CheckResult{Status: tc.status}
				},
			}
			ts, _ := newTestServer(t, probe)
			resp := doJSON(t, http.MethodGet, ts.URL+"/health/ready", nil)
			require.Equal(t, tc.want, resp.StatusCode)
			report := decode[health.Report](t, resp)
			if tc.want == http.StatusOK {
				require.Equal(t, health.VerdictReady, report.Status)
			} else {
				require.Equal(t, health.VerdictNotReady, report.Status)
			}
		})
	}
}

func TestCORSHeaders(t *testing.T) {
	ts, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/projects", strings.NewReader(""))
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Methods"))
}
