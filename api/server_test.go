package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/contentmesh"
	"github.com/hupe1980/contentmesh/core"
	"github.com/hupe1980/contentmesh/tool"
)

func newTestServer(t *testing.T) (*Server, func()) {
	t.Helper()

	hookSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tools := tool.NewRegistry()
	tools.Register(tool.NewAnalytics())
	tools.Register(tool.NewDocStore())
	tools.Register(tool.NewWebhook(func(o *tool.WebhookOptions) {
		o.Endpoints = map[string]string{"social_media_scheduler": hookSrv.URL}
	}))

	mesh, err := contentmesh.New(nil, func(o *contentmesh.Options) {
		o.Tools = tools
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- mesh.Start(ctx)
	}()

	stop := func() {
		mesh.Shutdown()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("mesh did not stop")
		}
		cancel()
		hookSrv.Close()
	}

	return NewServer(mesh), stop
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestServer_Health(t *testing.T) {
	srv, stop := newTestServer(t)
	defer stop()

	rec, body := doJSON(t, srv.Handler(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "contentmesh", body["service"])
}

func TestServer_SubmitAndPollTask(t *testing.T) {
	srv, stop := newTestServer(t)
	defer stop()

	rec, body := doJSON(t, srv.Handler(), http.MethodPost, "/tasks", map[string]any{
		"agent": "content_creator",
		"type":  "create_blog_post",
		"payload": map[string]any{
			"topic": "HTTP APIs",
		},
	})
	require.Equal(t, http.StatusAccepted, rec.Code)

	taskID, ok := body["task_id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, taskID)

	deadline := time.Now().Add(5 * time.Second)
	for {
		rec, body = doJSON(t, srv.Handler(), http.MethodGet, "/tasks/"+taskID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		status := body["status"].(string)
		if core.Status(status).Terminal() {
			assert.Equal(t, string(core.StatusCompleted), status)
			assert.NotNil(t, body["result"])
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("task never reached a terminal status, last: %s", status)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestServer_SubmitValidation(t *testing.T) {
	srv, stop := newTestServer(t)
	defer stop()

	rec, _ := doJSON(t, srv.Handler(), http.MethodPost, "/tasks", map[string]any{
		"type": "create_blog_post",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, srv.Handler(), http.MethodPost, "/tasks", map[string]any{
		"agent":   "no_such_agent",
		"type":    "create_blog_post",
		"payload": map[string]any{},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_TaskNotFound(t *testing.T) {
	srv, stop := newTestServer(t)
	defer stop()

	rec, body := doJSON(t, srv.Handler(), http.MethodGet, "/tasks/unknown-id", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, body["error"])
}

func TestServer_ListTasks(t *testing.T) {
	srv, stop := newTestServer(t)
	defer stop()

	rec, body := doJSON(t, srv.Handler(), http.MethodGet, "/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, body["count"])

	rec, submitted := doJSON(t, srv.Handler(), http.MethodPost, "/tasks", map[string]any{
		"agent":   "seo_optimizer",
		"type":    "optimize_content",
		"payload": map[string]any{"content": "draft"},
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	taskID := submitted["task_id"].(string)

	rec, body = doJSON(t, srv.Handler(), http.MethodGet, "/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["count"])

	tasks, ok := body["tasks"].([]any)
	require.True(t, ok)
	require.Len(t, tasks, 1)

	entry := tasks[0].(map[string]any)
	assert.Equal(t, taskID, entry["id"])
	assert.Equal(t, "optimize_content", entry["type"])
}

func TestServer_GenerateContent(t *testing.T) {
	srv, stop := newTestServer(t)
	defer stop()

	rec, body := doJSON(t, srv.Handler(), http.MethodPost, "/content/generate", map[string]any{
		"topic":    "Edge Caching",
		"keywords": []string{"cdn", "latency"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, string(core.StatusCompleted), body["status"])
	assert.Equal(t, "create_blog_post", body["type"])

	result, ok := body["result"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, result["document_id"])

	rec, body = doJSON(t, srv.Handler(), http.MethodPost, "/content/generate", map[string]any{
		"content_type": "social",
		"topic":        "Edge Caching",
		"platform":     "twitter",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "create_social_post", body["type"])
	assert.Equal(t, string(core.StatusCompleted), body["status"])
}

func TestServer_ExecuteWorkflow(t *testing.T) {
	srv, stop := newTestServer(t)
	defer stop()

	rec, body := doJSON(t, srv.Handler(), http.MethodPost, "/workflows/execute", map[string]any{
		"workflow_name": "full_content_workflow",
		"workflow_data": map[string]any{
			"topic":    "Webhooks",
			"platform": "twitter",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, string(core.StatusCompleted), body["status"])
	steps := body["steps"].([]any)
	assert.Len(t, steps, 3)
}

func TestServer_ExecuteUnknownWorkflow(t *testing.T) {
	srv, stop := newTestServer(t)
	defer stop()

	rec, body := doJSON(t, srv.Handler(), http.MethodPost, "/workflows/execute", map[string]any{
		"workflow_name": "bogus",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "unknown_workflow", body["status"])
}

func TestServer_ListWorkflows(t *testing.T) {
	srv, stop := newTestServer(t)
	defer stop()

	rec, body := doJSON(t, srv.Handler(), http.MethodGet, "/workflows", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	workflows := body["workflows"].([]any)
	assert.Equal(t, []any{"full_content_workflow"}, workflows)
}

func TestServer_AgentStatus(t *testing.T) {
	srv, stop := newTestServer(t)
	defer stop()

	rec, body := doJSON(t, srv.Handler(), http.MethodGet, "/agents/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	agents := body["agents"].([]any)
	assert.Len(t, agents, 6)

	first := agents[0].(map[string]any)
	assert.NotEmpty(t, first["name"])
	assert.NotEmpty(t, first["type"])
}

func TestServer_IntegrationStatus(t *testing.T) {
	srv, stop := newTestServer(t)
	defer stop()

	rec, body := doJSON(t, srv.Handler(), http.MethodGet, "/integrations/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	tools := body["tools"].([]any)
	assert.ElementsMatch(t, []any{"analytics", "docstore", "webhook"}, tools)
}

func TestServer_Metrics(t *testing.T) {
	srv, stop := newTestServer(t)
	defer stop()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
