// Package api exposes the dispatcher over HTTP: task submission, task status
// polling, workflow execution, agent status and Prometheus metrics. It is a
// thin JSON layer over the contentmesh façade; all domain behavior lives
// below it.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hupe1980/contentmesh"
	"github.com/hupe1980/contentmesh/core"
	"github.com/hupe1980/contentmesh/logging"
)

// Options configure the HTTP server.
type Options struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// Logger receives request-level log output.
	Logger logging.Logger
	// ShutdownTimeout bounds graceful shutdown on context cancellation.
	ShutdownTimeout time.Duration
}

// Server serves the dispatcher's HTTP API.
type Server struct {
	mesh   *contentmesh.Mesh
	addr   string
	logger logging.Logger

	shutdownTimeout time.Duration
	router          chi.Router
}

// NewServer wires the routes for the given mesh.
func NewServer(mesh *contentmesh.Mesh, optFns ...func(o *Options)) *Server {
	opts := Options{
		Addr:            ":8080",
		Logger:          logging.NoOpLogger{},
		ShutdownTimeout: 10 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Server{
		mesh:            mesh,
		addr:            opts.Addr,
		logger:          opts.Logger,
		shutdownTimeout: opts.ShutdownTimeout,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/tasks", s.handleSubmitTask)
	r.Get("/tasks", s.handleListTasks)
	r.Get("/tasks/{taskID}", s.handleTaskStatus)
	r.Post("/content/generate", s.handleGenerateContent)
	r.Get("/workflows", s.handleListWorkflows)
	r.Post("/workflows/execute", s.handleExecuteWorkflow)
	r.Get("/agents/status", s.handleAgentStatus)
	r.Get("/integrations/status", s.handleIntegrationStatus)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.router = r

	return s
}

// Handler returns the underlying router (useful for tests via httptest).
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe starts the HTTP server and shuts it down gracefully when
// ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type submitTaskRequest struct {
	Agent    string         `json:"agent"`
	Type     string         `json:"type"`
	Priority int            `json:"priority,omitempty"`
	Payload  map[string]any `json:"payload"`
}

type executeWorkflowRequest struct {
	WorkflowName string         `json:"workflow_name"`
	WorkflowData map[string]any `json:"workflow_data"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "contentmesh",
	})
}

func (s *Server) handleSubmitTask(w http.ResponseWriter, r *http.Request) {
	var req submitTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Agent == "" || req.Type == "" {
		writeError(w, http.StatusBadRequest, "agent and type are required")
		return
	}

	task := core.NewTaskWithPriority(req.Type, req.Priority, req.Payload)

	taskID, err := s.mesh.SubmitTask(req.Agent, task)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrAgentNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, core.ErrAgentUnavailable):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"task_id": taskID,
		"status":  core.StatusPending,
	})
}

func (s *Server) handleListTasks(w http.ResponseWriter, _ *http.Request) {
	tasks := s.mesh.ListTasks()
	writeJSON(w, http.StatusOK, map[string]any{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// handleGenerateContent runs a single creation task synchronously and returns
// the finished snapshot. The request body is the task payload plus an
// optional content_type selecting the blog or social pipeline.
func (s *Server) handleGenerateContent(w http.ResponseWriter, r *http.Request) {
	var req map[string]any
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	taskType := "create_blog_post"
	if ct, _ := req["content_type"].(string); ct == "social" || ct == "social_post" {
		taskType = "create_social_post"
	}
	delete(req, "content_type")

	snap, err := s.mesh.GenerateContent(r.Context(), taskType, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrAgentNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, core.ErrAgentUnavailable):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusGatewayTimeout, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	snap, err := s.mesh.TaskStatus(taskID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleListWorkflows(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"workflows": s.mesh.Workflows()})
}

func (s *Server) handleExecuteWorkflow(w http.ResponseWriter, r *http.Request) {
	var req executeWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.mesh.RunWorkflow(r.Context(), req.WorkflowName, req.WorkflowData)
	if err != nil {
		// The partial trace is still useful for diagnostics.
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":  err.Error(),
			"result": result,
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAgentStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"agents": s.mesh.ListAgents()})
}

func (s *Server) handleIntegrationStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": s.mesh.Tools().Names()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
