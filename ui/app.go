package ui

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"onlinefdr/app"
	"onlinefdr/domain/core"
	"onlinefdr/domain/stream"
	"onlinefdr/internal/errors"
)

// App is the JSON API application
type App struct {
	router  *chi.Mux
	service *app.ScreeningService
}

// NewApp creates a new API application around the screening service
func NewApp(service *app.ScreeningService) *App {
	a := &App{
		router:  chi.NewRouter(),
		service: service,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Post("/api/runs/async", a.handleRunAsync)
	a.router.Post("/api/runs/dependent", a.handleRunDependent)
	a.router.Post("/api/runs/batch", a.handleRunBatch)
	a.router.Get("/api/runs", a.handleListRuns)
	a.router.Get("/api/runs/{id}", a.handleGetRun)
}

// Router exposes the configured router for mounting and tests
func (a *App) Router() http.Handler {
	return a.router
}

// Start starts the HTTP server on the given address
func (a *App) Start(addr string) error {
	return http.ListenAndServe(addr, a.router)
}

func (a *App) handleRunAsync(w http.ResponseWriter, r *http.Request) {
	var req stream.AsyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidInput("malformed request body"))
		return
	}
	artifact, err := a.service.RunAsync(r.Context(), req, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, artifact)
}

func (a *App) handleRunDependent(w http.ResponseWriter, r *http.Request) {
	var req stream.DependentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidInput("malformed request body"))
		return
	}
	artifact, err := a.service.RunDependent(r.Context(), req, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, artifact)
}

func (a *App) handleRunBatch(w http.ResponseWriter, r *http.Request) {
	var req stream.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidInput("malformed request body"))
		return
	}
	artifact, err := a.service.RunBatch(r.Context(), req, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, artifact)
}

func (a *App) handleListRuns(w http.ResponseWriter, r *http.Request) {
	artifacts, err := a.service.ListRuns(r.Context(), 100)
	if err != nil {
		writeError(w, err)
		return
	}
	if artifacts == nil {
		artifacts = []*stream.RunArtifact{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  artifacts,
		"count": len(artifacts),
	})
}

func (a *App) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errors.InvalidInput(err.Error()))
		return
	}
	artifact, err := a.service.GetRun(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artifact)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), map[string]string{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

func statusForError(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
