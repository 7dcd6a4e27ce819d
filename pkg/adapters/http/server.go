package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/cadence/internal/control"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

//go:embed openapi.yaml
var rawSpec []byte

// RequestIDHeader carries the id of a request in both directions.
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// Server exposes a Controller as a JSON API. Every request is validated
// against the embedded OpenAPI document before it reaches a handler.
type Server struct {
	Controller *control.Controller
	logger     *slog.Logger
	metrics    http.Handler
}

// Option configures the handler returned by NewHandler.
type Option func(*Server)

// WithLogger sets the logger for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates a new HTTP handler for the controller.
func NewHandler(c *control.Controller, opts ...Option) (http.Handler, error) {
	s := &Server{
		Controller: c,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(validateRequests(router))
		r.Get("/definitions", s.ListDefinitions)
		r.Post("/definitions/{id}/reload", s.ReloadDefinition)
		r.Get("/animations/{id}/timeline", s.CompileAnimation)
		r.Post("/animations/{id}/player", s.CreatePlayer)
		r.Delete("/animations/{id}/player", s.DestroyPlayer)
		r.Post("/animations/{id}/player/commands", s.CommandPlayer)
		r.Get("/triggers/{name}/state", s.GetState)
		r.Put("/triggers/{name}/state", s.SetState)
		r.Post("/flush", s.Flush)
	})
	return r, nil
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func validateRequests(router routers.Router) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				status := http.StatusNotFound
				if errors.Is(err, routers.ErrMethodNotAllowed) {
					status = http.StatusMethodNotAllowed
				}
				writeError(w, r, status, err)
				return
			}
			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				writeError(w, r, http.StatusBadRequest, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type createRequest struct {
	Selector string         `json:"selector"`
	Params   map[string]any `json:"params"`
}

type commandRequest struct {
	Command  string  `json:"command"`
	Position float64 `json:"position"`
}

type stateRequest struct {
	Selector string         `json:"selector"`
	State    string         `json:"state"`
	Params   map[string]any `json:"params"`
}

// ListDefinitions handles GET /definitions.
func (s *Server) ListDefinitions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Controller.Definitions())
}

// ReloadDefinition handles POST /definitions/{id}/reload.
func (s *Server) ReloadDefinition(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathParam(w, r, "id")
	if !ok {
		return
	}
	if err := s.Controller.Reload(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CompileAnimation handles GET /animations/{id}/timeline.
func (s *Server) CompileAnimation(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathParam(w, r, "id")
	if !ok {
		return
	}
	var selector string
	if err := runtime.BindQueryParameter("form", true, false, "selector", r.URL.Query(), &selector); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	tl, err := s.Controller.Compile(r.Context(), id, selector, nil)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tl)
}

// CreatePlayer handles POST /animations/{id}/player.
func (s *Server) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathParam(w, r, "id")
	if !ok {
		return
	}
	var body createRequest
	if !decode(w, r, &body) {
		return
	}
	info, err := s.Controller.Create(r.Context(), id, body.Selector, body.Params)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

// DestroyPlayer handles DELETE /animations/{id}/player.
func (s *Server) DestroyPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathParam(w, r, "id")
	if !ok {
		return
	}
	if err := s.Controller.Destroy(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CommandPlayer handles POST /animations/{id}/player/commands.
func (s *Server) CommandPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathParam(w, r, "id")
	if !ok {
		return
	}
	var body commandRequest
	if !decode(w, r, &body) {
		return
	}
	if err := s.Controller.Command(r.Context(), id, body.Command, body.Position); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetState handles GET /triggers/{name}/state.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	name, ok := s.pathParam(w, r, "name")
	if !ok {
		return
	}
	var selector string
	if err := runtime.BindQueryParameter("form", true, false, "selector", r.URL.Query(), &selector); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	info, err := s.Controller.State(name, selector)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// SetState handles PUT /triggers/{name}/state.
func (s *Server) SetState(w http.ResponseWriter, r *http.Request) {
	name, ok := s.pathParam(w, r, "name")
	if !ok {
		return
	}
	var body stateRequest
	if !decode(w, r, &body) {
		return
	}
	info, err := s.Controller.SetState(r.Context(), name, body.Selector, body.State, body.Params)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// Flush handles POST /flush.
func (s *Server) Flush(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"flushed": s.Controller.Flush()})
}

func (s *Server) pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return "", false
	}
	return v, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.DebugContext(r.Context(), "request rejected", "path", r.URL.Path, "err", err)
	}
	writeError(w, r, status, err)
}

func statusFor(err error) int {
	var buildErr *domain.BuildError
	switch {
	case errors.Is(err, domain.ErrPlayerNotFound),
		errors.Is(err, domain.ErrDefinitionNotFound),
		errors.Is(err, domain.ErrTriggerNotFound),
		errors.Is(err, control.ErrElementNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidDefinition), errors.As(err, &buildErr):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	writeJSON(w, status, map[string]string{"error": err.Error(), "request_id": id})
}
