package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	contentmachine "github.com/Moosa-Imran/Content-Machine-sub001"
	"github.com/Moosa-Imran/Content-Machine-sub001/api"
	"github.com/Moosa-Imran/Content-Machine-sub001/internal/logging"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/composer"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// FrameworkService is the part of framework.Service the HTTP surface needs.
type FrameworkService interface {
	Get(ctx context.Context) (domain.Framework, error)
	Save(ctx context.Context, candidate any) (domain.Framework, error)
	Reset(ctx context.Context) (domain.Framework, error)
}

// ScriptComposer produces scripts for POST /scripts.
type ScriptComposer interface {
	Compose(ctx context.Context, brief composer.Brief) (composer.Script, error)
}

// DefaultMaxBodyBytes caps request bodies accepted by PUT /framework and POST /scripts.
const DefaultMaxBodyBytes int64 = 1 << 20

// errTrailingData is returned when a request body holds more than one JSON value.
var errTrailingData = errors.New("unexpected data after JSON value")

// Server serves the framework API.
type Server struct {
	Service  FrameworkService
	Composer ScriptComposer
	Streams  *StreamManager

	logger      *slog.Logger
	metrics     http.Handler
	maxBody     int64
	spec        *openapi3.T
	inputSchema *openapi3.Schema
}

// Option configures a Server.
type Option func(*Server)

// WithComposer enables POST /scripts.
func WithComposer(c ScriptComposer) Option {
	return func(s *Server) {
		s.Composer = c
	}
}

// WithStreams shares a StreamManager whose Hooks are registered on the Service.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithLogger sets the logger used for request and error logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// NewServer builds a Server and loads the embedded OpenAPI document.
func NewServer(svc FrameworkService, opts ...Option) (*Server, error) {
	spec, err := api.Load()
	if err != nil {
		return nil, err
	}
	s := &Server{
		Service: svc,
		logger:  logging.NewNop(),
		spec:    spec,
		maxBody: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}
	if ref := spec.Components.Schemas["FrameworkInput"]; ref != nil {
		s.inputSchema = ref.Value
	}
	return s, nil
}

// NewHandler creates the HTTP handler for the framework API.
func NewHandler(svc FrameworkService, opts ...Option) (http.Handler, error) {
	s, err := NewServer(svc, opts...)
	if err != nil {
		return nil, err
	}
	return s.Routes(), nil
}

// Routes returns the router with all endpoints mounted.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/framework", s.GetFramework)
	r.Put("/framework", s.SaveFramework)
	r.Post("/framework/reset", s.ResetFramework)
	r.Get("/categories", s.ListCategories)
	r.Post("/scripts", s.ComposeScript)
	r.Get("/events", s.SubscribeEvents)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(api.RawSpec())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		}()
		next.ServeHTTP(ww, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Content Machine API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Error string   `json:"error"`
	Keys  []string `json:"keys,omitempty"`
}

// GetFramework handles GET /framework.
func (s *Server) GetFramework(w http.ResponseWriter, r *http.Request) {
	fw, err := s.Service.Get(r.Context())
	if err != nil {
		s.fail(w, r, "GetFramework", err)
		return
	}
	s.writeJSON(w, http.StatusOK, fw)
}

// SaveFramework handles PUT /framework.
func (s *Server) SaveFramework(w http.ResponseWriter, r *http.Request) {
	var body any
	if err := s.decodeBody(w, r, &body); err != nil {
		if s.tooLarge(w, r, "SaveFramework", err) {
			return
		}
		s.fail(w, r, "SaveFramework", &domain.ValidationError{Reason: fmt.Sprintf("malformed JSON body: %v", err)})
		return
	}
	if s.inputSchema != nil {
		if err := s.inputSchema.VisitJSON(body); err != nil {
			s.fail(w, r, "SaveFramework", &domain.ValidationError{Reason: schemaReason(err)})
			return
		}
	}

	fw, err := s.Service.Save(r.Context(), body)
	if err != nil {
		s.fail(w, r, "SaveFramework", err)
		return
	}
	s.writeJSON(w, http.StatusOK, fw)
}

// ResetFramework handles POST /framework/reset.
func (s *Server) ResetFramework(w http.ResponseWriter, r *http.Request) {
	fw, err := s.Service.Reset(r.Context())
	if err != nil {
		s.fail(w, r, "ResetFramework", err)
		return
	}
	s.writeJSON(w, http.StatusOK, fw)
}

// ListCategories handles GET /categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, domain.AllInfo())
}

// ComposeScript handles POST /scripts.
func (s *Server) ComposeScript(w http.ResponseWriter, r *http.Request) {
	if s.Composer == nil {
		s.writeJSON(w, http.StatusNotImplemented, errorResponse{Error: "script composition is not enabled"})
		return
	}
	var brief composer.Brief
	if err := s.decodeBody(w, r, &brief); err != nil {
		if s.tooLarge(w, r, "ComposeScript", err) {
			return
		}
		s.logger.Warn("ComposeScript: invalid request body", "error", err)
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	script, err := s.Composer.Compose(r.Context(), brief)
	switch {
	case errors.Is(err, composer.ErrInvalidBrief):
		s.logger.Warn("ComposeScript: rejected brief", "error", err)
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, composer.ErrNothingToCompose):
		s.logger.Warn("ComposeScript: empty framework", "error", err)
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case err != nil:
		s.fail(w, r, "ComposeScript", err)
	default:
		s.writeJSON(w, http.StatusOK, script)
	}
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec != nil && s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "contentmachine-http",
		"version":     contentmachine.Version,
		"api_version": apiVersion,
	})
}

// SubscribeEvents handles GET /events (SSE).
// The optional categories query parameter restricts the stream to changes touching those categories.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	watch, err := parseWatchList(r.URL.Query().Get("categories"))
	if err != nil {
		s.fail(w, r, "SubscribeEvents", err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming not supported"})
		s.logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	ch, cancel := s.Streams.Subscribe(watch)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func parseWatchList(raw string) ([]domain.Category, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var (
		watch   []domain.Category
		unknown []string
	)
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if !domain.IsValidCategory(field) {
			unknown = append(unknown, field)
			continue
		}
		watch = append(watch, domain.Category(field))
	}
	if len(unknown) > 0 {
		return nil, &domain.ValidationError{Keys: unknown, Reason: "unknown category in filter"}
	}
	return watch, nil
}

// fail maps a service error to a status code and writes it.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	reqID := middleware.GetReqID(r.Context())

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		s.logger.Warn(op+": rejected", "error", err, "request_id", reqID)
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Keys: vErr.Keys})
		return
	}
	if errors.Is(err, domain.ErrValidation) {
		s.logger.Warn(op+": rejected", "error", err, "request_id", reqID)
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	s.logger.Error(op+" failed", "error", err, "request_id", reqID)
	s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

// decodeBody decodes exactly one JSON value from a size-capped request body.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return errTrailingData
	}
	return nil
}

// tooLarge writes 413 when err comes from the body size cap.
func (s *Server) tooLarge(w http.ResponseWriter, r *http.Request, op string, err error) bool {
	var maxErr *http.MaxBytesError
	if !errors.As(err, &maxErr) {
		return false
	}
	s.logger.Warn(op+": body too large", "limit", maxErr.Limit, "request_id", middleware.GetReqID(r.Context()))
	s.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
		Error: fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit),
	})
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

// schemaReason flattens a kin-openapi schema error into a single line.
func schemaReason(err error) string {
	var sErr *openapi3.SchemaError
	if errors.As(err, &sErr) {
		path := strings.Join(sErr.JSONPointer(), "/")
		if path == "" {
			return sErr.Reason
		}
		return fmt.Sprintf("%s: %s", path, sErr.Reason)
	}
	var multi openapi3.MultiError
	if errors.As(err, &multi) && len(multi) > 0 {
		return schemaReason(multi[0])
	}
	return err.Error()
}
