// Package server exposes the export engine over HTTP.
//
// The API is JSON in, JSON out:
//
//	GET  /healthz          liveness probe
//	GET  /v1/formats       supported format keys
//	POST /v1/export        run an export
//	GET  /v1/exports       recent export history
//	GET  /v1/exports/{id}  one history record
//
// Export responses carry the encoded artifact base64-encoded in the result
// buffer. Clients needing raw bytes decode client-side; the engine itself
// never streams partial artifacts.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/draftforge/draftforge/pkg/errors"
	"github.com/draftforge/draftforge/pkg/export"
	"github.com/draftforge/draftforge/pkg/history"
	"github.com/draftforge/draftforge/pkg/model"
)

// Server routes HTTP requests to the export engine.
type Server struct {
	exporter *export.Exporter
	store    history.Store
	logger   *log.Logger
	router   chi.Router
}

// New builds a server. A nil store disables history persistence; a nil
// logger falls back to the default logger.
func New(exporter *export.Exporter, store history.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if store == nil {
		store = history.NewMemoryStore()
	}

	s := &Server{exporter: exporter, store: store, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/formats", s.handleFormats)
		r.Post("/export", s.handleExport)
		r.Get("/exports", s.handleListExports)
		r.Get("/exports/{id}", s.handleGetExport)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ExportRequest is the POST /v1/export body. Exactly one of Model or
// Drawings must be set.
type ExportRequest struct {
	Options  export.Options  `json:"options"`
	Model    *model.Model    `json:"model,omitempty"`
	Drawings []model.Drawing `json:"drawings,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"formats": s.exporter.Registry.Formats(),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidOptions, err, "decode request body"))
		return
	}

	var (
		source string
		res    *export.Result
		err    error
	)
	switch {
	case req.Model != nil && req.Drawings != nil:
		s.writeError(w, errors.New(errors.ErrCodeInvalidOptions, "request must carry model or drawings, not both"))
		return
	case req.Model != nil:
		source = "model"
		res, err = s.exporter.ExportModel(r.Context(), req.Model, req.Options)
	case req.Drawings != nil:
		source = "drawings"
		res, err = s.exporter.ExportDrawings(r.Context(), req.Drawings, req.Options)
	default:
		s.writeError(w, errors.New(errors.ErrCodeInvalidModel, "request carries neither model nor drawings"))
		return
	}

	if err != nil {
		s.record(r, history.NewFailureRecord(source, req.Options.Format, err))
		s.writeError(w, err)
		return
	}

	rec := history.NewRecord(source, res)
	s.record(r, rec)

	writeJSON(w, http.StatusOK, map[string]any{
		"id":     rec.ID,
		"result": res,
	})
}

func (s *Server) handleListExports(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	records, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"exports": records})
}

func (s *Server) handleGetExport(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// record persists a history record. History failures are logged and
// swallowed; they never affect the export response.
func (s *Server) record(r *http.Request, rec history.Record) {
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.logger.Warn("history write failed", "id", rec.ID, "err", err)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// errorResponse is the JSON shape of every error reply.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, statusFor(code), errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(code),
	})
}

// statusFor maps error codes to HTTP status codes. Unknown codes are
// treated as internal errors.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidOptions, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidUnits, errors.ErrCodeInvalidPrecision,
		errors.ErrCodeInvalidModel, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupportedFormat:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
