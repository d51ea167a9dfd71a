// Package server exposes the layout pipeline over HTTP.
//
// Endpoints:
//
//	POST /v1/layout        compute a layout for a diagram document
//	GET  /v1/layouts/{id}  fetch a persisted layout by ID
//	GET  /healthz          liveness probe
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/orreryworks/orrery/pkg/diagram"
	orrerr "github.com/orreryworks/orrery/pkg/errors"
	"github.com/orreryworks/orrery/pkg/pipeline"
	"github.com/orreryworks/orrery/pkg/store"
)

// maxBodyBytes bounds request bodies; diagram documents are small.
const maxBodyBytes = 4 << 20

// Server handles layout requests. Store may be nil, in which case
// persistence is disabled and GET /v1/layouts/{id} answers 404.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// New creates a server around a pipeline runner.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: st, logger: logger}
}

// Router builds the HTTP route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Get("/layouts/{id}", s.handleGetLayout)
	})
	return r
}

// layoutRequest is the POST /v1/layout body.
type layoutRequest struct {
	Diagram diagram.DiagramJSON `json:"diagram"`

	Algorithm string `json:"algorithm,omitempty"`
	Seed      int64  `json:"seed,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`

	// Persist stores the resulting document so it can be fetched later
	// via GET /v1/layouts/{id}.
	Persist bool `json:"persist,omitempty"`
}

// layoutResponse is the POST /v1/layout reply.
type layoutResponse struct {
	Document *pipeline.Document `json:"document"`
	Cached   bool               `json:"cached"`
	Stored   bool               `json:"stored"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, orrerr.Wrap(orrerr.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	d, err := diagram.Import(req.Diagram)
	if err != nil {
		s.writeError(w, orrerr.Wrap(orrerr.ErrCodeInvalidDiagram, err, "import diagram"))
		return
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Diagram:   d,
		Algorithm: req.Algorithm,
		Seed:      req.Seed,
		Refresh:   req.Refresh,
		Logger:    s.logger,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := layoutResponse{Document: result.Document, Cached: result.CacheInfo.LayoutHit}
	if req.Persist && s.store != nil {
		if err := s.store.Put(r.Context(), result.Document); err != nil {
			s.writeError(w, err)
			return
		}
		resp.Stored = true
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, orrerr.New(orrerr.ErrCodeLayoutNotFound, "layout persistence is disabled"))
		return
	}
	id := chi.URLParam(r, "id")
	doc, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, orrerr.New(orrerr.ErrCodeLayoutNotFound, "no layout with ID %s", id))
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := orrerr.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "err", err)
	}
	s.writeJSON(w, status, errorResponse{Code: string(code), Error: orrerr.UserMessage(err)})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

// statusFor maps error codes to HTTP statuses.
func statusFor(code orrerr.Code) int {
	switch code {
	case orrerr.ErrCodeInvalidInput,
		orrerr.ErrCodeInvalidDiagram,
		orrerr.ErrCodeInvalidAlgorithm,
		orrerr.ErrCodeInvalidConfig,
		orrerr.ErrCodeInvalidGraph,
		orrerr.ErrCodeUnsupportedShape:
		return http.StatusBadRequest
	case orrerr.ErrCodeNotFound, orrerr.ErrCodeLayoutNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
