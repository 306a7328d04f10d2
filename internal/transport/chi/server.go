// Package chi exposes the search engine over HTTP: query parsing, JSON
// encoding, and the mapping of domain sentinels to status codes.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/inkwell-cms/relevance/internal/domain"
	"github.com/inkwell-cms/relevance/internal/domain/search/scope"
	"github.com/inkwell-cms/relevance/internal/domain/suggestion"
	documentuc "github.com/inkwell-cms/relevance/internal/usecase/document"
	healthuc "github.com/inkwell-cms/relevance/internal/usecase/health"
	relateduc "github.com/inkwell-cms/relevance/internal/usecase/related"
	searchuc "github.com/inkwell-cms/relevance/internal/usecase/search"
	suggestuc "github.com/inkwell-cms/relevance/internal/usecase/suggest"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers for the search API.
type Server struct {
	search        *searchuc.Service
	related       *relateduc.Service
	suggest       *suggestuc.Service
	documents     *documentuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	related *relateduc.Service,
	suggest *suggestuc.Service,
	documents *documentuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:    search,
		related:   related,
		suggest:   suggest,
		documents: documents,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, codeDocumentNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusBadGateway, codeStoreUnavailable),
	}
	return s
}

// Routes registers all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/search/popular", s.handlePopular)
		r.Get("/search/recent", s.handleRecent)
		r.Post("/search/track", s.handleTrack)
		r.Get("/suggestions", s.handleSuggestions)
		r.Post("/searches", s.handleSaveSearch)
		r.Get("/searches/{id}", s.handleGetSavedSearch)
		r.Route("/documents/{id}", func(r chi.Router) {
			r.Put("/", s.handleUpsertDocument)
			r.Patch("/", s.handlePatchDocument)
			r.Get("/", s.handleGetDocument)
			r.Delete("/", s.handleDeleteDocument)
			r.Get("/related", s.handleRelated)
		})
	})
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
}

// handleSearch handles GET /api/v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	opts, err := parseSearchOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, err.Error())
		return
	}

	resp, err := s.search.Search(r.Context(), opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseToDTO(&resp))
}

// handleSuggestions handles GET /api/v1/suggestions.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	limit, err := parseInt(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, "limit: "+err.Error())
		return
	}

	records, err := s.suggest.Suggestions(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	suggestions := make([]string, len(records))
	for i, rec := range records {
		suggestions[i] = rec.NormalizedQuery
	}
	writeJSON(w, http.StatusOK, suggestionsResponse{Suggestions: suggestions})
}

// handlePopular handles GET /api/v1/search/popular.
func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	limit, err := parseInt(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, "limit: "+err.Error())
		return
	}

	records, err := s.suggest.PopularSearches(r.Context(), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, popularToDTO(records))
}

// handleRecent handles GET /api/v1/search/recent.
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit, err := parseInt(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, "limit: "+err.Error())
		return
	}

	events, total, err := s.suggest.RecentActivity(r.Context(), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recentResponse{Total: total, Items: events})
}

// handleTrack handles POST /api/v1/search/track.
func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sc := scope.Scope(req.Scope)
	if sc == "" {
		sc = scope.All
	}
	if !sc.IsValid() {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, fmt.Sprintf("invalid scope %q", req.Scope))
		return
	}

	s.suggest.Track(r.Context(), &suggestion.Event{
		Query:       req.Query,
		Scope:       sc,
		Filters:     filtersFromDTO(req.Filters),
		ResultCount: req.ResultCount,
		LatencyMs:   req.LatencyMs,
	})

	w.WriteHeader(http.StatusAccepted)
}

// handleSaveSearch handles POST /api/v1/searches.
func (s *Server) handleSaveSearch(w http.ResponseWriter, r *http.Request) {
	var req saveSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	saved, err := s.suggest.SaveSearch(
		r.Context(), req.Name, req.Query, filtersFromDTO(req.Filters), req.SessionID, req.IsPublic,
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, saved)
}

// handleGetSavedSearch handles GET /api/v1/searches/{id}.
func (s *Server) handleGetSavedSearch(w http.ResponseWriter, r *http.Request) {
	saved, err := s.suggest.SavedSearch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, saved)
}

// handleRelated handles GET /api/v1/documents/{id}/related.
func (s *Server) handleRelated(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	limit, err := parseInt(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, "limit: "+err.Error())
		return
	}
	exclude := splitCSV(r.URL.Query().Get("exclude"))

	matches, err := s.related.Related(r.Context(), id, limit, exclude)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, relatedToDTO(matches))
}

// handleUpsertDocument handles PUT /api/v1/documents/{id}.
func (s *Server) handleUpsertDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req documentPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	doc, err := documentFromPayload(id, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	created, err := s.documents.Upsert(r.Context(), &doc)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", "/api/v1/documents/"+id)
	}
	writeJSON(w, status, documentToDTO(&doc, true))
}

// handlePatchDocument handles PATCH /api/v1/documents/{id}.
func (s *Server) handlePatchDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req documentPatchPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	p, err := patchFromPayload(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	doc, err := s.documents.Patch(r.Context(), id, p)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentToDTO(&doc, true))
}

// handleGetDocument handles GET /api/v1/documents/{id}.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentToDTO(&doc, true))
}

// handleDeleteDocument handles DELETE /api/v1/documents/{id}.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.documents.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// handleMetrics handles GET /metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrDocumentNotFound,
		domain.ErrNotFound,
		domain.ErrInvalidQuery,
		domain.ErrStoreUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
