package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/AmolDerickSoans/RedditReady/internal/app/records"
	"github.com/AmolDerickSoans/RedditReady/internal/app/research"
	"github.com/AmolDerickSoans/RedditReady/internal/domain"
	"github.com/AmolDerickSoans/RedditReady/internal/observability"
)

type Server struct {
	pool    *research.Pool
	records *records.Service
}

func NewServer(pool *research.Pool, recs *records.Service) http.Handler {
	s := &Server{pool: pool, records: recs}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// /research → start (POST) or list (GET)
	mux.HandleFunc("/research", s.handleResearch)

	// /research/{id} → live status + latest snapshot
	mux.HandleFunc("/research/", s.handleResearchWithID)

	return chainMiddlewares(mux, withLogging, withRequestID, withCORS)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type startResearchRequest struct {
	Prompt        string `json:"prompt"`
	Subreddit     string `json:"subreddit"`
	ResearchID    string `json:"research_id,omitempty"`
	StyleTemplate string `json:"style_template,omitempty"`
}

type startResearchResponse struct {
	ResearchID string `json:"research_id"`
	Status     string `json:"status"`
}

type listResearchResponse struct {
	Running []research.Status `json:"running"`
	Records []records.Summary `json:"records"`
}

type getResearchResponse struct {
	Status *research.Status     `json:"status,omitempty"`
	Record *domain.SessionState `json:"record,omitempty"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// /research
func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleStartResearch(w, r)
	case http.MethodGet:
		s.handleListResearch(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /research/{id}
func (s *Server) handleResearchWithID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/research/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	s.handleGetResearch(w, r, domain.ResearchID(id))
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleStartResearch(w http.ResponseWriter, r *http.Request) {
	var req startResearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		badRequest(w, "prompt is required")
		return
	}
	if strings.TrimSpace(req.Subreddit) == "" {
		badRequest(w, "subreddit is required")
		return
	}

	id, err := s.pool.Submit(research.Request{
		Prompt:        req.Prompt,
		Subreddit:     req.Subreddit,
		ResearchID:    req.ResearchID,
		StyleTemplate: req.StyleTemplate,
	})
	switch {
	case errors.Is(err, research.ErrPoolFull), errors.Is(err, research.ErrPoolClosed):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	case errors.Is(err, research.ErrDuplicateID):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	case err != nil:
		internalError(w, r, err)
		return
	}

	observability.LoggerFromContext(r.Context()).Info("research accepted", "research_id", id)
	writeJSON(w, http.StatusAccepted, startResearchResponse{
		ResearchID: string(id),
		Status:     string(domain.PhaseInit),
	})
}

func (s *Server) handleListResearch(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	sums, err := s.records.List(r.Context(), limit)
	if err != nil {
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResearchResponse{
		Running: s.pool.List(),
		Records: sums,
	})
}

func (s *Server) handleGetResearch(w http.ResponseWriter, r *http.Request, id domain.ResearchID) {
	var resp getResearchResponse
	if st, ok := s.pool.Status(id); ok {
		resp.Status = &st
	}

	rec, err := s.records.Get(r.Context(), id)
	switch {
	case err == nil:
		resp.Record = rec
	case errors.Is(err, domain.ErrNotFound):
	default:
		internalError(w, r, err)
		return
	}

	if resp.Status == nil && resp.Record == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "research not found"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	observability.LoggerFromContext(r.Context()).Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
