package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/clausewise/clausewise/internal/archive"
	"github.com/clausewise/clausewise/internal/pipeline"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// identityCookie namespaces each browser's profile and snapshots. It is
// an opaque token, not authentication.
const identityCookie = "cw_uid"

// Server exposes the analysis pipeline as a JSON HTTP API.
type Server struct {
	pipeline *pipeline.Pipeline
	archive  *archive.Client // nil: history search disabled
}

// New creates a Server. Pass a nil archive to disable history search.
func New(p *pipeline.Pipeline, a *archive.Client) *Server {
	return &Server{pipeline: p, archive: a}
}

// Router builds the API router.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(Logger)
	r.Use(Recoverer)

	r.HandleFunc("/api/analyze", s.handleAnalyze).Methods("POST")
	r.HandleFunc("/api/diff", s.handleDiff).Methods("POST")
	r.HandleFunc("/api/profile", s.handleGetProfile).Methods("GET")
	r.HandleFunc("/api/profile", s.handleSaveProfile).Methods("POST", "PUT")
	r.HandleFunc("/api/history/search", s.handleHistorySearch).Methods("GET")
	r.HandleFunc("/health", s.handleHealth).Methods("GET")

	return r
}

// identify resolves the caller's identity, issuing a cookie when absent.
// The identity is threaded explicitly into every store access.
func (s *Server) identify(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(identityCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     identityCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   31536000,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	identity := s.identify(w, r)

	var req pipeline.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.pipeline.Analyze(r.Context(), identity, req)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoUsableText) {
			writeError(w, http.StatusBadRequest, "Provide tosUrl or tosText")
			return
		}
		slog.Error("analyze failed", "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	identity := s.identify(w, r)

	var req struct {
		TosURL string `json:"tosUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TosURL == "" {
		writeError(w, http.StatusBadRequest, "tosUrl required")
		return
	}

	diff, err := s.pipeline.Diff(r.Context(), identity, req.TosURL)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoUsableText) {
			writeError(w, http.StatusBadRequest, "could not fetch tosUrl")
			return
		}
		slog.Error("diff failed", "error", err)
		writeError(w, http.StatusInternalServerError, "diff failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"diff": diff})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	identity := s.identify(w, r)

	profile, err := s.pipeline.GetProfile(r.Context(), identity)
	if err != nil {
		slog.Error("profile load failed", "error", err)
		writeError(w, http.StatusInternalServerError, "profile load failed")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	identity := s.identify(w, r)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	if _, err := s.pipeline.SaveProfile(r.Context(), identity, body); err != nil {
		slog.Error("profile save failed", "error", err)
		writeError(w, http.StatusInternalServerError, "profile save failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleHistorySearch(w http.ResponseWriter, r *http.Request) {
	identity := s.identify(w, r)

	if s.archive == nil {
		writeError(w, http.StatusServiceUnavailable, "archive not configured")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q required")
		return
	}

	results, err := s.archive.Search(r.Context(), identity, query, 20)
	if err != nil {
		slog.Error("history search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
