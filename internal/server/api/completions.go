package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/posejump/internal/store"
)

// DefaultCompletionLimit caps list responses without a limit parameter.
const DefaultCompletionLimit = 100

// CompletionsHandler serves the level completion log.
//
//	GET /api/completions?session=<id>&limit=<n>
//	GET /api/completions/stats
//	GET /api/completions/session  (the running session)
type CompletionsHandler struct {
	store   *store.Store
	session string
}

// NewCompletionsHandler creates a handler. session is the id of the running
// session; it may be empty.
func NewCompletionsHandler(s *store.Store, session string) *CompletionsHandler {
	return &CompletionsHandler{store: s, session: session}
}

type completionResponse struct {
	ID          int64  `json:"id"`
	SessionID   string `json:"session_id"`
	Level       string `json:"level"`
	NextLevel   string `json:"next_level"`
	Method      string `json:"method"`
	DurationMs  int64  `json:"duration_ms"`
	CompletedAt string `json:"completed_at"`
}

type listCompletionsResponse struct {
	Completions []completionResponse `json:"completions"`
}

type levelStatsResponse struct {
	Level     string `json:"level"`
	Count     int    `json:"count"`
	BestMs    int64  `json:"best_ms"`
	AverageMs int64  `json:"average_ms"`
}

type statsResponse struct {
	Levels []levelStatsResponse `json:"levels"`
}

type sessionResponse struct {
	ID         string `json:"id"`
	LevelsPath string `json:"levels_path"`
	StartedAt  string `json:"started_at"`
	EndedAt    string `json:"ended_at,omitempty"`
}

func (h *CompletionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/completions")
	path = strings.TrimPrefix(path, "/")

	switch path {
	case "":
		h.list(w, r)
	case "stats":
		h.stats(w)
	case "session":
		h.current(w)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

func (h *CompletionsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := DefaultCompletionLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	completions, err := h.store.Completions().List(r.URL.Query().Get("session"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list completions")
		return
	}

	response := listCompletionsResponse{
		Completions: make([]completionResponse, 0, len(completions)),
	}
	for _, c := range completions {
		response.Completions = append(response.Completions, completionResponse{
			ID:          c.ID,
			SessionID:   c.SessionID,
			Level:       c.Level,
			NextLevel:   c.NextLevel,
			Method:      c.Method,
			DurationMs:  c.Duration.Milliseconds(),
			CompletedAt: c.CompletedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *CompletionsHandler) stats(w http.ResponseWriter) {
	stats, err := h.store.Completions().Stats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	response := statsResponse{Levels: make([]levelStatsResponse, 0, len(stats))}
	for _, s := range stats {
		response.Levels = append(response.Levels, levelStatsResponse{
			Level:     s.Level,
			Count:     s.Count,
			BestMs:    s.Best.Milliseconds(),
			AverageMs: s.Average.Milliseconds(),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *CompletionsHandler) current(w http.ResponseWriter) {
	if h.session == "" {
		writeError(w, http.StatusNotFound, "No active session")
		return
	}

	sess, err := h.store.Sessions().GetByID(h.session)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	response := sessionResponse{
		ID:         sess.ID,
		LevelsPath: sess.LevelsPath,
		StartedAt:  sess.StartedAt.Format(time.RFC3339),
	}
	if sess.EndedAt != nil {
		response.EndedAt = sess.EndedAt.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, response)
}
