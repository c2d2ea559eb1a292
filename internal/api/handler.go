// Package api implements the HTTP surface of the scout service.
//
// Routes:
//
//	POST /scrape            → fire an on-demand pipeline run in the background
//	GET  /api/posts         → list stored records, newest first (?limit=N)
//	GET  /scheduler_status  → scheduler state + registered triggers
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"jobmate/scout-service/internal/model"
	"jobmate/scout-service/internal/scheduler"
)

const defaultListLimit = 50

// Trigger fires and reports on pipeline runs. Satisfied by
// *scheduler.Scheduler; the on-demand path must be the same one scheduled
// firings use.
type Trigger interface {
	RunNow(ctx context.Context, searchTerm string)
	Status() scheduler.Status
}

// Posts reads stored records. Satisfied by *store.Store.
type Posts interface {
	List(ctx context.Context, limit int) ([]model.JobPost, error)
}

// Handler holds shared dependencies.
type Handler struct {
	trigger     Trigger
	posts       Posts
	defaultTerm string
}

// NewHandler returns a configured Handler.
func NewHandler(trigger Trigger, posts Posts, defaultTerm string) *Handler {
	return &Handler{trigger: trigger, posts: posts, defaultTerm: defaultTerm}
}

// RegisterRoutes mounts all scout-service routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/scrape", h.handleScrape)
	mux.HandleFunc("/api/posts", h.handlePosts)
	mux.HandleFunc("/scheduler_status", h.handleSchedulerStatus)
}

// handleScrape handles POST /scrape. The form fields company, mode and
// location are joined into the search term; all empty falls back to the
// configured default. The run is fired in the background through the same
// path as the weekly trigger.
func (h *Handler) handleScrape(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		jsonError(w, "invalid form", http.StatusBadRequest)
		return
	}

	term := strings.Join(strings.Fields(strings.Join([]string{
		r.FormValue("company"),
		r.FormValue("mode"),
		r.FormValue("location"),
	}, " ")), " ")
	if term == "" {
		term = h.defaultTerm
	}

	go h.trigger.RunNow(context.Background(), term)

	log.Printf("[api] Scrape triggered for %q", term)
	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":     "scrape started",
		"searchTerm": term,
	})
}

// handlePosts handles GET /api/posts.
func (h *Handler) handlePosts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := defaultListLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = v
	}

	posts, err := h.posts.List(r.Context(), limit)
	if err != nil {
		log.Printf("[api] List posts error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// handleSchedulerStatus handles GET /scheduler_status.
func (h *Handler) handleSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.trigger.Status())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] JSON encode error: %v", err)
	}
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
