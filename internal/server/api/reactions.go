package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/abhinaya/internal/store"
)

// MaxListLimit caps the limit query parameter.
const MaxListLimit = 500

// ReactionsHandler serves the reaction journal.
type ReactionsHandler struct {
	store *store.Store
}

// NewReactionsHandler creates a handler over the given store.
func NewReactionsHandler(s *store.Store) *ReactionsHandler {
	return &ReactionsHandler{store: s}
}

type listReactionsResponse struct {
	Reactions []*store.Reaction `json:"reactions"`
}

type statsResponse struct {
	Stats []store.KindStats `json:"stats"`
}

// ServeHTTP routes /api/reactions, /api/reactions/stats and
// /api/reactions/{id}.
func (h *ReactionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/reactions")
	path = strings.TrimPrefix(path, "/")

	switch path {
	case "":
		h.list(w, r)
	case "stats":
		h.stats(w)
	default:
		h.get(w, path)
	}
}

// list handles GET /api/reactions?limit=N&session=ID.
func (h *ReactionsHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		reactions []*store.Reaction
		err       error
	)
	if session := q.Get("session"); session != "" {
		reactions, err = h.store.Reactions().ListBySession(session)
	} else {
		limit := store.DefaultListLimit
		if v := q.Get("limit"); v != "" {
			n, convErr := strconv.Atoi(v)
			if convErr != nil || n <= 0 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = min(n, MaxListLimit)
		}
		reactions, err = h.store.Reactions().List(limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list reactions")
		return
	}

	writeJSON(w, http.StatusOK, listReactionsResponse{Reactions: reactions})
}

// stats handles GET /api/reactions/stats.
func (h *ReactionsHandler) stats(w http.ResponseWriter) {
	stats, err := h.store.Reactions().Stats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to aggregate reactions")
		return
	}
	if stats == nil {
		stats = []store.KindStats{}
	}
	writeJSON(w, http.StatusOK, statsResponse{Stats: stats})
}

// get handles GET /api/reactions/{id}.
func (h *ReactionsHandler) get(w http.ResponseWriter, id string) {
	re, err := h.store.Reactions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Reaction not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get reaction")
		return
	}
	writeJSON(w, http.StatusOK, re)
}
