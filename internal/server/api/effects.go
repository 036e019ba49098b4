package api

import (
	"net/http"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/abhinaya/internal/reaction"
)

// EffectsHandler serves the effect tunables the engine was built with.
type EffectsHandler struct {
	tunables reaction.Tunables
}

// NewEffectsHandler creates a handler over a fixed set of tunables.
func NewEffectsHandler(t reaction.Tunables) *EffectsHandler {
	return &EffectsHandler{tunables: t}
}

// ServeHTTP handles GET /api/effects. ?format=yaml returns the document
// in the same form as the effects file.
func (h *EffectsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, h.tunables)
	case "yaml":
		out, err := yaml.Marshal(h.tunables)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to encode effects")
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		w.Write(out)
	default:
		writeError(w, http.StatusBadRequest, "format must be json or yaml")
	}
}
