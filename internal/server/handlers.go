package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mibscope/mibscope/internal/index"
	"github.com/mibscope/mibscope/pkg/corpus"
	"github.com/mibscope/mibscope/pkg/mib"
)

// Handler serves the corpus API from a store and its search index.
type Handler struct {
	store *corpus.Store
	idx   *index.DB
}

// NewHandler creates a Handler.
func NewHandler(store *corpus.Store, idx *index.DB) *Handler {
	return &Handler{store: store, idx: idx}
}

// modulesResponse is the GET /modules payload.
type modulesResponse struct {
	Generation string   `json:"generation"`
	Modules    []string `json:"modules"`
}

// ListModules returns the sorted module names and the corpus generation.
func (h *Handler) ListModules(w http.ResponseWriter, _ *http.Request) {
	names := h.store.Names()
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, modulesResponse{
		Generation: h.store.Generation(),
		Modules:    names,
	})
}

// GetModule serves a full module, or a single node detail when the oid
// query parameter is present.
func (h *Handler) GetModule(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	mod, ok := h.store.Module(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("module not found"))
		return
	}

	if oid := r.URL.Query().Get("oid"); oid != "" {
		detail, ok := mod.Detail(oid)
		if !ok {
			writeJSON(w, http.StatusNotFound, errorBody("oid not found in module"))
			return
		}
		writeJSON(w, http.StatusOK, detail)
		return
	}

	writeJSON(w, http.StatusOK, mod)
}

// Search runs a corpus-wide substring search for the term query parameter.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	hits, err := h.idx.Search(term, 0)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("search failed"))
		return
	}
	if hits == nil {
		hits = []mib.SearchHit{}
	}
	writeJSON(w, http.StatusOK, hits)
}
