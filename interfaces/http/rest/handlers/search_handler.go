package handlers

import (
	"net/http"

	"tangle-backend/application/store"
	"tangle-backend/interfaces/http/rest/middleware"
	"tangle-backend/pkg/common"

	"go.uber.org/zap"
)

// SearchHandler serves graph views filtered by fuzzy text match
type SearchHandler struct {
	registry *store.Registry
	logger   *zap.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(registry *store.Registry, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{registry: registry, logger: logger}
}

// Search handles GET /search?q=. An empty query returns the graph of
// the full unfiltered cache.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	st := h.registry.For(middleware.UserID(r.Context()))
	data := st.Search(r.Context(), query)
	common.RespondJSON(w, http.StatusOK, data)
}
