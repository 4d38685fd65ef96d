package handlers

import (
	"net/http"

	"tangle-backend/application/store"
	"tangle-backend/interfaces/http/rest/middleware"
	"tangle-backend/pkg/common"

	"go.uber.org/zap"
)

// GraphHandler serves the derived knowledge graph
type GraphHandler struct {
	registry *store.Registry
	logger   *zap.Logger
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(registry *store.Registry, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{registry: registry, logger: logger}
}

// GetGraph handles GET /graph. The first request for a user performs
// the cold load from blob storage; later requests serve the cache.
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	st := h.registry.For(middleware.UserID(r.Context()))
	data := st.Initialize(r.Context())
	common.RespondJSON(w, http.StatusOK, data)
}
