package handlers

import (
	"net/http"

	"tangle-backend/application/store"
	"tangle-backend/interfaces/http/rest/middleware"
	"tangle-backend/pkg/common"
	pkgerrors "tangle-backend/pkg/errors"

	"go.uber.org/zap"
)

// PublishHandler exposes the owned captures as a shareable snapshot
type PublishHandler struct {
	registry *store.Registry
	logger   *zap.Logger
}

// NewPublishHandler creates a new publish handler
func NewPublishHandler(registry *store.Registry, logger *zap.Logger) *PublishHandler {
	return &PublishHandler{registry: registry, logger: logger}
}

// Publish handles POST /publish
func (h *PublishHandler) Publish(w http.ResponseWriter, r *http.Request) {
	st := h.registry.For(middleware.UserID(r.Context()))
	ref, err := st.Publish(r.Context())
	if err != nil {
		h.logger.Error("publish failed", zap.Error(err))
		common.RespondError(w, pkgerrors.StatusOf(err), pkgerrors.CodeOf(err), err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ref": ref,
	})
}
