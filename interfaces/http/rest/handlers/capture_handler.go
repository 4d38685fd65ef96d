package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"tangle-backend/application/store"
	"tangle-backend/domain/capture"
	"tangle-backend/infrastructure/config"
	"tangle-backend/interfaces/http/rest/middleware"
	"tangle-backend/pkg/common"
	pkgerrors "tangle-backend/pkg/errors"
	"tangle-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CaptureHandler handles capture-related HTTP requests
type CaptureHandler struct {
	registry *store.Registry
	watcher  *config.Watcher
	logger   *zap.Logger
}

// NewCaptureHandler creates a new capture handler
func NewCaptureHandler(registry *store.Registry, watcher *config.Watcher, logger *zap.Logger) *CaptureHandler {
	return &CaptureHandler{
		registry: registry,
		watcher:  watcher,
		logger:   logger,
	}
}

// CreateCaptureRequest represents the request body for creating a capture
type CreateCaptureRequest struct {
	Text string `json:"text" validate:"required"`
}

// CreateCaptureResponse represents the response for creating a capture
type CreateCaptureResponse struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"`
}

// ImportCapturesRequest represents the request body for a bulk import
type ImportCapturesRequest struct {
	Captures []ImportedCapture `json:"captures" validate:"required,min=1"`
}

// ImportedCapture is one entry of a bulk import (e.g. a file line)
type ImportedCapture struct {
	Text string `json:"text" validate:"required"`
}

// CreateCapture handles POST /captures
func (h *CaptureHandler) CreateCapture(w http.ResponseWriter, r *http.Request) {
	var req CreateCaptureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Validation error: "+err.Error())
		return
	}

	limits := h.limits()
	if len(req.Text) > limits.MaxCaptureLength {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION",
			fmt.Sprintf("capture text exceeds %d characters", limits.MaxCaptureLength))
		return
	}

	st := h.registry.For(middleware.UserID(r.Context()))
	created, err := st.CreateCapture(r.Context(), req.Text)
	if err != nil {
		h.logger.Error("create capture failed", zap.Error(err))
		common.RespondError(w, pkgerrors.StatusOf(err), pkgerrors.CodeOf(err), err.Error())
		return
	}

	common.RespondJSON(w, http.StatusCreated, CreateCaptureResponse{
		ID:        created.ID,
		CreatedAt: created.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// ImportCaptures handles POST /captures/import
func (h *CaptureHandler) ImportCaptures(w http.ResponseWriter, r *http.Request) {
	var req ImportCapturesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Validation error: "+err.Error())
		return
	}

	limits := h.limits()
	if len(req.Captures) > limits.MaxImportBatch {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION",
			fmt.Sprintf("import exceeds %d captures", limits.MaxImportBatch))
		return
	}

	batch := make([]capture.Capture, 0, len(req.Captures))
	for _, entry := range req.Captures {
		if len(entry.Text) > limits.MaxCaptureLength {
			common.RespondError(w, http.StatusBadRequest, "VALIDATION",
				fmt.Sprintf("capture text exceeds %d characters", limits.MaxCaptureLength))
			return
		}
		batch = append(batch, capture.Capture{Text: entry.Text})
	}

	st := h.registry.For(middleware.UserID(r.Context()))
	if err := st.CreateCaptures(r.Context(), batch); err != nil {
		h.logger.Error("import captures failed", zap.Error(err))
		common.RespondError(w, pkgerrors.StatusOf(err), pkgerrors.CodeOf(err), err.Error())
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"imported": len(batch),
	})
}

// DeleteCapture handles DELETE /captures/{captureID}
func (h *CaptureHandler) DeleteCapture(w http.ResponseWriter, r *http.Request) {
	captureID := chi.URLParam(r, "captureID")
	if captureID == "" {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "captureID is required")
		return
	}

	st := h.registry.For(middleware.UserID(r.Context()))
	if err := st.DeleteCapture(r.Context(), captureID); err != nil {
		h.logger.Error("delete capture failed",
			zap.String("captureID", captureID),
			zap.Error(err),
		)
		common.RespondError(w, pkgerrors.StatusOf(err), pkgerrors.CodeOf(err), err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id": captureID,
	})
}

// ClearCaptures handles DELETE /captures
func (h *CaptureHandler) ClearCaptures(w http.ResponseWriter, r *http.Request) {
	st := h.registry.For(middleware.UserID(r.Context()))
	if err := st.ClearAll(r.Context()); err != nil {
		h.logger.Error("clear captures failed", zap.Error(err))
		common.RespondError(w, pkgerrors.StatusOf(err), pkgerrors.CodeOf(err), err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"cleared": true,
	})
}

// limits returns the active dynamic limits
func (h *CaptureHandler) limits() config.Limits {
	if h.watcher != nil {
		return h.watcher.Current().Limits
	}
	return config.DefaultDynamic().Limits
}
