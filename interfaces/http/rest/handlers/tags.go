package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"tomosu-backend/application/cache"
	"tomosu-backend/pkg/common"
)

// TagHandler serves the tag endpoints.
type TagHandler struct {
	engine *cache.Engine
	logger *zap.Logger
}

// NewTagHandler creates a tag handler.
func NewTagHandler(engine *cache.Engine, logger *zap.Logger) *TagHandler {
	return &TagHandler{
		engine: engine,
		logger: logger,
	}
}

// ListTags handles GET /tags: the four fixed categories in display order.
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.engine.GetTags())
}

// GetTag handles GET /tags/{tagName}.
func (h *TagHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	tagName := urlParamString(r, "tagName")
	tag, found := h.engine.GetTagByName(tagName)
	if !found {
		common.RespondError(w, http.StatusNotFound, common.StandardErrorCodes.NotFound, "tag not found")
		return
	}
	common.RespondJSON(w, http.StatusOK, tag)
}
