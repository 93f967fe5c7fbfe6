package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"tomosu-backend/application/cache"
	"tomosu-backend/pkg/common"
)

// SystemHandler serves the monitoring endpoints.
type SystemHandler struct {
	engine *cache.Engine
	logger *zap.Logger
}

// NewSystemHandler creates a system handler.
func NewSystemHandler(engine *cache.Engine, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{
		engine: engine,
		logger: logger,
	}
}

// Stats handles GET /system/stats: entity counts and load duration.
func (h *SystemHandler) Stats(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.engine.Stats())
}

// Performance handles GET /system/performance: request latency statistics.
func (h *SystemHandler) Performance(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.engine.PerformanceStats())
}

// Memory handles GET /system/memory: cache entry counts and heap figures.
func (h *SystemHandler) Memory(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.engine.MemoryStats())
}
