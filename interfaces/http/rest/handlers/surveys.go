package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"tomosu-backend/application/cache"
	"tomosu-backend/pkg/common"
)

// SurveyHandler serves the survey endpoints.
type SurveyHandler struct {
	engine *cache.Engine
	logger *zap.Logger
}

// NewSurveyHandler creates a survey handler.
func NewSurveyHandler(engine *cache.Engine, logger *zap.Logger) *SurveyHandler {
	return &SurveyHandler{
		engine: engine,
		logger: logger,
	}
}

// ListSurveys handles GET /surveys.
func (h *SurveyHandler) ListSurveys(w http.ResponseWriter, r *http.Request) {
	params := common.ExtractPageParams(r)
	surveys := h.engine.GetSurveys(params.Skip, params.Limit)
	common.RespondJSON(w, http.StatusOK, surveys)
}

// GetSurvey handles GET /surveys/{surveyID}.
func (h *SurveyHandler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := intParam(r, "surveyID")
	if !ok {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "invalid survey id")
		return
	}

	survey, found := h.engine.GetSurveyByID(surveyID)
	if !found {
		common.RespondError(w, http.StatusNotFound, common.StandardErrorCodes.NotFound, "survey not found")
		return
	}
	common.RespondJSON(w, http.StatusOK, survey)
}
