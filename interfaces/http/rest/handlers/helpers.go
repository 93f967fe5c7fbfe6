// Package handlers contains the chi HTTP handlers for the feed API.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tomosu-backend/pkg/common"
	apperrors "tomosu-backend/pkg/errors"
)

// intParam parses a numeric URL parameter. The second return value is false
// when the parameter is missing or not a positive integer.
func intParam(r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}

// urlParamString returns a string URL parameter, empty when absent.
func urlParamString(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// respondAppError maps an application error onto the response envelope.
// Anything that is not an *AppError is treated as internal.
func respondAppError(w http.ResponseWriter, err error) {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		code := appErr.Code
		if code == "" {
			code = string(appErr.Type)
		}
		common.RespondError(w, appErr.HTTPStatus, code, appErr.Message)
		return
	}
	common.RespondError(w, http.StatusInternalServerError, common.StandardErrorCodes.InternalError, "internal server error")
}
