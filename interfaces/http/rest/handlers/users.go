package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"tomosu-backend/application/cache"
	"tomosu-backend/pkg/common"
)

// UserHandler serves the user endpoints.
type UserHandler struct {
	engine *cache.Engine
	logger *zap.Logger
}

// NewUserHandler creates a user handler.
func NewUserHandler(engine *cache.Engine, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		engine: engine,
		logger: logger,
	}
}

// ListUsers handles GET /users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := common.ExtractPageParams(r)
	users := h.engine.GetUsers(params.Skip, params.Limit)
	common.RespondJSON(w, http.StatusOK, users)
}

// GetProfile handles GET /users/{userID}: the user plus relationship counts.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := intParam(r, "userID")
	if !ok {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "invalid user id")
		return
	}

	profile, found := h.engine.GetUserProfile(userID)
	if !found {
		common.RespondError(w, http.StatusNotFound, common.StandardErrorCodes.NotFound, "user not found")
		return
	}
	common.RespondJSON(w, http.StatusOK, profile)
}

// ListFollowers handles GET /users/{userID}/followers.
func (h *UserHandler) ListFollowers(w http.ResponseWriter, r *http.Request) {
	userID, ok := intParam(r, "userID")
	if !ok {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "invalid user id")
		return
	}
	if _, found := h.engine.GetUserByID(userID); !found {
		common.RespondError(w, http.StatusNotFound, common.StandardErrorCodes.NotFound, "user not found")
		return
	}

	params := common.ExtractPageParams(r)
	followers := h.engine.GetUserFollowers(userID, params.Skip, params.Limit)
	common.RespondJSON(w, http.StatusOK, followers)
}

// ListFollowing handles GET /users/{userID}/following.
func (h *UserHandler) ListFollowing(w http.ResponseWriter, r *http.Request) {
	userID, ok := intParam(r, "userID")
	if !ok {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "invalid user id")
		return
	}
	if _, found := h.engine.GetUserByID(userID); !found {
		common.RespondError(w, http.StatusNotFound, common.StandardErrorCodes.NotFound, "user not found")
		return
	}

	params := common.ExtractPageParams(r)
	following := h.engine.GetUserFollowing(userID, params.Skip, params.Limit)
	common.RespondJSON(w, http.StatusOK, following)
}

// ListBookmarks handles GET /users/{userID}/bookmarks. A user with no
// bookmarks gets an empty page, not a 404.
func (h *UserHandler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	userID, ok := intParam(r, "userID")
	if !ok {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "invalid user id")
		return
	}
	if _, found := h.engine.GetUserByID(userID); !found {
		common.RespondError(w, http.StatusNotFound, common.StandardErrorCodes.NotFound, "user not found")
		return
	}

	params := common.ExtractPageParams(r)
	bookmarks := h.engine.GetUserBookmarks(userID, params.Skip, params.Limit)
	common.RespondJSON(w, http.StatusOK, bookmarks)
}
