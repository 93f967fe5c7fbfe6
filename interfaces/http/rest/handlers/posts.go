package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"tomosu-backend/application/cache"
	"tomosu-backend/application/services"
	"tomosu-backend/pkg/auth"
	"tomosu-backend/pkg/common"
	"tomosu-backend/pkg/utils"
)

// PostHandler serves the post endpoints.
type PostHandler struct {
	engine *cache.Engine
	feed   *services.FeedService
	logger *zap.Logger
}

// NewPostHandler creates a post handler.
func NewPostHandler(engine *cache.Engine, feed *services.FeedService, logger *zap.Logger) *PostHandler {
	return &PostHandler{
		engine: engine,
		feed:   feed,
		logger: logger,
	}
}

// ListPosts handles GET /posts and GET /posts/timeline: one page of the
// global feed, newest first, decorated for the viewer if authenticated.
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	params := common.ExtractPageParams(r)
	posts := h.engine.GetPosts(params.Skip, params.Limit, auth.ViewerID(r.Context()))
	common.RespondJSON(w, http.StatusOK, posts)
}

// GetPost handles GET /posts/{postID}.
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := intParam(r, "postID")
	if !ok {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "invalid post id")
		return
	}

	post, found := h.engine.GetPostByID(postID, auth.ViewerID(r.Context()))
	if !found {
		common.RespondError(w, http.StatusNotFound, common.StandardErrorCodes.NotFound, "post not found")
		return
	}
	common.RespondJSON(w, http.StatusOK, post)
}

// ListPostsByTag handles GET /posts/tags/{tagName}.
func (h *PostHandler) ListPostsByTag(w http.ResponseWriter, r *http.Request) {
	tagName := urlParamString(r, "tagName")
	if tagName == "" {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "invalid tag name")
		return
	}

	params := common.ExtractPageParams(r)
	posts := h.engine.GetPostsByTag(tagName, params.Skip, params.Limit, auth.ViewerID(r.Context()))
	common.RespondJSON(w, http.StatusOK, posts)
}

// createPostRequest is the POST /posts payload.
type createPostRequest struct {
	Content string   `json:"content" validate:"required,max=2000"`
	Tags    []string `json:"tags" validate:"max=4"`
}

// CreatePost handles POST /posts. Requires an authenticated session; the
// author is the session user, never the payload.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "authentication required")
		return
	}

	var req createPostRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	post, err := h.feed.CreatePost(r.Context(), req.Content, session.UserID, req.Tags)
	if err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, post)
}

// ListComments handles GET /posts/{postID}/comments.
func (h *PostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, ok := intParam(r, "postID")
	if !ok {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "invalid post id")
		return
	}
	if _, found := h.engine.GetPostByID(postID, 0); !found {
		common.RespondError(w, http.StatusNotFound, common.StandardErrorCodes.NotFound, "post not found")
		return
	}

	params := common.ExtractPageParams(r)
	comments := h.engine.GetCommentsByPost(postID, params.Skip, params.Limit)
	common.RespondJSON(w, http.StatusOK, comments)
}

// postLikesResponse is the GET /posts/{postID}/likes payload.
type postLikesResponse struct {
	PostID     int  `json:"post_id"`
	LikesCount int  `json:"likes_count"`
	IsLiked    bool `json:"is_liked"`
}

// GetLikes handles GET /posts/{postID}/likes.
func (h *PostHandler) GetLikes(w http.ResponseWriter, r *http.Request) {
	postID, ok := intParam(r, "postID")
	if !ok {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "invalid post id")
		return
	}

	count, isLiked, found := h.engine.GetPostLikes(postID, auth.ViewerID(r.Context()))
	if !found {
		common.RespondError(w, http.StatusNotFound, common.StandardErrorCodes.NotFound, "post not found")
		return
	}
	common.RespondJSON(w, http.StatusOK, postLikesResponse{
		PostID:     postID,
		LikesCount: count,
		IsLiked:    isLiked,
	})
}
