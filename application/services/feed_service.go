// Package services contains the thin application services sitting between
// the HTTP layer and the cache engine.
package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"tomosu-backend/application/cache"
	"tomosu-backend/application/ports"
	"tomosu-backend/domain/events"
	"tomosu-backend/domain/feed"
	apperrors "tomosu-backend/pkg/errors"
)

// Content length bound enforced on the write path, matching the source
// table's attribute limit.
const maxContentLength = 2000

// FeedService owns the write path: it validates input, applies the mutation
// to the cache engine and announces the result on the event bus. Reads go
// straight to the engine; they need no service logic.
type FeedService struct {
	engine    *cache.Engine
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewFeedService creates a feed service.
func NewFeedService(engine *cache.Engine, publisher ports.EventPublisher, logger *zap.Logger) *FeedService {
	return &FeedService{
		engine:    engine,
		publisher: publisher,
		logger:    logger,
	}
}

// CreatePost validates and applies a new post, then publishes a
// feed.post.created event. Publishing is best effort: the post is already
// committed to the cache, so a bus outage degrades to a warning rather than
// a failed request.
func (s *FeedService) CreatePost(ctx context.Context, content string, authorID int, tags []string) (feed.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return feed.Post{}, apperrors.NewValidationError("content must not be empty")
	}
	if len([]rune(content)) > maxContentLength {
		return feed.Post{}, apperrors.NewValidationError("content exceeds maximum length")
	}

	post, err := s.engine.AddPost(content, authorID, tags)
	if err != nil {
		switch err {
		case cache.ErrNotInitialized:
			return feed.Post{}, apperrors.NewUnavailableError("feed cache")
		case cache.ErrAuthorUnknown:
			return feed.Post{}, apperrors.NewNotFoundError("author")
		default:
			return feed.Post{}, apperrors.Wrap(err, "add post")
		}
	}

	if s.publisher != nil {
		appliedTags := make([]string, 0, len(post.Tags))
		for _, tag := range post.Tags {
			appliedTags = append(appliedTags, tag.TagName)
		}
		event := events.NewPostCreated(post.PostID, post.UserID, appliedTags, post.CreatedAt)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish post created event",
				zap.Int("postID", post.PostID),
				zap.Error(err),
			)
		}
	}

	return post, nil
}
