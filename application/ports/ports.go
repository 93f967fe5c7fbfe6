// Package ports declares the interfaces the application depends on.
// These are ports in hexagonal architecture - the cache engine does not know
// which store or broker sits behind them.
package ports

import (
	"context"
	"time"

	"tomosu-backend/domain/events"
)

// UserRecord is a raw user row from the durable store.
type UserRecord struct {
	UserID          int
	Username        string
	DisplayName     string
	Email           string
	ProfileImageURL string
	Bio             string
	Area            string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TagRecord is a raw tag row. The tag set is fixed and small; rows whose
// name is not a known category are ignored by the loader.
type TagRecord struct {
	TagID   int
	TagName string
}

// PostRecord is a raw post row including its fixed category flags and
// attached image references.
type PostRecord struct {
	PostID                 int
	UserID                 int
	Content                string
	CreatedAt              time.Time
	UpdatedAt              time.Time
	ImageURLs              []string
	IsFollowCategory       bool
	IsNeighborhoodCategory bool
	IsEventCategory        bool
	IsGourmetCategory      bool
}

// CommentRecord is a raw comment row.
type CommentRecord struct {
	CommentID int
	PostID    int
	UserID    int
	Content   string
	CreatedAt time.Time
}

// LikeRecord is a (post, user) like pair.
type LikeRecord struct {
	PostID int
	UserID int
}

// BookmarkRecord is a (user, post) bookmark pair.
type BookmarkRecord struct {
	UserID int
	PostID int
}

// FollowRecord is a (follower, followee) pair.
type FollowRecord struct {
	FollowerID int
	FolloweeID int
}

// SurveyRecord is a raw survey row with its precomputed response count.
type SurveyRecord struct {
	SurveyID       int
	Title          string
	QuestionText   string
	Points         int
	Deadline       *time.Time
	TargetAudience string
	CreatedAt      time.Time
	ResponseCount  int
}

// BulkSource is the one collaborator the cache engine consumes: a durable
// store capable of returning every row of each entity type in a single call.
// It is used exactly once per (re)initialization; queries never reach it.
type BulkSource interface {
	Users(ctx context.Context) ([]UserRecord, error)
	Tags(ctx context.Context) ([]TagRecord, error)
	Posts(ctx context.Context) ([]PostRecord, error)
	Comments(ctx context.Context) ([]CommentRecord, error)
	Likes(ctx context.Context) ([]LikeRecord, error)
	Bookmarks(ctx context.Context) ([]BookmarkRecord, error)
	Follows(ctx context.Context) ([]FollowRecord, error)
	Surveys(ctx context.Context) ([]SurveyRecord, error)
}

// EventPublisher publishes domain events to the outside world.
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
