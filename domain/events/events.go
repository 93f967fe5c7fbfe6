// Package events defines the domain events emitted by the feed service.
package events

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Source identifies this service on the event bus.
const Source = "tomosu.backend"

// DomainEvent is the base interface for all domain events.
// Events represent something that has happened in the past.
type DomainEvent interface {
	GetEventID() string
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields.
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetEventID() string      { return e.EventID }
func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// PostCreated is raised after a post has been accepted into the cache.
// Posts are cache-only in the MVP, so this event is the only durable trace
// of a write leaving the process.
type PostCreated struct {
	BaseEvent
	PostID   int      `json:"post_id"`
	AuthorID int      `json:"author_id"`
	Tags     []string `json:"tags,omitempty"`
}

// NewPostCreated creates a PostCreated event.
func NewPostCreated(postID, authorID int, tags []string, timestamp time.Time) PostCreated {
	return PostCreated{
		BaseEvent: BaseEvent{
			EventID:     uuid.New().String(),
			AggregateID: strconv.Itoa(postID),
			EventType:   "feed.post.created",
			Timestamp:   timestamp,
		},
		PostID:   postID,
		AuthorID: authorID,
		Tags:     tags,
	}
}
