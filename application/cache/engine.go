// Package cache implements the in-memory cache/index engine that owns all
// application data for the lifetime of the process. It is bulk-loaded once
// from a durable store and afterwards answers every query from memory;
// the only supported mutation is appending a new post.
package cache

import (
	"errors"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"tomosu-backend/domain/feed"
)

var (
	// ErrNotInitialized is returned by mutations invoked before a
	// successful bulk load.
	ErrNotInitialized = errors.New("cache not initialized")

	// ErrAuthorUnknown is returned when a post references an author that
	// is not in the primary store.
	ErrAuthorUnknown = errors.New("author not found")
)

// defaultPageCacheSize bounds the pagination cache (see viewCache).
const defaultPageCacheSize = 50

// Engine is the cache engine. A single reader/writer lock guards the primary
// store, every relationship index, the dirty flags and the sorted/pagination
// caches as one coherent unit: readers take the shared lock, writers (load,
// add-post, view rebuild) take the exclusive lock. Performance metrics live
// behind their own mutex so recording a latency never contends with data
// access.
type Engine struct {
	mu          sync.RWMutex
	snap        *snapshot
	initialized bool
	stats       Stats

	metrics *PerformanceMetrics
	logger  *zap.Logger
	now     func() time.Time
}

// snapshot holds one generation of cache state. Initialization builds a
// fresh snapshot off-lock and swaps it in atomically, so a failed reload can
// never expose partially loaded data.
type snapshot struct {
	// Primary store
	posts    map[int]*feed.Post
	users    map[int]*feed.User
	comments map[int][]feed.Comment // post ID -> append-ordered, oldest first
	tags     map[string]*feed.Tag
	surveys  map[int]*feed.Survey

	// Relationship indices
	likes     map[int]map[int]struct{} // post ID -> user IDs
	bookmarks map[int]map[int]struct{} // user ID -> post IDs
	follows   map[int]map[int]struct{} // user ID -> followed user IDs
	followers map[int]map[int]struct{} // user ID -> follower user IDs
	postTags  map[int][]string         // post ID -> tag names
	tagPosts  map[string][]int         // tag name -> post IDs

	nextPostID int

	views *viewCache
}

func newSnapshot(pageCacheSize int) *snapshot {
	return &snapshot{
		posts:      make(map[int]*feed.Post),
		users:      make(map[int]*feed.User),
		comments:   make(map[int][]feed.Comment),
		tags:       make(map[string]*feed.Tag),
		surveys:    make(map[int]*feed.Survey),
		likes:      make(map[int]map[int]struct{}),
		bookmarks:  make(map[int]map[int]struct{}),
		follows:    make(map[int]map[int]struct{}),
		followers:  make(map[int]map[int]struct{}),
		postTags:   make(map[int][]string),
		tagPosts:   make(map[string][]int),
		nextPostID: 1,
		views:      newViewCache(pageCacheSize),
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithPageCacheSize overrides the pagination cache capacity.
func WithPageCacheSize(n int) Option {
	return func(e *Engine) { e.snap.views.maxPages = n }
}

// NewEngine creates an empty, uninitialized engine. Call Initialize with a
// BulkSource before serving queries; until then every query returns an
// empty/absent result and AddPost fails with ErrNotInitialized.
func NewEngine(logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		snap:    newSnapshot(defaultPageCacheSize),
		metrics: NewPerformanceMetrics(),
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsInitialized reports whether the last bulk load completed successfully.
// Callers use it to distinguish "not ready" from "not found".
func (e *Engine) IsInitialized() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.initialized
}

// Stats describes the loaded data set and how long the load took.
type Stats struct {
	Initialized           bool    `json:"initialized"`
	InitializationSeconds float64 `json:"initialization_time_seconds"`
	PostsCount            int     `json:"posts_count"`
	UsersCount            int     `json:"users_count"`
	CommentsCount         int     `json:"comments_count"`
	TagsCount             int     `json:"tags_count"`
	SurveysCount          int     `json:"surveys_count"`
	LikesCount            int     `json:"likes_count"`
	BookmarksCount        int     `json:"bookmarks_count"`
	FollowsCount          int     `json:"follows_count"`
}

// Stats returns the load statistics recorded by the last successful
// initialization. Zero value while uninitialized.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

// MemoryStats reports entry counts per cache structure plus process heap
// figures, for the monitoring endpoints.
type MemoryStats struct {
	Entries        map[string]int `json:"entries"`
	TotalEntries   int            `json:"total_entries"`
	HeapAllocBytes uint64         `json:"heap_alloc_bytes"`
	HeapObjects    uint64         `json:"heap_objects"`
}

// MemoryStats returns approximate memory usage of the cache structures.
func (e *Engine) MemoryStats() MemoryStats {
	e.mu.RLock()
	entries := map[string]int{
		"posts":     len(e.snap.posts),
		"users":     len(e.snap.users),
		"comments":  countComments(e.snap.comments),
		"tags":      len(e.snap.tags),
		"surveys":   len(e.snap.surveys),
		"likes":     countSets(e.snap.likes),
		"bookmarks": countSets(e.snap.bookmarks),
		"follows":   countSets(e.snap.follows),
		"followers": countSets(e.snap.followers),
		"tag_posts": countLists(e.snap.tagPosts),
	}
	e.mu.RUnlock()

	total := 0
	for _, n := range entries {
		total += n
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return MemoryStats{
		Entries:        entries,
		TotalEntries:   total,
		HeapAllocBytes: mem.HeapAlloc,
		HeapObjects:    mem.HeapObjects,
	}
}

// RecordRequestTime feeds one request latency into the performance metrics.
// The surrounding HTTP layer calls this per request; the engine itself never
// times anything.
func (e *Engine) RecordRequestTime(d time.Duration) {
	e.metrics.Record(d)
}

// PerformanceStats returns the accumulated request latency statistics.
func (e *Engine) PerformanceStats() PerformanceStats {
	return e.metrics.Snapshot()
}

func countComments(m map[int][]feed.Comment) int {
	n := 0
	for _, cs := range m {
		n += len(cs)
	}
	return n
}

func countSets(m map[int]map[int]struct{}) int {
	n := 0
	for _, s := range m {
		n += len(s)
	}
	return n
}

func countLists(m map[string][]int) int {
	n := 0
	for _, l := range m {
		n += len(l)
	}
	return n
}
