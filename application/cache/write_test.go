package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomosu-backend/domain/feed"
)

func TestAddPost_AppearsAtHeadOfViews(t *testing.T) {
	clock := at(60)
	engine := newTestEngine(WithClock(func() time.Time { return clock }))
	require.NoError(t, engine.Initialize(context.Background(), seedSource()))

	// Warm the page cache so the write has stale pages to invalidate.
	engine.GetPosts(0, 10, 0)
	engine.GetPostsByTag(feed.TagEvent, 0, 10, 0)

	post, err := engine.AddPost("fresh", 2, []string{feed.TagEvent})

	require.NoError(t, err)
	assert.Equal(t, 31, post.PostID)
	assert.Equal(t, "ben", post.Author.Username)
	assert.Equal(t, clock, post.CreatedAt)

	global := engine.GetPosts(0, 10, 0)
	require.NotEmpty(t, global)
	assert.Equal(t, 31, global[0].PostID)

	event := engine.GetPostsByTag(feed.TagEvent, 0, 10, 0)
	require.NotEmpty(t, event)
	assert.Equal(t, 31, event[0].PostID)
}

func TestAddPost_UpdatesTagCounts(t *testing.T) {
	engine := newTestEngine()
	require.NoError(t, engine.Initialize(context.Background(), seedSource()))

	_, err := engine.AddPost("double", 1, []string{feed.TagEvent, feed.TagGourmet})
	require.NoError(t, err)

	event, _ := engine.GetTagByName(feed.TagEvent)
	assert.Equal(t, 3, event.PostsCount)
	gourmet, _ := engine.GetTagByName(feed.TagGourmet)
	assert.Equal(t, 2, gourmet.PostsCount)

	// Previously materialized posts pick up the new counts on next read.
	post, ok := engine.GetPostByID(20, 0)
	require.True(t, ok)
	for _, tag := range post.Tags {
		if tag.TagName == feed.TagEvent {
			assert.Equal(t, 3, tag.PostsCount)
		}
	}

	assert.Equal(t, 4, engine.Stats().PostsCount)
}

func TestAddPost_IgnoresUnknownAndDuplicateTags(t *testing.T) {
	engine := newTestEngine()
	require.NoError(t, engine.Initialize(context.Background(), seedSource()))

	post, err := engine.AddPost("tagged", 1, []string{feed.TagEvent, "Sports", feed.TagEvent})

	require.NoError(t, err)
	require.Len(t, post.Tags, 1)
	assert.Equal(t, feed.TagEvent, post.Tags[0].TagName)

	event, _ := engine.GetTagByName(feed.TagEvent)
	assert.Equal(t, 3, event.PostsCount, "counted once despite the duplicate")
}

func TestAddPost_Errors(t *testing.T) {
	engine := newTestEngine()

	_, err := engine.AddPost("too soon", 1, nil)
	assert.ErrorIs(t, err, ErrNotInitialized)

	require.NoError(t, engine.Initialize(context.Background(), seedSource()))

	_, err = engine.AddPost("ghost author", 404, nil)
	assert.ErrorIs(t, err, ErrAuthorUnknown)
	assert.Equal(t, 3, engine.Stats().PostsCount, "failed write changes nothing")
}

func TestAddPost_SequentialIDs(t *testing.T) {
	engine := newTestEngine()
	require.NoError(t, engine.Initialize(context.Background(), seedSource()))

	a, err := engine.AddPost("first", 1, nil)
	require.NoError(t, err)
	b, err := engine.AddPost("second", 2, nil)
	require.NoError(t, err)

	assert.Equal(t, a.PostID+1, b.PostID)
}

func TestPageCache_BoundedAndConsistent(t *testing.T) {
	engine := newTestEngine(WithPageCacheSize(2))
	require.NoError(t, engine.Initialize(context.Background(), seedSource()))

	// More distinct pages than the cache admits: results must stay correct
	// whether or not they were memoized.
	for skip := 0; skip < 4; skip++ {
		page := engine.GetPosts(skip, 1, 0)
		again := engine.GetPosts(skip, 1, 0)
		assert.Equal(t, page, again, "skip=%d", skip)
	}
}

func TestEngine_ConcurrentReadersAndWriter(t *testing.T) {
	engine := newTestEngine()
	require.NoError(t, engine.Initialize(context.Background(), seedSource()))

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for r := 0; r < 8; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				posts := engine.GetPosts(0, 5, 3)
				for i := 1; i < len(posts); i++ {
					prev, cur := posts[i-1], posts[i]
					ordered := cur.CreatedAt.Before(prev.CreatedAt) ||
						(cur.CreatedAt.Equal(prev.CreatedAt) && prev.PostID < cur.PostID)
					assert.True(t, ordered, "feed order broken at %d", i)
				}
				engine.GetPostsByTag(feed.TagEvent, 0, 5, 0)
				engine.GetUserProfile(1)
			}
		}()
	}

	for i := 0; i < 50; i++ {
		_, err := engine.AddPost("concurrent", 1+i%3, []string{feed.TagEvent})
		require.NoError(t, err)
	}
	close(stop)
	wg.Wait()

	assert.Equal(t, 53, engine.Stats().PostsCount)
	assert.Len(t, engine.GetPostsByTag(feed.TagEvent, 0, 100, 0), 52)
}

func TestPerformanceMetrics(t *testing.T) {
	m := NewPerformanceMetrics()

	idle := m.Snapshot()
	assert.Equal(t, int64(0), idle.TotalRequests)
	assert.Equal(t, float64(100), idle.PerformancePercentage)

	m.Record(10 * time.Millisecond)
	m.Record(30 * time.Millisecond)
	m.Record(500 * time.Millisecond)

	stats := m.Snapshot()
	assert.Equal(t, int64(3), stats.TotalRequests)
	assert.Equal(t, int64(2), stats.RequestsUnderTarget)
	assert.InDelta(t, 180.0, stats.AverageResponseTimeMS, 0.01)
	assert.InDelta(t, 10.0, stats.MinResponseTimeMS, 0.01)
	assert.InDelta(t, 500.0, stats.MaxResponseTimeMS, 0.01)
	assert.InDelta(t, 66.66, stats.PerformancePercentage, 0.1)
}

func TestEngine_MemoryStats(t *testing.T) {
	engine := newTestEngine()
	require.NoError(t, engine.Initialize(context.Background(), seedSource()))

	mem := engine.MemoryStats()
	assert.Equal(t, 3, mem.Entries["posts"])
	assert.Equal(t, 3, mem.Entries["users"])
	assert.Equal(t, 2, mem.Entries["comments"])
	assert.Positive(t, mem.TotalEntries)
	assert.Positive(t, mem.HeapAllocBytes)
}
