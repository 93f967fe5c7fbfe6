package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomosu-backend/application/ports"
	"tomosu-backend/domain/feed"
)

func TestGetPosts_NewestFirstWithStableTieBreak(t *testing.T) {
	src := seedSource()
	// Two posts sharing a timestamp: lower ID wins the tie.
	src.posts = append(src.posts,
		ports.PostRecord{PostID: 41, UserID: 1, Content: "tie b", CreatedAt: at(20), UpdatedAt: at(20)},
	)

	engine := newTestEngine()
	require.NoError(t, engine.Initialize(context.Background(), src))

	posts := engine.GetPosts(0, 10, 0)

	require.Len(t, posts, 4)
	assert.Equal(t, []int{20, 41, 10, 30}, postIDs(posts))
}

func TestGetPosts_Pagination(t *testing.T) {
	engine := newTestEngine()
	require.NoError(t, engine.Initialize(context.Background(), seedSource()))

	assert.Equal(t, []int{20}, postIDs(engine.GetPosts(0, 1, 0)))
	assert.Equal(t, []int{10, 30}, postIDs(engine.GetPosts(1, 2, 0)))
	assert.Empty(t, engine.GetPosts(3, 10, 0), "skip past the end")
	assert.Empty(t, engine.GetPosts(0, 0, 0))
}

func TestGetPosts_ViewerProjection(t *testing.T) {
	engine := newTestEngine()
	require.NoError(t, engine.Initialize(context.Background(), seedSource()))

	// User 3 liked post 10 and bookmarked posts 10 and 20.
	viewed := engine.GetPosts(0, 10, 3)
	byID := indexPosts(viewed)
	assert.True(t, byID[10].IsLiked)
	assert.True(t, byID[10].IsBookmarked)
	assert.False(t, byID[20].IsLiked)
	assert.True(t, byID[20].IsBookmarked)
	assert.False(t, byID[30].IsLiked)
	assert.False(t, byID[30].IsBookmarked)

	// Anonymous viewers never see personal flags.
	for _, p := range engine.GetPosts(0, 10, 0) {
		assert.False(t, p.IsLiked)
		assert.False(t, p.IsBookmarked)
	}
}

func TestGetPosts_ResultIsIsolatedCopy(t *testing.T) {
	engine := newTestEngine()
	require.NoError(t, engine.Initialize(context.Background(), seedSource()))

	first := engine.GetPosts(0, 10, 0)
	first[0].Content = "mutated"
	first[0].Tags[0].PostsCount = 999
	first[0].IsLiked = true

	second := engine.GetPosts(0, 10, 0)
	assert.Equal(t, "new ramen shop", second[0].Content)
	assert.NotEqual(t, 999, second[0].Tags[0].PostsCount)
	assert.False(t, second[0].IsLiked)
}

func TestGetPostsByTag_MembershipAndOrder(t *testing.T) {
	engine := newTestEngine()
	require.NoError(t, engine.Initialize(context.Background(), seedSource()))

	event := engine.GetPostsByTag(feed.TagEvent, 0, 10, 0)
	assert.Equal(t, []int{20, 10}, postIDs(event))

	gourmet := engine.GetPostsByTag(feed.TagGourmet, 0, 10, 0)
	assert.Equal(t, []int{20}, postIDs(gourmet))

	follow := engine.GetPostsByTag(feed.TagFollow, 0, 10, 0)
	assert.Empty(t, follow)

	unknown := engine.GetPostsByTag("Sports", 0, 10, 0)
	assert.Empty(t, unknown)
}

func TestGetPostByID(t *testing.T) {
	engine := newTestEngine()
	require.NoError(t, engine.Initialize(context.Background(), seedSource()))

	post, ok := engine.GetPostByID(20, 1)
	require.True(t, ok)
	assert.Equal(t, "new ramen shop", post.Content)
	assert.Equal(t, "ben", post.Author.Username)
	assert.True(t, post.IsLiked, "user 1 liked post 20")
	tags := make([]string, 0, len(post.Tags))
	for _, tag := range post.Tags {
		tags = append(tags, tag.TagName)
	}
	assert.ElementsMatch(t, []string{feed.TagGourmet, feed.TagEvent}, tags)

	_, ok = engine.GetPostByID(404, 0)
	assert.False(t, ok)
}

func TestGetUsersAndProfile(t *testing.T) {
	engine := newTestEngine()
	require.NoError(t, engine.Initialize(context.Background(), seedSource()))

	users := engine.GetUsers(0, 10)
	require.Len(t, users, 3)
	assert.Equal(t, 1, users[0].UserID)
	assert.Equal(t, 3, users[2].UserID)

	profile, ok := engine.GetUserProfile(1)
	require.True(t, ok)
	assert.Equal(t, "asa", profile.Username)
	assert.Equal(t, 2, profile.FollowersCount)
	assert.Equal(t, 1, profile.FollowingCount)
	assert.Equal(t, 2, profile.PostsCount)

	_, ok = engine.GetUserProfile(404)
	assert.False(t, ok)
}

func TestFollowerAndFollowingLists(t *testing.T) {
	engine := newTestEngine()
	require.NoError(t, engine.Initialize(context.Background(), seedSource()))

	followers := engine.GetUserFollowers(1, 0, 10)
	require.Len(t, followers, 2)
	assert.Equal(t, 2, followers[0].UserID)
	assert.Equal(t, 3, followers[1].UserID)

	following := engine.GetUserFollowing(1, 0, 10)
	require.Len(t, following, 1)
	assert.Equal(t, 2, following[0].UserID)

	assert.Empty(t, engine.GetUserFollowing(3, 0, 10))
}

func TestGetUserBookmarks(t *testing.T) {
	engine := newTestEngine()
	require.NoError(t, engine.Initialize(context.Background(), seedSource()))

	marks := engine.GetUserBookmarks(3, 0, 10)
	require.Len(t, marks, 2)
	assert.Equal(t, []int{20, 10}, postIDs(marks), "newest first")
	for _, p := range marks {
		assert.True(t, p.IsBookmarked)
	}
	assert.True(t, indexPosts(marks)[10].IsLiked, "user 3 liked post 10")

	assert.Empty(t, engine.GetUserBookmarks(1, 0, 10))
}

func TestGetCommentsByPost_OldestFirst(t *testing.T) {
	engine := newTestEngine()
	require.NoError(t, engine.Initialize(context.Background(), seedSource()))

	comments := engine.GetCommentsByPost(10, 0, 10)
	require.Len(t, comments, 2)
	assert.Equal(t, 101, comments[0].CommentID, "earlier timestamp first")
	assert.Equal(t, 100, comments[1].CommentID)
	assert.Equal(t, "chie", comments[0].Author.Username)

	assert.Empty(t, engine.GetCommentsByPost(30, 0, 10))
}

func TestGetPostLikes(t *testing.T) {
	engine := newTestEngine()
	require.NoError(t, engine.Initialize(context.Background(), seedSource()))

	count, liked, ok := engine.GetPostLikes(10, 2)
	require.True(t, ok)
	assert.Equal(t, 2, count)
	assert.True(t, liked)

	count, liked, ok = engine.GetPostLikes(30, 2)
	require.True(t, ok)
	assert.Equal(t, 0, count)
	assert.False(t, liked)

	_, _, ok = engine.GetPostLikes(404, 0)
	assert.False(t, ok)
}

func TestGetTags_DisplayOrder(t *testing.T) {
	engine := newTestEngine()
	require.NoError(t, engine.Initialize(context.Background(), seedSource()))

	tags := engine.GetTags()
	require.Len(t, tags, 4)
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.TagName)
	}
	assert.Equal(t, []string(feed.FixedTagNames), names)
}

func TestGetSurveys(t *testing.T) {
	engine := newTestEngine()
	require.NoError(t, engine.Initialize(context.Background(), seedSource()))

	surveys := engine.GetSurveys(0, 10)
	require.Len(t, surveys, 1)
	assert.Equal(t, "Park cleanup", surveys[0].Title)

	survey, ok := engine.GetSurveyByID(1)
	require.True(t, ok)
	assert.Equal(t, 50, survey.Points)

	_, ok = engine.GetSurveyByID(2)
	assert.False(t, ok)
}

func TestQueries_UninitializedEngineReturnsEmpty(t *testing.T) {
	engine := newTestEngine()

	assert.Empty(t, engine.GetPosts(0, 10, 0))
	assert.Empty(t, engine.GetPostsByTag(feed.TagEvent, 0, 10, 0))
	assert.Empty(t, engine.GetUsers(0, 10))
	assert.Empty(t, engine.GetTags())
	assert.Empty(t, engine.GetSurveys(0, 10))
	assert.Empty(t, engine.GetUserBookmarks(1, 0, 10))
	assert.Empty(t, engine.GetCommentsByPost(1, 0, 10))

	_, ok := engine.GetPostByID(1, 0)
	assert.False(t, ok)
	_, ok = engine.GetUserByID(1)
	assert.False(t, ok)
	_, _, ok = engine.GetPostLikes(1, 0)
	assert.False(t, ok)
}

func postIDs(posts []feed.Post) []int {
	ids := make([]int, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.PostID)
	}
	return ids
}

func indexPosts(posts []feed.Post) map[int]feed.Post {
	byID := make(map[int]feed.Post, len(posts))
	for _, p := range posts {
		byID[p.PostID] = p
	}
	return byID
}
