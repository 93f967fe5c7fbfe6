package cache

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"tomosu-backend/application/ports"
	"tomosu-backend/domain/feed"
)

// Initialize bulk-loads every entity from the source and replaces all cache
// state in one step. The sequence is fail-fast: the first fetch error aborts
// the load, leaves the engine empty and uninitialized, and is reported
// upward - a partial cache is never exposed as ready. Rows that violate
// referential integrity (a post without its author, a like for a missing
// post, ...) are dropped with a warning instead of failing the load.
//
// Initialize is re-entrant: a second call fully replaces the previous
// generation, there is no incremental merge.
func (e *Engine) Initialize(ctx context.Context, src ports.BulkSource) error {
	start := e.now()
	e.logger.Info("starting cache initialization")

	snap := newSnapshot(e.pageCacheSize())

	users, err := src.Users(ctx)
	if err != nil {
		return e.failInit(fmt.Errorf("load users: %w", err))
	}
	e.loadUsers(snap, users)

	tags, err := src.Tags(ctx)
	if err != nil {
		return e.failInit(fmt.Errorf("load tags: %w", err))
	}
	e.loadTags(snap, tags)

	posts, err := src.Posts(ctx)
	if err != nil {
		return e.failInit(fmt.Errorf("load posts: %w", err))
	}
	e.loadPosts(snap, posts)

	comments, err := src.Comments(ctx)
	if err != nil {
		return e.failInit(fmt.Errorf("load comments: %w", err))
	}
	e.loadComments(snap, comments)

	likes, err := src.Likes(ctx)
	if err != nil {
		return e.failInit(fmt.Errorf("load likes: %w", err))
	}
	e.loadLikes(snap, likes)

	bookmarks, err := src.Bookmarks(ctx)
	if err != nil {
		return e.failInit(fmt.Errorf("load bookmarks: %w", err))
	}
	e.loadBookmarks(snap, bookmarks)

	follows, err := src.Follows(ctx)
	if err != nil {
		return e.failInit(fmt.Errorf("load follows: %w", err))
	}
	e.loadFollows(snap, follows)

	surveys, err := src.Surveys(ctx)
	if err != nil {
		return e.failInit(fmt.Errorf("load surveys: %w", err))
	}
	e.loadSurveys(snap, surveys)

	// Derived counts are computed from the indices so the count invariants
	// hold by construction.
	for name, ids := range snap.tagPosts {
		snap.tags[name].PostsCount = len(ids)
	}

	// First-generation sorted view, built before the swap so no reader ever
	// pays for it.
	snap.views.rebuildGlobal(snap.posts)

	duration := e.now().Sub(start)
	stats := Stats{
		Initialized:           true,
		InitializationSeconds: duration.Seconds(),
		PostsCount:            len(snap.posts),
		UsersCount:            len(snap.users),
		CommentsCount:         countComments(snap.comments),
		TagsCount:             len(snap.tags),
		SurveysCount:          len(snap.surveys),
		LikesCount:            countSets(snap.likes),
		BookmarksCount:        countSets(snap.bookmarks),
		FollowsCount:          countSets(snap.follows),
	}

	e.mu.Lock()
	e.snap = snap
	e.initialized = true
	e.stats = stats
	e.mu.Unlock()

	e.logger.Info("cache initialization completed",
		zap.Duration("duration", duration),
		zap.Int("posts", stats.PostsCount),
		zap.Int("users", stats.UsersCount),
		zap.Int("comments", stats.CommentsCount),
		zap.Int("tags", stats.TagsCount),
		zap.Int("surveys", stats.SurveysCount),
		zap.Int("likes", stats.LikesCount),
		zap.Int("bookmarks", stats.BookmarksCount),
		zap.Int("follows", stats.FollowsCount),
	)
	return nil
}

// failInit resets the engine to empty and uninitialized.
func (e *Engine) failInit(err error) error {
	size := e.pageCacheSize()
	e.mu.Lock()
	e.snap = newSnapshot(size)
	e.initialized = false
	e.stats = Stats{}
	e.mu.Unlock()

	e.logger.Error("cache initialization failed", zap.Error(err))
	return err
}

func (e *Engine) pageCacheSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap.views.maxPages
}

func (e *Engine) loadUsers(snap *snapshot, records []ports.UserRecord) {
	for _, r := range records {
		snap.users[r.UserID] = &feed.User{
			UserID:          r.UserID,
			Username:        r.Username,
			DisplayName:     r.DisplayName,
			Email:           r.Email,
			ProfileImageURL: r.ProfileImageURL,
			Bio:             r.Bio,
			Area:            r.Area,
			CreatedAt:       r.CreatedAt,
			UpdatedAt:       r.UpdatedAt,
		}
	}
}

func (e *Engine) loadTags(snap *snapshot, records []ports.TagRecord) {
	for _, r := range records {
		if !feed.IsKnownTag(r.TagName) {
			e.logger.Warn("ignoring unknown tag row", zap.String("tag", r.TagName))
			continue
		}
		snap.tags[r.TagName] = &feed.Tag{TagID: r.TagID, TagName: r.TagName}
		snap.tagPosts[r.TagName] = nil
	}
}

// categoryTags maps a post row's fixed boolean category flags to tag names.
func categoryTags(r ports.PostRecord) []string {
	var names []string
	if r.IsFollowCategory {
		names = append(names, feed.TagFollow)
	}
	if r.IsNeighborhoodCategory {
		names = append(names, feed.TagNeighborhood)
	}
	if r.IsEventCategory {
		names = append(names, feed.TagEvent)
	}
	if r.IsGourmetCategory {
		names = append(names, feed.TagGourmet)
	}
	return names
}

func (e *Engine) loadPosts(snap *snapshot, records []ports.PostRecord) {
	for _, r := range records {
		author, ok := snap.users[r.UserID]
		if !ok {
			e.logger.Warn("dropping post with unknown author",
				zap.Int("postID", r.PostID),
				zap.Int("userID", r.UserID),
			)
			continue
		}

		var tagNames []string
		for _, name := range categoryTags(r) {
			if _, ok := snap.tags[name]; !ok {
				e.logger.Warn("post references unloaded tag",
					zap.Int("postID", r.PostID),
					zap.String("tag", name),
				)
				continue
			}
			tagNames = append(tagNames, name)
			snap.tagPosts[name] = append(snap.tagPosts[name], r.PostID)
		}
		snap.postTags[r.PostID] = tagNames

		snap.posts[r.PostID] = &feed.Post{
			PostID:    r.PostID,
			UserID:    r.UserID,
			Content:   r.Content,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			Author:    *author,
			ImageURLs: r.ImageURLs,
		}
		if r.PostID >= snap.nextPostID {
			snap.nextPostID = r.PostID + 1
		}
	}
}

func (e *Engine) loadComments(snap *snapshot, records []ports.CommentRecord) {
	for _, r := range records {
		author, ok := snap.users[r.UserID]
		if !ok {
			e.logger.Warn("dropping comment with unknown author",
				zap.Int("commentID", r.CommentID),
				zap.Int("userID", r.UserID),
			)
			continue
		}
		if _, ok := snap.posts[r.PostID]; !ok {
			e.logger.Warn("dropping comment for unknown post",
				zap.Int("commentID", r.CommentID),
				zap.Int("postID", r.PostID),
			)
			continue
		}
		snap.comments[r.PostID] = append(snap.comments[r.PostID], feed.Comment{
			CommentID: r.CommentID,
			PostID:    r.PostID,
			UserID:    r.UserID,
			Content:   r.Content,
			CreatedAt: r.CreatedAt,
			Author:    *author,
		})
	}

	// Chronological, oldest first; comment ID breaks timestamp ties.
	for postID, comments := range snap.comments {
		sort.Slice(comments, func(i, j int) bool {
			if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
				return comments[i].CreatedAt.Before(comments[j].CreatedAt)
			}
			return comments[i].CommentID < comments[j].CommentID
		})
		snap.posts[postID].CommentsCount = len(comments)
	}
}

func (e *Engine) loadLikes(snap *snapshot, records []ports.LikeRecord) {
	for _, r := range records {
		if _, ok := snap.posts[r.PostID]; !ok {
			e.logger.Warn("dropping like for unknown post", zap.Int("postID", r.PostID))
			continue
		}
		if _, ok := snap.users[r.UserID]; !ok {
			e.logger.Warn("dropping like from unknown user", zap.Int("userID", r.UserID))
			continue
		}
		set, ok := snap.likes[r.PostID]
		if !ok {
			set = make(map[int]struct{})
			snap.likes[r.PostID] = set
		}
		set[r.UserID] = struct{}{}
	}
	for postID, set := range snap.likes {
		snap.posts[postID].LikesCount = len(set)
	}
}

func (e *Engine) loadBookmarks(snap *snapshot, records []ports.BookmarkRecord) {
	for _, r := range records {
		if _, ok := snap.users[r.UserID]; !ok {
			e.logger.Warn("dropping bookmark from unknown user", zap.Int("userID", r.UserID))
			continue
		}
		if _, ok := snap.posts[r.PostID]; !ok {
			e.logger.Warn("dropping bookmark for unknown post", zap.Int("postID", r.PostID))
			continue
		}
		marks, ok := snap.bookmarks[r.UserID]
		if !ok {
			marks = make(map[int]struct{})
			snap.bookmarks[r.UserID] = marks
		}
		marks[r.PostID] = struct{}{}
	}
}

func (e *Engine) loadFollows(snap *snapshot, records []ports.FollowRecord) {
	for _, r := range records {
		if _, ok := snap.users[r.FollowerID]; !ok {
			e.logger.Warn("dropping follow from unknown user", zap.Int("userID", r.FollowerID))
			continue
		}
		if _, ok := snap.users[r.FolloweeID]; !ok {
			e.logger.Warn("dropping follow of unknown user", zap.Int("userID", r.FolloweeID))
			continue
		}
		out, ok := snap.follows[r.FollowerID]
		if !ok {
			out = make(map[int]struct{})
			snap.follows[r.FollowerID] = out
		}
		out[r.FolloweeID] = struct{}{}

		in, ok := snap.followers[r.FolloweeID]
		if !ok {
			in = make(map[int]struct{})
			snap.followers[r.FolloweeID] = in
		}
		in[r.FollowerID] = struct{}{}
	}
}

func (e *Engine) loadSurveys(snap *snapshot, records []ports.SurveyRecord) {
	for _, r := range records {
		snap.surveys[r.SurveyID] = &feed.Survey{
			SurveyID:       r.SurveyID,
			Title:          r.Title,
			QuestionText:   r.QuestionText,
			Points:         r.Points,
			Deadline:       r.Deadline,
			TargetAudience: r.TargetAudience,
			CreatedAt:      r.CreatedAt,
			ResponseCount:  r.ResponseCount,
		}
	}
}
