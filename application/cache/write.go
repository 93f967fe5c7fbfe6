package cache

import (
	"go.uber.org/zap"

	"tomosu-backend/domain/feed"
)

// AddPost appends a new post to the cache. This is the single supported
// mutation: the post lives only in memory (MVP scope, nothing is written
// back to the durable store). The author must already exist in the primary
// store; tag names that are not one of the fixed categories are ignored.
// The global sorted view and every affected tag view are marked dirty, so
// the next read rebuilds them and drops the stale pagination entries.
func (e *Engine) AddPost(content string, authorID int, tagNames []string) (feed.Post, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return feed.Post{}, ErrNotInitialized
	}
	author, ok := e.snap.users[authorID]
	if !ok {
		return feed.Post{}, ErrAuthorUnknown
	}

	postID := e.snap.nextPostID
	e.snap.nextPostID++

	now := e.now()
	post := &feed.Post{
		PostID:    postID,
		UserID:    authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
		Author:    *author,
	}

	applied := make([]string, 0, len(tagNames))
	seen := make(map[string]struct{}, len(tagNames))
	for _, name := range tagNames {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		tag, known := e.snap.tags[name]
		if !known {
			e.logger.Debug("ignoring unknown tag on new post",
				zap.String("tag", name),
				zap.Int("postID", postID),
			)
			continue
		}
		tag.PostsCount++
		e.snap.tagPosts[name] = append(e.snap.tagPosts[name], postID)
		e.snap.views.tagDirty[name] = struct{}{}
		applied = append(applied, name)
	}
	e.snap.postTags[postID] = applied

	e.snap.posts[postID] = post
	e.stats.PostsCount++
	e.snap.views.globalDirty = true

	e.logger.Info("post added to cache",
		zap.Int("postID", postID),
		zap.Int("authorID", authorID),
		zap.Strings("tags", applied),
	)

	return e.materializeLocked(post), nil
}
