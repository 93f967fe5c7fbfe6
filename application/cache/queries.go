package cache

import (
	"sort"

	"tomosu-backend/domain/feed"
)

// materializeLocked turns a cached master post into a value copy with its
// tag metadata resolved from the tag store, so embedded post counts are
// always current. Caller holds at least the shared lock.
func (e *Engine) materializeLocked(p *feed.Post) feed.Post {
	out := p.Clone()
	names := e.snap.postTags[p.PostID]
	if len(names) > 0 {
		out.Tags = make([]feed.Tag, 0, len(names))
		for _, name := range names {
			if t, ok := e.snap.tags[name]; ok {
				out.Tags = append(out.Tags, *t)
			}
		}
	} else {
		out.Tags = []feed.Tag{}
	}
	return out
}

// projectLocked stamps the viewer-specific flags onto a post copy. The
// shared cached entity is never touched; with no viewer both flags stay
// false. Caller holds at least the shared lock.
func (e *Engine) projectLocked(p *feed.Post, viewerID int) {
	if viewerID == 0 {
		return
	}
	if set, ok := e.snap.likes[p.PostID]; ok {
		_, p.IsLiked = set[viewerID]
	}
	if marks, ok := e.snap.bookmarks[viewerID]; ok {
		_, p.IsBookmarked = marks[p.PostID]
	}
}

// assemblePageLocked materializes and decorates one page of a sorted view.
// Caller holds the exclusive lock.
func (e *Engine) assemblePageLocked(refs []postRef, skip, limit, viewerID int) []feed.Post {
	from, to := pageBounds(skip, limit, len(refs))
	page := make([]feed.Post, 0, to-from)
	for _, ref := range refs[from:to] {
		p, ok := e.snap.posts[ref.id]
		if !ok {
			continue
		}
		out := e.materializeLocked(p)
		e.projectLocked(&out, viewerID)
		page = append(page, out)
	}
	return page
}

// GetPosts returns one page of the global feed, newest first. A viewerID of
// zero means anonymous. Results are value copies; an uninitialized engine
// returns an empty page.
func (e *Engine) GetPosts(skip, limit, viewerID int) []feed.Post {
	key := globalPageKey(skip, limit, viewerID)

	e.mu.RLock()
	if !e.initialized {
		e.mu.RUnlock()
		return []feed.Post{}
	}
	if !e.snap.views.globalDirty {
		if page, ok := e.snap.views.pages[key]; ok {
			out := clonePage(page)
			e.mu.RUnlock()
			return out
		}
	}
	e.mu.RUnlock()

	// Miss or dirty view: rebuild and memoize under the exclusive lock so
	// concurrent readers never observe a half-built view.
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return []feed.Post{}
	}
	if e.snap.views.globalDirty {
		e.snap.views.rebuildGlobal(e.snap.posts)
	}
	if page, ok := e.snap.views.pages[key]; ok {
		return clonePage(page)
	}
	page := e.assemblePageLocked(e.snap.views.global, skip, limit, viewerID)
	e.snap.views.storePage(key, page)
	return clonePage(page)
}

// GetPostByID returns a single post, decorated for the viewer. The second
// return value is false when the post does not exist or the engine is not
// initialized.
func (e *Engine) GetPostByID(postID, viewerID int) (feed.Post, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.initialized {
		return feed.Post{}, false
	}
	p, ok := e.snap.posts[postID]
	if !ok {
		return feed.Post{}, false
	}
	out := e.materializeLocked(p)
	e.projectLocked(&out, viewerID)
	return out, true
}

// GetPostsByTag returns one page of a tag's feed, newest first. Unknown tags
// yield an empty page.
func (e *Engine) GetPostsByTag(tagName string, skip, limit, viewerID int) []feed.Post {
	key := tagPageKey(tagName, skip, limit, viewerID)

	e.mu.RLock()
	if !e.initialized {
		e.mu.RUnlock()
		return []feed.Post{}
	}
	if _, known := e.snap.tagPosts[tagName]; !known {
		e.mu.RUnlock()
		return []feed.Post{}
	}
	if !e.snap.views.tagIsDirty(tagName) {
		if page, ok := e.snap.views.pages[key]; ok {
			out := clonePage(page)
			e.mu.RUnlock()
			return out
		}
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return []feed.Post{}
	}
	if _, known := e.snap.tagPosts[tagName]; !known {
		return []feed.Post{}
	}
	if e.snap.views.tagIsDirty(tagName) {
		e.snap.views.rebuildTag(tagName, e.snap.tagPosts, e.snap.posts)
	}
	if page, ok := e.snap.views.pages[key]; ok {
		return clonePage(page)
	}
	page := e.assemblePageLocked(e.snap.views.byTag[tagName], skip, limit, viewerID)
	e.snap.views.storePage(key, page)
	return clonePage(page)
}

// GetUserByID returns basic user information.
func (e *Engine) GetUserByID(userID int) (feed.User, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.initialized {
		return feed.User{}, false
	}
	u, ok := e.snap.users[userID]
	if !ok {
		return feed.User{}, false
	}
	return *u, true
}

// GetUsers returns users ordered by ascending ID.
func (e *Engine) GetUsers(skip, limit int) []feed.User {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.initialized {
		return []feed.User{}
	}
	ids := make([]int, 0, len(e.snap.users))
	for id := range e.snap.users {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	from, to := pageBounds(skip, limit, len(ids))
	out := make([]feed.User, 0, to-from)
	for _, id := range ids[from:to] {
		out = append(out, *e.snap.users[id])
	}
	return out
}

// GetUserProfile returns a user together with follower/following/post
// counts computed from the relationship indices.
func (e *Engine) GetUserProfile(userID int) (feed.UserProfile, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.initialized {
		return feed.UserProfile{}, false
	}
	u, ok := e.snap.users[userID]
	if !ok {
		return feed.UserProfile{}, false
	}
	posts := 0
	for _, p := range e.snap.posts {
		if p.UserID == userID {
			posts++
		}
	}
	return feed.UserProfile{
		User:           *u,
		FollowersCount: len(e.snap.followers[userID]),
		FollowingCount: len(e.snap.follows[userID]),
		PostsCount:     posts,
	}, true
}

// GetUserFollowers returns the users following userID, ordered by ascending
// ID for a stable pagination order.
func (e *Engine) GetUserFollowers(userID, skip, limit int) []feed.User {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.adjacentUsersLocked(e.snap.followers[userID], skip, limit)
}

// GetUserFollowing returns the users userID follows, ordered by ascending ID.
func (e *Engine) GetUserFollowing(userID, skip, limit int) []feed.User {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.adjacentUsersLocked(e.snap.follows[userID], skip, limit)
}

func (e *Engine) adjacentUsersLocked(set map[int]struct{}, skip, limit int) []feed.User {
	if !e.initialized || len(set) == 0 {
		return []feed.User{}
	}
	ids := make([]int, 0, len(set))
	for id := range set {
		if _, ok := e.snap.users[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	from, to := pageBounds(skip, limit, len(ids))
	out := make([]feed.User, 0, to-from)
	for _, id := range ids[from:to] {
		out = append(out, *e.snap.users[id])
	}
	return out
}

// GetUserBookmarks returns the posts a user bookmarked, newest first. Every
// returned post carries IsBookmarked=true by definition, and IsLiked is
// projected against the same user. A user with no bookmarks gets an empty
// page, not an error.
func (e *Engine) GetUserBookmarks(userID, skip, limit int) []feed.Post {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.initialized {
		return []feed.Post{}
	}
	marks := e.snap.bookmarks[userID]
	if len(marks) == 0 {
		return []feed.Post{}
	}
	refs := make([]postRef, 0, len(marks))
	for id := range marks {
		if p, ok := e.snap.posts[id]; ok {
			refs = append(refs, postRef{id: id, createdAt: p.CreatedAt})
		}
	}
	sortRefs(refs)
	from, to := pageBounds(skip, limit, len(refs))
	out := make([]feed.Post, 0, to-from)
	for _, ref := range refs[from:to] {
		p := e.materializeLocked(e.snap.posts[ref.id])
		e.projectLocked(&p, userID)
		p.IsBookmarked = true
		out = append(out, p)
	}
	return out
}

// GetCommentsByPost returns one page of a post's comments in chronological
// order, oldest first.
func (e *Engine) GetCommentsByPost(postID, skip, limit int) []feed.Comment {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.initialized {
		return []feed.Comment{}
	}
	comments := e.snap.comments[postID]
	from, to := pageBounds(skip, limit, len(comments))
	out := make([]feed.Comment, to-from)
	copy(out, comments[from:to])
	return out
}

// GetPostLikes returns the like count for a post plus whether the viewer is
// among the likers.
func (e *Engine) GetPostLikes(postID, viewerID int) (count int, isLiked bool, ok bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.initialized {
		return 0, false, false
	}
	if _, exists := e.snap.posts[postID]; !exists {
		return 0, false, false
	}
	set := e.snap.likes[postID]
	if viewerID != 0 {
		_, isLiked = set[viewerID]
	}
	return len(set), isLiked, true
}

// GetTags returns every fixed tag in display order.
func (e *Engine) GetTags() []feed.Tag {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.initialized {
		return []feed.Tag{}
	}
	out := make([]feed.Tag, 0, len(e.snap.tags))
	for _, name := range feed.FixedTagNames {
		if t, ok := e.snap.tags[name]; ok {
			out = append(out, *t)
		}
	}
	return out
}

// GetTagByName returns a single tag.
func (e *Engine) GetTagByName(name string) (feed.Tag, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.initialized {
		return feed.Tag{}, false
	}
	t, ok := e.snap.tags[name]
	if !ok {
		return feed.Tag{}, false
	}
	return *t, true
}

// GetSurveys returns surveys ordered by ascending ID.
func (e *Engine) GetSurveys(skip, limit int) []feed.Survey {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.initialized {
		return []feed.Survey{}
	}
	ids := make([]int, 0, len(e.snap.surveys))
	for id := range e.snap.surveys {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	from, to := pageBounds(skip, limit, len(ids))
	out := make([]feed.Survey, 0, to-from)
	for _, id := range ids[from:to] {
		out = append(out, *e.snap.surveys[id])
	}
	return out
}

// GetSurveyByID returns a single survey.
func (e *Engine) GetSurveyByID(surveyID int) (feed.Survey, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.initialized {
		return feed.Survey{}, false
	}
	s, ok := e.snap.surveys[surveyID]
	if !ok {
		return feed.Survey{}, false
	}
	return *s, true
}
