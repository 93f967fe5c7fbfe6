package cache

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"tomosu-backend/domain/feed"
)

// postRef is one entry of a sorted view: a post ID paired with the creation
// time it is ordered by.
type postRef struct {
	id        int
	createdAt time.Time
}

// viewCache holds the materialized, time-descending ID orderings (one global
// view, one per tag) plus a small bounded cache of already-sliced result
// pages. Views are rebuilt lazily when marked dirty; rebuilding the global
// view clears the whole page cache, rebuilding a tag view clears only that
// tag's pages.
//
// The page cache admits entries until it is full and then stops; it is
// emptied wholesale by invalidation rather than evicting per entry.
type viewCache struct {
	global      []postRef
	globalDirty bool

	byTag    map[string][]postRef
	tagDirty map[string]struct{}

	pages    map[string][]feed.Post
	maxPages int
}

func newViewCache(maxPages int) *viewCache {
	return &viewCache{
		globalDirty: true,
		byTag:       make(map[string][]postRef),
		tagDirty:    make(map[string]struct{}),
		pages:       make(map[string][]feed.Post),
		maxPages:    maxPages,
	}
}

// sortRefs orders a view by creation time descending; ties are broken by
// ascending post ID so the order is total and deterministic.
func sortRefs(refs []postRef) {
	sort.Slice(refs, func(i, j int) bool {
		if !refs[i].createdAt.Equal(refs[j].createdAt) {
			return refs[i].createdAt.After(refs[j].createdAt)
		}
		return refs[i].id < refs[j].id
	})
}

// rebuildGlobal recomputes the global view from the primary store and clears
// every cached page. Caller holds the exclusive lock (or owns the snapshot).
func (v *viewCache) rebuildGlobal(posts map[int]*feed.Post) {
	refs := make([]postRef, 0, len(posts))
	for id, p := range posts {
		refs = append(refs, postRef{id: id, createdAt: p.CreatedAt})
	}
	sortRefs(refs)
	v.global = refs
	v.globalDirty = false
	v.pages = make(map[string][]feed.Post)
}

// rebuildTag recomputes one tag's view. Index entries whose post has gone
// missing are skipped; only that tag's cached pages are dropped.
func (v *viewCache) rebuildTag(tag string, tagPosts map[string][]int, posts map[int]*feed.Post) {
	ids := tagPosts[tag]
	refs := make([]postRef, 0, len(ids))
	for _, id := range ids {
		if p, ok := posts[id]; ok {
			refs = append(refs, postRef{id: id, createdAt: p.CreatedAt})
		}
	}
	sortRefs(refs)
	v.byTag[tag] = refs
	delete(v.tagDirty, tag)
	v.dropPages(tagPageScope(tag))
}

// tagIsDirty reports whether the tag's view needs a rebuild before use.
func (v *viewCache) tagIsDirty(tag string) bool {
	if _, ok := v.tagDirty[tag]; ok {
		return true
	}
	_, built := v.byTag[tag]
	return !built
}

func (v *viewCache) dropPages(scope string) {
	for key := range v.pages {
		if strings.HasPrefix(key, scope) {
			delete(v.pages, key)
		}
	}
}

// storePage memoizes a decorated page unless the cache is full.
func (v *viewCache) storePage(key string, page []feed.Post) {
	if len(v.pages) >= v.maxPages {
		return
	}
	v.pages[key] = page
}

func globalPageKey(skip, limit, viewerID int) string {
	return fmt.Sprintf("posts|%d|%d|%d", skip, limit, viewerID)
}

func tagPageScope(tag string) string {
	return "tag:" + tag + "|"
}

func tagPageKey(tag string, skip, limit, viewerID int) string {
	return fmt.Sprintf("%s%d|%d|%d", tagPageScope(tag), skip, limit, viewerID)
}

// clonePage deep-copies a cached page so neither the cache nor a previous
// caller shares backing slices with the result.
func clonePage(page []feed.Post) []feed.Post {
	out := make([]feed.Post, len(page))
	for i := range page {
		out[i] = page[i].Clone()
	}
	return out
}

// pageBounds clamps a skip/limit window to a collection of length n and
// returns the half-open range to slice.
func pageBounds(skip, limit, n int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}
	if skip > n {
		skip = n
	}
	end := skip + limit
	if end > n {
		end = n
	}
	return skip, end
}
