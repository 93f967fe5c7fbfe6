// Package feed defines the entities served by the regional feed: posts,
// users, comments, tags and surveys. Values returned by the cache engine are
// copies; callers may mutate them freely without affecting shared state.
package feed

import "time"

// The feed has exactly four fixed categories. Tag-post linkage is derived
// from boolean category flags on each post row, not from a free-form join.
const (
	TagFollow       = "Follow"
	TagNeighborhood = "Neighborhood"
	TagEvent        = "Event"
	TagGourmet      = "Gourmet"
)

// FixedTagNames lists the known categories in display order.
var FixedTagNames = []string{TagFollow, TagNeighborhood, TagEvent, TagGourmet}

// IsKnownTag reports whether name is one of the fixed categories.
func IsKnownTag(name string) bool {
	for _, t := range FixedTagNames {
		if t == name {
			return true
		}
	}
	return false
}

// User is a member of the regional community. Immutable after load.
type User struct {
	UserID          int       `json:"user_id"`
	Username        string    `json:"username"`
	DisplayName     string    `json:"display_name,omitempty"`
	Email           string    `json:"email"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	Area            string    `json:"area,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UserProfile extends User with relationship counts computed at read time.
type UserProfile struct {
	User
	FollowersCount int `json:"followers_count"`
	FollowingCount int `json:"following_count"`
	PostsCount     int `json:"posts_count"`
}

// Tag is one of the fixed feed categories together with its live post count.
type Tag struct {
	TagID      int    `json:"tag_id"`
	TagName    string `json:"tag_name"`
	PostsCount int    `json:"posts_count"`
}

// Post is a feed entry. IsLiked and IsBookmarked are viewer projections
// stamped onto copies at read time; the cached master value keeps them false.
type Post struct {
	PostID        int       `json:"post_id"`
	UserID        int       `json:"user_id"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Author        User      `json:"author"`
	ImageURLs     []string  `json:"image_urls,omitempty"`
	Tags          []Tag     `json:"tags"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	IsLiked       bool      `json:"is_liked"`
	IsBookmarked  bool      `json:"is_bookmarked"`
}

// Clone returns a deep copy of the post. Slices are duplicated so a caller
// mutating the result cannot reach cached state.
func (p Post) Clone() Post {
	out := p
	if p.ImageURLs != nil {
		out.ImageURLs = append([]string(nil), p.ImageURLs...)
	}
	if p.Tags != nil {
		out.Tags = append([]Tag(nil), p.Tags...)
	}
	return out
}

// Comment belongs to a post. Comments are kept append-ordered per post,
// oldest first.
type Comment struct {
	CommentID int       `json:"comment_id"`
	PostID    int       `json:"post_id"`
	UserID    int       `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Author    User      `json:"author"`
}

// Survey is a community questionnaire. Response aggregation happens in a
// separate collaborator; the cache only carries the loaded response count.
type Survey struct {
	SurveyID       int        `json:"survey_id"`
	Title          string     `json:"title"`
	QuestionText   string     `json:"question_text,omitempty"`
	Points         int        `json:"points"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	TargetAudience string     `json:"target_audience"`
	CreatedAt      time.Time  `json:"created_at"`
	ResponseCount  int        `json:"response_count"`
}
