package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tomosu-backend/application/ports"
	"tomosu-backend/domain/feed"
)

// fakeSource is an in-memory BulkSource for tests. Any fetch can be made to
// fail by setting the matching error field.
type fakeSource struct {
	users     []ports.UserRecord
	tags      []ports.TagRecord
	posts     []ports.PostRecord
	comments  []ports.CommentRecord
	likes     []ports.LikeRecord
	bookmarks []ports.BookmarkRecord
	follows   []ports.FollowRecord
	surveys   []ports.SurveyRecord

	usersErr    error
	tagsErr     error
	postsErr    error
	commentsErr error
	likesErr    error
	bookmarksErr error
	followsErr  error
	surveysErr  error
}

func (f *fakeSource) Users(ctx context.Context) ([]ports.UserRecord, error) {
	return f.users, f.usersErr
}

func (f *fakeSource) Tags(ctx context.Context) ([]ports.TagRecord, error) {
	return f.tags, f.tagsErr
}

func (f *fakeSource) Posts(ctx context.Context) ([]ports.PostRecord, error) {
	return f.posts, f.postsErr
}

func (f *fakeSource) Comments(ctx context.Context) ([]ports.CommentRecord, error) {
	return f.comments, f.commentsErr
}

func (f *fakeSource) Likes(ctx context.Context) ([]ports.LikeRecord, error) {
	return f.likes, f.likesErr
}

func (f *fakeSource) Bookmarks(ctx context.Context) ([]ports.BookmarkRecord, error) {
	return f.bookmarks, f.bookmarksErr
}

func (f *fakeSource) Follows(ctx context.Context) ([]ports.FollowRecord, error) {
	return f.follows, f.followsErr
}

func (f *fakeSource) Surveys(ctx context.Context) ([]ports.SurveyRecord, error) {
	return f.surveys, f.surveysErr
}

var testEpoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return testEpoch.Add(time.Duration(minutes) * time.Minute)
}

func allTags() []ports.TagRecord {
	return []ports.TagRecord{
		{TagID: 1, TagName: feed.TagFollow},
		{TagID: 2, TagName: feed.TagNeighborhood},
		{TagID: 3, TagName: feed.TagEvent},
		{TagID: 4, TagName: feed.TagGourmet},
	}
}

// seedSource builds a small consistent data set:
//
//	users 1..3, posts 10 (user 1, Event), 20 (user 2, Gourmet+Event),
//	30 (user 1, no tags); comments, likes, bookmarks, follows and one survey.
func seedSource() *fakeSource {
	return &fakeSource{
		users: []ports.UserRecord{
			{UserID: 1, Username: "asa", DisplayName: "Asa", Area: "Chuo"},
			{UserID: 2, Username: "ben", DisplayName: "Ben", Area: "Chuo"},
			{UserID: 3, Username: "chie", DisplayName: "Chie", Area: "Kita"},
		},
		tags: allTags(),
		posts: []ports.PostRecord{
			{PostID: 10, UserID: 1, Content: "morning market", CreatedAt: at(10), UpdatedAt: at(10), IsEventCategory: true},
			{PostID: 20, UserID: 2, Content: "new ramen shop", CreatedAt: at(20), UpdatedAt: at(20), IsGourmetCategory: true, IsEventCategory: true},
			{PostID: 30, UserID: 1, Content: "hello", CreatedAt: at(5), UpdatedAt: at(5)},
		},
		comments: []ports.CommentRecord{
			{CommentID: 100, PostID: 10, UserID: 2, Content: "see you there", CreatedAt: at(12)},
			{CommentID: 101, PostID: 10, UserID: 3, Content: "what time?", CreatedAt: at(11)},
		},
		likes: []ports.LikeRecord{
			{PostID: 10, UserID: 2},
			{PostID: 10, UserID: 3},
			{PostID: 20, UserID: 1},
		},
		bookmarks: []ports.BookmarkRecord{
			{UserID: 3, PostID: 10},
			{UserID: 3, PostID: 20},
		},
		follows: []ports.FollowRecord{
			{FollowerID: 2, FolloweeID: 1},
			{FollowerID: 3, FolloweeID: 1},
			{FollowerID: 1, FolloweeID: 2},
		},
		surveys: []ports.SurveyRecord{
			{SurveyID: 1, Title: "Park cleanup", QuestionText: "Will you join?", Points: 50, CreatedAt: at(0)},
		},
	}
}

func newTestEngine(opts ...Option) *Engine {
	return NewEngine(zap.NewNop(), opts...)
}
