// Package dynamodb adapts the single-table community store to the
// application's bulk-load port. Every entity lives in one table,
// discriminated by the EntityType attribute; the loader reads each entity
// type with a filtered scan at startup and never touches the table again.
package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"tomosu-backend/application/ports"
)

// Entity type discriminator values used in the table.
const (
	entityUser     = "USER"
	entityTag      = "TAG"
	entityPost     = "POST"
	entityComment  = "COMMENT"
	entityLike     = "LIKE"
	entityBookmark = "BOOKMARK"
	entityFollow   = "FOLLOW"
	entitySurvey   = "SURVEY"
)

// BulkSource implements ports.BulkSource against the DynamoDB community table.
type BulkSource struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewBulkSource creates a BulkSource reading from tableName.
func NewBulkSource(client *dynamodb.Client, tableName string, logger *zap.Logger) *BulkSource {
	return &BulkSource{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// scan runs a paginated filtered scan for one entity type and hands each raw
// item to collect. Malformed items are collect's problem; scan only fails on
// transport errors.
func (s *BulkSource) scan(ctx context.Context, entityType string, collect func(map[string]types.AttributeValue)) error {
	expr, err := expression.NewBuilder().
		WithFilter(expression.Name("EntityType").Equal(expression.Value(entityType))).
		Build()
	if err != nil {
		return fmt.Errorf("build %s filter: %w", entityType, err)
	}

	input := &dynamodb.ScanInput{
		TableName:                 aws.String(s.tableName),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("scan %s: %w", entityType, err)
		}
		for _, item := range page.Items {
			collect(item)
		}
	}
	return nil
}

// userItem is the DynamoDB item shape for a user row.
type userItem struct {
	UserID          int    `dynamodbav:"UserID"`
	Username        string `dynamodbav:"Username"`
	DisplayName     string `dynamodbav:"DisplayName"`
	Email           string `dynamodbav:"Email"`
	ProfileImageURL string `dynamodbav:"ProfileImageURL"`
	Bio             string `dynamodbav:"Bio"`
	Area            string `dynamodbav:"Area"`
	CreatedAt       string `dynamodbav:"CreatedAt"`
	UpdatedAt       string `dynamodbav:"UpdatedAt"`
}

// Users returns every user row.
func (s *BulkSource) Users(ctx context.Context) ([]ports.UserRecord, error) {
	var records []ports.UserRecord
	err := s.scan(ctx, entityUser, func(raw map[string]types.AttributeValue) {
		var item userItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			s.logger.Warn("skipping malformed user item", zap.Error(err))
			return
		}
		records = append(records, ports.UserRecord{
			UserID:          item.UserID,
			Username:        item.Username,
			DisplayName:     item.DisplayName,
			Email:           item.Email,
			ProfileImageURL: item.ProfileImageURL,
			Bio:             item.Bio,
			Area:            item.Area,
			CreatedAt:       parseTime(item.CreatedAt),
			UpdatedAt:       parseTime(item.UpdatedAt),
		})
	})
	return records, err
}

type tagItem struct {
	TagID   int    `dynamodbav:"TagID"`
	TagName string `dynamodbav:"TagName"`
}

// Tags returns every tag row.
func (s *BulkSource) Tags(ctx context.Context) ([]ports.TagRecord, error) {
	var records []ports.TagRecord
	err := s.scan(ctx, entityTag, func(raw map[string]types.AttributeValue) {
		var item tagItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			s.logger.Warn("skipping malformed tag item", zap.Error(err))
			return
		}
		records = append(records, ports.TagRecord{TagID: item.TagID, TagName: item.TagName})
	})
	return records, err
}

type postItem struct {
	PostID                 int      `dynamodbav:"PostID"`
	UserID                 int      `dynamodbav:"UserID"`
	Content                string   `dynamodbav:"Content"`
	CreatedAt              string   `dynamodbav:"CreatedAt"`
	UpdatedAt              string   `dynamodbav:"UpdatedAt"`
	ImageURLs              []string `dynamodbav:"ImageURLs"`
	IsFollowCategory       bool     `dynamodbav:"IsFollowCategory"`
	IsNeighborhoodCategory bool     `dynamodbav:"IsNeighborhoodCategory"`
	IsEventCategory        bool     `dynamodbav:"IsEventCategory"`
	IsGourmetCategory      bool     `dynamodbav:"IsGourmetCategory"`
}

// Posts returns every post row.
func (s *BulkSource) Posts(ctx context.Context) ([]ports.PostRecord, error) {
	var records []ports.PostRecord
	err := s.scan(ctx, entityPost, func(raw map[string]types.AttributeValue) {
		var item postItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			s.logger.Warn("skipping malformed post item", zap.Error(err))
			return
		}
		records = append(records, ports.PostRecord{
			PostID:                 item.PostID,
			UserID:                 item.UserID,
			Content:                item.Content,
			CreatedAt:              parseTime(item.CreatedAt),
			UpdatedAt:              parseTime(item.UpdatedAt),
			ImageURLs:              item.ImageURLs,
			IsFollowCategory:       item.IsFollowCategory,
			IsNeighborhoodCategory: item.IsNeighborhoodCategory,
			IsEventCategory:        item.IsEventCategory,
			IsGourmetCategory:      item.IsGourmetCategory,
		})
	})
	return records, err
}

type commentItem struct {
	CommentID int    `dynamodbav:"CommentID"`
	PostID    int    `dynamodbav:"PostID"`
	UserID    int    `dynamodbav:"UserID"`
	Content   string `dynamodbav:"Content"`
	CreatedAt string `dynamodbav:"CreatedAt"`
}

// Comments returns every comment row.
func (s *BulkSource) Comments(ctx context.Context) ([]ports.CommentRecord, error) {
	var records []ports.CommentRecord
	err := s.scan(ctx, entityComment, func(raw map[string]types.AttributeValue) {
		var item commentItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			s.logger.Warn("skipping malformed comment item", zap.Error(err))
			return
		}
		records = append(records, ports.CommentRecord{
			CommentID: item.CommentID,
			PostID:    item.PostID,
			UserID:    item.UserID,
			Content:   item.Content,
			CreatedAt: parseTime(item.CreatedAt),
		})
	})
	return records, err
}

type likeItem struct {
	PostID int `dynamodbav:"PostID"`
	UserID int `dynamodbav:"UserID"`
}

// Likes returns every like row.
func (s *BulkSource) Likes(ctx context.Context) ([]ports.LikeRecord, error) {
	var records []ports.LikeRecord
	err := s.scan(ctx, entityLike, func(raw map[string]types.AttributeValue) {
		var item likeItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			s.logger.Warn("skipping malformed like item", zap.Error(err))
			return
		}
		records = append(records, ports.LikeRecord{PostID: item.PostID, UserID: item.UserID})
	})
	return records, err
}

type bookmarkItem struct {
	UserID int `dynamodbav:"UserID"`
	PostID int `dynamodbav:"PostID"`
}

// Bookmarks returns every bookmark row.
func (s *BulkSource) Bookmarks(ctx context.Context) ([]ports.BookmarkRecord, error) {
	var records []ports.BookmarkRecord
	err := s.scan(ctx, entityBookmark, func(raw map[string]types.AttributeValue) {
		var item bookmarkItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			s.logger.Warn("skipping malformed bookmark item", zap.Error(err))
			return
		}
		records = append(records, ports.BookmarkRecord{UserID: item.UserID, PostID: item.PostID})
	})
	return records, err
}

type followItem struct {
	FollowerID int `dynamodbav:"FollowerID"`
	FolloweeID int `dynamodbav:"FolloweeID"`
}

// Follows returns every follow row.
func (s *BulkSource) Follows(ctx context.Context) ([]ports.FollowRecord, error) {
	var records []ports.FollowRecord
	err := s.scan(ctx, entityFollow, func(raw map[string]types.AttributeValue) {
		var item followItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			s.logger.Warn("skipping malformed follow item", zap.Error(err))
			return
		}
		records = append(records, ports.FollowRecord{FollowerID: item.FollowerID, FolloweeID: item.FolloweeID})
	})
	return records, err
}

type surveyItem struct {
	SurveyID       int    `dynamodbav:"SurveyID"`
	Title          string `dynamodbav:"Title"`
	QuestionText   string `dynamodbav:"QuestionText"`
	Points         int    `dynamodbav:"Points"`
	Deadline       string `dynamodbav:"Deadline"`
	TargetAudience string `dynamodbav:"TargetAudience"`
	CreatedAt      string `dynamodbav:"CreatedAt"`
	ResponseCount  int    `dynamodbav:"ResponseCount"`
}

// Surveys returns every survey row.
func (s *BulkSource) Surveys(ctx context.Context) ([]ports.SurveyRecord, error) {
	var records []ports.SurveyRecord
	err := s.scan(ctx, entitySurvey, func(raw map[string]types.AttributeValue) {
		var item surveyItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			s.logger.Warn("skipping malformed survey item", zap.Error(err))
			return
		}
		record := ports.SurveyRecord{
			SurveyID:       item.SurveyID,
			Title:          item.Title,
			QuestionText:   item.QuestionText,
			Points:         item.Points,
			TargetAudience: item.TargetAudience,
			CreatedAt:      parseTime(item.CreatedAt),
			ResponseCount:  item.ResponseCount,
		}
		if item.Deadline != "" {
			deadline := parseTime(item.Deadline)
			record.Deadline = &deadline
		}
		records = append(records, record)
	})
	return records, err
}

// parseTime parses the RFC3339 timestamps stored in the table; an empty or
// malformed value becomes the zero time rather than failing the load.
func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
