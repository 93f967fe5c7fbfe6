// Package di wires the application together. The providers here are composed
// by wire (see wire.go / wire_gen.go) into a Container.
package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"tomosu-backend/application/cache"
	"tomosu-backend/application/ports"
	"tomosu-backend/application/services"
	"tomosu-backend/infrastructure/config"
	"tomosu-backend/infrastructure/messaging/eventbridge"
	"tomosu-backend/infrastructure/persistence/dynamodb"
	"tomosu-backend/pkg/auth"
	"tomosu-backend/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideEngine creates the cache engine. It is returned empty; cmd callers
// run the bulk load before serving.
func ProvideEngine(logger *zap.Logger) *cache.Engine {
	return cache.NewEngine(logger)
}

// ProvideBulkSource creates the DynamoDB-backed bulk source
func ProvideBulkSource(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.BulkSource {
	return dynamodb.NewBulkSource(client, cfg.DynamoDBTable, logger)
}

// ProvideEventPublisher creates the EventBridge publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideFeedService creates the feed write service
func ProvideFeedService(engine *cache.Engine, publisher ports.EventPublisher, logger *zap.Logger) *services.FeedService {
	return services.NewFeedService(engine, publisher, logger)
}

// ProvideSessionManager creates the fixed-user session manager
func ProvideSessionManager(cfg *config.Config, logger *zap.Logger) *auth.SessionManager {
	secret := cfg.SessionSecret
	if secret == "" {
		// Development fallback; production validation rejects an empty secret.
		secret = "development-secret-change-in-production"
	}
	return auth.NewSessionManager(secret, cfg.SessionIssuer, cfg.SessionLifetime, logger)
}

// ProvideMetricsFlusher creates the CloudWatch metrics flusher. Disabled
// (nil client) unless the config opts in.
func ProvideMetricsFlusher(
	client *awscloudwatch.Client,
	cfg *config.Config,
	engine *cache.Engine,
	logger *zap.Logger,
) *observability.MetricsFlusher {
	if !cfg.EnableMetrics {
		client = nil
	}
	return observability.NewMetricsFlusher(client, cfg.MetricsNamespace, engine, cfg.MetricsInterval, logger)
}
