package di

import (
	"go.uber.org/zap"

	"tomosu-backend/application/cache"
	"tomosu-backend/application/ports"
	"tomosu-backend/application/services"
	"tomosu-backend/infrastructure/config"
	"tomosu-backend/pkg/auth"
	"tomosu-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	Engine         *cache.Engine
	BulkSource     ports.BulkSource
	EventPublisher ports.EventPublisher
	FeedService    *services.FeedService
	Sessions       *auth.SessionManager
	MetricsFlusher *observability.MetricsFlusher
}
