// Package observability ships the cache engine's performance counters to
// CloudWatch so the latency target can be alarmed on.
package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"

	"tomosu-backend/application/cache"
)

// MetricsFlusher periodically publishes the engine's request statistics as
// CloudWatch custom metrics. A nil client disables publishing entirely, which
// is how local development runs.
type MetricsFlusher struct {
	client    *cloudwatch.Client
	namespace string
	engine    *cache.Engine
	interval  time.Duration
	logger    *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewMetricsFlusher creates a flusher; call Start to begin publishing.
func NewMetricsFlusher(
	client *cloudwatch.Client,
	namespace string,
	engine *cache.Engine,
	interval time.Duration,
	logger *zap.Logger,
) *MetricsFlusher {
	return &MetricsFlusher{
		client:    client,
		namespace: namespace,
		engine:    engine,
		interval:  interval,
		logger:    logger,
	}
}

// Start launches the background flush loop. No-op when no client is
// configured.
func (f *MetricsFlusher) Start() {
	if f.client == nil {
		f.logger.Info("metrics publishing disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.done = make(chan struct{})

	go func() {
		defer close(f.done)
		ticker := time.NewTicker(f.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				f.flush(ctx)
			}
		}
	}()
}

// Stop terminates the flush loop and waits for it to finish.
func (f *MetricsFlusher) Stop() {
	if f.cancel == nil {
		return
	}
	f.cancel()
	<-f.done
}

func (f *MetricsFlusher) flush(ctx context.Context) {
	stats := f.engine.PerformanceStats()
	now := time.Now()

	metricData := []types.MetricDatum{
		{
			MetricName: aws.String("TotalRequests"),
			Value:      aws.Float64(float64(stats.TotalRequests)),
			Unit:       types.StandardUnitCount,
			Timestamp:  aws.Time(now),
		},
		{
			MetricName: aws.String("AverageResponseTime"),
			Value:      aws.Float64(stats.AverageResponseTimeMS),
			Unit:       types.StandardUnitMilliseconds,
			Timestamp:  aws.Time(now),
		},
		{
			MetricName: aws.String("MaxResponseTime"),
			Value:      aws.Float64(stats.MaxResponseTimeMS),
			Unit:       types.StandardUnitMilliseconds,
			Timestamp:  aws.Time(now),
		},
		{
			MetricName: aws.String("LatencyTargetPercentage"),
			Value:      aws.Float64(stats.PerformancePercentage),
			Unit:       types.StandardUnitPercent,
			Timestamp:  aws.Time(now),
		},
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(f.namespace),
		MetricData: metricData,
	}

	if _, err := f.client.PutMetricData(ctx, input); err != nil {
		f.logger.Warn("failed to publish metrics", zap.Error(err))
	}
}
