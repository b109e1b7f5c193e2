package kafka_middleware

import (
	"context"

	"coursework/pkg/kafka"
	"coursework/pkg/metrics"
)

// MetricsProducerMiddleware counts publish outcomes per topic
func MetricsProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		err := next(ctx, msg)

		result := "success"
		if err != nil {
			result = "failure"
		}
		metrics.EventsPublished.WithLabelValues(msg.Topic, result).Inc()

		return err
	}
}
