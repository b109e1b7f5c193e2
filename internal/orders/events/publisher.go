// Package events announces committed orders to the rest of the platform.
package events

import (
	"context"
	"fmt"
	"time"

	"coursework/pkg/kafka"
	"coursework/pkg/middleware"
	"coursework/pkg/model"
)

const (
	EventOrderCreated = "order.created"
	SchemaVersion     = "1"
	Source            = "coursework-lessons"
)

type OrderCreated struct {
	OrderID   string    `json:"orderId"`
	LessonIDs []string  `json:"lessonIDs"`
	NumSpaces int       `json:"numSpaces"`
	CreatedAt time.Time `json:"createdAt"`
}

type OrderPublisher interface {
	OrderCreated(ctx context.Context, order *model.Order) error
}

// MessagePublisher is the part of *kafka.Producer the publisher needs.
type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type kafkaOrderPublisher struct {
	producer MessagePublisher
}

func NewKafkaOrderPublisher(producer MessagePublisher) OrderPublisher {
	return &kafkaOrderPublisher{producer: producer}
}

func (p *kafkaOrderPublisher) OrderCreated(ctx context.Context, order *model.Order) error {
	msg, err := kafka.NewMessage().
		WithKey(order.ID).
		WithValue(OrderCreated{
			OrderID:   order.ID,
			LessonIDs: order.LessonIDs,
			NumSpaces: order.NumSpaces,
			CreatedAt: order.CreatedAt,
		}).
		WithEventType(EventOrderCreated).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build %s event: %w", EventOrderCreated, err)
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", EventOrderCreated, err)
	}
	return nil
}

type noopOrderPublisher struct{}

// NewNoopOrderPublisher is used when no broker is configured.
func NewNoopOrderPublisher() OrderPublisher {
	return noopOrderPublisher{}
}

func (noopOrderPublisher) OrderCreated(context.Context, *model.Order) error {
	return nil
}
