package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"coursework/pkg/kafka"
	"coursework/pkg/middleware"
	"coursework/pkg/model"
)

type mockPublisher struct {
	publishFunc func(ctx context.Context, msg kafka.Message) error
}

func (m *mockPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, msg)
	}
	return nil
}

func TestKafkaOrderPublisher_OrderCreated(t *testing.T) {
	var got kafka.Message
	publisher := NewKafkaOrderPublisher(&mockPublisher{
		publishFunc: func(ctx context.Context, msg kafka.Message) error {
			got = msg
			return nil
		},
	})

	order := &model.Order{
		ID:        "65a1b2c3d4e5f6a7b8c9d0ff",
		Name:      "Ada Lovelace",
		Phone:     "+447700900123",
		LessonIDs: []string{"65a1b2c3d4e5f6a7b8c9d0e1"},
		NumSpaces: 2,
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")

	if err := publisher.OrderCreated(ctx, order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Key != order.ID {
		t.Errorf("expected key %s, got %s", order.ID, got.Key)
	}
	if got.GetEventType() != EventOrderCreated {
		t.Errorf("expected event type %s, got %s", EventOrderCreated, got.GetEventType())
	}
	if got.GetEventID() == "" {
		t.Error("expected an event id")
	}
	if got.Headers[kafka.HeaderCorrelationID] != "req-1" {
		t.Errorf("expected correlation id from request, got %q", got.Headers[kafka.HeaderCorrelationID])
	}

	var payload OrderCreated
	if err := got.DecodeValue(&payload); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if payload.OrderID != order.ID || payload.NumSpaces != 2 || len(payload.LessonIDs) != 1 {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestKafkaOrderPublisher_PublishError(t *testing.T) {
	publisher := NewKafkaOrderPublisher(&mockPublisher{
		publishFunc: func(ctx context.Context, msg kafka.Message) error {
			return kafka.ErrProducerClosed
		},
	})

	err := publisher.OrderCreated(context.Background(), &model.Order{ID: "x"})
	if !errors.Is(err, kafka.ErrProducerClosed) {
		t.Errorf("expected ErrProducerClosed in chain, got %v", err)
	}
}

func TestNoopOrderPublisher(t *testing.T) {
	if err := NewNoopOrderPublisher().OrderCreated(context.Background(), &model.Order{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
