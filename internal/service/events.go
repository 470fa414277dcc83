package service

import (
	"context"
	"time"

	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/logging"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/mykafka"
)

const (
	TopicCartEvents  = "cart_events"
	TopicOrderEvents = "order_events"
)

// publish is fire-and-forget: event delivery problems are logged, never
// surfaced to the request.
func publish(ctx context.Context, events mykafka.EventPublisher, topic, key string, event map[string]interface{}) {
	if events == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := events.Publish(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "topic", topic, "error", err)
	}
}
