package producer

import (
	"context"

	"github.com/fenan-yosef/hrms-backend/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

// publish writes one outbox row to its topic. The aggregate id keys the
// message so consumers see events for one aggregate in order.
func publish(ctx context.Context, writer *kafkago.Writer, event kafka.OutboxEvent) error {
	msg := kafkago.Message{
		Topic: event.Topic,
		Key:   []byte(event.AggregateID),
		Value: event.Payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "aggregate_type", Value: []byte(event.AggregateType)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	return writer.WriteMessages(ctx, msg)
}
