package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewPublisherWithWriter(w MessageWriter) *OrderStatusPublisher {
	return &OrderStatusPublisher{writer: w}
}
