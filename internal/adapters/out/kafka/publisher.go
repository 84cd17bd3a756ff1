// Package kafka publishes order status changes to a Kafka topic as JSON, keyed by
// order id so that all changes of one order land on the same partition.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"shopping/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
)

// ErrNoBrokers is returned by NewOrderStatusPublisher when no broker address is given.
var ErrNoBrokers = errors.New("kafka publisher requires at least one broker")

// OrderStatusChangedMessage is the wire format of an order.StatusChanged event.
type OrderStatusChangedMessage struct {
	OrderID    string    `json:"orderId"`
	UserID     string    `json:"userId"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	TotalPrice int64     `json:"totalPrice"`
	OccurredAt time.Time `json:"occurredAt"`
}

func toMessage(event order.StatusChanged) OrderStatusChangedMessage {
	return OrderStatusChangedMessage{
		OrderID:    event.OrderID,
		UserID:     event.UserID,
		From:       event.From.String(),
		To:         event.To.String(),
		TotalPrice: event.Total,
		OccurredAt: event.OccurredAt.UTC(),
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderStatusPublisher implements ports.EventPublisher over a kafka.Writer.
type OrderStatusPublisher struct {
	writer messageWriter
}

// NewOrderStatusPublisher creates a publisher writing to topic on the
// comma-separated list of brokers.
func NewOrderStatusPublisher(brokersCSV, topic string) (*OrderStatusPublisher, error) {
	var brokers []string
	for _, b := range strings.Split(brokersCSV, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}

	return &OrderStatusPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}, nil
}

// Publish writes one message for event.
func (p *OrderStatusPublisher) Publish(ctx context.Context, event order.StatusChanged) error {
	data, err := json.Marshal(toMessage(event))
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
		Time:  event.OccurredAt.UTC(),
	})
}

// Close flushes pending messages and closes the writer.
func (p *OrderStatusPublisher) Close() error {
	return p.writer.Close()
}
