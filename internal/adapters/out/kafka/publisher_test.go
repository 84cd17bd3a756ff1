package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	publisher "shopping/internal/adapters/out/kafka"
	"shopping/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWriter struct{ mock.Mock }

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

func TestNewOrderStatusPublisher_RequiresBrokers(t *testing.T) {
	_, err := publisher.NewOrderStatusPublisher(" , ", "orders")
	require.ErrorIs(t, err, publisher.ErrNoBrokers)

	p, err := publisher.NewOrderStatusPublisher("localhost:9092", "orders")
	require.NoError(t, err)
	require.NotNil(t, p)
}

func TestOrderStatusPublisher_Publish(t *testing.T) {
	ctx := t.Context()
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	event := order.StatusChanged{
		OrderID:    "o1",
		UserID:     "U1",
		From:       order.Pending,
		To:         order.Confirmed,
		Total:      40000,
		OccurredAt: at,
	}

	writer := new(MockWriter)
	writer.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 || string(msgs[0].Key) != "o1" || !msgs[0].Time.Equal(at) {
			return false
		}
		var body publisher.OrderStatusChangedMessage
		if err := json.Unmarshal(msgs[0].Value, &body); err != nil {
			return false
		}
		return body.From == "PENDING" && body.To == "CONFIRMED" && body.TotalPrice == 40000 && body.UserID == "U1"
	})).Return(nil).Once()

	p := publisher.NewPublisherWithWriter(writer)
	require.NoError(t, p.Publish(ctx, event))
	writer.AssertExpectations(t)
}

func TestOrderStatusPublisher_PropagatesWriteError(t *testing.T) {
	writer := new(MockWriter)
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
	writer.On("Close").Return(nil).Once()

	p := publisher.NewPublisherWithWriter(writer)
	err := p.Publish(t.Context(), order.StatusChanged{OrderID: "o1", From: order.Shipping, To: order.Delivered})

	require.EqualError(t, err, "broker down")
	assert.NoError(t, p.Close())
	writer.AssertExpectations(t)
}
