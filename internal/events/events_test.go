package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"cafe_ordering/internal/domain"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() *domain.Order {
	return &domain.Order{
		ID:         12,
		UserID:     3,
		Status:     domain.OrderPending,
		TotalPrice: decimal.RequireFromString("8.50"),
		Items: []domain.OrderItem{
			{ProductID: 1, Quantity: 2, Price: decimal.RequireFromString("2.50")},
			{ProductID: 2, Quantity: 1, Price: decimal.RequireFromString("3.50")},
		},
	}
}

func TestKafka_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var evt OrderEvent
		if err := json.Unmarshal(val, &evt); err != nil {
			return err
		}
		if evt.Type != OrderPlaced || evt.OrderID != 12 || len(evt.Items) != 2 {
			return errors.New("unexpected event body")
		}
		if !evt.TotalPrice.Equal(decimal.RequireFromString("8.5")) {
			return errors.New("unexpected total")
		}
		return nil
	})

	pub := NewKafkaWithProducer(producer, "cafe.orders")
	err := pub.Publish(context.Background(), NewOrderEvent(OrderPlaced, testOrder()))
	require.NoError(t, err)
	require.NoError(t, pub.Close())
}

func TestKafka_PublishFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewKafkaWithProducer(producer, "cafe.orders")
	err := pub.Publish(context.Background(), NewOrderEvent(OrderStatusChanged, testOrder()))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, pub.Close())
}

func TestKafka_PublishCancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	pub := NewKafkaWithProducer(producer, "cafe.orders")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := pub.Publish(ctx, NewOrderEvent(OrderPlaced, testOrder()))
	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, pub.Close())
}

func TestNewOrderEvent(t *testing.T) {
	evt := NewOrderEvent(OrderPlaced, testOrder())

	assert.Equal(t, OrderPlaced, evt.Type)
	assert.Equal(t, uint(12), evt.OrderID)
	assert.Equal(t, uint(3), evt.UserID)
	assert.Equal(t, domain.OrderPending, evt.Status)
	require.Len(t, evt.Items, 2)
	assert.Equal(t, uint(1), evt.Items[0].ProductID)
	assert.Equal(t, 2, evt.Items[0].Quantity)
	assert.False(t, evt.OccurredAt.IsZero())
}

func TestNop(t *testing.T) {
	var pub Publisher = Nop{}
	assert.NoError(t, pub.Publish(context.Background(), OrderEvent{}))
	assert.NoError(t, pub.Close())
}
