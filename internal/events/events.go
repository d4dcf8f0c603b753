// Package events publishes order lifecycle events for downstream consumers
// such as a kitchen display. Publishing is best effort: the order is already
// committed when an event is sent.
package events

import (
	"context"       // Publish cancellation
	"encoding/json" // Message bodies
	"fmt"           // Error wrapping
	"strconv"       // Message keys
	"time"          // Event timestamps

	"cafe_ordering/internal/domain" // Importing domain models

	"github.com/IBM/sarama"         // Kafka client
	"github.com/shopspring/decimal" // Exact money arithmetic
	"github.com/sirupsen/logrus"    // Logrus for structured logging
)

// Event types
const (
	OrderPlaced        = "order.placed"
	OrderStatusChanged = "order.status_changed"
)

// OrderEvent is the message body written to the topic
type OrderEvent struct {
	Type       string          `json:"type"`
	OrderID    uint            `json:"orderId"`
	UserID     uint            `json:"userId"`
	Status     string          `json:"status"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Items      []EventItem     `json:"items,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// EventItem is one order line inside an event
type EventItem struct {
	ProductID uint            `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// NewOrderEvent builds an event of the given type from an order
func NewOrderEvent(eventType string, o *domain.Order) OrderEvent {
	evt := OrderEvent{
		Type:       eventType,
		OrderID:    o.ID,
		UserID:     o.UserID,
		Status:     o.Status,
		TotalPrice: o.TotalPrice,
		OccurredAt: time.Now().UTC(),
	}
	for _, it := range o.Items {
		evt.Items = append(evt.Items, EventItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price})
	}
	return evt
}

// Publisher sends order events
type Publisher interface {
	Publish(ctx context.Context, evt OrderEvent) error
	Close() error
}

// Nop discards every event. It is used when no brokers are configured.
type Nop struct{}

// Publish drops the event
func (Nop) Publish(context.Context, OrderEvent) error { return nil }

// Close has nothing to release
func (Nop) Close() error { return nil }

// Kafka publishes events with a synchronous sarama producer
type Kafka struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafka connects a producer to the given brokers
func NewKafka(brokers []string, topic string) (*Kafka, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll // All in-sync replicas ack
	config.Producer.Retry.Max = 5                    // Retries before giving up
	config.Producer.Return.Successes = true          // Required by SyncProducer
	config.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("events.NewKafka: %w", err)
	}
	logrus.WithField("brokers", brokers).Info("Kafka producer connected")
	return NewKafkaWithProducer(producer, topic), nil
}

// NewKafkaWithProducer wraps an existing producer
func NewKafkaWithProducer(producer sarama.SyncProducer, topic string) *Kafka {
	return &Kafka{producer: producer, topic: topic}
}

// Publish writes the event keyed by order id so that events of one order
// stay on one partition
func (k *Kafka) Publish(ctx context.Context, evt OrderEvent) error {
	const op = "events.Kafka.Publish"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(uint64(evt.OrderID), 10)),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(evt.Type)},
		},
	}
	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	logrus.WithFields(logrus.Fields{
		"topic":     k.topic,
		"type":      evt.Type,
		"order_id":  evt.OrderID,
		"partition": partition,
		"offset":    offset,
	}).Debug("Order event published")
	return nil
}

// Close flushes and closes the producer
func (k *Kafka) Close() error {
	return k.producer.Close()
}
