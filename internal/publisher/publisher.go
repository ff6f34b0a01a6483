package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fjod/go_cart/pickup-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

const (
	DefaultTopic   = "order-placed"
	EventTypeOrder = "order_placed"
)

// OrderPlacedEvent is the message value written for every placed order
type OrderPlacedEvent struct {
	OrderID   string            `json:"order_id"`
	SessionID string            `json:"session_id"`
	Items     []domain.LineItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Total     float64           `json:"total"`
	Status    string            `json:"status"`
	PlacedAt  time.Time         `json:"placed_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer messageWriter
}

func NewPublisher(topic string, brokers ...string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{}, // same order id, same partition
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w}
}

func NewEvent(sessionID string, order domain.Order) OrderPlacedEvent {
	return OrderPlacedEvent{
		OrderID:   order.ID,
		SessionID: sessionID,
		Items:     order.Items,
		ItemCount: order.ItemCount(),
		Total:     order.Total,
		Status:    order.Status.String(),
		PlacedAt:  order.PlacedAt.UTC(),
	}
}

// Record publishes the order keyed by its id
func (p *Publisher) Record(ctx context.Context, sessionID string, order domain.Order) error {
	payload, err := json.Marshal(NewEvent(sessionID, order))
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeOrder)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish order %s: %w", order.ID, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
