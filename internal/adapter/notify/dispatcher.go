package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Dispatcher delivers order notifications to staff and customers.
type Dispatcher interface {
	OrderPaid(ctx context.Context, event OrderPaidEvent) error
}

type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaDispatcher publishes events to a Kafka topic keyed by public order id.
type KafkaDispatcher struct {
	producer producer
	topic    string
	logger   *slog.Logger
}

func NewKafkaDispatcher(p producer, topic string, logger *slog.Logger) *KafkaDispatcher {
	return &KafkaDispatcher{producer: p, topic: topic, logger: logger}
}

func (d *KafkaDispatcher) OrderPaid(ctx context.Context, event OrderPaidEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	record := &kgo.Record{
		Topic: d.topic,
		Key:   []byte(event.PublicOrderID),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	}

	if err := d.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce %s event: %w", event.Type, err)
	}

	d.logger.Info("notification published",
		slog.String("topic", d.topic),
		slog.String("event_id", event.EventID),
		slog.String("public_id", event.PublicOrderID),
	)
	return nil
}

// LogDispatcher only logs events. Used when no brokers are configured.
type LogDispatcher struct {
	logger *slog.Logger
}

func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) OrderPaid(_ context.Context, event OrderPaidEvent) error {
	d.logger.Info("event::order_paid",
		slog.String("event_id", event.EventID),
		slog.String("public_id", event.PublicOrderID),
		slog.String("amount", event.Amount),
		slog.String("currency", event.Currency),
		slog.String("customer_email", event.Customer.Email),
	)
	return nil
}
