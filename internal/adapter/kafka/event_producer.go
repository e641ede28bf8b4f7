package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/ezra-kip/farmlink-api/internal/usecase"
)

// EventProducer publishes payment lifecycle events, keyed by transaction id
// so deliveries for one payment stay ordered within a partition.
type EventProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewEventProducer(producer sarama.SyncProducer, topic string) *EventProducer {
	return &EventProducer{producer: producer, topic: topic}
}

func (p *EventProducer) PublishPaymentStatusChanged(_ context.Context, msg usecase.PaymentStatusChangedMsg) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(msg.TransactionID),
		Value: sarama.ByteEncoder(body),
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

var _ usecase.EventPublisher = (*EventProducer)(nil)
