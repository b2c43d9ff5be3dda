package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"

	"cargo-shipping-service/internal/domain"
)

// handlingEventMessage is the published form of a registered handling
// event: just enough for a consumer to pick the event back up from the
// log by sequence number.
type handlingEventMessage struct {
	SequenceNumber int64  `json:"sequence_number"`
	TrackingID     string `json:"tracking_id"`
}

// KafkaHandlingEventPublisher implements HandlingEventPublisher on a kafka
// topic. Messages are keyed by tracking id so all events of one cargo land
// on one partition and are consumed in registration order.
type KafkaHandlingEventPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaHandlingEventPublisher(brokers []string, topic string) (*KafkaHandlingEventPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka publisher: at least one broker is required")
	}
	if topic == "" {
		return nil, errors.New("kafka publisher: topic is required")
	}

	return &KafkaHandlingEventPublisher{
		Writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}, nil
}

func (p *KafkaHandlingEventPublisher) Publish(ctx context.Context, event *domain.HandlingEvent) error {
	payload, err := json.Marshal(handlingEventMessage{
		SequenceNumber: int64(event.SequenceNumber),
		TrackingID:     string(event.Cargo.TrackingID),
	})
	if err != nil {
		return fmt.Errorf("publish handling event #%d: marshal: %w", event.SequenceNumber, err)
	}

	if err := p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Cargo.TrackingID),
		Value: payload,
	}); err != nil {
		return fmt.Errorf("publish handling event #%d: write message: %w", event.SequenceNumber, err)
	}
	return nil
}

func (p *KafkaHandlingEventPublisher) Close() error {
	return p.Writer.Close()
}
