package events

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/segmentio/kafka-go"

	"cargo-shipping-service/internal/domain"
)

// ApplyFunc applies a registered handling event to its cargo. Application
// is idempotent on the cargo side, so redelivery is safe.
type ApplyFunc func(ctx context.Context, sequenceNumber domain.EventSequenceNumber) error

// KafkaHandlingEventConsumer drives the asynchronous half of the handling
// flow: it reads published sequence numbers and applies each event to its
// cargo.
type KafkaHandlingEventConsumer struct {
	Reader *kafka.Reader
	Apply  ApplyFunc
}

func NewKafkaHandlingEventConsumer(brokers []string, topic, groupID string, apply ApplyFunc) (*KafkaHandlingEventConsumer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka consumer: at least one broker is required")
	}
	if topic == "" {
		return nil, errors.New("kafka consumer: topic is required")
	}
	if apply == nil {
		return nil, errors.New("kafka consumer: apply func is required")
	}

	return &KafkaHandlingEventConsumer{
		Reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			Topic:   topic,
			GroupID: groupID,
		}),
		Apply: apply,
	}, nil
}

// Run consumes until the context is cancelled. A message that cannot be
// applied is logged and skipped; the event stays in the log and the cargo
// can be caught up by a later event, so one poisoned message must not stall
// the partition.
func (c *KafkaHandlingEventConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		var payload handlingEventMessage
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			log.Printf("handling consumer: skip malformed message offset=%d err=%v", msg.Offset, err)
			continue
		}

		if err := c.Apply(ctx, domain.EventSequenceNumber(payload.SequenceNumber)); err != nil {
			log.Printf("handling consumer: apply sequence_number=%d failed: %v", payload.SequenceNumber, err)
		}
	}
}

func (c *KafkaHandlingEventConsumer) Close() error {
	return c.Reader.Close()
}
