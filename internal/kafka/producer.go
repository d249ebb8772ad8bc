package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"campus-portal/internal/logger"
	"campus-portal/internal/models"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	Writer MessageWriter
	Topic  string
	Logger *logger.Logger
}

func NewProducer(brokers []string, topic string, log *logger.Logger) *Producer {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: brokers,
		Topic:   topic,
	})
	return &Producer{Writer: writer, Topic: topic, Logger: log}
}

// PublishRegistrationCompleted streams a completed registration keyed by event ID.
func (p *Producer) PublishRegistrationCompleted(ctx context.Context, event models.RegistrationEvent) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal registration event: %w", err)
	}

	p.Logger.LogKafka("publish", p.Topic, event.RegistrationID)

	return p.Writer.WriteMessages(ctx,
		kafka.Message{
			Key:   []byte(event.EventID),
			Value: msgBytes,
		},
	)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
