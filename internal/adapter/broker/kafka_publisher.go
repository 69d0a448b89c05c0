package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/rl1809/item-inventory/internal/core/domain"
)

const (
	HeaderContentType = "content-type"
	HeaderMessageID   = "message_id"
)

type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewWriter returns a writer that routes each message by its own Topic.
// RequireAll acks is the closest match to a persistent delivery mode.
func NewWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

type KafkaPublisher struct {
	producer Producer
	log      *zap.Logger
}

func NewKafkaPublisher(producer Producer, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, log: log.Named("kafka-publisher")}
}

// Publish writes payload as JSON to topic, keyed by the payload's "id". The
// message_id header reuses the event id found in ctx, if any.
func (p *KafkaPublisher) Publish(ctx context.Context, topic string, payload map[string]any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: encode %s payload: %w", domain.ErrPublishFailure, topic, err)
	}

	messageID := uuid.NewString()
	if id, ok := domain.EventIDFromContext(ctx); ok {
		messageID = id.String()
	}
	headers := []kafka.Header{
		{Key: HeaderContentType, Value: []byte("application/json")},
		{Key: HeaderMessageID, Value: []byte(messageID)},
	}
	headers = injectTraceHeaders(ctx, headers)

	msg := kafka.Message{
		Topic:   topic,
		Key:     messageKey(payload),
		Value:   value,
		Headers: headers,
	}
	if err := p.producer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: topic %s: %w", domain.ErrPublishFailure, topic, err)
	}

	p.log.Info("event published", zap.String("topic", topic), zap.String("message_id", messageID))
	return nil
}

func messageKey(payload map[string]any) []byte {
	id, ok := payload["id"]
	if !ok {
		return nil
	}
	return []byte(fmt.Sprint(id))
}

func injectTraceHeaders(ctx context.Context, headers []kafka.Header) []kafka.Header {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	for k, v := range carrier {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return headers
}
