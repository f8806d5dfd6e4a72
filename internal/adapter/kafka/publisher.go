package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/vortex/internal/config"
	"github.com/couchcryptid/vortex/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// CapturePublisher feeds captures into the source topic, for replaying saved
// screens through a running pipeline.
type CapturePublisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewCapturePublisher creates a producer for the configured source topic.
func NewCapturePublisher(cfg *config.Config, logger *slog.Logger) *CapturePublisher {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSourceTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &CapturePublisher{writer: w, logger: logger}
}

// Publish writes the captures in one batch, keyed by capture ID.
func (p *CapturePublisher) Publish(ctx context.Context, captures []domain.Capture) error {
	if len(captures) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(captures))
	for i := range captures {
		msg, err := captureToMessage(captures[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish captures: %w", err)
	}
	p.logger.Info("captures published", "count", len(msgs), "topic", p.writer.Topic)
	return nil
}

func (p *CapturePublisher) Close() error {
	return p.writer.Close()
}

// captureToMessage marshals a capture into a Kafka message.
func captureToMessage(c domain.Capture) (kafkago.Message, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize capture: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(c.ID),
		Value: data,
		Time:  c.CapturedAt,
	}, nil
}
