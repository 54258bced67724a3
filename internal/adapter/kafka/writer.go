package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/cme-arrival-service/internal/config"
	"github.com/couchcryptid/cme-arrival-service/internal/domain"
)

// Writer publishes predictions to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured prediction topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaPredictionTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes one prediction and writes it keyed by prediction id so
// every record for an id lands on the same partition.
func (w *Writer) Publish(ctx context.Context, p domain.Prediction) error {
	msg, err := serializeToMessage(p)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write prediction %s: %w", p.ID, err)
	}
	w.logger.Debug("prediction published", "id", p.ID, "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Prediction into a Kafka message.
func serializeToMessage(p domain.Prediction) (kafkago.Message, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize prediction: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(p.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "onset", Value: []byte(p.Onset)},
			{Key: "predicted_at", Value: []byte(p.PredictedAt.Format(time.RFC3339))},
		},
	}, nil
}
