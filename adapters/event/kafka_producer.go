package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/internal/domain/view"
	"github.com/khoahotran/folio/pkg/logger"
)

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ViewPublisher forwards recorded views to the view topic, keyed by profile
// so one profile's views stay on one partition.
type ViewPublisher struct {
	writer messageWriter
	logger logger.Logger
}

func NewViewPublisher(cfg config.Config, log logger.Logger) (*ViewPublisher, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        cfg.Kafka.ViewTopic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	log.Info("Initialize Kafka producer successfully.", zap.String("topic", cfg.Kafka.ViewTopic), zap.Strings("brokers", brokers))
	return &ViewPublisher{writer: writer, logger: log}, nil
}

func (p *ViewPublisher) Record(ctx context.Context, v view.View) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal view event: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(v.ProfileID.String()),
		Value: payload,
		Time:  v.ViewedAt,
	})
	if err != nil {
		return fmt.Errorf("publish view event: %w", err)
	}
	return nil
}

func (p *ViewPublisher) Close() {
	if err := p.writer.Close(); err != nil {
		p.logger.Warn("Failed to close Kafka producer", zap.Error(err))
		return
	}
	p.logger.Info("Closed Kafka producer")
}

// DecodeView parses a message produced by ViewPublisher.
func DecodeView(msg kafka.Message) (view.View, error) {
	var v view.View
	if err := json.Unmarshal(msg.Value, &v); err != nil {
		return view.View{}, fmt.Errorf("unmarshal view event: %w", err)
	}
	return v, nil
}
