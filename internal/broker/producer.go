// AngelaMos | 2026
// producer.go

package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/segmentio/kafka-go"

	"github.com/carterperez-dev/hotel-maintenance/internal/config"
)

type Producer struct {
	l       *slog.Logger
	w       *kafka.Writer
	brokers []string
	topic   string
}

func NewProducer(l *slog.Logger, cfg config.KafkaConfig) *Producer {
	l = l.WithGroup("kafka").With("topic", cfg.Topic)

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
		WriteTimeout:           cfg.WriteTimeout,
		RequiredAcks:           kafka.RequireOne,
		Logger:                 &infoLogger{l: l},
		ErrorLogger:            &errorLogger{l: l},
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		l:       l,
		w:       w,
		brokers: cfg.Brokers,
		topic:   cfg.Topic,
	}
}

// Publish writes event as JSON under key. Messages sharing a key land on
// the same partition.
func (p *Producer) Publish(ctx context.Context, key string, event any) error {
	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: b,
	})
	if err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}

	return nil
}

// Ping dials the first reachable broker.
func (p *Producer) Ping(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return errors.New("no kafka brokers configured")
	}

	var lastErr error
	for _, addr := range p.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", addr)
		if err != nil {
			lastErr = err
			continue
		}
		//nolint:errcheck // probe connection
		_ = conn.Close()
		return nil
	}

	var netErr net.Error
	if errors.As(lastErr, &netErr) && netErr.Timeout() {
		return fmt.Errorf("kafka ping timed out: %w", lastErr)
	}
	return fmt.Errorf("kafka ping: %w", lastErr)
}

func (p *Producer) Close() error {
	if err := p.w.Close(); err != nil {
		p.l.Error("close kafka writer", "error", err)
		return fmt.Errorf("close kafka writer: %w", err)
	}
	return nil
}

// Stats is a snapshot of writer counters since the last call.
type Stats struct {
	Topic    string `json:"topic"`
	Writes   int64  `json:"writes"`
	Messages int64  `json:"messages"`
	Bytes    int64  `json:"bytes"`
	Errors   int64  `json:"errors"`
	Retries  int64  `json:"retries"`
}

func (p *Producer) Stats() Stats {
	s := p.w.Stats()
	return Stats{
		Topic:    p.topic,
		Writes:   s.Writes,
		Messages: s.Messages,
		Bytes:    s.Bytes,
		Errors:   s.Errors,
		Retries:  s.Retries,
	}
}
