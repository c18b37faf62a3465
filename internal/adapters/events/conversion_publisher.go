package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fx_backend/internal/core/domain"
	portssvc "github.com/SscSPs/fx_backend/internal/core/ports/services"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// ConversionRecordedEvent is the payload published for every recorded conversion.
type ConversionRecordedEvent struct {
	Type            string          `json:"type"`
	TransactionID   string          `json:"transactionID"`
	UserID          string          `json:"userID"`
	FromCurrency    string          `json:"fromCurrency"`
	ToCurrency      string          `json:"toCurrency"`
	Amount          decimal.Decimal `json:"amount"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	Rate            decimal.Decimal `json:"rate"`
	Timestamp       time.Time       `json:"timestamp"`
}

// ConversionRecordedType is the value of ConversionRecordedEvent.Type.
const ConversionRecordedType = "conversion.recorded"

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConversionPublisher publishes conversion events to a Kafka topic, keyed by user.
type KafkaConversionPublisher struct {
	writer MessageWriter
	logger *slog.Logger
}

var _ portssvc.ConversionEventPublisher = (*KafkaConversionPublisher)(nil)

// NewKafkaConversionPublisher creates a publisher writing to topic on brokers.
func NewKafkaConversionPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaConversionPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // same user, same partition
		RequiredAcks: kafka.RequireOne,
		Compression:  kafka.Snappy,
		BatchTimeout: 10 * time.Millisecond,
	}
	logger.Info("Kafka conversion publisher initialized", slog.String("topic", topic), slog.Any("brokers", brokers))
	return NewKafkaConversionPublisherWithWriter(writer, logger)
}

// NewKafkaConversionPublisherWithWriter wraps an existing writer.
func NewKafkaConversionPublisherWithWriter(writer MessageWriter, logger *slog.Logger) *KafkaConversionPublisher {
	return &KafkaConversionPublisher{writer: writer, logger: logger}
}

// PublishConversion serializes txn and writes it to the topic.
func (p *KafkaConversionPublisher) PublishConversion(ctx context.Context, txn domain.Transaction) error {
	event := ConversionRecordedEvent{
		Type:            ConversionRecordedType,
		TransactionID:   txn.TransactionID,
		UserID:          txn.UserID,
		FromCurrency:    txn.FromCurrency,
		ToCurrency:      txn.ToCurrency,
		Amount:          txn.Amount,
		ConvertedAmount: txn.ConvertedAmount,
		Rate:            txn.Rate,
		Timestamp:       txn.CreatedAt.UTC(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal conversion event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(txn.UserID),
		Value: value,
		Time:  txn.CreatedAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish conversion event: %w", err)
	}

	p.logger.DebugContext(ctx, "Published conversion event", slog.String("transaction_id", txn.TransactionID))
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *KafkaConversionPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	p.logger.Info("Closing Kafka conversion publisher")
	return p.writer.Close()
}

// NoopConversionPublisher discards events. It is used when no brokers are configured.
type NoopConversionPublisher struct{}

var _ portssvc.ConversionEventPublisher = NoopConversionPublisher{}

func (NoopConversionPublisher) PublishConversion(context.Context, domain.Transaction) error {
	return nil
}

func (NoopConversionPublisher) Close() error {
	return nil
}
