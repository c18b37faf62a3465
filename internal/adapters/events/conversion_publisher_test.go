package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/fx_backend/internal/core/domain"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleTransaction() domain.Transaction {
	return domain.Transaction{
		TransactionID:   "txn-1",
		UserID:          "user-1",
		FromCurrency:    "USD",
		ToCurrency:      "EUR",
		Amount:          decimal.NewFromInt(100),
		ConvertedAmount: decimal.NewFromInt(93),
		Rate:            decimal.RequireFromString("0.93"),
		CreatedAt:       time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestKafkaConversionPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaConversionPublisherWithWriter(w, discardLogger())

	require.NoError(t, p.PublishConversion(context.Background(), sampleTransaction()))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "user-1", string(msg.Key))

	var event ConversionRecordedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, ConversionRecordedType, event.Type)
	assert.Equal(t, "txn-1", event.TransactionID)
	assert.Equal(t, "EUR", event.ToCurrency)
	assert.True(t, event.ConvertedAmount.Equal(decimal.NewFromInt(93)))
	assert.True(t, event.Rate.Equal(decimal.RequireFromString("0.93")))
}

func TestKafkaConversionPublisher_WriteError(t *testing.T) {
	writeErr := errors.New("broker unavailable")
	p := NewKafkaConversionPublisherWithWriter(&fakeWriter{err: writeErr}, discardLogger())

	err := p.PublishConversion(context.Background(), sampleTransaction())

	assert.ErrorIs(t, err, writeErr)
}

func TestKafkaConversionPublisher_Close(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaConversionPublisherWithWriter(w, discardLogger())

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNoopConversionPublisher(t *testing.T) {
	var p NoopConversionPublisher
	assert.NoError(t, p.PublishConversion(context.Background(), sampleTransaction()))
	assert.NoError(t, p.Close())
}
