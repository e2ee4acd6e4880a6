package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
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

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:                uuid.MustParse("3f2a9c1e-7b4d-4e2a-9c1e-7b4d4e2a9c1e"),
		StaffID:           7,
		CustomerID:        42,
		AppointmentTypeID: 3,
		BookingDate:       time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		StartTime:         "10:00",
		EndTime:           "10:30",
		Status:            domain.StatusCancelled,
	}
}

func TestPublisher_PublishBookingStatusChanged(t *testing.T) {
	w := &fakeWriter{}
	p := NewPublisherWithWriter(w, "bookings", time.Second, logger.Nop())

	err := p.PublishBookingStatusChanged(context.Background(), testBooking(), domain.StatusScheduled)
	require.NoError(t, err)
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "3f2a9c1e-7b4d-4e2a-9c1e-7b4d4e2a9c1e", string(msg.Key))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "event_type", msg.Headers[1].Key)
	assert.Equal(t, EventBookingStatusChanged, string(msg.Headers[1].Value))

	var event BookingEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "2025-01-15", event.Date)
	assert.Equal(t, "10:00", event.StartTime)
	assert.Equal(t, "cancelled", event.Status)
	assert.Equal(t, "scheduled", event.PreviousStatus)
	assert.Equal(t, string(msg.Headers[0].Value), event.EventID)
}

func TestPublisher_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := NewPublisherWithWriter(w, "bookings", time.Second, logger.Nop())

	err := p.PublishBookingCreated(context.Background(), testBooking())
	assert.ErrorIs(t, err, ErrPublish)
}

func TestPublisher_DisabledIsNoop(t *testing.T) {
	p := NewPublisher(Config{}, logger.Nop())

	assert.False(t, p.Enabled())
	assert.NoError(t, p.PublishBookingCreated(context.Background(), testBooking()))
	assert.NoError(t, p.Close())
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, SplitBrokers(" kafka-1:9092, ,kafka-2:9092 "))
	assert.Empty(t, SplitBrokers(""))
}
