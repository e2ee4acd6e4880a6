// Package events публикует события бронирований в Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	defaultTopic        = "appointment-bookings"
	defaultWriteTimeout = 5 * time.Second
	batchTimeout        = 10 * time.Millisecond
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// MessageWriter часть kafka.Writer, которая нужна публикатору
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config параметры публикатора
type Config struct {
	Brokers      string // через запятую
	Topic        string
	WriteTimeout time.Duration
}

// Publisher публикатор событий. Без брокеров работает как no-op.
type Publisher struct {
	writer       MessageWriter
	topic        string
	writeTimeout time.Duration
	logger       Logger
	now          func() time.Time
}

// NewPublisher создает публикатор поверх kafka.Writer
func NewPublisher(cfg Config, logger Logger) *Publisher {
	brokers := SplitBrokers(cfg.Brokers)
	topic := cfg.Topic
	if topic == "" {
		topic = defaultTopic
	}

	if len(brokers) == 0 {
		logger.Warn("Kafka brokers are not configured, booking events are disabled")
		return NewPublisherWithWriter(nil, topic, cfg.WriteTimeout, logger)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: batchTimeout,
		RequiredAcks: kafka.RequireOne,
	}

	return NewPublisherWithWriter(writer, topic, cfg.WriteTimeout, logger)
}

// NewPublisherWithWriter создает публикатор с готовым writer (nil - события отключены)
func NewPublisherWithWriter(writer MessageWriter, topic string, writeTimeout time.Duration, logger Logger) *Publisher {
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &Publisher{
		writer:       writer,
		topic:        topic,
		writeTimeout: writeTimeout,
		logger:       logger,
		now:          time.Now,
	}
}

// Enabled возвращает true, если события отправляются в Kafka
func (p *Publisher) Enabled() bool {
	return p != nil && p.writer != nil
}

// PublishBookingCreated публикует booking.created
func (p *Publisher) PublishBookingCreated(ctx context.Context, booking *domain.Booking) error {
	return p.publish(ctx, EventBookingCreated, booking, "")
}

// PublishBookingCancelled публикует booking.cancelled
func (p *Publisher) PublishBookingCancelled(ctx context.Context, booking *domain.Booking) error {
	return p.publish(ctx, EventBookingCancelled, booking, "")
}

// PublishBookingStatusChanged публикует booking.status_changed
func (p *Publisher) PublishBookingStatusChanged(ctx context.Context, booking *domain.Booking, previous domain.BookingStatus) error {
	return p.publish(ctx, EventBookingStatusChanged, booking, previous)
}

// Close закрывает writer
func (p *Publisher) Close() error {
	if !p.Enabled() {
		return nil
	}
	return p.writer.Close()
}

func (p *Publisher) publish(ctx context.Context, eventType string, booking *domain.Booking, previous domain.BookingStatus) error {
	if !p.Enabled() {
		return nil
	}

	event := BookingEvent{
		EventID:           uuid.NewString(),
		EventType:         eventType,
		BookingID:         booking.ID.String(),
		StaffID:           booking.StaffID,
		CustomerID:        booking.CustomerID,
		AppointmentTypeID: booking.AppointmentTypeID,
		Date:              domain.DateKey(booking.BookingDate),
		StartTime:         booking.StartTime.String(),
		EndTime:           booking.EndTime.String(),
		Status:            string(booking.Status),
		PreviousStatus:    string(previous),
		OccurredAt:        p.now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}

	// Ключ - ID бронирования: события одной записи попадают в одну партицию
	msg := kafka.Message{
		Key:   []byte(event.BookingID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "event_type", Value: []byte(eventType)},
		},
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		return fmt.Errorf("%w: %s booking_id=%s: %w", ErrPublish, eventType, event.BookingID, err)
	}

	p.logger.Info("Published %s for booking %s", eventType, event.BookingID)
	return nil
}

// SplitBrokers разбирает список брокеров через запятую
func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
