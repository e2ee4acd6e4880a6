package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentTypeRepository интерфейс репозитория типов приёма
type AppointmentTypeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.AppointmentType, error)
}

// StaffRepository интерфейс репозитория сотрудников
type StaffRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.StaffMember, error)
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Customer, error)
	Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
}

// CalendarRepository интерфейс репозитория правил календаря
type CalendarRepository interface {
	GetCalendar(ctx context.Context, from, to time.Time) (*domain.BusinessCalendar, error)
	GetOverrides(ctx context.Context, staffIDs []int64, from, to time.Time) ([]*domain.StaffAvailabilityOverride, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByStaffWithFilter(ctx context.Context, filter domain.StaffBookingsFilter) ([]*domain.Booking, error)
}

// ConfigRepository интерфейс репозитория конфигурации расписания
type ConfigRepository interface {
	GetConfigWithHierarchy(ctx context.Context, appointmentTypeID *int64) (*domain.SchedulingConfig, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// CacheInvalidator сбрасывает кеш доступности после записи (опционально)
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// EventPublisher публикует событие о созданном бронировании (опционально)
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, booking *domain.Booking) error
}

// MetricsRecorder метрики исходов бронирования (опционально)
type MetricsRecorder interface {
	RecordBooking(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
