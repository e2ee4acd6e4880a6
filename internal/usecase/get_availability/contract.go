package get_availability

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
	// ListQualified активные квалифицированные сотрудники, опционально только staffID
	ListQualified(ctx context.Context, appointmentTypeID int64, staffID *int64) ([]*domain.StaffMember, error)
}

// CalendarRepository интерфейс репозитория правил календаря
type CalendarRepository interface {
	GetCalendar(ctx context.Context, from, to time.Time) (*domain.BusinessCalendar, error)
	GetOverrides(ctx context.Context, staffIDs []int64, from, to time.Time) ([]*domain.StaffAvailabilityOverride, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByStaffWithFilter(ctx context.Context, filter domain.StaffBookingsFilter) ([]*domain.Booking, error)
}

// ConfigRepository интерфейс репозитория конфигурации расписания
type ConfigRepository interface {
	GetConfigWithHierarchy(ctx context.Context, appointmentTypeID *int64) (*domain.SchedulingConfig, error)
}

// AvailabilityCache кеш рассчитанной доступности (опционально)
type AvailabilityCache interface {
	Version(ctx context.Context) (int64, error)
	Get(ctx context.Context, version int64, q domain.AvailabilityQuery) (map[string][]domain.TimeSlot, bool, error)
	Set(ctx context.Context, version int64, q domain.AvailabilityQuery, result map[string][]domain.TimeSlot) error
}

// MetricsRecorder метрики расчёта доступности (опционально)
type MetricsRecorder interface {
	RecordAvailability(slots int)
	RecordCache(result string)
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
