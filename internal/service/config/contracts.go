package config

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ConfigRepository интерфейс репозитория конфигурации расписания
type ConfigRepository interface {
	GetConfigWithHierarchy(ctx context.Context, appointmentTypeID *int64) (*domain.SchedulingConfig, error)
	Upsert(ctx context.Context, config *domain.SchedulingConfig) (*domain.SchedulingConfig, error)
	Delete(ctx context.Context, appointmentTypeID *int64) error
}

// CacheInvalidator сбрасывает кеш доступности после изменения конфигурации (опционально)
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
