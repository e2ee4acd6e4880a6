package scheduling

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// EvaluateStatus возвращает статус заполненности календаря по количеству
// настроенных дней в окне lookahead
func EvaluateStatus(configuredDays, thresholdDays int) domain.ConfigurationStatus {
	switch {
	case configuredDays <= 0:
		return domain.ConfigurationNotConfigured
	case configuredDays < thresholdDays:
		return domain.ConfigurationPartial
	default:
		return domain.ConfigurationConfigured
	}
}

// LookaheadWindow возвращает окно [from, to) начиная с сегодняшнего дня
func LookaheadWindow(now time.Time, months int) (time.Time, time.Time) {
	from := domain.DateOnly(now)
	return from, from.AddDate(0, months, 0)
}
