package get_calendar_status

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Response статус заполненности календаря сотрудника
type Response struct {
	StaffID        int64
	Status         domain.ConfigurationStatus
	ConfiguredDays int       // Количество override'ов в окне
	ThresholdDays  int       // Порог для статуса configured
	WindowStart    time.Time // Начало окна (сегодня)
	WindowEnd      time.Time // Конец окна, не включительно
}

// Settings параметры use case
type Settings struct {
	LookaheadMonths int
	ThresholdDays   int
	QueryTimeout    time.Duration
	Location        *time.Location
}
