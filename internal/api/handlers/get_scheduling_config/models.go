package get_scheduling_config

import (
	"fmt"
	"strconv"
)

// ParseAppointmentTypeID парсит опциональный query параметр appointmentTypeId.
// Пустая строка означает общую конфигурацию.
func ParseAppointmentTypeID(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, fmt.Errorf("appointmentTypeId must be positive, got %d", id)
	}
	return &id, nil
}
