package get_calendar_status

import "errors"

var (
	// ErrStaffNotFound возвращается, когда сотрудник не найден или удалён
	ErrStaffNotFound = errors.New("get_calendar_status: staff member not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_calendar_status: invalid input data")

	// ErrServiceUnavailable возвращается, когда хранилище не ответило вовремя
	ErrServiceUnavailable = errors.New("get_calendar_status: storage unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_calendar_status: internal error")
)
