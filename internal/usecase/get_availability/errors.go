package get_availability

import "errors"

var (
	// ErrAppointmentTypeNotFound возвращается, когда тип приёма не найден
	ErrAppointmentTypeNotFound = errors.New("get_availability: appointment type not found")

	// ErrAppointmentTypeNotBookable возвращается, когда тип приёма недоступен для онлайн записи
	ErrAppointmentTypeNotBookable = errors.New("get_availability: appointment type is not bookable online")

	// ErrInvalidDateRange возвращается, когда dateFrom позже dateTo
	ErrInvalidDateRange = errors.New("get_availability: invalid date range")

	// ErrDateRangeTooLong возвращается, когда период превышает допустимую длину
	ErrDateRangeTooLong = errors.New("get_availability: date range is too long")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrServiceUnavailable возвращается, когда хранилище не ответило вовремя или недоступно
	ErrServiceUnavailable = errors.New("get_availability: storage unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
