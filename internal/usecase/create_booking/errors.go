package create_booking

import "errors"

var (
	// ErrAppointmentTypeNotFound возвращается, когда тип приёма не найден
	ErrAppointmentTypeNotFound = errors.New("create_booking: appointment type not found")

	// ErrAppointmentTypeNotBookable возвращается, когда тип приёма недоступен для онлайн записи
	ErrAppointmentTypeNotBookable = errors.New("create_booking: appointment type is not bookable online")

	// ErrStaffNotFound возвращается, когда сотрудник не найден
	ErrStaffNotFound = errors.New("create_booking: staff member not found")

	// ErrStaffNotBookable возвращается, когда сотрудник неактивен или удалён
	ErrStaffNotBookable = errors.New("create_booking: staff member is not bookable")

	// ErrStaffNotQualified возвращается, когда сотрудник не оказывает этот тип приёма
	ErrStaffNotQualified = errors.New("create_booking: staff member is not qualified for appointment type")

	// ErrInvalidDuration возвращается, когда endTime - startTime не равно длительности типа приёма
	ErrInvalidDuration = errors.New("create_booking: interval does not match appointment duration")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrTooLateToBook возвращается, когда попытка забронировать слот нарушает minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrOutsideWorkingHours возвращается, когда интервал не лежит в рабочем окне сотрудника
	ErrOutsideWorkingHours = errors.New("create_booking: interval is outside working hours")

	// ErrSlotNotAvailable возвращается, когда интервал пересекается с активным бронированием
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrConcurrentUpdate возвращается, когда конкурентная транзакция изменила те же данные
	ErrConcurrentUpdate = errors.New("create_booking: concurrent update, retry with fresh availability")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrServiceUnavailable возвращается, когда хранилище не ответило вовремя или недоступно
	ErrServiceUnavailable = errors.New("create_booking: storage unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")

	errCustomerCreatedConcurrently = errors.New("customer with this email created concurrently")
)

// IsValidationError возвращает true для ошибок некорректного запроса
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidInput,
		ErrAppointmentTypeNotFound,
		ErrAppointmentTypeNotBookable,
		ErrStaffNotFound,
		ErrStaffNotBookable,
		ErrStaffNotQualified,
		ErrInvalidDuration,
		ErrInvalidDate,
		ErrDateTooFarInFuture,
		ErrTooLateToBook,
		ErrOutsideWorkingHours,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsConflictError возвращает true для конфликтов с другими бронированиями
func IsConflictError(err error) bool {
	return errors.Is(err, ErrSlotNotAvailable) || errors.Is(err, ErrConcurrentUpdate)
}
