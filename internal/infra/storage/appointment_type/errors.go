package appointment_type

import "errors"

var (
	// ErrAppointmentTypeNotFound возвращается, когда тип приёма не найден
	ErrAppointmentTypeNotFound = errors.New("appointment_type.repository: appointment type not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment_type.repository: failed to build query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment_type.repository: failed to scan row")
)
