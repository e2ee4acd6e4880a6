package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	StaffID           int64            // ID сотрудника
	AppointmentTypeID int64            // ID типа приёма
	Date              time.Time        // Дата бронирования (без времени)
	StartTime         types.TimeString // Время начала, "10:00"
	EndTime           types.TimeString // Время окончания, "10:30"
	Customer          CustomerInput    // Данные клиента
	Notes             *string          // Дополнительные заметки (опционально)
}

// CustomerInput данные клиента из запроса
type CustomerInput struct {
	FirstName string
	LastName  string
	Email     *string // Ключ дедупликации без учёта регистра (опционально)
	Phone     string
}

// Response модель ответа с созданным бронированием
type Response struct {
	BookingID         uuid.UUID
	ConfirmationCode  string
	StaffID           int64
	CustomerID        int64
	AppointmentTypeID int64
	BookingDate       time.Time
	StartTime         types.TimeString
	EndTime           types.TimeString
	Status            string

	// Денормализованные данные
	StaffName           string
	AppointmentTypeName string
	Price               float64
	Notes               *string

	CreatedAt time.Time
}

// Settings параметры use case
type Settings struct {
	Timeout  time.Duration  // Собственный таймаут операции, не зависящий от клиента
	Location *time.Location // Часовой пояс бизнеса для "сегодня"
}
