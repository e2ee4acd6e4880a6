package get_availability

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса доступных слотов
type Request struct {
	AppointmentTypeID int64     // ID типа приёма
	StaffID           *int64    // Только этот сотрудник (опционально)
	DateFrom          time.Time // Начало периода (включительно)
	DateTo            time.Time // Конец периода (включительно)
}

// Response модель ответа: слоты по датам периода
type Response struct {
	Dates []string                     // Даты периода по возрастанию (YYYY-MM-DD)
	Slots map[string][]domain.TimeSlot // Слоты по дате; каждая дата периода присутствует
}

// Settings параметры расчёта
type Settings struct {
	QueryTimeout time.Duration  // Таймаут загрузки данных из хранилища
	MaxRangeDays int            // Максимальная длина периода в днях
	Location     *time.Location // Часовой пояс бизнеса для "сегодня"
	CacheTTL     time.Duration  // Время жизни записи кеша
}
