package get_availability

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailability "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model: слоты по датам "YYYY-MM-DD"
type AvailabilityResponse map[string][]AvailableSlot

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	StaffID   int64   `json:"staffId"`
	StaffName string  `json:"staffName"`
	Price     float64 `json:"price"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response.
// Каждая дата периода присутствует, закрытые дни - с пустым списком.
func FromUseCaseResponse(resp *getAvailability.Response) AvailabilityResponse {
	result := make(AvailabilityResponse, len(resp.Dates))
	for _, date := range resp.Dates {
		slots := resp.Slots[date]
		items := make([]AvailableSlot, len(slots))
		for i, slot := range slots {
			items[i] = AvailableSlot{
				StartTime: slot.Start.String(),
				EndTime:   slot.End.String(),
				StaffID:   slot.StaffID,
				StaffName: slot.StaffName,
				Price:     slot.Price,
			}
		}
		result[date] = items
	}
	return result
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(appointmentTypeIDStr, staffIDStr, dateFromStr, dateToStr string) (*getAvailability.Request, error) {
	appointmentTypeID, err := strconv.ParseInt(appointmentTypeIDStr, 10, 64)
	if err != nil {
		return nil, err
	}

	dateFrom, err := time.Parse(domain.DateFormat, dateFromStr)
	if err != nil {
		return nil, err
	}

	dateTo, err := time.Parse(domain.DateFormat, dateToStr)
	if err != nil {
		return nil, err
	}

	req := &getAvailability.Request{
		AppointmentTypeID: appointmentTypeID,
		DateFrom:          dateFrom,
		DateTo:            dateTo,
	}

	// Парсим staffId если указан
	if staffIDStr != "" {
		staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.StaffID = &staffID
	}

	return req, nil
}
