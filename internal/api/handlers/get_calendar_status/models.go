package get_calendar_status

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getCalendarStatus "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_calendar_status"
)

// CalendarStatusResponse HTTP response model
type CalendarStatusResponse struct {
	StaffID        int64  `json:"staffId"`
	Status         string `json:"status"` // not_configured | partial | configured
	ConfiguredDays int    `json:"configuredDays"`
	ThresholdDays  int    `json:"thresholdDays"`
	WindowStart    string `json:"windowStart"` // "2025-01-13"
	WindowEnd      string `json:"windowEnd"`   // не включительно
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getCalendarStatus.Response) *CalendarStatusResponse {
	return &CalendarStatusResponse{
		StaffID:        resp.StaffID,
		Status:         string(resp.Status),
		ConfiguredDays: resp.ConfiguredDays,
		ThresholdDays:  resp.ThresholdDays,
		WindowStart:    resp.WindowStart.Format(domain.DateFormat),
		WindowEnd:      resp.WindowEnd.Format(domain.DateFormat),
	}
}
