package update_scheduling_config

import (
	"github.com/m04kA/SMC-AppointmentService/internal/service/config/models"
)

// UpdateSchedulingConfigRequest HTTP request model
type UpdateSchedulingConfigRequest struct {
	AppointmentTypeID       *int64 `json:"appointmentTypeId,omitempty"` // отсутствует = общая конфигурация
	SlotGranularityMinutes  int    `json:"slotGranularityMinutes"`
	AdvanceBookingDays      int    `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int    `json:"minBookingNoticeMinutes"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateSchedulingConfigRequest) ToServiceRequest(userID int64) *models.UpsertConfigRequest {
	return &models.UpsertConfigRequest{
		UserID:                  userID,
		AppointmentTypeID:       r.AppointmentTypeID,
		SlotGranularityMinutes:  r.SlotGranularityMinutes,
		AdvanceBookingDays:      r.AdvanceBookingDays,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
	}
}
