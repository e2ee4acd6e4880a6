package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Уровни иерархии конфигурации
const (
	LevelAppointmentType = "appointment_type"
	LevelGlobal          = "global"
	LevelDefault         = "default"
)

// Request модели

// UpsertConfigRequest запрос на создание или замену конфигурации расписания
type UpsertConfigRequest struct {
	UserID                  int64  `json:"userId"`
	AppointmentTypeID       *int64 `json:"appointmentTypeId,omitempty"` // NULL = для всех типов приёма
	SlotGranularityMinutes  int    `json:"slotGranularityMinutes"`      // 0 = шаг равен длительности
	AdvanceBookingDays      int    `json:"advanceBookingDays"`          // 0 = без ограничений
	MinBookingNoticeMinutes int    `json:"minBookingNoticeMinutes"`     // Минимальное время до бронирования
}

// ToDomainConfig конвертирует UpsertConfigRequest в domain модель
func (r *UpsertConfigRequest) ToDomainConfig() *domain.SchedulingConfig {
	return &domain.SchedulingConfig{
		AppointmentTypeID:       r.AppointmentTypeID,
		SlotGranularityMinutes:  r.SlotGranularityMinutes,
		AdvanceBookingDays:      r.AdvanceBookingDays,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
	}
}

// Response модели

// ConfigResponse ответ с данными конфигурации расписания
type ConfigResponse struct {
	ID                      *int64     `json:"id,omitempty"` // nil для значений по умолчанию
	AppointmentTypeID       *int64     `json:"appointmentTypeId,omitempty"`
	Level                   string     `json:"level"`
	SlotGranularityMinutes  int        `json:"slotGranularityMinutes"`
	AdvanceBookingDays      int        `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int        `json:"minBookingNoticeMinutes"`
	CreatedAt               *time.Time `json:"createdAt,omitempty"`
	UpdatedAt               *time.Time `json:"updatedAt,omitempty"`
}

// Методы конвертации

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.SchedulingConfig) *ConfigResponse {
	if c == nil {
		return nil
	}

	level := LevelAppointmentType
	if c.IsGlobalConfig() {
		level = LevelGlobal
	}

	id := c.ID
	createdAt, updatedAt := c.CreatedAt, c.UpdatedAt
	return &ConfigResponse{
		ID:                      &id,
		AppointmentTypeID:       c.AppointmentTypeID,
		Level:                   level,
		SlotGranularityMinutes:  c.SlotGranularityMinutes,
		AdvanceBookingDays:      c.AdvanceBookingDays,
		MinBookingNoticeMinutes: c.MinBookingNoticeMinutes,
		CreatedAt:               &createdAt,
		UpdatedAt:               &updatedAt,
	}
}

// DefaultConfigResponse конфигурация по умолчанию, когда в БД ничего нет
func DefaultConfigResponse() *ConfigResponse {
	d := domain.DefaultSchedulingConfig()
	return &ConfigResponse{
		Level:                   LevelDefault,
		SlotGranularityMinutes:  d.SlotGranularityMinutes,
		AdvanceBookingDays:      d.AdvanceBookingDays,
		MinBookingNoticeMinutes: d.MinBookingNoticeMinutes,
	}
}
