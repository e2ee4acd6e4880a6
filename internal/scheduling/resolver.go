// Package scheduling содержит чистые функции движка доступности:
// разрешение рабочего окна, генерацию слотов и оценку заполненности календаря.
package scheduling

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Resolver разрешает рабочее окно сотрудника на дату.
// Приоритет: override сотрудника > праздник > office hours > закрыто.
type Resolver struct {
	calendar  *domain.BusinessCalendar
	overrides map[overrideKey]*domain.StaffAvailabilityOverride
}

type overrideKey struct {
	staffID int64
	date    string
}

// NewResolver создает resolver по правилам бизнеса и override'ам сотрудников.
// Если на одну пару (сотрудник, дата) пришло несколько override, побеждает последний.
func NewResolver(calendar *domain.BusinessCalendar, overrides []*domain.StaffAvailabilityOverride) *Resolver {
	if calendar == nil {
		calendar = &domain.BusinessCalendar{}
	}
	index := make(map[overrideKey]*domain.StaffAvailabilityOverride, len(overrides))
	for _, o := range overrides {
		if o == nil {
			continue
		}
		index[overrideKey{staffID: o.StaffID, date: domain.DateKey(o.Date)}] = o
	}
	return &Resolver{calendar: calendar, overrides: index}
}

// Resolve возвращает рабочее окно сотрудника на дату. Никогда не возвращает ошибку:
// неразрешимый или некорректный день считается закрытым.
func (r *Resolver) Resolve(staffID int64, date time.Time) domain.WorkingWindow {
	override := r.overrides[overrideKey{staffID: staffID, date: domain.DateKey(date)}]
	return ResolveWindow(date, override, r.calendar)
}

// ResolveWindow применяет правила приоритета для одной даты
func ResolveWindow(date time.Time, override *domain.StaffAvailabilityOverride, calendar *domain.BusinessCalendar) domain.WorkingWindow {
	// 1. Override сотрудника применяется как есть, независимо от праздников и office hours
	if override != nil {
		if !override.IsAvailable || override.StartTime == nil || override.EndTime == nil {
			return domain.Closed()
		}
		return openWindow(*override.StartTime, *override.EndTime)
	}

	if calendar == nil {
		return domain.Closed()
	}

	// 2. Праздник закрывает день для всех
	if calendar.HolidayOn(date) != nil {
		return domain.Closed()
	}

	// 3. Office hours на день недели
	hours := calendar.OfficeHoursFor(date)
	if hours == nil || !hours.IsActive {
		return domain.Closed()
	}

	return openWindow(hours.StartTime, hours.EndTime)
}

// openWindow возвращает открытое окно или закрытое, если границы некорректны
func openWindow(start, end types.TimeString) domain.WorkingWindow {
	if start.Validate() != nil || end.Validate() != nil {
		return domain.Closed()
	}
	if !start.IsBefore(end) {
		return domain.Closed()
	}
	return domain.WorkingWindow{IsOpen: true, Start: start, End: end}
}
