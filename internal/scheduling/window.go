package scheduling

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// dayClosedCutoff больше любого времени начала слота: весь день недоступен
const dayClosedCutoff = 24*60 + 1

// IsPastDate возвращает true, если дата раньше сегодняшнего дня (в зоне now)
func IsPastDate(date, now time.Time) bool {
	return inZone(date, now).Before(domain.DateOnly(now))
}

// IsBeyondAdvanceLimit возвращает true, если дата дальше, чем today + advanceDays.
// advanceDays <= 0 означает отсутствие ограничения.
func IsBeyondAdvanceLimit(date, now time.Time, advanceDays int) bool {
	if advanceDays <= 0 {
		return false
	}
	maxDate := domain.DateOnly(now).AddDate(0, 0, advanceDays)
	return inZone(date, now).After(maxDate)
}

// NoticeCutoff возвращает минуту дня date, раньше которой слот начинаться не может
// с учётом минимального времени до записи. Для дней после порога возвращает 0,
// для дней целиком до порога - значение больше любого времени начала.
func NoticeCutoff(date, now time.Time, minNoticeMinutes int) int {
	if minNoticeMinutes < 0 {
		minNoticeMinutes = 0
	}
	earliest := now.Add(time.Duration(minNoticeMinutes) * time.Minute)
	earliestDay := domain.DateOnly(earliest)
	day := inZone(date, now)

	switch {
	case day.Before(earliestDay):
		return dayClosedCutoff
	case day.After(earliestDay):
		return 0
	}

	cutoff := earliest.Hour()*60 + earliest.Minute()
	if earliest.Second() > 0 || earliest.Nanosecond() > 0 {
		cutoff++
	}
	return cutoff
}

// FilterByCutoff оставляет слоты, начинающиеся не раньше cutoff
func FilterByCutoff(slots []domain.TimeSlot, cutoff int) []domain.TimeSlot {
	if cutoff <= 0 {
		return slots
	}
	result := make([]domain.TimeSlot, 0, len(slots))
	for _, s := range slots {
		if s.Start.Minutes() >= cutoff {
			result = append(result, s)
		}
	}
	return result
}

// Dates перечисляет даты периода [from, to] включительно
func Dates(from, to time.Time) []time.Time {
	from = domain.DateOnly(from)
	to = domain.DateOnly(to)

	dates := make([]time.Time, 0)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// inZone переносит календарную дату date в часовой пояс now
func inZone(date, now time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
