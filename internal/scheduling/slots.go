package scheduling

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Generate перечисляет слоты длительностью durationMinutes внутри окна с шагом granularityMinutes
// и отбрасывает пересекающиеся с existing. granularityMinutes <= 0 означает шаг, равный длительности.
// Результат отсортирован по времени начала; для закрытого окна всегда пустой.
func Generate(window domain.WorkingWindow, durationMinutes, granularityMinutes int, existing []domain.Interval) []domain.TimeSlot {
	slots := make([]domain.TimeSlot, 0)

	if !window.IsOpen || durationMinutes <= 0 {
		return slots
	}
	if granularityMinutes <= 0 {
		granularityMinutes = durationMinutes
	}

	windowStart := window.Start.Minutes()
	windowEnd := window.End.Minutes()
	if windowStart < 0 || windowEnd < 0 {
		return slots
	}

	for start := windowStart; start+durationMinutes <= windowEnd; start += granularityMinutes {
		candidate, ok := interval(start, start+durationMinutes)
		if !ok {
			break
		}
		if overlapsAny(candidate, existing) {
			continue
		}
		slots = append(slots, domain.TimeSlot{Start: candidate.Start, End: candidate.End})
	}

	return slots
}

// BookedIntervals возвращает интервалы активных бронирований (scheduled, completed)
func BookedIntervals(bookings []*domain.Booking) []domain.Interval {
	intervals := make([]domain.Interval, 0, len(bookings))
	for _, b := range bookings {
		if b == nil || !b.IsActive() {
			continue
		}
		intervals = append(intervals, b.Interval())
	}
	return intervals
}

// Overlapping возвращает бронирования, пересекающиеся с интервалом
func Overlapping(target domain.Interval, bookings []*domain.Booking) []*domain.Booking {
	result := make([]*domain.Booking, 0)
	for _, b := range bookings {
		if b == nil || !b.IsActive() {
			continue
		}
		if b.Interval().Overlaps(target) {
			result = append(result, b)
		}
	}
	return result
}

func overlapsAny(candidate domain.Interval, existing []domain.Interval) bool {
	for _, e := range existing {
		if candidate.Overlaps(e) {
			return true
		}
	}
	return false
}

func interval(startMinutes, endMinutes int) (domain.Interval, bool) {
	start, err := types.FromMinutes(startMinutes)
	if err != nil {
		return domain.Interval{}, false
	}
	end, err := types.FromMinutes(endMinutes)
	if err != nil {
		return domain.Interval{}, false
	}
	return domain.Interval{Start: start, End: end}, true
}
