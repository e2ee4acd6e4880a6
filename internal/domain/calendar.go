package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// OfficeHours is the business default schedule for one weekday
type OfficeHours struct {
	ID        int64
	DayOfWeek int // 0 = Sunday ... 6 = Saturday, as time.Weekday
	StartTime types.TimeString
	EndTime   types.TimeString
	IsActive  bool
}

// Holiday is a business-wide closure
type Holiday struct {
	ID          int64
	Date        time.Time
	Name        string
	IsRecurring bool // applies to the same month/day every year
}

// Matches reports whether the holiday falls on date
func (h *Holiday) Matches(date time.Time) bool {
	hy, hm, hd := h.Date.Date()
	y, m, d := date.Date()
	if h.IsRecurring {
		return hm == m && hd == d
	}
	return hy == y && hm == m && hd == d
}

// StaffAvailabilityOverride is a staff-specific, date-specific availability record.
// At most one exists per (staff, date).
type StaffAvailabilityOverride struct {
	ID          int64
	StaffID     int64
	Date        time.Time
	IsAvailable bool
	StartTime   *types.TimeString
	EndTime     *types.TimeString
	Reason      *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BusinessCalendar holds the business-wide rules needed to resolve working windows
type BusinessCalendar struct {
	OfficeHours []*OfficeHours
	Holidays    []*Holiday
}

// OfficeHoursFor returns the office hours row for the weekday of date, if any
func (c *BusinessCalendar) OfficeHoursFor(date time.Time) *OfficeHours {
	weekday := int(date.Weekday())
	for _, oh := range c.OfficeHours {
		if oh != nil && oh.DayOfWeek == weekday {
			return oh
		}
	}
	return nil
}

// HolidayOn returns the holiday matching date, if any
func (c *BusinessCalendar) HolidayOn(date time.Time) *Holiday {
	for _, h := range c.Holidays {
		if h != nil && h.Matches(date) {
			return h
		}
	}
	return nil
}

// DateOnly truncates t to midnight in its location
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateKey formats a date as YYYY-MM-DD
func DateKey(t time.Time) string {
	return t.Format(DateFormat)
}
