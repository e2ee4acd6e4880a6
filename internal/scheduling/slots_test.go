package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func starts(slots []domain.TimeSlot) []types.TimeString {
	result := make([]types.TimeString, len(slots))
	for i, s := range slots {
		result[i] = s.Start
	}
	return result
}

func TestGenerate_SkipsBookedInterval(t *testing.T) {
	window := domain.WorkingWindow{IsOpen: true, Start: "09:00", End: "17:00"}
	booked := []domain.Interval{{Start: "10:00", End: "10:30"}}

	slots := Generate(window, 30, 30, booked)

	require.Len(t, slots, 15)
	assert.Equal(t, types.TimeString("09:00"), slots[0].Start)
	assert.Equal(t, types.TimeString("09:30"), slots[1].Start)
	assert.Equal(t, types.TimeString("10:30"), slots[2].Start)
	assert.Equal(t, types.TimeString("16:30"), slots[len(slots)-1].Start)
	assert.Equal(t, types.TimeString("17:00"), slots[len(slots)-1].End)
	assert.NotContains(t, starts(slots), types.TimeString("10:00"))
}

func TestGenerate_ClosedWindowIsEmpty(t *testing.T) {
	booked := []domain.Interval{{Start: "10:00", End: "10:30"}}

	assert.Empty(t, Generate(domain.Closed(), 30, 30, nil))
	assert.Empty(t, Generate(domain.Closed(), 30, 15, booked))
	assert.NotNil(t, Generate(domain.Closed(), 30, 30, nil))
}

func TestGenerate_OverrideClosedDay(t *testing.T) {
	calendar := weekCalendar()
	override := &domain.StaffAvailabilityOverride{StaffID: staffID, Date: monday, IsAvailable: false}

	window := NewResolver(calendar, []*domain.StaffAvailabilityOverride{override}).Resolve(staffID, monday)

	assert.Empty(t, Generate(window, 30, 30, nil))
}

func TestGenerate_FinerGranularity(t *testing.T) {
	window := domain.WorkingWindow{IsOpen: true, Start: "09:00", End: "10:00"}

	slots := Generate(window, 30, 15, nil)

	assert.Equal(t, []types.TimeString{"09:00", "09:15", "09:30"}, starts(slots))
}

func TestGenerate_FinerGranularityAroundBooking(t *testing.T) {
	window := domain.WorkingWindow{IsOpen: true, Start: "09:00", End: "11:00"}
	booked := []domain.Interval{{Start: "09:45", End: "10:15"}}

	slots := Generate(window, 30, 15, booked)

	// 09:30, 09:45 и 10:00 пересекаются с бронированием, 09:15 заканчивается ровно в 09:45
	assert.Equal(t, []types.TimeString{"09:00", "09:15", "10:15", "10:30"}, starts(slots))
}

func TestGenerate_DurationLongerThanWindow(t *testing.T) {
	window := domain.WorkingWindow{IsOpen: true, Start: "09:00", End: "09:45"}

	assert.Empty(t, Generate(window, 60, 15, nil))
}

func TestGenerate_LastSlotMustFit(t *testing.T) {
	window := domain.WorkingWindow{IsOpen: true, Start: "09:00", End: "10:40"}

	slots := Generate(window, 45, 45, nil)

	assert.Equal(t, []types.TimeString{"09:00", "09:45"}, starts(slots))
}

func TestGenerate_InvalidDuration(t *testing.T) {
	window := domain.WorkingWindow{IsOpen: true, Start: "09:00", End: "17:00"}

	assert.Empty(t, Generate(window, 0, 30, nil))
}

func TestBookedIntervals_IgnoresInactive(t *testing.T) {
	bookings := []*domain.Booking{
		{StartTime: "09:00", EndTime: "09:30", Status: domain.StatusScheduled},
		{StartTime: "10:00", EndTime: "10:30", Status: domain.StatusCancelled},
		{StartTime: "11:00", EndTime: "11:30", Status: domain.StatusNoShow},
		{StartTime: "12:00", EndTime: "12:30", Status: domain.StatusCompleted},
	}

	intervals := BookedIntervals(bookings)

	assert.Equal(t, []domain.Interval{
		{Start: "09:00", End: "09:30"},
		{Start: "12:00", End: "12:30"},
	}, intervals)
}

func TestOverlapping(t *testing.T) {
	bookings := []*domain.Booking{
		{StartTime: "09:00", EndTime: "09:30", Status: domain.StatusScheduled},
		{StartTime: "09:30", EndTime: "10:00", Status: domain.StatusScheduled},
		{StartTime: "09:15", EndTime: "09:45", Status: domain.StatusCancelled},
	}

	got := Overlapping(domain.Interval{Start: "09:30", End: "10:00"}, bookings)

	require.Len(t, got, 1)
	assert.Equal(t, types.TimeString("09:30"), got[0].StartTime)
}
