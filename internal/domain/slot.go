package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Interval is a half-open time-of-day interval [Start, End)
type Interval struct {
	Start types.TimeString
	End   types.TimeString
}

// Overlaps reports whether two half-open intervals intersect.
// Adjacent intervals (one ends exactly where the other starts) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Minutes() < other.End.Minutes() && other.Start.Minutes() < i.End.Minutes()
}

// TimeSlot represents a bookable interval offered by a staff member
type TimeSlot struct {
	Start     types.TimeString
	End       types.TimeString
	StaffID   int64
	StaffName string
	Price     float64
}

// WorkingWindow is the resolved open/closed state of one staff member on one date
type WorkingWindow struct {
	IsOpen bool
	Start  types.TimeString
	End    types.TimeString
}

// Closed returns a closed working window
func Closed() WorkingWindow {
	return WorkingWindow{}
}

// Contains reports whether the interval lies entirely inside an open window
func (w WorkingWindow) Contains(i Interval) bool {
	if !w.IsOpen {
		return false
	}
	return i.Start.Minutes() >= w.Start.Minutes() && i.End.Minutes() <= w.End.Minutes()
}

// AvailabilityQuery identifies one availability computation
type AvailabilityQuery struct {
	AppointmentTypeID int64
	StaffID           *int64 // nil = all qualified staff
	DateFrom          time.Time
	DateTo            time.Time
}
