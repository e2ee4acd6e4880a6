package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// BookingStatus represents the status of an appointment booking
type BookingStatus string

const (
	StatusScheduled BookingStatus = "scheduled"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// confirmationCodeLength number of booking id characters shown to customers
const confirmationCodeLength = 8

// Booking represents an appointment booked with a staff member
type Booking struct {
	ID                uuid.UUID
	StaffID           int64
	CustomerID        int64
	AppointmentTypeID int64
	BookingDate       time.Time
	StartTime         types.TimeString
	EndTime           types.TimeString
	Status            BookingStatus

	// Denormalized data for history
	StaffName           string
	AppointmentTypeName string
	Price               float64
	Notes               *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking holds its interval (scheduled or completed)
func (b *Booking) IsActive() bool {
	return b.Status == StatusScheduled || b.Status == StatusCompleted
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusScheduled
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
// Only scheduled bookings change status; completed, cancelled and no_show are final.
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	if b.Status != StatusScheduled {
		return false
	}
	return next == StatusCompleted || next == StatusCancelled || next == StatusNoShow
}

// Interval returns the booked half-open interval
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// ConfirmationCode returns a human-presentable booking reference
func (b *Booking) ConfirmationCode() string {
	return ConfirmationCode(b.ID)
}

// ConfirmationCode returns the first characters of the id, uppercased
func ConfirmationCode(id uuid.UUID) string {
	return strings.ToUpper(id.String()[:confirmationCodeLength])
}

// IsValidStatus reports whether s is a known booking status
func IsValidStatus(s BookingStatus) bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// StaffBookingsFilter фильтр для получения бронирований сотрудника
type StaffBookingsFilter struct {
	StaffIDs        []int64        // Обязательный параметр (один или несколько сотрудников)
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые и no-show
}

// IsSingleDay returns true if the filter targets exactly one date
func (f StaffBookingsFilter) IsSingleDay() bool {
	return f.StartDate != nil && f.EndDate != nil && f.StartDate.Equal(*f.EndDate)
}
