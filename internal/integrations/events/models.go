package events

import "time"

// Типы событий бронирования
const (
	EventBookingCreated       = "booking.created"
	EventBookingCancelled     = "booking.cancelled"
	EventBookingStatusChanged = "booking.status_changed"
)

// BookingEvent сообщение о изменении бронирования
type BookingEvent struct {
	EventID           string    `json:"eventId"`
	EventType         string    `json:"eventType"`
	BookingID         string    `json:"bookingId"`
	StaffID           int64     `json:"staffId"`
	CustomerID        int64     `json:"customerId"`
	AppointmentTypeID int64     `json:"appointmentTypeId"`
	Date              string    `json:"date"`
	StartTime         string    `json:"startTime"`
	EndTime           string    `json:"endTime"`
	Status            string    `json:"status"`
	PreviousStatus    string    `json:"previousStatus,omitempty"`
	OccurredAt        time.Time `json:"occurredAt"`
}
