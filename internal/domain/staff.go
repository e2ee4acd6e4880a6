package domain

import "time"

// StaffMember is a person who can be booked
type StaffMember struct {
	ID                        int64
	DisplayName               string
	IsActive                  bool
	QualifiedAppointmentTypes []int64
	DeletedAt                 *time.Time // soft delete: historical bookings keep their reference
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// IsBookable returns true if the staff member participates in slot generation
func (s *StaffMember) IsBookable() bool {
	return s.IsActive && s.DeletedAt == nil
}

// IsQualified returns true if the staff member can perform the appointment type
func (s *StaffMember) IsQualified(appointmentTypeID int64) bool {
	for _, id := range s.QualifiedAppointmentTypes {
		if id == appointmentTypeID {
			return true
		}
	}
	return false
}

// AppointmentType is a service offered by the business
type AppointmentType struct {
	ID               int64
	Name             string
	DurationMinutes  int
	Price            float64
	IsOnlineBookable bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
