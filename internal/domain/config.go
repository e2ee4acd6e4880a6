package domain

import "time"

// SchedulingConfig represents the booking configuration of the business.
// Supports hierarchical configuration:
// 1. Appointment type specific (appointment_type_id)
// 2. Business-wide (NULL)
type SchedulingConfig struct {
	ID                      int64
	AppointmentTypeID       *int64 // NULL = config for all appointment types
	SlotGranularityMinutes  int    // 0 = step equals appointment duration
	AdvanceBookingDays      int    // 0 = unlimited
	MinBookingNoticeMinutes int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// DefaultSchedulingConfig returns the configuration used when nothing is stored
func DefaultSchedulingConfig() *SchedulingConfig {
	return &SchedulingConfig{
		SlotGranularityMinutes:  DefaultSlotGranularityMinutes,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
	}
}

// IsGlobalConfig returns true if this is a business-wide configuration
func (c *SchedulingConfig) IsGlobalConfig() bool {
	return c.AppointmentTypeID == nil
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (c *SchedulingConfig) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}

// GranularityFor returns the slot step for an appointment of the given duration
func (c *SchedulingConfig) GranularityFor(durationMinutes int) int {
	if c.SlotGranularityMinutes <= 0 {
		return durationMinutes
	}
	return c.SlotGranularityMinutes
}
