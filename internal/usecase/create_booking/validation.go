package create_booking

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffId must be positive", ErrInvalidInput)
	}

	if req.AppointmentTypeID <= 0 {
		return fmt.Errorf("%w: appointmentTypeId must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}
	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime format: %v", ErrInvalidInput, err)
	}

	if !req.StartTime.IsBefore(req.EndTime) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return validateCustomer(&req.Customer)
}

// validateCustomer проверяет данные клиента
func validateCustomer(c *CustomerInput) error {
	if err := validateName("customer.firstName", c.FirstName); err != nil {
		return err
	}
	if err := validateName("customer.lastName", c.LastName); err != nil {
		return err
	}

	phone := strings.TrimSpace(c.Phone)
	if phone == "" {
		return fmt.Errorf("%w: customer.phone is required", ErrInvalidInput)
	}
	if len(phone) > domain.MaxPhoneLength {
		return fmt.Errorf("%w: customer.phone exceeds %d characters", ErrInvalidInput, domain.MaxPhoneLength)
	}

	if email := domain.NormalizeEmail(c.Email); email != nil {
		at := strings.Index(*email, "@")
		if at <= 0 || at == len(*email)-1 {
			return fmt.Errorf("%w: customer.email is invalid", ErrInvalidInput)
		}
	}

	return nil
}

func validateName(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	if utf8.RuneCountInString(value) > domain.MaxNameLength {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidInput, field, domain.MaxNameLength)
	}
	return nil
}

// validateAppointment проверяет тип приёма, сотрудника и длительность интервала
func validateAppointment(req *Request, appointmentType *domain.AppointmentType, staff *domain.StaffMember) error {
	if !appointmentType.IsOnlineBookable {
		return ErrAppointmentTypeNotBookable
	}

	if !staff.IsBookable() {
		return ErrStaffNotBookable
	}

	if !staff.IsQualified(appointmentType.ID) {
		return ErrStaffNotQualified
	}

	duration := req.EndTime.Minutes() - req.StartTime.Minutes()
	if duration != appointmentType.DurationMinutes {
		return fmt.Errorf("%w: got %d minutes, expected %d", ErrInvalidDuration, duration, appointmentType.DurationMinutes)
	}

	return nil
}

// validateDate проверяет дату и время начала с учетом конфигурации
func validateDate(req *Request, now time.Time, config *domain.SchedulingConfig) error {
	// Проверяем, что дата не в прошлом
	if scheduling.IsPastDate(req.Date, now) {
		return ErrInvalidDate
	}

	// Проверяем, что дата не превышает ограничение advanceBookingDays
	if scheduling.IsBeyondAdvanceLimit(req.Date, now, config.AdvanceBookingDays) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, config.AdvanceBookingDays)
	}

	// Проверяем minBookingNoticeMinutes (и то, что слот сегодня еще не начался)
	cutoff := scheduling.NoticeCutoff(req.Date, now, config.MinBookingNoticeMinutes)
	if req.StartTime.Minutes() < cutoff {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, config.MinBookingNoticeMinutes)
	}

	return nil
}
