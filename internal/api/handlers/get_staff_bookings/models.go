package get_staff_bookings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// date задаёт один день и имеет приоритет над dateFrom/dateTo.
func ToServiceRequest(
	staffID int64,
	userID int64,
	statusStr string,
	dateStr string,
	dateFromStr string,
	dateToStr string,
	includeInactiveStr string,
) (*models.GetStaffBookingsRequest, error) {
	req := &models.GetStaffBookingsRequest{
		UserID:          userID,
		StaffID:         staffID,
		IncludeInactive: false, // По умолчанию только активные
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	switch {
	case dateStr != "":
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		req.StartDate = &date
		req.EndDate = &date
	default:
		if dateFromStr != "" {
			from, err := time.Parse(domain.DateFormat, dateFromStr)
			if err != nil {
				return nil, fmt.Errorf("invalid dateFrom: %w", err)
			}
			req.StartDate = &from
		}
		if dateToStr != "" {
			to, err := time.Parse(domain.DateFormat, dateToStr)
			if err != nil {
				return nil, fmt.Errorf("invalid dateTo: %w", err)
			}
			req.EndDate = &to
		}
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
