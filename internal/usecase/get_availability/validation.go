package get_availability

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxRangeDays int) error {
	if req.AppointmentTypeID <= 0 {
		return fmt.Errorf("%w: appointmentTypeId must be positive", ErrInvalidInput)
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffId must be positive", ErrInvalidInput)
	}

	if req.DateFrom.IsZero() || req.DateTo.IsZero() {
		return fmt.Errorf("%w: dateFrom and dateTo are required", ErrInvalidInput)
	}

	from := domain.DateOnly(req.DateFrom)
	to := domain.DateOnly(req.DateTo)

	if to.Before(from) {
		return fmt.Errorf("%w: dateFrom %s is after dateTo %s", ErrInvalidDateRange, domain.DateKey(from), domain.DateKey(to))
	}

	// Период включительный: from == to это один день
	days := int(to.Sub(from).Hours()/24) + 1
	if maxRangeDays > 0 && days > maxRangeDays {
		return fmt.Errorf("%w: %d days requested, max %d", ErrDateRangeTooLong, days, maxRangeDays)
	}

	return nil
}
