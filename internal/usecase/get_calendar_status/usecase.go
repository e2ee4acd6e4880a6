package get_calendar_status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/pgerrors"
	staffRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

const defaultQueryTimeout = 5 * time.Second

// UseCase use case для оценки заполненности календаря сотрудника
type UseCase struct {
	staffRepo    StaffRepository
	calendarRepo CalendarRepository
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(staffRepo StaffRepository, calendarRepo CalendarRepository, settings Settings, logger Logger) *UseCase {
	if settings.LookaheadMonths <= 0 {
		settings.LookaheadMonths = domain.DefaultStatusLookaheadMonths
	}
	if settings.ThresholdDays <= 0 {
		settings.ThresholdDays = domain.DefaultStatusThresholdDays
	}
	if settings.QueryTimeout <= 0 {
		settings.QueryTimeout = defaultQueryTimeout
	}
	if settings.Location == nil {
		settings.Location = time.Local
	}
	return &UseCase{
		staffRepo:    staffRepo,
		calendarRepo: calendarRepo,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute пересчитывает статус при каждом вызове, ничего не сохраняет
func (uc *UseCase) Execute(ctx context.Context, staffID int64) (*Response, error) {
	if staffID <= 0 {
		return nil, fmt.Errorf("%w: staffId must be positive", ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.settings.QueryTimeout)
	defer cancel()

	staff, err := uc.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			uc.logger.Warn("GetCalendarStatus: staff id=%d not found", staffID)
			return nil, ErrStaffNotFound
		}
		return nil, uc.storageError("get staff", err)
	}
	if staff.DeletedAt != nil {
		uc.logger.Warn("GetCalendarStatus: staff id=%d is deleted", staffID)
		return nil, ErrStaffNotFound
	}

	now := uc.timeProvider.Now().In(uc.settings.Location)
	from, to := scheduling.LookaheadWindow(now, uc.settings.LookaheadMonths)

	count, err := uc.calendarRepo.CountOverrides(ctx, staffID, from, to)
	if err != nil {
		return nil, uc.storageError("count overrides", err)
	}

	status := scheduling.EvaluateStatus(count, uc.settings.ThresholdDays)
	uc.logger.Info("GetCalendarStatus: staff=%d overrides=%d status=%s", staffID, count, status)

	return &Response{
		StaffID:        staffID,
		Status:         status,
		ConfiguredDays: count,
		ThresholdDays:  uc.settings.ThresholdDays,
		WindowStart:    from,
		WindowEnd:      to,
	}, nil
}

func (uc *UseCase) storageError(op string, err error) error {
	if pgerrors.IsUnavailable(err) {
		uc.logger.Error("GetCalendarStatus: storage unavailable on %s: %v", op, err)
		return fmt.Errorf("%w: %s: %w", ErrServiceUnavailable, op, err)
	}
	uc.logger.Error("GetCalendarStatus: failed to %s: %v", op, err)
	return fmt.Errorf("%w: failed to %s: %w", ErrInternal, op, err)
}
