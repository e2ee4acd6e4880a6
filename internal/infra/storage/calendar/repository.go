package calendar

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const (
	officeHoursTable = "office_hours"
	holidaysTable    = "holidays"
	overridesTable   = "staff_availability_overrides"
)

// Repository читает правила календаря: office hours, праздники и override'ы сотрудников
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория календаря
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetOfficeHours возвращает расписание бизнеса по дням недели
func (r *Repository) GetOfficeHours(ctx context.Context) ([]*domain.OfficeHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "day_of_week", "start_time", "end_time", "is_active").
		From(officeHoursTable).
		OrderBy("day_of_week ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOfficeHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOfficeHours - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.OfficeHours, 0, 7)
	for rows.Next() {
		var oh domain.OfficeHours
		if err := rows.Scan(&oh.ID, &oh.DayOfWeek, &oh.StartTime, &oh.EndTime, &oh.IsActive); err != nil {
			return nil, fmt.Errorf("%w: GetOfficeHours - scan row: %w", ErrScanRow, err)
		}
		result = append(result, &oh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetOfficeHours - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// GetHolidays возвращает праздники периода [from, to] и все повторяющиеся праздники
func (r *Repository) GetHolidays(ctx context.Context, from, to time.Time) ([]*domain.Holiday, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "date", "name", "is_recurring").
		From(holidaysTable).
		Where(squirrel.Or{
			squirrel.And{
				squirrel.GtOrEq{"date": from.Format(domain.DateFormat)},
				squirrel.LtOrEq{"date": to.Format(domain.DateFormat)},
			},
			squirrel.Eq{"is_recurring": true},
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetHolidays - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetHolidays - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Holiday, 0)
	for rows.Next() {
		var h domain.Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Name, &h.IsRecurring); err != nil {
			return nil, fmt.Errorf("%w: GetHolidays - scan row: %w", ErrScanRow, err)
		}
		result = append(result, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetHolidays - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// GetCalendar загружает office hours и праздники периода
func (r *Repository) GetCalendar(ctx context.Context, from, to time.Time) (*domain.BusinessCalendar, error) {
	officeHours, err := r.GetOfficeHours(ctx)
	if err != nil {
		return nil, err
	}
	holidays, err := r.GetHolidays(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &domain.BusinessCalendar{OfficeHours: officeHours, Holidays: holidays}, nil
}

// GetOverrides возвращает override'ы сотрудников за период [from, to]
func (r *Repository) GetOverrides(ctx context.Context, staffIDs []int64, from, to time.Time) ([]*domain.StaffAvailabilityOverride, error) {
	if len(staffIDs) == 0 {
		return []*domain.StaffAvailabilityOverride{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"date",
		"is_available",
		"start_time",
		"end_time",
		"reason",
		"created_at",
		"updated_at",
	).
		From(overridesTable).
		Where(squirrel.Eq{"staff_id": staffIDs}).
		Where(squirrel.GtOrEq{"date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"date": to.Format(domain.DateFormat)}).
		OrderBy("staff_id ASC", "date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverrides - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverrides - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.StaffAvailabilityOverride, 0)
	for rows.Next() {
		var o domain.StaffAvailabilityOverride
		var startTime, endTime types.TimeString
		var reason sql.NullString
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&o.ID,
			&o.StaffID,
			&o.Date,
			&o.IsAvailable,
			&startTime,
			&endTime,
			&reason,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetOverrides - scan row: %w", ErrScanRow, err)
		}

		if !startTime.IsZero() {
			o.StartTime = &startTime
		}
		if !endTime.IsZero() {
			o.EndTime = &endTime
		}
		if reason.Valid {
			o.Reason = &reason.String
		}
		o.CreatedAt = createdAt.Time
		o.UpdatedAt = updatedAt.Time

		result = append(result, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetOverrides - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// CountOverrides считает override'ы сотрудника в полуинтервале [from, to)
func (r *Repository) CountOverrides(ctx context.Context, staffID int64, from, to time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(overridesTable).
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.GtOrEq{"date": from.Format(domain.DateFormat)}).
		Where(squirrel.Lt{"date": to.Format(domain.DateFormat)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountOverrides - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountOverrides - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}
