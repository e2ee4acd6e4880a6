package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/pgerrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const table = "scheduling_configs"

var columns = []string{
	"id",
	"appointment_type_id",
	"slot_granularity_minutes",
	"advance_booking_days",
	"min_booking_notice_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с конфигурацией расписания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигурации
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByAppointmentType получает конфигурацию ровно для указанного уровня:
// appointmentTypeID != nil - конфигурация типа приёма, nil - общая конфигурация бизнеса
func (r *Repository) GetByAppointmentType(ctx context.Context, appointmentTypeID *int64) (*domain.SchedulingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).From(table)
	if appointmentTypeID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"appointment_type_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"appointment_type_id": *appointmentTypeID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAppointmentType - build select query: %v", ErrBuildQuery, err)
	}

	config, err := scanConfig(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAppointmentType - scan config: %w", ErrScanRow, err)
	}

	return config, nil
}

// GetConfigWithHierarchy получает конфигурацию с учетом иерархии приоритетов:
// 1. Конфигурация конкретного типа приёма
// 2. Общая конфигурация бизнеса (appointment_type_id IS NULL)
//
// Если конфигурация не найдена ни на одном уровне, возвращает ErrConfigNotFound
func (r *Repository) GetConfigWithHierarchy(ctx context.Context, appointmentTypeID *int64) (*domain.SchedulingConfig, error) {
	if appointmentTypeID != nil {
		config, err := r.GetByAppointmentType(ctx, appointmentTypeID)
		if err == nil {
			return config, nil
		}
		if !errors.Is(err, ErrConfigNotFound) {
			return nil, fmt.Errorf("%w: GetConfigWithHierarchy - level 1 (appointment type): %w", ErrExecQuery, err)
		}
	}

	config, err := r.GetByAppointmentType(ctx, nil)
	if err == nil {
		return config, nil
	}
	if !errors.Is(err, ErrConfigNotFound) {
		return nil, fmt.Errorf("%w: GetConfigWithHierarchy - level 2 (global): %w", ErrExecQuery, err)
	}

	return nil, ErrConfigNotFound
}

// Upsert создает или обновляет конфигурацию уровня config.AppointmentTypeID.
// Уникальность уровня обеспечивает индекс по COALESCE(appointment_type_id, 0).
func (r *Repository) Upsert(ctx context.Context, config *domain.SchedulingConfig) (*domain.SchedulingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"appointment_type_id",
			"slot_granularity_minutes",
			"advance_booking_days",
			"min_booking_notice_minutes",
		).
		Values(
			config.AppointmentTypeID,
			config.SlotGranularityMinutes,
			config.AdvanceBookingDays,
			config.MinBookingNoticeMinutes,
		).
		Suffix(`ON CONFLICT ((COALESCE(appointment_type_id, 0))) DO UPDATE SET
			slot_granularity_minutes = EXCLUDED.slot_granularity_minutes,
			advance_booking_days = EXCLUDED.advance_booking_days,
			min_booking_notice_minutes = EXCLUDED.min_booking_notice_minutes,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&config.ID, &createdAt, &updatedAt)
	if err != nil {
		if pgerrors.Code(err) == pgerrors.CodeForeignKeyViolation {
			return nil, ErrAppointmentTypeNotFound
		}
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	config.CreatedAt = createdAt.Time
	config.UpdatedAt = updatedAt.Time

	return config, nil
}

// Delete удаляет конфигурацию уровня appointmentTypeID (nil - общая конфигурация)
func (r *Repository) Delete(ctx context.Context, appointmentTypeID *int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteBuilder := psqlbuilder.Delete(table)
	if appointmentTypeID == nil {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"appointment_type_id": nil})
	} else {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"appointment_type_id": *appointmentTypeID})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrConfigNotFound
	}

	return nil
}

func scanConfig(row *sql.Row) (*domain.SchedulingConfig, error) {
	var config domain.SchedulingConfig
	var appointmentTypeID sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&config.ID,
		&appointmentTypeID,
		&config.SlotGranularityMinutes,
		&config.AdvanceBookingDays,
		&config.MinBookingNoticeMinutes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if appointmentTypeID.Valid {
		id := appointmentTypeID.Int64
		config.AppointmentTypeID = &id
	}
	config.CreatedAt = createdAt.Time
	config.UpdatedAt = updatedAt.Time

	return &config, nil
}
