package appointment_type

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий типов приёма
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория типов приёма
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает тип приёма по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.AppointmentType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"duration_minutes",
		"price",
		"is_online_bookable",
		"created_at",
		"updated_at",
	).
		From("appointment_types").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var at domain.AppointmentType
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&at.ID,
		&at.Name,
		&at.DurationMinutes,
		&at.Price,
		&at.IsOnlineBookable,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment type: %w", ErrScanRow, err)
	}

	at.CreatedAt = createdAt.Time
	at.UpdatedAt = updatedAt.Time

	return &at, nil
}
