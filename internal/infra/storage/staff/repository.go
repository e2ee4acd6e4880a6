package staff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Квалификации собираются в массив одним запросом
var columns = []string{
	"s.id",
	"s.display_name",
	"s.is_active",
	"s.deleted_at",
	"s.created_at",
	"s.updated_at",
	"COALESCE(array_agg(q.appointment_type_id) FILTER (WHERE q.appointment_type_id IS NOT NULL), '{}') AS qualified",
}

// Repository репозиторий сотрудников
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сотрудников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func baseSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(columns...).
		From("staff_members s").
		LeftJoin("staff_appointment_types q ON q.staff_id = s.id").
		GroupBy("s.id")
}

// GetByID получает сотрудника по ID, включая удалённых (soft delete)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := baseSelect().
		Where(squirrel.Eq{"s.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	member, err := scanStaff(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan staff: %w", ErrScanRow, err)
	}

	return member, nil
}

// ListQualified возвращает активных, не удалённых сотрудников, квалифицированных
// для типа приёма. Если staffID задан, список ограничивается этим сотрудником.
func (r *Repository) ListQualified(ctx context.Context, appointmentTypeID int64, staffID *int64) ([]*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := baseSelect().
		Where(squirrel.Eq{"s.is_active": true}).
		Where(squirrel.Eq{"s.deleted_at": nil}).
		Where(squirrel.Expr(
			"EXISTS (SELECT 1 FROM staff_appointment_types x WHERE x.staff_id = s.id AND x.appointment_type_id = ?)",
			appointmentTypeID,
		))

	if staffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"s.id": *staffID})
	}

	query, args, err := selectBuilder.OrderBy("s.display_name ASC", "s.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListQualified - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListQualified - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.StaffMember, 0)
	for rows.Next() {
		member, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListQualified - scan row: %w", ErrScanRow, err)
		}
		result = append(result, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListQualified - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStaff(row rowScanner) (*domain.StaffMember, error) {
	var member domain.StaffMember
	var deletedAt, createdAt, updatedAt sql.NullTime
	var qualified pq.Int64Array

	err := row.Scan(
		&member.ID,
		&member.DisplayName,
		&member.IsActive,
		&deletedAt,
		&createdAt,
		&updatedAt,
		&qualified,
	)
	if err != nil {
		return nil, err
	}

	if deletedAt.Valid {
		member.DeletedAt = &deletedAt.Time
	}
	member.CreatedAt = createdAt.Time
	member.UpdatedAt = updatedAt.Time
	member.QualifiedAppointmentTypes = []int64(qualified)

	return &member, nil
}
