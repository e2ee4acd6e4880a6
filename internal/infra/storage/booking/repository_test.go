package booking

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/pgerrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

func newBooking() *domain.Booking {
	return &domain.Booking{
		StaffID:             7,
		CustomerID:          42,
		AppointmentTypeID:   3,
		BookingDate:         time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		StartTime:           "10:00",
		EndTime:             "10:30",
		Status:              domain.StatusScheduled,
		StaffName:           "Anna",
		AppointmentTypeName: "Consultation",
		Price:               50,
	}
}

func bookingRows(id uuid.UUID, status domain.BookingStatus) *sqlmock.Rows {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(columns).AddRow(
		id.String(), int64(7), int64(42), int64(3),
		time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		"10:00:00", "10:30:00", string(status),
		"Anna", "Consultation", 50.0, nil, nil, nil, now, now,
	)
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	createdAt := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointment_bookings")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(createdAt, createdAt))

	repo := NewRepository(db)
	booking, err := repo.Create(context.Background(), newBooking())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, booking.ID)
	assert.Equal(t, createdAt, booking.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_ExclusionViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointment_bookings")).
		WillReturnError(&pq.Error{Code: "23P01", Message: "conflicting key value violates exclusion constraint"})

	repo := NewRepository(db)
	_, err = repo.Create(context.Background(), newBooking())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_KeepsDriverErrorInChain(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointment_bookings")).
		WillReturnError(&pq.Error{Code: "40001"})

	repo := NewRepository(db)
	_, err = repo.Create(context.Background(), newBooking())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.True(t, pgerrors.IsSerializationFailure(err))
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, staff_id")).
		WithArgs(id).
		WillReturnRows(bookingRows(id, domain.StatusScheduled))

	repo := NewRepository(db)
	booking, err := repo.GetByID(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, id, booking.ID)
	assert.Equal(t, domain.StatusScheduled, booking.Status)
	assert.Equal(t, "10:00", booking.StartTime.String())
	assert.Equal(t, "10:30", booking.EndTime.String())
	assert.Nil(t, booking.CancelledAt)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, staff_id")).
		WillReturnRows(sqlmock.NewRows(columns))

	repo := NewRepository(db)
	_, err = repo.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_GetByStaffWithFilter_LocksSingleDayInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM appointment_bookings WHERE staff_id IN \(\$1\) .* FOR UPDATE`).
		WillReturnRows(bookingRows(id, domain.StatusScheduled))

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	repo := NewRepository(db)
	bookings, err := repo.GetByStaffWithFilter(ctx, domain.StaffBookingsFilter{
		StaffIDs:  []int64{7},
		StartDate: &date,
		EndDate:   &date,
	})

	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, id, bookings[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByStaffWithFilter_NoLockOutsideTransaction(t *testing.T) {
	matcher := sqlmock.QueryMatcherFunc(func(expectedSQL, actualSQL string) error {
		if strings.Contains(actualSQL, "FOR UPDATE") {
			return errors.New("unexpected row lock")
		}
		if !strings.Contains(actualSQL, expectedSQL) {
			return errors.New("query mismatch")
		}
		return nil
	})
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(matcher))
	require.NoError(t, err)
	defer db.Close()

	from := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 6)

	mock.ExpectQuery("FROM appointment_bookings").
		WithArgs(int64(7), int64(8), "2025-01-15", "2025-01-21", "scheduled", "completed").
		WillReturnRows(sqlmock.NewRows(columns))

	repo := NewRepository(db)
	bookings, err := repo.GetByStaffWithFilter(context.Background(), domain.StaffBookingsFilter{
		StaffIDs:  []int64{7, 8},
		StartDate: &from,
		EndDate:   &to,
	})

	require.NoError(t, err)
	assert.Empty(t, bookings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByStaffWithFilter_RequiresStaff(t *testing.T) {
	repo := NewRepository(nil)
	_, err := repo.GetByStaffWithFilter(context.Background(), domain.StaffBookingsFilter{})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestRepository_Cancel_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE appointment_bookings SET status = $1, cancellation_reason = $2")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewRepository(db)
	err = repo.Cancel(context.Background(), uuid.New(), "customer request")

	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE appointment_bookings SET status = $1, updated_at = NOW() WHERE id = $2")).
		WithArgs(domain.StatusCompleted, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewRepository(db)
	err = repo.UpdateStatus(context.Background(), id, domain.StatusCompleted)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
