package config

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

func configRow(id int64, appointmentTypeID interface{}, granularity int) *sqlmock.Rows {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(columns).AddRow(id, appointmentTypeID, granularity, 30, 60, now, now)
}

func TestRepository_GetConfigWithHierarchy_TypeSpecific(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM scheduling_configs WHERE appointment_type_id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(configRow(2, int64(3), 15))

	repo := NewRepository(db)
	cfg, err := repo.GetConfigWithHierarchy(context.Background(), ptr.Ptr(int64(3)))

	require.NoError(t, err)
	require.NotNil(t, cfg.AppointmentTypeID)
	assert.Equal(t, int64(3), *cfg.AppointmentTypeID)
	assert.Equal(t, 15, cfg.SlotGranularityMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetConfigWithHierarchy_FallsBackToGlobal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM scheduling_configs WHERE appointment_type_id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectQuery(regexp.QuoteMeta("FROM scheduling_configs WHERE appointment_type_id IS NULL")).
		WillReturnRows(configRow(1, nil, 0))

	repo := NewRepository(db)
	cfg, err := repo.GetConfigWithHierarchy(context.Background(), ptr.Ptr(int64(3)))

	require.NoError(t, err)
	assert.True(t, cfg.IsGlobalConfig())
	assert.Equal(t, int64(1), cfg.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetConfigWithHierarchy_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM scheduling_configs WHERE appointment_type_id IS NULL")).
		WillReturnRows(sqlmock.NewRows(columns))

	repo := NewRepository(db)
	_, err = repo.GetConfigWithHierarchy(context.Background(), nil)

	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO scheduling_configs")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now))

	repo := NewRepository(db)
	cfg, err := repo.Upsert(context.Background(), &domain.SchedulingConfig{
		SlotGranularityMinutes:  15,
		AdvanceBookingDays:      30,
		MinBookingNoticeMinutes: 60,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), cfg.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
