package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func TestIsPastDate(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	assert.True(t, IsPastDate(time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, IsPastDate(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, IsPastDate(time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC), now))
}

func TestIsPastDate_UsesCalendarDateOfNowZone(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	// 23:30 UTC 14 января = 02:30 15 января по UTC+3
	now := time.Date(2025, 1, 14, 23, 30, 0, 0, time.UTC).In(loc)

	assert.True(t, IsPastDate(time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, IsPastDate(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), now))
}

func TestIsBeyondAdvanceLimit(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	assert.False(t, IsBeyondAdvanceLimit(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), now, 0))
	assert.False(t, IsBeyondAdvanceLimit(time.Date(2025, 1, 22, 0, 0, 0, 0, time.UTC), now, 7))
	assert.True(t, IsBeyondAdvanceLimit(time.Date(2025, 1, 23, 0, 0, 0, 0, time.UTC), now, 7))
}

func TestNoticeCutoff(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	today := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	assert.Equal(t, 10*60, NoticeCutoff(today, now, 0))
	assert.Equal(t, 12*60, NoticeCutoff(today, now, 120))
	assert.Equal(t, 0, NoticeCutoff(tomorrow, now, 120))

	// Порог переходит на следующий день
	assert.Equal(t, dayClosedCutoff, NoticeCutoff(today, now, 24*60))
	assert.Equal(t, 10*60, NoticeCutoff(tomorrow, now, 24*60))

	// Секунды округляются вверх: слот, начавшийся полминуты назад, недоступен
	assert.Equal(t, 10*60+1, NoticeCutoff(today, now.Add(30*time.Second), 0))
}

func TestFilterByCutoff(t *testing.T) {
	slots := []domain.TimeSlot{
		{Start: "09:00", End: "09:30"},
		{Start: "10:00", End: "10:30"},
		{Start: "10:30", End: "11:00"},
	}

	filtered := FilterByCutoff(slots, 10*60)
	assert.Len(t, filtered, 2)
	assert.Equal(t, "10:00", filtered[0].Start.String())

	assert.Len(t, FilterByCutoff(slots, 0), 3)
	assert.Empty(t, FilterByCutoff(slots, dayClosedCutoff))
}

func TestDates(t *testing.T) {
	from := time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC)

	dates := Dates(from, to)
	assert.Len(t, dates, 4)
	assert.Equal(t, "2025-02-01", domain.DateKey(dates[2]))

	assert.Len(t, Dates(from, from), 1)
	assert.Empty(t, Dates(to, from))
}
