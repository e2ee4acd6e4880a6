package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentTypeRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment_type"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	configRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/config"
	customerRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/customer"
	staffRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/staff"
	getAvailability "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// store хранилище в памяти; транзакции сериализуются мьютексом и откатываются снимком
type store struct {
	mu sync.Mutex

	types     map[int64]*domain.AppointmentType
	staff     map[int64]*domain.StaffMember
	config    *domain.SchedulingConfig
	calendar  *domain.BusinessCalendar
	overrides []*domain.StaffAvailabilityOverride

	customers      []*domain.Customer
	nextCustomerID int64
	bookings       []*domain.Booking

	staffErr     error
	createErr    error
	hideBookings bool

	// racingEmail клиент с этим email появляется в конкурентной транзакции при первой вставке
	racingEmail     string
	racingCustomers []*domain.Customer
}

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func newStore() *store {
	cal := &domain.BusinessCalendar{
		Holidays: []*domain.Holiday{{ID: 1, Date: day(16), Name: "Founders day"}},
	}
	for dow := 1; dow <= 5; dow++ {
		cal.OfficeHours = append(cal.OfficeHours, &domain.OfficeHours{DayOfWeek: dow, StartTime: "09:00", EndTime: "17:00", IsActive: true})
	}
	deletedAt := day(1)

	return &store{
		types: map[int64]*domain.AppointmentType{
			3: {ID: 3, Name: "Consultation", DurationMinutes: 30, Price: 50, IsOnlineBookable: true},
			4: {ID: 4, Name: "Internal", DurationMinutes: 30, IsOnlineBookable: false},
		},
		staff: map[int64]*domain.StaffMember{
			7:  {ID: 7, DisplayName: "Anna", IsActive: true, QualifiedAppointmentTypes: []int64{3, 4}},
			8:  {ID: 8, DisplayName: "Inactive", IsActive: false, QualifiedAppointmentTypes: []int64{3}},
			9:  {ID: 9, DisplayName: "Deleted", IsActive: true, DeletedAt: &deletedAt, QualifiedAppointmentTypes: []int64{3}},
			10: {ID: 10, DisplayName: "Other", IsActive: true, QualifiedAppointmentTypes: []int64{5}},
		},
		calendar: cal,
		overrides: []*domain.StaffAvailabilityOverride{
			{ID: 1, StaffID: 7, Date: day(17), IsAvailable: false},
		},
	}
}

func (s *store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	customers := append([]*domain.Customer(nil), s.customers...)
	bookings := append([]*domain.Booking(nil), s.bookings...)
	nextID := s.nextCustomerID

	if err := fn(ctx); err != nil {
		s.customers = customers
		s.bookings = bookings
		s.nextCustomerID = nextID
		return err
	}
	return nil
}

func (s *store) activeBookings() int {
	count := 0
	for _, b := range s.bookings {
		if b.IsActive() {
			count++
		}
	}
	return count
}

type typesFake struct{ s *store }

func (f typesFake) GetByID(_ context.Context, id int64) (*domain.AppointmentType, error) {
	at, ok := f.s.types[id]
	if !ok {
		return nil, appointmentTypeRepo.ErrAppointmentTypeNotFound
	}
	return at, nil
}

type staffFake struct{ s *store }

func (f staffFake) GetByID(_ context.Context, id int64) (*domain.StaffMember, error) {
	if f.s.staffErr != nil {
		return nil, f.s.staffErr
	}
	m, ok := f.s.staff[id]
	if !ok {
		return nil, staffRepo.ErrStaffNotFound
	}
	return m, nil
}

type customersFake struct{ s *store }

func (f customersFake) FindByEmail(_ context.Context, email string) (*domain.Customer, error) {
	for _, list := range [][]*domain.Customer{f.s.racingCustomers, f.s.customers} {
		for _, c := range list {
			if c.Email != nil && strings.EqualFold(*c.Email, email) {
				return c, nil
			}
		}
	}
	return nil, customerRepo.ErrCustomerNotFound
}

func (f customersFake) Create(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	if f.s.racingEmail != "" && c.Email != nil && *c.Email == f.s.racingEmail {
		f.s.racingCustomers = append(f.s.racingCustomers, &domain.Customer{ID: 100, FirstName: "Jane", Email: c.Email, Phone: c.Phone})
		f.s.racingEmail = ""
		return nil, fmt.Errorf("%w: unique_violation", customerRepo.ErrDuplicateEmail)
	}
	f.s.nextCustomerID++
	created := *c
	created.ID = f.s.nextCustomerID
	f.s.customers = append(f.s.customers, &created)
	return &created, nil
}

type calendarFake struct{ s *store }

func (f calendarFake) GetCalendar(context.Context, time.Time, time.Time) (*domain.BusinessCalendar, error) {
	return f.s.calendar, nil
}

func (f calendarFake) GetOverrides(context.Context, []int64, time.Time, time.Time) ([]*domain.StaffAvailabilityOverride, error) {
	return f.s.overrides, nil
}

type bookingsFake struct{ s *store }

func (f bookingsFake) GetByStaffWithFilter(_ context.Context, filter domain.StaffBookingsFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	if f.s.hideBookings {
		return result, nil
	}
	for _, b := range f.s.bookings {
		if b.StaffID == filter.StaffIDs[0] && domain.DateKey(b.BookingDate) == domain.DateKey(*filter.StartDate) && b.IsActive() {
			result = append(result, b)
		}
	}
	return result, nil
}

// Create повторяет EXCLUDE constraint таблицы бронирований
func (f bookingsFake) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if f.s.createErr != nil {
		return nil, f.s.createErr
	}
	for _, existing := range f.s.bookings {
		if existing.StaffID == b.StaffID && domain.DateKey(existing.BookingDate) == domain.DateKey(b.BookingDate) &&
			existing.IsActive() && existing.Interval().Overlaps(b.Interval()) {
			return nil, fmt.Errorf("%w: staff_id=%d", bookingRepo.ErrSlotNotAvailable, b.StaffID)
		}
	}
	created := *b
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	f.s.bookings = append(f.s.bookings, &created)
	return &created, nil
}

type configFake struct{ s *store }

func (f configFake) GetConfigWithHierarchy(context.Context, *int64) (*domain.SchedulingConfig, error) {
	if f.s.config == nil {
		return nil, configRepo.ErrConfigNotFound
	}
	return f.s.config, nil
}

type cacheFake struct {
	mu            sync.Mutex
	invalidations int
}

func (c *cacheFake) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	return nil
}

type eventsFake struct {
	mu        sync.Mutex
	published []*domain.Booking
	err       error
}

func (e *eventsFake) PublishBookingCreated(_ context.Context, b *domain.Booking) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.published = append(e.published, b)
	return nil
}

type metricsFake struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *metricsFake) RecordBooking(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[outcome]++
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type harness struct {
	store   *store
	cache   *cacheFake
	events  *eventsFake
	metrics *metricsFake
	uc      *UseCase
}

// Понедельник 13 января 2025, 08:00 UTC
var monday = time.Date(2025, 1, 13, 8, 0, 0, 0, time.UTC)

func newHarness() *harness {
	s := newStore()
	h := &harness{
		store:   s,
		cache:   &cacheFake{},
		events:  &eventsFake{},
		metrics: &metricsFake{outcomes: map[string]int{}},
	}
	h.uc = NewUseCase(
		typesFake{s}, staffFake{s}, customersFake{s}, calendarFake{s}, bookingsFake{s}, configFake{s},
		s, h.cache, h.events, h.metrics,
		Settings{Timeout: time.Second, Location: time.UTC},
		logger.Nop(),
	)
	h.uc.timeProvider = fixedTime{now: monday}
	return h
}

func request(start, end types.TimeString, email *string) *Request {
	return &Request{
		StaffID:           7,
		AppointmentTypeID: 3,
		Date:              day(15),
		StartTime:         start,
		EndTime:           end,
		Customer: CustomerInput{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     email,
			Phone:     "+1 555 0100",
		},
	}
}

func TestExecute_Success(t *testing.T) {
	h := newHarness()

	resp, err := h.uc.Execute(context.Background(), request("10:00", "10:30", ptr.Ptr("jane@example.com")))
	require.NoError(t, err)

	assert.Equal(t, strings.ToUpper(resp.BookingID.String()[:8]), resp.ConfirmationCode)
	assert.Equal(t, "scheduled", resp.Status)
	assert.Equal(t, "Anna", resp.StaffName)
	assert.Equal(t, "Consultation", resp.AppointmentTypeName)
	assert.Equal(t, 50.0, resp.Price)
	assert.Equal(t, "2025-01-15", domain.DateKey(resp.BookingDate))

	assert.Len(t, h.store.customers, 1)
	assert.Equal(t, 1, h.store.activeBookings())
	assert.Equal(t, 1, h.cache.invalidations)
	require.Len(t, h.events.published, 1)
	assert.Equal(t, resp.BookingID, h.events.published[0].ID)
	assert.Equal(t, 1, h.metrics.outcomes[outcomeCreated])
}

func TestExecute_ConcurrentRequestsForSameSlot(t *testing.T) {
	h := newHarness()

	const attempts = 10
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := fmt.Sprintf("customer%d@example.com", i)
			_, errs[i] = h.uc.Execute(context.Background(), request("10:00", "10:30", &email))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
		assert.True(t, IsConflictError(err))
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, h.store.activeBookings())
	// Клиенты проигравших запросов откатились вместе с транзакцией
	assert.Len(t, h.store.customers, 1)
	assert.Equal(t, attempts-1, h.metrics.outcomes[outcomeConflict])
}

func TestExecute_CustomerDedupByEmailIgnoresCase(t *testing.T) {
	h := newHarness()

	first, err := h.uc.Execute(context.Background(), request("10:00", "10:30", ptr.Ptr("Jane@Example.com")))
	require.NoError(t, err)

	second, err := h.uc.Execute(context.Background(), request("11:00", "11:30", ptr.Ptr("jane@example.com")))
	require.NoError(t, err)

	assert.Equal(t, first.CustomerID, second.CustomerID)
	require.Len(t, h.store.customers, 1)
	assert.Equal(t, "jane@example.com", *h.store.customers[0].Email)
}

func TestExecute_RetriesWhenCustomerCreatedConcurrently(t *testing.T) {
	h := newHarness()
	h.store.racingEmail = "jane@example.com"

	resp, err := h.uc.Execute(context.Background(), request("10:00", "10:30", ptr.Ptr("jane@example.com")))
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.CustomerID)
	assert.Empty(t, h.store.customers)
	assert.Equal(t, 1, h.store.activeBookings())
	assert.Equal(t, 1, h.metrics.outcomes[outcomeCreated])
	assert.Equal(t, 0, h.metrics.outcomes[outcomeConflict])
}

func TestExecute_WithoutEmailCreatesNewCustomer(t *testing.T) {
	h := newHarness()

	first, err := h.uc.Execute(context.Background(), request("10:00", "10:30", nil))
	require.NoError(t, err)
	second, err := h.uc.Execute(context.Background(), request("11:00", "11:30", nil))
	require.NoError(t, err)

	assert.NotEqual(t, first.CustomerID, second.CustomerID)
	assert.Len(t, h.store.customers, 2)
}

func TestExecute_ConflictRollsBackNewCustomer(t *testing.T) {
	h := newHarness()
	_, err := h.uc.Execute(context.Background(), request("10:00", "10:30", ptr.Ptr("first@example.com")))
	require.NoError(t, err)

	_, err = h.uc.Execute(context.Background(), request("10:15", "10:45", ptr.Ptr("second@example.com")))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Len(t, h.store.customers, 1)
}

func TestExecute_AdjacentBookingsAllowed(t *testing.T) {
	h := newHarness()

	_, err := h.uc.Execute(context.Background(), request("10:00", "10:30", nil))
	require.NoError(t, err)
	_, err = h.uc.Execute(context.Background(), request("10:30", "11:00", nil))
	require.NoError(t, err)
	_, err = h.uc.Execute(context.Background(), request("09:30", "10:00", nil))
	require.NoError(t, err)

	assert.Equal(t, 3, h.store.activeBookings())
}

func TestExecute_CancelledBookingDoesNotBlock(t *testing.T) {
	h := newHarness()
	h.store.bookings = append(h.store.bookings, &domain.Booking{
		ID: uuid.New(), StaffID: 7, BookingDate: day(15), StartTime: "10:00", EndTime: "10:30", Status: domain.StatusCancelled,
	})

	_, err := h.uc.Execute(context.Background(), request("10:00", "10:30", nil))
	require.NoError(t, err)
}

func TestExecute_ExclusionConstraintIsConflict(t *testing.T) {
	h := newHarness()
	h.store.hideBookings = true
	h.store.bookings = append(h.store.bookings, &domain.Booking{
		ID: uuid.New(), StaffID: 7, BookingDate: day(15), StartTime: "10:00", EndTime: "10:30", Status: domain.StatusScheduled,
	})

	_, err := h.uc.Execute(context.Background(), request("10:00", "10:30", nil))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Empty(t, h.store.customers)
}

func TestExecute_SerializationFailureIsConflict(t *testing.T) {
	h := newHarness()
	h.store.createErr = fmt.Errorf("%w: insert: %w", bookingRepo.ErrExecQuery, &pq.Error{Code: "40001"})

	_, err := h.uc.Execute(context.Background(), request("10:00", "10:30", nil))
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.True(t, IsConflictError(err))
	assert.Equal(t, 0, h.cache.invalidations)
}

func TestExecute_StorageTimeoutIsUnavailable(t *testing.T) {
	h := newHarness()
	h.store.staffErr = fmt.Errorf("%w: %w", staffRepo.ErrScanRow, context.DeadlineExceeded)

	_, err := h.uc.Execute(context.Background(), request("10:00", "10:30", nil))
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.False(t, IsConflictError(err))
	assert.Equal(t, 1, h.metrics.outcomes[outcomeUnavailable])
}

func TestExecute_RunsToCompletionAfterCallerCancels(t *testing.T) {
	h := newHarness()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.uc.Execute(ctx, request("10:00", "10:30", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, h.store.activeBookings())
}

func TestExecute_EventFailureDoesNotFailBooking(t *testing.T) {
	h := newHarness()
	h.events.err = errors.New("broker down")

	_, err := h.uc.Execute(context.Background(), request("10:00", "10:30", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, h.store.activeBookings())
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *Request)
		setup  func(s *store)
		now    time.Time
		want   error
	}{
		{name: "missing phone", modify: func(r *Request) { r.Customer.Phone = " " }, want: ErrInvalidInput},
		{name: "missing first name", modify: func(r *Request) { r.Customer.FirstName = "" }, want: ErrInvalidInput},
		{name: "invalid email", modify: func(r *Request) { r.Customer.Email = ptr.Ptr("jane") }, want: ErrInvalidInput},
		{name: "end before start", modify: func(r *Request) { r.StartTime, r.EndTime = "11:00", "10:30" }, want: ErrInvalidInput},
		{name: "malformed time", modify: func(r *Request) { r.StartTime = "9:00" }, want: ErrInvalidInput},
		{name: "unknown appointment type", modify: func(r *Request) { r.AppointmentTypeID = 99 }, want: ErrAppointmentTypeNotFound},
		{name: "not online bookable", modify: func(r *Request) { r.AppointmentTypeID = 4 }, want: ErrAppointmentTypeNotBookable},
		{name: "unknown staff", modify: func(r *Request) { r.StaffID = 99 }, want: ErrStaffNotFound},
		{name: "inactive staff", modify: func(r *Request) { r.StaffID = 8 }, want: ErrStaffNotBookable},
		{name: "deleted staff", modify: func(r *Request) { r.StaffID = 9 }, want: ErrStaffNotBookable},
		{name: "unqualified staff", modify: func(r *Request) { r.StaffID = 10 }, want: ErrStaffNotQualified},
		{name: "wrong duration", modify: func(r *Request) { r.EndTime = "11:00" }, want: ErrInvalidDuration},
		{name: "past date", modify: func(r *Request) { r.Date = day(10) }, want: ErrInvalidDate},
		{
			name:   "beyond advance limit",
			setup:  func(s *store) { s.config = &domain.SchedulingConfig{ID: 1, AdvanceBookingDays: 1} },
			want:   ErrDateTooFarInFuture,
		},
		{
			name:   "inside notice period",
			modify: func(r *Request) { r.Date = day(13); r.StartTime, r.EndTime = "09:00", "09:30" },
			setup:  func(s *store) { s.config = &domain.SchedulingConfig{ID: 1, MinBookingNoticeMinutes: 120} },
			want:   ErrTooLateToBook,
		},
		{
			name:   "already started today",
			modify: func(r *Request) { r.Date = day(13); r.StartTime, r.EndTime = "09:00", "09:30" },
			now:    time.Date(2025, 1, 13, 9, 10, 0, 0, time.UTC),
			want:   ErrTooLateToBook,
		},
		{name: "before office hours", modify: func(r *Request) { r.StartTime, r.EndTime = "08:30", "09:00" }, want: ErrOutsideWorkingHours},
		{name: "crosses closing time", modify: func(r *Request) { r.StartTime, r.EndTime = "16:45", "17:15" }, want: ErrOutsideWorkingHours},
		{name: "holiday", modify: func(r *Request) { r.Date = day(16) }, want: ErrOutsideWorkingHours},
		{name: "override closed", modify: func(r *Request) { r.Date = day(17) }, want: ErrOutsideWorkingHours},
		{name: "weekend", modify: func(r *Request) { r.Date = day(18) }, want: ErrOutsideWorkingHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			if tt.setup != nil {
				tt.setup(h.store)
			}
			if !tt.now.IsZero() {
				h.uc.timeProvider = fixedTime{now: tt.now}
			}
			req := request("10:00", "10:30", ptr.Ptr("jane@example.com"))
			if tt.modify != nil {
				tt.modify(req)
			}

			_, err := h.uc.Execute(context.Background(), req)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidationError(err))
			assert.Empty(t, h.store.bookings)
			assert.Empty(t, h.store.customers)
			assert.Equal(t, 0, h.cache.invalidations)
		})
	}
}

func TestExecute_OverrideOpensHoliday(t *testing.T) {
	h := newHarness()
	h.store.overrides = append(h.store.overrides, &domain.StaffAvailabilityOverride{
		ID: 2, StaffID: 7, Date: day(16), IsAvailable: true,
		StartTime: ptr.Ptr(types.TimeString("12:00")), EndTime: ptr.Ptr(types.TimeString("14:00")),
	})

	req := request("12:00", "12:30", nil)
	req.Date = day(16)
	_, err := h.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	req = request("10:00", "10:30", nil)
	req.Date = day(16)
	_, err = h.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

// qualifiedStaffFake отдаёт сотрудников хранилища расчёту доступности
type qualifiedStaffFake struct{ s *store }

func (f qualifiedStaffFake) ListQualified(_ context.Context, appointmentTypeID int64, staffID *int64) ([]*domain.StaffMember, error) {
	result := make([]*domain.StaffMember, 0)
	for _, m := range f.s.staff {
		if !m.IsBookable() || !m.IsQualified(appointmentTypeID) {
			continue
		}
		if staffID != nil && m.ID != *staffID {
			continue
		}
		result = append(result, m)
	}
	return result, nil
}

// rangeBookingsFake читает активные бронирования хранилища за период
type rangeBookingsFake struct{ s *store }

func (f rangeBookingsFake) GetByStaffWithFilter(_ context.Context, filter domain.StaffBookingsFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.s.bookings {
		if !b.IsActive() || b.BookingDate.Before(*filter.StartDate) || b.BookingDate.After(*filter.EndDate) {
			continue
		}
		for _, id := range filter.StaffIDs {
			if b.StaffID == id {
				result = append(result, b)
				break
			}
		}
	}
	return result, nil
}

func TestExecute_EveryOfferedSlotIsBookable(t *testing.T) {
	h := newHarness()
	s := h.store

	// Шаг меньше длительности, окно исключения в праздник и окно до конца суток
	s.types[5] = &domain.AppointmentType{ID: 5, Name: "Extended consultation", DurationMinutes: 45, Price: 80, IsOnlineBookable: true}
	s.staff[7].QualifiedAppointmentTypes = []int64{3, 4, 5}
	s.config = &domain.SchedulingConfig{ID: 1, SlotGranularityMinutes: 15, MinBookingNoticeMinutes: 90}
	s.overrides = append(s.overrides,
		&domain.StaffAvailabilityOverride{
			ID: 2, StaffID: 7, Date: day(16), IsAvailable: true,
			StartTime: ptr.Ptr(types.TimeString("12:00")), EndTime: ptr.Ptr(types.TimeString("14:00")),
		},
		&domain.StaffAvailabilityOverride{
			ID: 3, StaffID: 10, Date: day(15), IsAvailable: true,
			StartTime: ptr.Ptr(types.TimeString("20:30")), EndTime: ptr.Ptr(types.TimeString("24:00")),
		},
	)

	availability := getAvailability.NewUseCase(
		typesFake{s}, qualifiedStaffFake{s}, calendarFake{s}, rangeBookingsFake{s}, configFake{s}, nil, nil,
		getAvailability.Settings{Location: time.UTC}, logger.Nop(),
	).WithTimeProvider(fixedTime{now: monday})

	query := &getAvailability.Request{AppointmentTypeID: 5, DateFrom: day(13), DateTo: day(17)}
	offered, err := availability.Execute(context.Background(), query)
	require.NoError(t, err)

	var (
		booked     int
		conflicts  int
		endOfDay   bool
		holidayOff bool
	)
	for _, date := range offered.Dates {
		bookingDate, err := time.ParseInLocation("2006-01-02", date, time.UTC)
		require.NoError(t, err)

		for _, slot := range offered.Slots[date] {
			if slot.End == "24:00" {
				endOfDay = true
			}
			if date == "2025-01-16" {
				holidayOff = true
			}

			req := request(slot.Start, slot.End, nil)
			req.StaffID = slot.StaffID
			req.AppointmentTypeID = 5
			req.Date = bookingDate

			_, err := h.uc.Execute(context.Background(), req)
			if err == nil {
				booked++
				continue
			}
			assert.False(t, IsValidationError(err), "%s %s-%s staff=%d: %v", date, slot.Start, slot.End, slot.StaffID, err)
			assert.True(t, IsConflictError(err), "%s %s-%s staff=%d: %v", date, slot.Start, slot.End, slot.StaffID, err)
			conflicts++
		}
	}

	assert.True(t, endOfDay)
	assert.True(t, holidayOff)
	assert.Positive(t, booked)
	assert.Positive(t, conflicts)

	// Каждый предложенный слот теперь пересекается с бронированием
	remaining, err := availability.Execute(context.Background(), query)
	require.NoError(t, err)
	for _, date := range remaining.Dates {
		assert.Empty(t, remaining.Slots[date], date)
	}
}
