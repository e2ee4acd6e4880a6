package get_availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentTypeRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment_type"
	configRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/config"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/pgerrors"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

const (
	defaultQueryTimeout = 5 * time.Second
	defaultMaxRangeDays = 62
)

// UseCase use case для расчёта доступных слотов по периоду
type UseCase struct {
	appointmentTypeRepo AppointmentTypeRepository
	staffRepo           StaffRepository
	calendarRepo        CalendarRepository
	bookingRepo         BookingRepository
	configRepo          ConfigRepository
	cache               AvailabilityCache
	metrics             MetricsRecorder
	settings            Settings
	timeProvider        TimeProvider
	logger              Logger
}

// NewUseCase создает новый экземпляр use case. cache и metrics могут быть nil.
func NewUseCase(
	appointmentTypeRepo AppointmentTypeRepository,
	staffRepo StaffRepository,
	calendarRepo CalendarRepository,
	bookingRepo BookingRepository,
	configRepo ConfigRepository,
	cache AvailabilityCache,
	metrics MetricsRecorder,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.QueryTimeout <= 0 {
		settings.QueryTimeout = defaultQueryTimeout
	}
	if settings.MaxRangeDays <= 0 {
		settings.MaxRangeDays = defaultMaxRangeDays
	}
	if settings.Location == nil {
		settings.Location = time.Local
	}
	return &UseCase{
		appointmentTypeRepo: appointmentTypeRepo,
		staffRepo:           staffRepo,
		calendarRepo:        calendarRepo,
		bookingRepo:         bookingRepo,
		configRepo:          configRepo,
		cache:               cache,
		metrics:             metrics,
		settings:            settings,
		timeProvider:        &RealTimeProvider{},
		logger:              logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// loaded данные хранилища, нужные для расчёта
type loaded struct {
	appointmentType *domain.AppointmentType
	config          *domain.SchedulingConfig
	staff           []*domain.StaffMember
	calendar        *domain.BusinessCalendar
	overrides       []*domain.StaffAvailabilityOverride
	bookings        []*domain.Booking
}

// Execute выполняет use case расчёта доступности.
// Не изменяет данные; загрузки из хранилища выполняются параллельно.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: appointmentType=%d, staff=%s, from=%s, to=%s",
		req.AppointmentTypeID, staffLabel(req.StaffID), domain.DateKey(req.DateFrom), domain.DateKey(req.DateTo))

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.settings.MaxRangeDays); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущее время в часовом поясе бизнеса
	now := uc.timeProvider.Now().In(uc.settings.Location)
	dates := scheduling.Dates(uc.inLocation(req.DateFrom), uc.inLocation(req.DateTo))

	query := domain.AvailabilityQuery{
		AppointmentTypeID: req.AppointmentTypeID,
		StaffID:           req.StaffID,
		DateFrom:          dates[0],
		DateTo:            dates[len(dates)-1],
	}

	// 3. Кеш. Период, включающий сегодня, не кешируется: слоты зависят от текущего времени.
	version, cacheable := uc.cacheVersion(ctx, query, now)
	if cacheable {
		cached, found, err := uc.cache.Get(ctx, version, query)
		switch {
		case err != nil:
			uc.logger.Warn("GetAvailability: cache read failed: %v", err)
			uc.recordCache("error")
		case found:
			uc.recordCache("hit")
			return buildResponse(dates, cached), nil
		default:
			uc.recordCache("miss")
		}
	}

	// 4. Загрузка данных
	data, err := uc.load(ctx, req, query)
	if err != nil {
		return nil, err
	}

	// Граница минимального уведомления не должна дойти до периода, пока запись живёт в кеше
	if cacheable && scheduling.NoticeCutoff(query.DateFrom, now.Add(uc.settings.CacheTTL), data.config.MinBookingNoticeMinutes) != 0 {
		cacheable = false
	}

	// 5. Расчёт слотов по датам
	slots := uc.compute(dates, now, data)

	total := 0
	for _, daySlots := range slots {
		total += len(daySlots)
	}
	if uc.metrics != nil {
		uc.metrics.RecordAvailability(total)
	}

	if cacheable {
		if err := uc.cache.Set(ctx, version, query, slots); err != nil {
			uc.logger.Warn("GetAvailability: cache write failed: %v", err)
		}
	}

	uc.logger.Info("GetAvailability: %d slots over %d dates for appointmentType=%d, staff members=%d",
		total, len(dates), req.AppointmentTypeID, len(data.staff))

	return buildResponse(dates, slots), nil
}

func (uc *UseCase) load(ctx context.Context, req *Request, q domain.AvailabilityQuery) (*loaded, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.settings.QueryTimeout)
	defer cancel()

	data := &loaded{}

	// 4.1. Независимые загрузки
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		at, err := uc.appointmentTypeRepo.GetByID(gctx, req.AppointmentTypeID)
		if err != nil {
			return err
		}
		data.appointmentType = at
		return nil
	})
	g.Go(func() error {
		cfg, err := uc.configRepo.GetConfigWithHierarchy(gctx, &req.AppointmentTypeID)
		if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
			return err
		}
		data.config = cfg
		return nil
	})
	g.Go(func() error {
		staff, err := uc.staffRepo.ListQualified(gctx, req.AppointmentTypeID, req.StaffID)
		if err != nil {
			return err
		}
		data.staff = staff
		return nil
	})
	g.Go(func() error {
		cal, err := uc.calendarRepo.GetCalendar(gctx, q.DateFrom, q.DateTo)
		if err != nil {
			return err
		}
		data.calendar = cal
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, uc.mapLoadError(err)
	}

	if !data.appointmentType.IsOnlineBookable {
		uc.logger.Warn("GetAvailability: appointment type id=%d is not bookable online", req.AppointmentTypeID)
		return nil, ErrAppointmentTypeNotBookable
	}

	if data.config == nil {
		data.config = domain.DefaultSchedulingConfig()
		uc.logger.Info("GetAvailability: using default config for appointmentType=%d", req.AppointmentTypeID)
	} else {
		uc.logger.Info("GetAvailability: using config id=%d", data.config.ID)
	}

	if len(data.staff) == 0 {
		return data, nil
	}

	staffIDs := make([]int64, 0, len(data.staff))
	for _, s := range data.staff {
		staffIDs = append(staffIDs, s.ID)
	}

	// 4.2. Загрузки, зависящие от списка сотрудников
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		overrides, err := uc.calendarRepo.GetOverrides(gctx, staffIDs, q.DateFrom, q.DateTo)
		if err != nil {
			return err
		}
		data.overrides = overrides
		return nil
	})
	g.Go(func() error {
		bookings, err := uc.bookingRepo.GetByStaffWithFilter(gctx, domain.StaffBookingsFilter{
			StaffIDs:  staffIDs,
			StartDate: &q.DateFrom,
			EndDate:   &q.DateTo,
		})
		if err != nil {
			return err
		}
		data.bookings = bookings
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, uc.mapLoadError(err)
	}

	return data, nil
}

func (uc *UseCase) compute(dates []time.Time, now time.Time, data *loaded) map[string][]domain.TimeSlot {
	result := make(map[string][]domain.TimeSlot, len(dates))
	for _, d := range dates {
		result[domain.DateKey(d)] = make([]domain.TimeSlot, 0)
	}
	if len(data.staff) == 0 {
		return result
	}

	resolver := scheduling.NewResolver(data.calendar, data.overrides)
	intervals := indexBookings(data.bookings)

	duration := data.appointmentType.DurationMinutes
	granularity := data.config.GranularityFor(duration)

	for _, d := range dates {
		key := domain.DateKey(d)

		// Прошедшие даты и даты за пределами горизонта записи пустые
		if scheduling.IsPastDate(d, now) || scheduling.IsBeyondAdvanceLimit(d, now, data.config.AdvanceBookingDays) {
			continue
		}
		cutoff := scheduling.NoticeCutoff(d, now, data.config.MinBookingNoticeMinutes)

		daySlots := result[key]
		for _, member := range data.staff {
			window := resolver.Resolve(member.ID, d)
			generated := scheduling.Generate(window, duration, granularity, intervals[staffDate{member.ID, key}])
			for _, slot := range scheduling.FilterByCutoff(generated, cutoff) {
				slot.StaffID = member.ID
				slot.StaffName = member.DisplayName
				slot.Price = data.appointmentType.Price
				daySlots = append(daySlots, slot)
			}
		}

		sortSlots(daySlots)
		result[key] = daySlots
	}

	return result
}

func (uc *UseCase) cacheVersion(ctx context.Context, q domain.AvailabilityQuery, now time.Time) (int64, bool) {
	if uc.cache == nil {
		return 0, false
	}
	today := domain.DateOnly(now)
	if !q.DateFrom.After(today) && !q.DateTo.Before(today) {
		return 0, false
	}
	version, err := uc.cache.Version(ctx)
	if err != nil {
		uc.logger.Warn("GetAvailability: cache version read failed: %v", err)
		uc.recordCache("error")
		return 0, false
	}
	return version, true
}

func (uc *UseCase) recordCache(result string) {
	if uc.metrics != nil {
		uc.metrics.RecordCache(result)
	}
}

func (uc *UseCase) mapLoadError(err error) error {
	switch {
	case errors.Is(err, appointmentTypeRepo.ErrAppointmentTypeNotFound):
		uc.logger.Warn("GetAvailability: appointment type not found")
		return ErrAppointmentTypeNotFound
	case pgerrors.IsUnavailable(err):
		uc.logger.Error("GetAvailability: storage unavailable: %v", err)
		return fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	default:
		uc.logger.Error("GetAvailability: failed to load data: %v", err)
		return fmt.Errorf("%w: failed to load data: %w", ErrInternal, err)
	}
}

func (uc *UseCase) inLocation(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, uc.settings.Location)
}

type staffDate struct {
	staffID int64
	date    string
}

// indexBookings группирует интервалы активных бронирований по сотруднику и дате
func indexBookings(bookings []*domain.Booking) map[staffDate][]domain.Interval {
	index := make(map[staffDate][]domain.Interval)
	for _, b := range bookings {
		if b == nil || !b.IsActive() {
			continue
		}
		key := staffDate{b.StaffID, domain.DateKey(b.BookingDate)}
		index[key] = append(index[key], b.Interval())
	}
	return index
}

// sortSlots сортирует по времени начала, затем по имени сотрудника
func sortSlots(slots []domain.TimeSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		si, sj := slots[i].Start.Minutes(), slots[j].Start.Minutes()
		if si != sj {
			return si < sj
		}
		if slots[i].StaffName != slots[j].StaffName {
			return slots[i].StaffName < slots[j].StaffName
		}
		return slots[i].StaffID < slots[j].StaffID
	})
}

func buildResponse(dates []time.Time, slots map[string][]domain.TimeSlot) *Response {
	keys := make([]string, 0, len(dates))
	for _, d := range dates {
		key := domain.DateKey(d)
		keys = append(keys, key)
		if slots[key] == nil {
			slots[key] = make([]domain.TimeSlot, 0)
		}
	}
	return &Response{Dates: keys, Slots: slots}
}

func staffLabel(staffID *int64) string {
	if staffID == nil {
		return "all"
	}
	return fmt.Sprintf("%d", *staffID)
}
