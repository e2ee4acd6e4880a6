package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentTypeRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment_type"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	configRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/config"
	customerRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/customer"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/pgerrors"
	staffRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

const defaultTimeout = 10 * time.Second

// Исходы бронирования для метрик
const (
	outcomeCreated     = "created"
	outcomeConflict    = "conflict"
	outcomeRejected    = "rejected"
	outcomeUnavailable = "unavailable"
	outcomeError       = "error"
)

// UseCase use case для создания бронирования
type UseCase struct {
	appointmentTypeRepo AppointmentTypeRepository
	staffRepo           StaffRepository
	customerRepo        CustomerRepository
	calendarRepo        CalendarRepository
	bookingRepo         BookingRepository
	configRepo          ConfigRepository
	txManager           TransactionManager
	cache               CacheInvalidator
	events              EventPublisher
	metrics             MetricsRecorder
	settings            Settings
	timeProvider        TimeProvider
	logger              Logger
}

// NewUseCase создает новый экземпляр use case. cache, events и metrics могут быть nil.
func NewUseCase(
	appointmentTypeRepo AppointmentTypeRepository,
	staffRepo StaffRepository,
	customerRepo CustomerRepository,
	calendarRepo CalendarRepository,
	bookingRepo BookingRepository,
	configRepo ConfigRepository,
	txManager TransactionManager,
	cache CacheInvalidator,
	events EventPublisher,
	metrics MetricsRecorder,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Timeout <= 0 {
		settings.Timeout = defaultTimeout
	}
	if settings.Location == nil {
		settings.Location = time.Local
	}
	return &UseCase{
		appointmentTypeRepo: appointmentTypeRepo,
		staffRepo:           staffRepo,
		customerRepo:        customerRepo,
		calendarRepo:        calendarRepo,
		bookingRepo:         bookingRepo,
		configRepo:          configRepo,
		txManager:           txManager,
		cache:               cache,
		events:              events,
		metrics:             metrics,
		settings:            settings,
		timeProvider:        &RealTimeProvider{},
		logger:              logger,
	}
}

// Execute выполняет use case создания бронирования.
//
// Операция не прерывается при отмене запроса клиентом: контекст отвязан от вызывающего
// и ограничен собственным таймаутом. Проверка пересечений и вставка выполняются
// в сериализуемой транзакции; конфликт по слоту никогда не повторяется автоматически.
// Повторяется только гонка создания клиента с тем же email.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.settings.Timeout)
	defer cancel()

	uc.logger.Info("CreateBooking: staff=%d, appointmentType=%d, date=%s, time=%s-%s",
		req.StaffID, req.AppointmentTypeID, domain.DateKey(req.Date), req.StartTime, req.EndTime)

	result, err := uc.execute(ctx, req)
	if err != nil {
		uc.recordOutcome(err)
		return nil, err
	}
	uc.recordOutcome(nil)

	// Побочные эффекты после коммита не влияют на результат
	uc.afterCommit(ctx, result)

	uc.logger.Info("CreateBooking: successfully created booking id=%s code=%s", result.ID, result.ConfirmationCode())

	return &Response{
		BookingID:           result.ID,
		ConfirmationCode:    result.ConfirmationCode(),
		StaffID:             result.StaffID,
		CustomerID:          result.CustomerID,
		AppointmentTypeID:   result.AppointmentTypeID,
		BookingDate:         result.BookingDate,
		StartTime:           result.StartTime,
		EndTime:             result.EndTime,
		Status:              string(result.Status),
		StaffName:           result.StaffName,
		AppointmentTypeName: result.AppointmentTypeName,
		Price:               result.Price,
		Notes:               result.Notes,
		CreatedAt:           result.CreatedAt,
	}, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время в часовом поясе бизнеса
	now := uc.timeProvider.Now().In(uc.settings.Location)
	date := uc.inLocation(req.Date)

	// 3. Получаем тип приёма
	appointmentType, err := uc.appointmentTypeRepo.GetByID(ctx, req.AppointmentTypeID)
	if err != nil {
		if errors.Is(err, appointmentTypeRepo.ErrAppointmentTypeNotFound) {
			uc.logger.Warn("CreateBooking: appointment type id=%d not found", req.AppointmentTypeID)
			return nil, ErrAppointmentTypeNotFound
		}
		return nil, uc.storageError("get appointment type", err)
	}

	// 4. Получаем сотрудника
	staff, err := uc.staffRepo.GetByID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			uc.logger.Warn("CreateBooking: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		return nil, uc.storageError("get staff", err)
	}

	// 5. Проверяем тип, сотрудника и длительность
	if err := validateAppointment(req, appointmentType, staff); err != nil {
		uc.logger.Warn("CreateBooking: appointment validation failed: %v", err)
		return nil, err
	}

	// 6. Получаем конфигурацию с учетом иерархии
	config, err := uc.configRepo.GetConfigWithHierarchy(ctx, &req.AppointmentTypeID)
	if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
		return nil, uc.storageError("get config", err)
	}
	if config == nil {
		config = domain.DefaultSchedulingConfig()
		uc.logger.Info("CreateBooking: using default config for appointmentType=%d", req.AppointmentTypeID)
	} else {
		uc.logger.Info("CreateBooking: using config id=%d", config.ID)
	}

	// 7. Валидация даты с учетом конфигурации
	if err := validateDate(req, now, config); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	interval := domain.Interval{Start: req.StartTime, End: req.EndTime}

	var result *domain.Booking

	// 8. Операции с БД в сериализуемой транзакции
	book := func(txCtx context.Context) error {
		// 8.1. Рабочее окно сотрудника на дату
		window, err := uc.resolveWindow(txCtx, staff.ID, date)
		if err != nil {
			return err
		}
		if !window.Contains(interval) {
			uc.logger.Warn("CreateBooking: %s-%s is outside working window of staff=%d on %s",
				req.StartTime, req.EndTime, staff.ID, domain.DateKey(date))
			return ErrOutsideWorkingHours
		}

		// 8.2. Находим или создаем клиента (откатывается вместе с бронированием)
		customer, err := uc.resolveCustomer(txCtx, &req.Customer)
		if err != nil {
			return err
		}

		// 8.3. Активные бронирования сотрудника на дату с блокировкой (FOR UPDATE)
		filter := domain.StaffBookingsFilter{
			StaffIDs:  []int64{staff.ID},
			StartDate: &date,
			EndDate:   &date,
		}
		bookings, err := uc.bookingRepo.GetByStaffWithFilter(txCtx, filter)
		if err != nil {
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		// 8.4. Проверяем пересечения
		if overlapping := scheduling.Overlapping(interval, bookings); len(overlapping) > 0 {
			uc.logger.Warn("CreateBooking: slot %s-%s overlaps booking id=%s",
				req.StartTime, req.EndTime, overlapping[0].ID)
			return ErrSlotNotAvailable
		}

		// 8.5. Создаем бронирование с денормализацией данных
		booking := &domain.Booking{
			StaffID:             staff.ID,
			CustomerID:          customer.ID,
			AppointmentTypeID:   appointmentType.ID,
			BookingDate:         date,
			StartTime:           req.StartTime,
			EndTime:             req.EndTime,
			Status:              domain.StatusScheduled,
			StaffName:           staff.DisplayName,
			AppointmentTypeName: appointmentType.Name,
			Price:               appointmentType.Price,
			Notes:               req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("CreateBooking: exclusion constraint rejected %s-%s for staff=%d",
					req.StartTime, req.EndTime, staff.ID)
				return ErrSlotNotAvailable
			}
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	}

	err = uc.txManager.DoSerializable(ctx, book)
	// Клиента с тем же email создала конкурентная транзакция; новая транзакция его найдёт
	if errors.Is(err, errCustomerCreatedConcurrently) {
		uc.logger.Warn("CreateBooking: customer created concurrently, retrying with existing customer")
		err = uc.txManager.DoSerializable(ctx, book)
	}
	if err != nil {
		return nil, uc.mapTxError(err)
	}

	return result, nil
}

// resolveWindow загружает правила календаря на дату и разрешает окно сотрудника
func (uc *UseCase) resolveWindow(ctx context.Context, staffID int64, date time.Time) (domain.WorkingWindow, error) {
	calendar, err := uc.calendarRepo.GetCalendar(ctx, date, date)
	if err != nil {
		return domain.Closed(), fmt.Errorf("%w: failed to get calendar: %w", ErrInternal, err)
	}
	overrides, err := uc.calendarRepo.GetOverrides(ctx, []int64{staffID}, date, date)
	if err != nil {
		return domain.Closed(), fmt.Errorf("%w: failed to get overrides: %w", ErrInternal, err)
	}
	return scheduling.NewResolver(calendar, overrides).Resolve(staffID, date), nil
}

// resolveCustomer находит клиента по email без учёта регистра или создает нового.
// Телефон не используется для дедупликации.
func (uc *UseCase) resolveCustomer(ctx context.Context, input *CustomerInput) (*domain.Customer, error) {
	email := domain.NormalizeEmail(input.Email)

	if email != nil {
		existing, err := uc.customerRepo.FindByEmail(ctx, *email)
		if err == nil {
			uc.logger.Info("CreateBooking: reusing customer id=%d", existing.ID)
			return existing, nil
		}
		if !errors.Is(err, customerRepo.ErrCustomerNotFound) {
			return nil, fmt.Errorf("%w: failed to find customer: %w", ErrInternal, err)
		}
	}

	created, err := uc.customerRepo.Create(ctx, &domain.Customer{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     email,
		Phone:     strings.TrimSpace(input.Phone),
	})
	if err != nil {
		if errors.Is(err, customerRepo.ErrDuplicateEmail) {
			return nil, fmt.Errorf("%w: %w", ErrConcurrentUpdate, errCustomerCreatedConcurrently)
		}
		return nil, fmt.Errorf("%w: failed to create customer: %w", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: created customer id=%d", created.ID)
	return created, nil
}

// mapTxError переводит ошибки транзакции в ошибки use case
func (uc *UseCase) mapTxError(err error) error {
	switch {
	case IsValidationError(err) || IsConflictError(err):
		return err
	case pgerrors.IsSerializationFailure(err):
		uc.logger.Warn("CreateBooking: serialization failure: %v", err)
		return fmt.Errorf("%w: %w", ErrConcurrentUpdate, err)
	case pgerrors.IsUnavailable(err):
		uc.logger.Error("CreateBooking: storage unavailable: %v", err)
		return fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	default:
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		if errors.Is(err, ErrInternal) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
}

// storageError классифицирует ошибку чтения вне транзакции
func (uc *UseCase) storageError(op string, err error) error {
	if pgerrors.IsUnavailable(err) {
		uc.logger.Error("CreateBooking: storage unavailable on %s: %v", op, err)
		return fmt.Errorf("%w: %s: %w", ErrServiceUnavailable, op, err)
	}
	uc.logger.Error("CreateBooking: failed to %s: %v", op, err)
	return fmt.Errorf("%w: failed to %s: %w", ErrInternal, op, err)
}

func (uc *UseCase) afterCommit(ctx context.Context, booking *domain.Booking) {
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			uc.logger.Warn("CreateBooking: failed to invalidate availability cache: %v", err)
		}
	}
	if uc.events != nil {
		if err := uc.events.PublishBookingCreated(ctx, booking); err != nil {
			uc.logger.Error("CreateBooking: failed to publish event for booking id=%s: %v", booking.ID, err)
		}
	}
}

func (uc *UseCase) recordOutcome(err error) {
	if uc.metrics == nil {
		return
	}
	switch {
	case err == nil:
		uc.metrics.RecordBooking(outcomeCreated)
	case IsConflictError(err):
		uc.metrics.RecordBooking(outcomeConflict)
	case IsValidationError(err):
		uc.metrics.RecordBooking(outcomeRejected)
	case errors.Is(err, ErrServiceUnavailable):
		uc.metrics.RecordBooking(outcomeUnavailable)
	default:
		uc.metrics.RecordBooking(outcomeError)
	}
}

func (uc *UseCase) inLocation(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, uc.settings.Location)
}
