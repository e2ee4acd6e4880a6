package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/pgerrors"
	staffRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

const defaultQueryTimeout = 5 * time.Second

// Settings параметры сервиса
type Settings struct {
	QueryTimeout time.Duration // Верхняя граница ожидания хранилища, включая блокировку строки
}

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	staffRepo   StaffRepository
	txManager   TransactionManager
	cache       CacheInvalidator
	events      EventPublisher
	settings    Settings
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований. cache и events могут быть nil.
func NewService(
	bookingRepo BookingRepository,
	staffRepo StaffRepository,
	txManager TransactionManager,
	cache CacheInvalidator,
	events EventPublisher,
	settings Settings,
	logger Logger,
) *Service {
	if settings.QueryTimeout <= 0 {
		settings.QueryTimeout = defaultQueryTimeout
	}
	return &Service{
		bookingRepo: bookingRepo,
		staffRepo:   staffRepo,
		txManager:   txManager,
		cache:       cache,
		events:      events,
		settings:    settings,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s", id)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		return nil, s.repositoryError("GetByID", err)
	}

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return models.FromDomainBooking(booking), nil
}

// GetCustomerBookings получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: fetching bookings for customer=%d, status=%v", req.CustomerID, req.Status)

	if req.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: customerId must be positive", ErrInvalidInput)
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerBookings: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	bookings, err := s.bookingRepo.GetByCustomerID(ctx, req.CustomerID, domainStatus)
	if err != nil {
		return nil, s.repositoryError("GetCustomerBookings", err)
	}

	s.logger.Info("GetCustomerBookings: successfully fetched %d bookings for customer=%d", len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings), nil
}

// GetStaffBookings получает бронирования сотрудника с фильтрацией по периоду и статусу.
// По умолчанию возвращает только активные бронирования (scheduled, completed).
//
// Примеры использования:
// - Расписание на дату: StartDate и EndDate указывают на одну дату
// - Только завершённые: Status = "completed"
// - Включая отменённые и no-show: IncludeInactive = true
func (s *Service) GetStaffBookings(ctx context.Context, req *models.GetStaffBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetStaffBookings: fetching bookings for staff=%d, user=%d", req.StaffID, req.UserID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", domain.DateKey(*req.StartDate), domain.DateKey(*req.EndDate))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	if req.StartDate != nil && req.EndDate != nil && req.StartDate.After(*req.EndDate) {
		return nil, fmt.Errorf("%w: startDate is after endDate", ErrInvalidInput)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	// Проверяем существование сотрудника (удалённые тоже, у них есть история)
	if _, err := s.staffRepo.GetByID(ctx, req.StaffID); err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			s.logger.Warn("GetStaffBookings: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		return nil, s.repositoryError("GetStaffBookings", err)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetStaffBookings: invalid filter for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByStaffWithFilter(ctx, filter)
	if err != nil {
		return nil, s.repositoryError("GetStaffBookings", err)
	}

	s.logger.Info("GetStaffBookings: successfully fetched %d bookings for staff=%d", len(bookings), req.StaffID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование. Отменить можно только scheduled бронирование;
// интервал сразу освобождается для повторного бронирования.
func (s *Service) Cancel(ctx context.Context, bookingID uuid.UUID, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%s by user=%d", bookingID, req.UserID)

	reason := strings.TrimSpace(req.CancellationReason)
	if utf8.RuneCountInString(reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellationReason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	var cancelled *domain.Booking

	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	// Чтение с блокировкой и обновление в одной транзакции
	err := s.txManager.Do(opCtx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%s cannot be cancelled, status=%s", bookingID, booking.Status)
			return ErrCannotCancel
		}

		if err := s.bookingRepo.Cancel(txCtx, bookingID, reason); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		booking.Status = domain.StatusCancelled
		if reason != "" {
			booking.CancellationReason = &reason
		}
		cancelled = booking
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrCannotCancel) {
			s.logger.Warn("Cancel: booking id=%s: %v", bookingID, err)
			return err
		}
		return s.repositoryError("Cancel", err)
	}

	s.afterWrite(ctx, cancelled, domain.StatusScheduled)

	s.logger.Info("Cancel: successfully cancelled booking id=%s", bookingID)
	return nil
}

// UpdateStatus переводит бронирование по жизненному циклу:
// scheduled -> completed | cancelled | no_show. Финальные статусы не меняются.
func (s *Service) UpdateStatus(ctx context.Context, bookingID uuid.UUID, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%s to status=%s by user=%d",
		bookingID, req.Status, req.UserID)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%s", req.Status, bookingID)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	var (
		updated  *domain.Booking
		previous domain.BookingStatus
	)

	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	err = s.txManager.Do(opCtx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if !booking.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for booking id=%s",
				booking.Status, newStatus, bookingID)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
		}

		// Отмена через статус заполняет cancelled_at так же, как Cancel
		if newStatus == domain.StatusCancelled {
			err = s.bookingRepo.Cancel(txCtx, bookingID, "")
		} else {
			err = s.bookingRepo.UpdateStatus(txCtx, bookingID, newStatus)
		}
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		previous = booking.Status
		booking.Status = newStatus
		updated = booking
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrInvalidTransition) {
			s.logger.Warn("UpdateStatus: booking id=%s: %v", bookingID, err)
			return err
		}
		return s.repositoryError("UpdateStatus", err)
	}

	s.afterWrite(ctx, updated, previous)

	s.logger.Info("UpdateStatus: successfully updated booking id=%s to status=%s", bookingID, newStatus)
	return nil
}

// Вспомогательные методы

// afterWrite сбрасывает кеш доступности и публикует событие; ошибки только логируются
func (s *Service) afterWrite(ctx context.Context, booking *domain.Booking, previous domain.BookingStatus) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("afterWrite: failed to invalidate availability cache: %v", err)
		}
	}

	if s.events == nil {
		return
	}

	var err error
	if booking.Status == domain.StatusCancelled {
		err = s.events.PublishBookingCancelled(ctx, booking)
	} else {
		err = s.events.PublishBookingStatusChanged(ctx, booking, previous)
	}
	if err != nil {
		s.logger.Error("afterWrite: failed to publish event for booking id=%s: %v", booking.ID, err)
	}
}

// withTimeout ограничивает ожидание хранилища, в том числе ожидание SELECT ... FOR UPDATE
func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.settings.QueryTimeout)
}

// repositoryError отделяет недоступность хранилища от внутренних ошибок
func (s *Service) repositoryError(op string, err error) error {
	if pgerrors.IsUnavailable(err) {
		s.logger.Error("%s: storage unavailable: %v", op, err)
		return fmt.Errorf("%w: %s: %v", ErrServiceUnavailable, op, err)
	}
	s.logger.Error("%s: repository error: %v", op, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
