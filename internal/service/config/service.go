package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	configRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/config"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/pgerrors"
	"github.com/m04kA/SMC-AppointmentService/internal/service/config/models"
)

const defaultQueryTimeout = 5 * time.Second

// Settings параметры сервиса
type Settings struct {
	QueryTimeout time.Duration
}

// Service сервис для работы с конфигурацией расписания
type Service struct {
	configRepo ConfigRepository
	cache      CacheInvalidator
	settings   Settings
	logger     Logger
}

// NewService создает новый экземпляр сервиса конфигурации. cache может быть nil.
func NewService(configRepo ConfigRepository, cache CacheInvalidator, settings Settings, logger Logger) *Service {
	if settings.QueryTimeout <= 0 {
		settings.QueryTimeout = defaultQueryTimeout
	}
	return &Service{
		configRepo: configRepo,
		cache:      cache,
		settings:   settings,
		logger:     logger,
	}
}

// GetWithHierarchy получает действующую конфигурацию с учетом иерархии приоритетов.
// Приоритет: тип приёма > общая конфигурация > значения по умолчанию.
func (s *Service) GetWithHierarchy(ctx context.Context, appointmentTypeID *int64) (*models.ConfigResponse, error) {
	s.logger.Info("GetWithHierarchy: fetching config for appointmentType=%v", formatTypeID(appointmentTypeID))

	ctx, cancel := context.WithTimeout(ctx, s.settings.QueryTimeout)
	defer cancel()

	config, err := s.configRepo.GetConfigWithHierarchy(ctx, appointmentTypeID)
	if err != nil {
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			s.logger.Info("GetWithHierarchy: no config stored, using defaults")
			return models.DefaultConfigResponse(), nil
		}
		return nil, s.repositoryError("GetWithHierarchy", err)
	}

	resp := models.FromDomainConfig(config)
	s.logger.Info("GetWithHierarchy: successfully fetched config id=%d (level: %s)", config.ID, resp.Level)
	return resp, nil
}

// Upsert создает или заменяет конфигурацию уровня (тип приёма или общий)
func (s *Service) Upsert(ctx context.Context, req *models.UpsertConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("Upsert: saving config for appointmentType=%v by user=%d",
		formatTypeID(req.AppointmentTypeID), req.UserID)

	if err := validateConfigData(req); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}

	opCtx, cancel := context.WithTimeout(ctx, s.settings.QueryTimeout)
	defer cancel()

	saved, err := s.configRepo.Upsert(opCtx, req.ToDomainConfig())
	if err != nil {
		if errors.Is(err, configRepo.ErrAppointmentTypeNotFound) {
			s.logger.Warn("Upsert: appointment type %v not found", formatTypeID(req.AppointmentTypeID))
			return nil, ErrAppointmentTypeNotFound
		}
		return nil, s.repositoryError("Upsert", err)
	}

	s.invalidate(ctx)

	s.logger.Info("Upsert: successfully saved config id=%d", saved.ID)
	return models.FromDomainConfig(saved), nil
}

// Delete удаляет конфигурацию уровня; после удаления действует следующий уровень иерархии
func (s *Service) Delete(ctx context.Context, appointmentTypeID *int64, userID int64) error {
	s.logger.Info("Delete: deleting config for appointmentType=%v by user=%d", formatTypeID(appointmentTypeID), userID)

	opCtx, cancel := context.WithTimeout(ctx, s.settings.QueryTimeout)
	defer cancel()

	if err := s.configRepo.Delete(opCtx, appointmentTypeID); err != nil {
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			s.logger.Warn("Delete: config for appointmentType=%v not found", formatTypeID(appointmentTypeID))
			return ErrConfigNotFound
		}
		return s.repositoryError("Delete", err)
	}

	s.invalidate(ctx)

	s.logger.Info("Delete: successfully deleted config for appointmentType=%v", formatTypeID(appointmentTypeID))
	return nil
}

// Вспомогательные методы

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate availability cache: %v", err)
	}
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

// validateConfigData проверяет значения конфигурации на допустимые диапазоны
func validateConfigData(req *models.UpsertConfigRequest) error {
	if req.AppointmentTypeID != nil && *req.AppointmentTypeID <= 0 {
		return fmt.Errorf("%w: appointmentTypeId must be positive", ErrInvalidInput)
	}

	// 0 означает шаг, равный длительности приёма
	if req.SlotGranularityMinutes != 0 &&
		(req.SlotGranularityMinutes < domain.MinSlotGranularityMinutes ||
			req.SlotGranularityMinutes > domain.MaxSlotGranularityMinutes) {
		return fmt.Errorf("%w: slotGranularityMinutes must be 0 or between %d and %d",
			ErrInvalidInput, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes)
	}

	if req.AdvanceBookingDays < domain.MinAdvanceBookingDays || req.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}

	if req.MinBookingNoticeMinutes < domain.MinBookingNoticeMinutes || req.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}

	return nil
}

func formatTypeID(id *int64) string {
	if id == nil {
		return "global"
	}
	return fmt.Sprintf("%d", *id)
}
