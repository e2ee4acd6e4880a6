package update_scheduling_config

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/config"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidData        = "некорректные данные конфигурации"
	msgTypeNotFound       = "тип приёма не найден"
)

type Handler struct {
	service ConfigService
	logger  Logger
}

func NewHandler(service ConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/scheduling-config
// Создает или заменяет конфигурацию уровня (тип приёма или общий)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /scheduling-config - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateSchedulingConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /scheduling-config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Upsert(r.Context(), req.ToServiceRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, config.ErrInvalidInput):
			h.logger.Warn("PUT /scheduling-config - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, config.ErrAppointmentTypeNotFound):
			h.logger.Warn("PUT /scheduling-config - Appointment type not found: %v", req.AppointmentTypeID)
			handlers.RespondNotFound(w, msgTypeNotFound)

		case errors.Is(err, config.ErrServiceUnavailable):
			h.logger.Error("PUT /scheduling-config - Storage unavailable: error=%v", err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("PUT /scheduling-config - Failed to save config: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /scheduling-config - Config saved successfully: level=%s, user_id=%d", result.Level, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
