package get_scheduling_config

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/config"
)

const (
	msgInvalidParams = "некорректный appointmentTypeId"
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

// Handle GET /api/v1/scheduling-config
// Query params: appointmentTypeId (опционально)
// Публичный endpoint - без авторизации. Если конфигурации нет, возвращаются значения по умолчанию.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentTypeID, err := ParseAppointmentTypeID(r.URL.Query().Get("appointmentTypeId"))
	if err != nil {
		h.logger.Warn("GET /scheduling-config - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetWithHierarchy(r.Context(), appointmentTypeID)
	if err != nil {
		if errors.Is(err, config.ErrServiceUnavailable) {
			h.logger.Error("GET /scheduling-config - Storage unavailable: error=%v", err)
			handlers.RespondServiceUnavailable(w)
			return
		}
		h.logger.Error("GET /scheduling-config - Failed to get config: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /scheduling-config - Config retrieved successfully: level=%s", result.Level)
	handlers.RespondJSON(w, http.StatusOK, result)
}
