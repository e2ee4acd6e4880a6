package delete_scheduling_config

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/config"
)

const (
	msgInvalidParams = "некорректный appointmentTypeId"
	msgMissingUserID = "отсутствует ID пользователя"
	msgNotFound      = "конфигурация не найдена"
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

// Handle DELETE /api/v1/scheduling-config
// Query params: appointmentTypeId (опционально, без него удаляется общая конфигурация)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /scheduling-config - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var appointmentTypeID *int64
	if raw := r.URL.Query().Get("appointmentTypeId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.logger.Warn("DELETE /scheduling-config - Invalid appointmentTypeId: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		appointmentTypeID = &id
	}

	if err := h.service.Delete(r.Context(), appointmentTypeID, userID); err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			h.logger.Warn("DELETE /scheduling-config - Config not found: appointment_type_id=%v", appointmentTypeID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		if errors.Is(err, config.ErrServiceUnavailable) {
			h.logger.Error("DELETE /scheduling-config - Storage unavailable: error=%v", err)
			handlers.RespondServiceUnavailable(w)
			return
		}

		h.logger.Error("DELETE /scheduling-config - Failed to delete config: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /scheduling-config - Config deleted: user_id=%d", userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
