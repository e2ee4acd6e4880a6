package get_calendar_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	getCalendarStatus "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_calendar_status"
)

const (
	msgInvalidStaffID = "некорректный ID сотрудника"
	msgStaffNotFound  = "сотрудник не найден"
)

type Handler struct {
	useCase GetCalendarStatusUseCase
	logger  Logger
}

func NewHandler(useCase GetCalendarStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/staff/{staffId}/calendar-status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	staffID, err := strconv.ParseInt(vars["staffId"], 10, 64)
	if err != nil || staffID <= 0 {
		h.logger.Warn("GET /staff/{id}/calendar-status - Invalid staff ID: %q", vars["staffId"])
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), staffID)
	if err != nil {
		switch {
		case errors.Is(err, getCalendarStatus.ErrStaffNotFound):
			h.logger.Warn("GET /staff/{id}/calendar-status - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, getCalendarStatus.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidStaffID)

		case errors.Is(err, getCalendarStatus.ErrServiceUnavailable):
			h.logger.Error("GET /staff/{id}/calendar-status - Storage unavailable: staff_id=%d, error=%v", staffID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("GET /staff/{id}/calendar-status - Failed to evaluate status: staff_id=%d, error=%v",
				staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /staff/{id}/calendar-status - Status evaluated: staff_id=%d, status=%s, configured_days=%d",
		staffID, result.Status, result.ConfiguredDays)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
