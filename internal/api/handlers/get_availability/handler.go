package get_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_availability"
)

const (
	msgMissingParams      = "appointmentTypeId, dateFrom и dateTo обязательны"
	msgInvalidParams      = "некорректные параметры запроса, даты ожидаются в формате YYYY-MM-DD"
	msgInvalidDateRange   = "dateFrom не может быть позже dateTo"
	msgDateRangeTooLong   = "слишком длинный период"
	msgTypeNotFound       = "тип приёма не найден"
	msgTypeNotBookable    = "тип приёма недоступен для онлайн записи"
	msgInvalidInputParams = "некорректные входные данные"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
// Query params: appointmentTypeId (required), staffId (optional), dateFrom, dateTo (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	appointmentTypeIDStr := query.Get("appointmentTypeId")
	staffIDStr := query.Get("staffId")
	dateFromStr := query.Get("dateFrom")
	dateToStr := query.Get("dateTo")

	if appointmentTypeIDStr == "" || dateFromStr == "" || dateToStr == "" {
		h.logger.Warn("GET /availability - Missing required parameters")
		handlers.RespondBadRequest(w, msgMissingParams)
		return
	}

	// Формируем запрос к use case (с парсингом дат)
	useCaseReq, err := ToUseCaseRequest(appointmentTypeIDStr, staffIDStr, dateFromStr, dateToStr)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidDateRange):
			h.logger.Warn("GET /availability - Invalid date range: %s..%s", dateFromStr, dateToStr)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		case errors.Is(err, getAvailability.ErrDateRangeTooLong):
			h.logger.Warn("GET /availability - Date range too long: %s..%s", dateFromStr, dateToStr)
			handlers.RespondBadRequest(w, msgDateRangeTooLong)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInputParams)

		case errors.Is(err, getAvailability.ErrAppointmentTypeNotFound):
			h.logger.Warn("GET /availability - Appointment type not found: appointment_type_id=%d", useCaseReq.AppointmentTypeID)
			handlers.RespondNotFound(w, msgTypeNotFound)

		case errors.Is(err, getAvailability.ErrAppointmentTypeNotBookable):
			h.logger.Warn("GET /availability - Appointment type not bookable: appointment_type_id=%d", useCaseReq.AppointmentTypeID)
			handlers.RespondBadRequest(w, msgTypeNotBookable)

		case errors.Is(err, getAvailability.ErrServiceUnavailable):
			h.logger.Error("GET /availability - Storage unavailable: %v", err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("GET /availability - Failed to get availability: appointment_type_id=%d, error=%v",
				useCaseReq.AppointmentTypeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability - Availability retrieved successfully: appointment_type_id=%d, dates=%d",
		useCaseReq.AppointmentTypeID, len(result.Dates))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
