package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime         = "некорректный формат времени, ожидается HH:MM"
	msgInvalidInput        = "некорректные данные бронирования"
	msgSlotNotAvailable    = "выбранный временной слот уже занят"
	msgConcurrentUpdate    = "слот изменился во время бронирования, обновите доступность и повторите"
	msgTypeNotFound        = "тип приёма не найден"
	msgTypeNotBookable     = "тип приёма недоступен для онлайн записи"
	msgStaffNotFound       = "сотрудник не найден"
	msgStaffNotBookable    = "сотрудник недоступен для записи"
	msgStaffNotQualified   = "сотрудник не оказывает этот тип приёма"
	msgInvalidDuration     = "длительность интервала не совпадает с длительностью приёма"
	msgInvalidBookingDate  = "нельзя забронировать дату в прошлом"
	msgDateTooFar          = "дата бронирования слишком далеко в будущем"
	msgTooLateToBook       = "слишком поздно для бронирования этого слота"
	msgOutsideWorkingHours = "интервал вне рабочего времени сотрудника"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		status, msg := errorResponse(err)
		switch status {
		case http.StatusInternalServerError:
			h.logger.Error("POST /bookings - Failed to create booking: staff_id=%d, date=%s, error=%v",
				req.StaffID, req.Date, err)
			handlers.RespondInternalError(w)
		case http.StatusServiceUnavailable:
			h.logger.Error("POST /bookings - Storage unavailable: staff_id=%d, error=%v", req.StaffID, err)
			handlers.RespondServiceUnavailable(w)
		default:
			h.logger.Warn("POST /bookings - Rejected: staff_id=%d, date=%s, %s-%s, status=%d, error=%v",
				req.StaffID, req.Date, req.StartTime, req.EndTime, status, err)
			handlers.RespondError(w, status, msg)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, staff_id=%d, customer_id=%d",
		result.BookingID, result.StaffID, result.CustomerID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// errorResponse сопоставляет ошибку use case с HTTP статусом и сообщением
func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, createBooking.ErrSlotNotAvailable):
		return http.StatusConflict, msgSlotNotAvailable
	case errors.Is(err, createBooking.ErrConcurrentUpdate):
		return http.StatusConflict, msgConcurrentUpdate
	case errors.Is(err, createBooking.ErrServiceUnavailable):
		return http.StatusServiceUnavailable, ""

	// Неизвестные сотрудник или тип приёма - ошибка валидации запроса, а не ресурса
	case errors.Is(err, createBooking.ErrAppointmentTypeNotFound):
		return http.StatusBadRequest, msgTypeNotFound
	case errors.Is(err, createBooking.ErrStaffNotFound):
		return http.StatusBadRequest, msgStaffNotFound

	case errors.Is(err, createBooking.ErrAppointmentTypeNotBookable):
		return http.StatusBadRequest, msgTypeNotBookable
	case errors.Is(err, createBooking.ErrStaffNotBookable):
		return http.StatusBadRequest, msgStaffNotBookable
	case errors.Is(err, createBooking.ErrStaffNotQualified):
		return http.StatusBadRequest, msgStaffNotQualified
	case errors.Is(err, createBooking.ErrInvalidDuration):
		return http.StatusBadRequest, msgInvalidDuration
	case errors.Is(err, createBooking.ErrInvalidDate):
		return http.StatusBadRequest, msgInvalidBookingDate
	case errors.Is(err, createBooking.ErrDateTooFarInFuture):
		return http.StatusBadRequest, msgDateTooFar
	case errors.Is(err, createBooking.ErrTooLateToBook):
		return http.StatusBadRequest, msgTooLateToBook
	case errors.Is(err, createBooking.ErrOutsideWorkingHours):
		return http.StatusBadRequest, msgOutsideWorkingHours
	case errors.Is(err, createBooking.ErrInvalidInput):
		return http.StatusBadRequest, msgInvalidInput
	}
	return http.StatusInternalServerError, ""
}
