package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	StaffID           int64           `json:"staffId"`
	AppointmentTypeID int64           `json:"appointmentTypeId"`
	Date              string          `json:"date"`      // "2025-10-15"
	StartTime         string          `json:"startTime"` // "10:00"
	EndTime           string          `json:"endTime"`   // "10:30"
	Customer          CustomerRequest `json:"customer"`
	Notes             *string         `json:"notes,omitempty"`
}

// CustomerRequest данные клиента
type CustomerRequest struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     *string `json:"email,omitempty"`
	Phone     string  `json:"phone"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	BookingID           string  `json:"bookingId"`
	ConfirmationCode    string  `json:"confirmationCode"`
	StaffID             int64   `json:"staffId"`
	CustomerID          int64   `json:"customerId"`
	AppointmentTypeID   int64   `json:"appointmentTypeId"`
	Date                string  `json:"date"`
	StartTime           string  `json:"startTime"`
	EndTime             string  `json:"endTime"`
	Status              string  `json:"status"`
	StaffName           string  `json:"staffName"`
	AppointmentTypeName string  `json:"appointmentTypeName"`
	Price               float64 `json:"price"`
	Notes               *string `json:"notes,omitempty"`
	CreatedAt           string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: startTime: %v", errInvalidTime, err)
	}
	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: endTime: %v", errInvalidTime, err)
	}

	return &createBooking.Request{
		StaffID:           r.StaffID,
		AppointmentTypeID: r.AppointmentTypeID,
		Date:              date,
		StartTime:         startTime,
		EndTime:           endTime,
		Customer: createBooking.CustomerInput{
			FirstName: r.Customer.FirstName,
			LastName:  r.Customer.LastName,
			Email:     r.Customer.Email,
			Phone:     r.Customer.Phone,
		},
		Notes: r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		BookingID:           resp.BookingID.String(),
		ConfirmationCode:    resp.ConfirmationCode,
		StaffID:             resp.StaffID,
		CustomerID:          resp.CustomerID,
		AppointmentTypeID:   resp.AppointmentTypeID,
		Date:                resp.BookingDate.Format(domain.DateFormat),
		StartTime:           resp.StartTime.String(),
		EndTime:             resp.EndTime.String(),
		Status:              resp.Status,
		StaffName:           resp.StaffName,
		AppointmentTypeName: resp.AppointmentTypeName,
		Price:               resp.Price,
		Notes:               resp.Notes,
		CreatedAt:           resp.CreatedAt.Format(time.RFC3339),
	}
}
