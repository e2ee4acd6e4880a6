package update_booking_status

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type serviceFake struct {
	req *models.UpdateStatusRequest
	err error
}

func (f *serviceFake) UpdateStatus(_ context.Context, _ uuid.UUID, req *models.UpdateStatusRequest) error {
	f.req = req
	return f.err
}

func serve(h *Handler, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/bookings/{bookingId}/status", h.Handle).Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+uuid.NewString()+"/status",
		strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), 9))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_UpdateStatus(t *testing.T) {
	svc := &serviceFake{}

	rec := serve(NewHandler(svc, logger.Nop()), `{"status": "completed"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "completed", svc.req.Status)
	assert.Equal(t, int64(9), svc.req.UserID)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{name: "bad body", body: `status=completed`, want: http.StatusBadRequest},
		{name: "unknown status", body: `{"status": "done"}`, err: bookings.ErrInvalidInput, want: http.StatusBadRequest},
		{name: "terminal", body: `{"status": "no_show"}`, err: bookings.ErrInvalidTransition, want: http.StatusConflict},
		{name: "not found", body: `{"status": "completed"}`, err: bookings.ErrBookingNotFound, want: http.StatusNotFound},
		{name: "unavailable", body: `{"status": "completed"}`, err: bookings.ErrServiceUnavailable, want: http.StatusServiceUnavailable},
		{name: "internal", body: `{"status": "completed"}`, err: bookings.ErrInternal, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(&serviceFake{err: tt.err}, logger.Nop()), tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
