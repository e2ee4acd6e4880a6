package delete_scheduling_config

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/config"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type serviceFake struct {
	typeID *int64
	called bool
	err    error
}

func (f *serviceFake) Delete(_ context.Context, appointmentTypeID *int64, _ int64) error {
	f.called = true
	f.typeID = appointmentTypeID
	return f.err
}

func del(h *Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, target, nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), 2))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler(t *testing.T) {
	t.Run("global", func(t *testing.T) {
		svc := &serviceFake{}
		rec := del(NewHandler(svc, logger.Nop()), "/api/v1/scheduling-config")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Nil(t, svc.typeID)
	})

	t.Run("appointment type", func(t *testing.T) {
		svc := &serviceFake{}
		rec := del(NewHandler(svc, logger.Nop()), "/api/v1/scheduling-config?appointmentTypeId=4")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, svc.typeID)
		assert.Equal(t, int64(4), *svc.typeID)
	})

	t.Run("not found", func(t *testing.T) {
		rec := del(NewHandler(&serviceFake{err: config.ErrConfigNotFound}, logger.Nop()), "/api/v1/scheduling-config")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("storage unavailable", func(t *testing.T) {
		rec := del(NewHandler(&serviceFake{err: config.ErrServiceUnavailable}, logger.Nop()), "/api/v1/scheduling-config")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := &serviceFake{}
		rec := del(NewHandler(svc, logger.Nop()), "/api/v1/scheduling-config?appointmentTypeId=x")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, svc.called)
	})
}
