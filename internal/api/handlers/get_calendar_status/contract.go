package get_calendar_status

import (
	"context"

	getCalendarStatus "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_calendar_status"
)

type GetCalendarStatusUseCase interface {
	Execute(ctx context.Context, staffID int64) (*getCalendarStatus.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
