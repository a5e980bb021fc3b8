package export_reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/service/reporting"
)

type ReportingService interface {
	Export(ctx context.Context, userID, businessID int64, from, to time.Time) ([]reporting.ReservationRowResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
