package get_completed_reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/service/reporting"
)

type ReportingService interface {
	CompletedSince(ctx context.Context, since time.Time, limit int) ([]reporting.CompletedReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
