package get_open_hours

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
)

type AvailabilityService interface {
	Resolve(ctx context.Context, businessID int64, date time.Time) (*models.OpenHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
