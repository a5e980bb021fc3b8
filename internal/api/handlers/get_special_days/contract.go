package get_special_days

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
)

type AvailabilityService interface {
	ListSpecialDays(ctx context.Context, businessID int64, from, to *time.Time) (*models.SpecialDayListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
