package get_service_records

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/reservations/models"
)

type ReservationService interface {
	ListServiceRecords(ctx context.Context, id, userID int64) ([]models.BundleServiceRecordResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
