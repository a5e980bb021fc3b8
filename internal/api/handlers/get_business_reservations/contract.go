package get_business_reservations

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/reservations/models"
)

type ReservationService interface {
	ListByBusiness(ctx context.Context, req *models.ListByBusinessRequest) (*models.ReservationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
