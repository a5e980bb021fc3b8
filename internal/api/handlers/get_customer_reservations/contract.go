package get_customer_reservations

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/reservations/models"
)

type ReservationService interface {
	ListByCustomer(ctx context.Context, req *models.ListByCustomerRequest) (*models.ReservationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
