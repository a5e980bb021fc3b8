package get_reservation

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/reservations/models"
)

type ReservationService interface {
	GetByID(ctx context.Context, id, userID int64) (*models.ReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
