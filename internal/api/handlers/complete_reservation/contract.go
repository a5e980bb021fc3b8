package complete_reservation

import (
	"context"

	completeReservation "github.com/m04kA/SMC-SchedulingService/internal/usecase/complete_reservation"
)

type CompleteReservationUseCase interface {
	Execute(ctx context.Context, req *completeReservation.Request) (*completeReservation.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
