package reschedule_reservation

import (
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	rescheduleReservation "github.com/m04kA/SMC-SchedulingService/internal/usecase/reschedule_reservation"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// RescheduleReservationRequest HTTP request model
type RescheduleReservationRequest struct {
	Date      string  `json:"date"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Reason    *string `json:"reason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleReservationRequest) ToUseCaseRequest(reservationID, userID int64) (*rescheduleReservation.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("endTime: %w", err)
	}

	return &rescheduleReservation.Request{
		ReservationID: reservationID,
		UserID:        userID,
		Date:          date,
		StartTime:     start,
		EndTime:       end,
		Reason:        r.Reason,
	}, nil
}
