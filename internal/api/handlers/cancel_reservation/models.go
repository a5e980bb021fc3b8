package cancel_reservation

import (
	"github.com/m04kA/SMC-SchedulingService/internal/service/reservations/models"
	cancelReservation "github.com/m04kA/SMC-SchedulingService/internal/usecase/cancel_reservation"
)

// CancelReservationRequest HTTP request model
// Тело необязательно: без причины в заметки пишется стандартная строка
type CancelReservationRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// CancelReservationResponse HTTP response model
type CancelReservationResponse struct {
	Success          bool                        `json:"success"`
	AlreadyCancelled bool                        `json:"alreadyCancelled"`
	Reservation      *models.ReservationResponse `json:"reservation"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CancelReservationRequest) ToUseCaseRequest(reservationID, userID int64) *cancelReservation.Request {
	return &cancelReservation.Request{
		ReservationID: reservationID,
		UserID:        userID,
		Reason:        r.Reason,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *cancelReservation.Response) *CancelReservationResponse {
	return &CancelReservationResponse{
		Success:          resp.Success,
		AlreadyCancelled: resp.AlreadyCancelled,
		Reservation:      models.FromDomainReservation(resp.Reservation),
	}
}
