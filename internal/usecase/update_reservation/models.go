package update_reservation

import "github.com/m04kA/SMC-SchedulingService/internal/domain"

// Request модель запроса на частичное обновление бронирования
type Request struct {
	ReservationID int64
	UserID        int64
	Patch         domain.ReservationPatch
}

// Response модель ответа с обновленным бронированием
type Response struct {
	Reservation *domain.Reservation
}
