package cancel_reservation

import "github.com/m04kA/SMC-SchedulingService/internal/domain"

// Request модель запроса на отмену бронирования
type Request struct {
	ReservationID int64
	UserID        int64   // Кто отменяет: клиент или участник бизнеса
	Reason        *string // Причина (опционально)
}

// Response модель ответа на отмену
type Response struct {
	Success          bool
	AlreadyCancelled bool // Бронирование уже было отменено, дописана только заметка
	Reservation      *domain.Reservation
}
