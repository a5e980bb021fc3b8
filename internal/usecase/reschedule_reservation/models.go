package reschedule_reservation

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модель запроса на перенос бронирования
type Request struct {
	ReservationID int64
	UserID        int64            // Кто переносит: клиент или участник бизнеса
	Date          time.Time        // Новая дата
	StartTime     types.TimeString // Новое начало
	EndTime       types.TimeString // Новый конец
	Reason        *string          // Причина (опционально)
}

// Response модель ответа с перенесенным бронированием
type Response struct {
	Reservation *domain.Reservation
}
