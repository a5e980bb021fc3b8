package complete_reservation

import "github.com/m04kA/SMC-SchedulingService/internal/domain"

// Request модель запроса на завершение бронирования
type Request struct {
	ReservationID int64
	UserID        int64
	Notes         *string               // Заметки мастера (опционально)
	ProductsUsed  []domain.ProductUsage // Израсходованные товары (опционально)
}

// Response модель ответа на завершение
type Response struct {
	ReservationID   int64
	HistoryRecordID *int64 // Есть, только если у бронирования указан автомобиль
	Reservation     *domain.Reservation
	Usage           []domain.InventoryUsage
}
