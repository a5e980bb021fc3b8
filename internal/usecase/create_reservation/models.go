package create_reservation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID        int64            // ID клиента (из заголовка авторизации)
	StaffID           *int64           // Сотрудник (опционально)
	VehicleID         *int64           // Автомобиль (опционально)
	BusinessID        *int64           // Бизнес (опционально)
	Date              time.Time        // Дата (без времени)
	StartTime         types.TimeString // Начало интервала
	EndTime           types.TimeString // Конец интервала (не включительно)
	ServiceDescriptor string           // Описание услуги
	Price             *decimal.Decimal // Цена (опционально)
	Notes             *string          // Заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	Reservation *domain.Reservation
}
