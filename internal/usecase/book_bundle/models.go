package book_bundle

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модель запроса на бронирование пакета услуг
type Request struct {
	BundleID     int64
	CustomerID   int64
	Date         time.Time
	StartTime    types.TimeString // Конец вычисляется по длительности пакета
	CustomerInfo domain.CustomerContact
	VehicleID    *int64
	Notes        *string
}

// Response модель ответа с созданным бронированием
type Response struct {
	ReservationID  int64
	BundleID       int64
	Reservation    *domain.Reservation
	ServiceRecords []domain.BundleServiceRecord
}
