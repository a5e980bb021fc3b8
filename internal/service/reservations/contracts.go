package reservations

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	ListByCustomer(ctx context.Context, customerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error)
	ListByFilter(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
}

// BundleRepository интерфейс репозитория пакетов
type BundleRepository interface {
	ListServiceRecords(ctx context.Context, reservationID int64) ([]domain.BundleServiceRecord, error)
}

// AccessChecker проверка прав на бронирование и бизнес
type AccessChecker interface {
	ActorFor(ctx context.Context, userID int64, r *domain.Reservation) (domain.Actor, error)
	RequireMember(ctx context.Context, userID, businessID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
