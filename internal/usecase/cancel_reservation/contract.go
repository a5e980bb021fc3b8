package cancel_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Update(ctx context.Context, r *domain.Reservation) (*domain.Reservation, error)
}

// BundleRepository счетчик погашений и записи услуг пакета
type BundleRepository interface {
	DecrementRedemptions(ctx context.Context, bundleID int64) (int, error)
	CancelServiceRecords(ctx context.Context, reservationID int64) (int64, error)
}

// AccessChecker определяет, от чьего имени действует пользователь
type AccessChecker interface {
	ActorFor(ctx context.Context, userID int64, r *domain.Reservation) (domain.Actor, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier отправляет уведомления после фиксации транзакции
type Notifier interface {
	Notify(ctx context.Context, eventType domain.EventType, r domain.Reservation, actor *domain.Actor)
}

// SlotCache кэш свободных слотов
type SlotCache interface {
	InvalidateDay(ctx context.Context, businessID int64, date time.Time) error
}

// Metrics счетчики исходов операций
type Metrics interface {
	IncReservationOutcome(operation, outcome string)
	IncBundleRedemption(direction string)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
