package reschedule_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Update(ctx context.Context, r *domain.Reservation) (*domain.Reservation, error)
}

// AccessChecker определяет, от чьего имени действует пользователь
type AccessChecker interface {
	ActorFor(ctx context.Context, userID int64, r *domain.Reservation) (domain.Actor, error)
}

// ConflictChecker ищет пересечения с активными бронированиями
type ConflictChecker interface {
	Check(ctx context.Context, query scheduling.ConflictQuery, candidate domain.Slot) (*scheduling.Conflict, error)
}

// HoursResolver определяет часы работы бизнеса на дату
type HoursResolver interface {
	Resolve(ctx context.Context, businessID int64, date time.Time) (domain.OpenHours, error)
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
