package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ScopeReader читает активные бронирования области на дату
type ScopeReader interface {
	ListActiveInScope(ctx context.Context, scope domain.ConflictScope, date time.Time, excludeID *int64) ([]*domain.Reservation, error)
}

// HoursResolver определяет часы работы бизнеса на дату
type HoursResolver interface {
	Resolve(ctx context.Context, businessID int64, date time.Time) (domain.OpenHours, error)
}

// SlotCache кэш свободных слотов бизнеса на день
type SlotCache interface {
	Get(ctx context.Context, businessID int64, date time.Time, durationMinutes, intervalMinutes int) ([]domain.Slot, bool, error)
	Set(ctx context.Context, businessID int64, date time.Time, durationMinutes, intervalMinutes int, slots []domain.Slot) error
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
