package reminders

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListDueReminders(ctx context.Context, date time.Time, limit int) ([]*domain.Reservation, error)
	ListDueFollowUps(ctx context.Context, now time.Time, limit int) ([]*domain.Reservation, error)
	MarkReminderSent(ctx context.Context, id int64) error
	MarkFollowUpSent(ctx context.Context, id int64) error
}

// Notifier синхронная публикация события
type Notifier interface {
	NotifyNow(ctx context.Context, eventType domain.EventType, r domain.Reservation) error
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
