package notify

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Publisher доставляет событие во внешний канал уведомлений
type Publisher interface {
	Publish(ctx context.Context, event domain.ReservationEvent) error
	Close() error
}

// Metrics счетчик отправленных уведомлений
type Metrics interface {
	IncNotification(eventType, outcome string)
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
