package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// AvailabilityRepository интерфейс репозитория расписания
type AvailabilityRepository interface {
	UpsertWeekly(ctx context.Context, a *domain.BusinessAvailability) (*domain.BusinessAvailability, error)
	ListWeekly(ctx context.Context, businessID int64) ([]*domain.BusinessAvailability, error)
	UpsertSpecialDay(ctx context.Context, s *domain.SpecialDayAvailability) (*domain.SpecialDayAvailability, error)
	ListSpecialDays(ctx context.Context, businessID int64, from, to *time.Time) ([]*domain.SpecialDayAvailability, error)
	DeleteSpecialDay(ctx context.Context, businessID int64, date time.Time) error
}

// HoursResolver определяет эффективные часы работы на дату
type HoursResolver interface {
	Resolve(ctx context.Context, businessID int64, date time.Time) (domain.OpenHours, error)
}

// AccessChecker проверяет принадлежность пользователя бизнесу
type AccessChecker interface {
	RequireMember(ctx context.Context, userID, businessID int64) error
}

// SlotCache инвалидация кэша слотов после изменения расписания
type SlotCache interface {
	InvalidateDay(ctx context.Context, businessID int64, date time.Time) error
	InvalidateBusiness(ctx context.Context, businessID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
