package reporting

import (
	"context"
	"time"

	reportingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/reporting"
)

// ReportingRepository интерфейс отчетного репозитория
type ReportingRepository interface {
	ListCompletedSince(ctx context.Context, since time.Time, limit int) ([]reportingRepo.CompletedReservation, error)
	DailyStats(ctx context.Context, businessID int64, from, to time.Time) ([]reportingRepo.DailyStat, error)
	ExportReservations(ctx context.Context, businessID int64, from, to time.Time) ([]reportingRepo.ReservationRow, error)
}

// AccessChecker проверяет принадлежность пользователя бизнесу
type AccessChecker interface {
	RequireMember(ctx context.Context, userID, businessID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
