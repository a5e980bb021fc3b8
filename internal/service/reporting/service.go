package reporting

import (
	"context"
	"fmt"
	"time"
)

const (
	defaultCompletedLimit = 500
	maxCompletedLimit     = 5000
	maxReportDays         = 366
)

// Service read-only выгрузки для лояльности и аналитики
type Service struct {
	repo   ReportingRepository
	access AccessChecker
	logger Logger
}

// NewService создает новый экземпляр отчетного сервиса
func NewService(repo ReportingRepository, access AccessChecker, logger Logger) *Service {
	return &Service{repo: repo, access: access, logger: logger}
}

// CompletedSince завершенные бронирования после since (для модулей лояльности и промо)
func (s *Service) CompletedSince(ctx context.Context, since time.Time, limit int) ([]CompletedReservationResponse, error) {
	if limit <= 0 {
		limit = defaultCompletedLimit
	}
	if limit > maxCompletedLimit {
		return nil, fmt.Errorf("%w: limit must not exceed %d", ErrInvalidInput, maxCompletedLimit)
	}

	rows, err := s.repo.ListCompletedSince(ctx, since, limit)
	if err != nil {
		s.logger.Error("CompletedSince: repository error: %v", err)
		return nil, fmt.Errorf("%w: CompletedSince - repository error: %w", ErrInternal, err)
	}
	return fromCompleted(rows), nil
}

// DailyStats количество и выручка по дням и статусам
// Доступно только владельцу и сотрудникам бизнеса
func (s *Service) DailyStats(ctx context.Context, userID, businessID int64, from, to time.Time) ([]DailyStatResponse, error) {
	s.logger.Info("DailyStats: business=%d by user=%d", businessID, userID)

	if err := validatePeriod(from, to); err != nil {
		return nil, err
	}
	if err := s.access.RequireMember(ctx, userID, businessID); err != nil {
		return nil, err
	}

	rows, err := s.repo.DailyStats(ctx, businessID, from, to)
	if err != nil {
		s.logger.Error("DailyStats: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: DailyStats - repository error: %w", ErrInternal, err)
	}
	return fromDailyStats(rows), nil
}

// Export массовая выгрузка статусов, дат и цен бронирований бизнеса
func (s *Service) Export(ctx context.Context, userID, businessID int64, from, to time.Time) ([]ReservationRowResponse, error) {
	s.logger.Info("Export: business=%d by user=%d", businessID, userID)

	if err := validatePeriod(from, to); err != nil {
		return nil, err
	}
	if err := s.access.RequireMember(ctx, userID, businessID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ExportReservations(ctx, businessID, from, to)
	if err != nil {
		s.logger.Error("Export: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Export - repository error: %w", ErrInternal, err)
	}
	return fromRows(rows), nil
}

func validatePeriod(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}
	if to.Before(from) {
		return fmt.Errorf("%w: 'to' is before 'from'", ErrInvalidInput)
	}
	if to.Sub(from) > maxReportDays*24*time.Hour {
		return fmt.Errorf("%w: period longer than %d days", ErrInvalidInput, maxReportDays)
	}
	return nil
}
