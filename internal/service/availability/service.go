package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
)

// Service управление недельным расписанием и особыми днями бизнеса
type Service struct {
	repo      AvailabilityRepository
	resolver  HoursResolver
	access    AccessChecker
	cache     SlotCache
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	repo AvailabilityRepository,
	resolver HoursResolver,
	access AccessChecker,
	cache SlotCache,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		repo:      repo,
		resolver:  resolver,
		access:    access,
		cache:     cache,
		txManager: txManager,
		logger:    logger,
	}
}

// SetWeekly сохраняет часы работы на переданные дни недели
// Доступно только владельцу и сотрудникам бизнеса
func (s *Service) SetWeekly(ctx context.Context, req *models.SetWeeklyRequest) (*models.WeeklyResponse, error) {
	s.logger.Info("SetWeekly: business=%d, days=%d by user=%d", req.BusinessID, len(req.Days), req.UserID)

	if len(req.Days) == 0 || len(req.Days) > 7 {
		s.logger.Warn("SetWeekly: invalid number of days %d", len(req.Days))
		return nil, fmt.Errorf("%w: between 1 and 7 days expected", ErrInvalidInput)
	}

	days := make([]*domain.BusinessAvailability, 0, len(req.Days))
	seen := make(map[int]bool, len(req.Days))
	for _, d := range req.Days {
		if seen[d.DayOfWeek] {
			return nil, fmt.Errorf("%w: duplicate dayOfWeek %d", ErrInvalidInput, d.DayOfWeek)
		}
		seen[d.DayOfWeek] = true

		a, err := d.ToDomain(req.BusinessID)
		if err != nil {
			s.logger.Warn("SetWeekly: invalid day %d: %v", d.DayOfWeek, err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		days = append(days, a)
	}

	if err := s.access.RequireMember(ctx, req.UserID, req.BusinessID); err != nil {
		return nil, err
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, d := range days {
			if _, err := s.repo.UpsertWeekly(txCtx, d); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.mapRepoError("SetWeekly", err)
	}

	// Недельный шаблон влияет на все даты
	if err := s.cache.InvalidateBusiness(ctx, req.BusinessID); err != nil {
		s.logger.Warn("SetWeekly: failed to invalidate slot cache for business=%d: %v", req.BusinessID, err)
	}

	return s.GetWeekly(ctx, req.BusinessID)
}

// GetWeekly возвращает недельный шаблон бизнеса
// Публичный метод
func (s *Service) GetWeekly(ctx context.Context, businessID int64) (*models.WeeklyResponse, error) {
	days, err := s.repo.ListWeekly(ctx, businessID)
	if err != nil {
		s.logger.Error("GetWeekly: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetWeekly - repository error: %w", ErrInternal, err)
	}
	return models.FromDomainWeekly(businessID, days), nil
}

// SetSpecialDay создает или заменяет особый день
func (s *Service) SetSpecialDay(ctx context.Context, req *models.SpecialDayRequest) (*models.SpecialDayResponse, error) {
	s.logger.Info("SetSpecialDay: business=%d, date=%s by user=%d", req.BusinessID, req.Date, req.UserID)

	special, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("SetSpecialDay: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.access.RequireMember(ctx, req.UserID, req.BusinessID); err != nil {
		return nil, err
	}

	saved, err := s.repo.UpsertSpecialDay(ctx, special)
	if err != nil {
		return nil, s.mapRepoError("SetSpecialDay", err)
	}

	s.invalidateDay(ctx, req.BusinessID, saved.Date)

	resp := models.FromDomainSpecialDay(saved)
	return &resp, nil
}

// DeleteSpecialDay удаляет особый день, возвращая дате часы недельного шаблона
func (s *Service) DeleteSpecialDay(ctx context.Context, userID, businessID int64, date time.Time) error {
	s.logger.Info("DeleteSpecialDay: business=%d, date=%s by user=%d", businessID, date.Format(domain.DateFormat), userID)

	if err := s.access.RequireMember(ctx, userID, businessID); err != nil {
		return err
	}

	if err := s.repo.DeleteSpecialDay(ctx, businessID, date); err != nil {
		return s.mapRepoError("DeleteSpecialDay", err)
	}

	s.invalidateDay(ctx, businessID, date)
	return nil
}

// ListSpecialDays возвращает особые дни за период
// Публичный метод
func (s *Service) ListSpecialDays(ctx context.Context, businessID int64, from, to *time.Time) (*models.SpecialDayListResponse, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("%w: 'to' is before 'from'", ErrInvalidInput)
	}

	days, err := s.repo.ListSpecialDays(ctx, businessID, from, to)
	if err != nil {
		s.logger.Error("ListSpecialDays: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: ListSpecialDays - repository error: %w", ErrInternal, err)
	}

	resp := &models.SpecialDayListResponse{Days: make([]models.SpecialDayResponse, 0, len(days))}
	for _, d := range days {
		resp.Days = append(resp.Days, models.FromDomainSpecialDay(d))
	}
	return resp, nil
}

// Resolve возвращает эффективные часы работы на дату
// Закрытый день - не ошибка
func (s *Service) Resolve(ctx context.Context, businessID int64, date time.Time) (*models.OpenHoursResponse, error) {
	hours, err := s.resolver.Resolve(ctx, businessID, date)
	if err != nil {
		s.logger.Error("Resolve: failed for business=%d, date=%s: %v", businessID, date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: Resolve: %w", ErrInternal, err)
	}
	return models.FromDomainOpenHours(businessID, date, hours), nil
}

func (s *Service) invalidateDay(ctx context.Context, businessID int64, date time.Time) {
	if err := s.cache.InvalidateDay(ctx, businessID, date); err != nil {
		s.logger.Warn("failed to invalidate slot cache for business=%d, date=%s: %v",
			businessID, date.Format(domain.DateFormat), err)
	}
}

func (s *Service) mapRepoError(op string, err error) error {
	switch {
	case errors.Is(err, availabilityRepo.ErrSpecialDayNotFound):
		s.logger.Warn("%s: special day not found", op)
		return ErrSpecialDayNotFound
	case errors.Is(err, availabilityRepo.ErrInvalidHours):
		s.logger.Warn("%s: rejected by database: %v", op, err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		s.logger.Error("%s: repository error: %v", op, err)
		return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
}
