package get_available_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
)

// UseCase use case для получения свободных слотов на день
type UseCase struct {
	reservations    ScopeReader
	hours           HoursResolver
	cache           SlotCache
	intervalMinutes int
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
// intervalMinutes - шаг генерации по умолчанию
func NewUseCase(
	reservations ScopeReader,
	hours HoursResolver,
	cache SlotCache,
	intervalMinutes int,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if intervalMinutes <= 0 {
		intervalMinutes = domain.DefaultSlotIntervalMinutes
	}
	return &UseCase{
		reservations:    reservations,
		hours:           hours,
		cache:           cache,
		intervalMinutes: intervalMinutes,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute выполняет use case получения свободных слотов
// Каждый возвращенный слот проходит ту же проверку пересечений, что и бронирование
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%d, date=%s, duration=%d",
		req.BusinessID, req.Date.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	interval := req.IntervalMinutes
	if interval == 0 {
		interval = uc.intervalMinutes
	}

	// 2. Дата не в прошлом
	now := uc.timeProvider.Now()
	if scheduling.IsDateInPast(req.Date, now) {
		uc.logger.Warn("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrDateInPast
	}
	date := scheduling.DateOnly(req.Date)

	resp := &Response{
		BusinessID:      req.BusinessID,
		StaffID:         req.StaffID,
		Date:            date,
		DurationMinutes: req.DurationMinutes,
		IntervalMinutes: interval,
		Slots:           []domain.Slot{},
	}

	// 3. Часы работы на дату
	hours, err := uc.hours.Resolve(ctx, req.BusinessID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve open hours: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve open hours: %w", ErrInternal, err)
	}
	if !hours.IsOpen {
		uc.logger.Info("GetAvailableSlots: business=%d is closed on %s (%s)",
			req.BusinessID, date.Format(domain.DateFormat), hours.Source)
		return resp, nil
	}
	resp.IsOpen = true
	resp.OpenTime = hours.OpenTime
	resp.CloseTime = hours.CloseTime

	// 4. Кэш хранит только вариант по всему бизнесу
	cacheable := req.StaffID == nil
	if cacheable {
		cached, ok, err := uc.cache.Get(ctx, req.BusinessID, date, req.DurationMinutes, interval)
		if err != nil {
			uc.logger.Warn("GetAvailableSlots: slots cache read failed: %v", err)
		}
		if ok {
			resp.Slots = scheduling.DropStarted(cached, date, now)
			return resp, nil
		}
	}

	// 5. Генерируем кандидатов в окне работы
	candidates, err := scheduling.GenerateSlots(hours.OpenTime, hours.CloseTime, req.DurationMinutes, interval)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %w", ErrInternal, err)
	}

	// 6. Убираем пересекающиеся с активными бронированиями
	businessID := req.BusinessID
	scope, _ := domain.ScopeOf(req.StaffID, &businessID)
	existing, err := uc.reservations.ListActiveInScope(ctx, scope, date, nil)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to list reservations: %w", ErrInternal, err)
	}
	free := scheduling.FreeSlots(candidates, scope, existing)

	if cacheable {
		if err := uc.cache.Set(ctx, req.BusinessID, date, req.DurationMinutes, interval, free); err != nil {
			uc.logger.Warn("GetAvailableSlots: slots cache write failed: %v", err)
		}
	}

	// 7. Для сегодняшней даты убираем уже начавшиеся слоты
	resp.Slots = scheduling.DropStarted(free, date, now)

	uc.logger.Info("GetAvailableSlots: %d free slots for business=%d on %s",
		len(resp.Slots), req.BusinessID, date.Format(domain.DateFormat))

	return resp, nil
}
