package reschedule_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

const operation = "reschedule"

// UseCase use case для переноса бронирования на другое время
type UseCase struct {
	reservationRepo ReservationRepository
	access          AccessChecker
	conflicts       ConflictChecker
	hours           HoursResolver
	txManager       TransactionManager
	notifier        Notifier
	cache           SlotCache
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	access AccessChecker,
	conflicts ConflictChecker,
	hours HoursResolver,
	txManager TransactionManager,
	notifier Notifier,
	cache SlotCache,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		access:          access,
		conflicts:       conflicts,
		hours:           hours,
		txManager:       txManager,
		notifier:        notifier,
		cache:           cache,
		metrics:         metrics,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute выполняет перенос бронирования
// Снимок прежних даты и времени дописывается в историю переносов в той же транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	uc.logger.Info("RescheduleReservation: reservation=%d, user=%d, new date=%s, time=%s-%s",
		req.ReservationID, req.UserID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	defer func() { uc.metrics.IncReservationOutcome(operation, domain.Outcome(err)) }()

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleReservation: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if err := validateNotPast(req.Date, req.StartTime, now); err != nil {
		uc.logger.Warn("RescheduleReservation: %v", err)
		return nil, err
	}

	// 2. Права: переносить может только клиент или бизнес бронирования
	current, err := uc.load(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}
	actor, err := uc.access.ActorFor(ctx, req.UserID, current)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			uc.logger.Warn("RescheduleReservation: user=%d has no access to reservation id=%d", req.UserID, req.ReservationID)
			return nil, ErrAccessDenied
		}
		uc.logger.Error("RescheduleReservation: access check failed: %v", err)
		return nil, fmt.Errorf("%w: access check failed: %w", ErrInternal, err)
	}

	newDate := scheduling.DateOnly(req.Date)
	newSlot := domain.Slot{Start: req.StartTime, End: req.EndTime}

	var (
		previous domain.Reservation
		updated  *domain.Reservation
	)

	// 3. Сериализуемая транзакция: перечитываем с блокировкой, проверяем, пишем
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		r, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
		}
		previous = *r

		// 3.1. Статус допускает перенос
		if !r.CanBeRescheduled() {
			return fmt.Errorf("%w: status %s", ErrCannotReschedule, r.Status)
		}

		// 3.2. Часы работы бизнеса в новую дату
		if r.BusinessID != nil {
			hours, err := uc.hours.Resolve(txCtx, *r.BusinessID, newDate)
			if err != nil {
				return fmt.Errorf("%w: failed to resolve open hours: %w", ErrInternal, err)
			}
			if !hours.IsOpen {
				return ErrBusinessClosed
			}
			if !hours.Contains(newSlot) {
				return fmt.Errorf("%w: open %s-%s", ErrOutsideOpenHours, hours.OpenTime, hours.CloseTime)
			}
		}

		// 3.3. Пересечения без учета самого бронирования
		query := scheduling.QueryFor(r.StaffID, r.BusinessID, newDate, &r.ID)
		conflict, err := uc.conflicts.Check(txCtx, query, newSlot)
		if err != nil {
			return fmt.Errorf("%w: failed to check conflicts: %w", ErrInternal, err)
		}
		if conflict != nil {
			return conflictError(conflict)
		}

		// 3.4. Снимок прежнего времени в историю, затем новые значения
		r.RescheduleHistory = append(r.RescheduleHistory, domain.RescheduleEntry{
			Date:          r.Date,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			RescheduledBy: actor,
			Reason:        req.Reason,
			RescheduledAt: now,
		})
		r.Date = newDate
		r.StartTime = req.StartTime
		r.EndTime = req.EndTime

		updated, err = uc.reservationRepo.Update(txCtx, r)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrOverlap) {
				if r.StaffID != nil {
					return ErrStaffNotAvailable
				}
				return ErrBusinessNotAvailable
			}
			return fmt.Errorf("%w: failed to update reservation: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		err = uc.mapTxError(err)
		return nil, err
	}

	uc.logger.Info("RescheduleReservation: reservation id=%d moved from %s %s to %s %s by %s",
		updated.ID, previous.Date.Format(domain.DateFormat), previous.StartTime,
		updated.Date.Format(domain.DateFormat), updated.StartTime, actor)

	// 4. После фиксации: кэш старого и нового дня, уведомление
	if updated.BusinessID != nil {
		days := []time.Time{previous.Date}
		if !scheduling.IsSameDay(previous.Date, updated.Date) {
			days = append(days, updated.Date)
		}
		for _, day := range days {
			if cacheErr := uc.cache.InvalidateDay(ctx, *updated.BusinessID, day); cacheErr != nil {
				uc.logger.Warn("RescheduleReservation: failed to invalidate slots cache: %v", cacheErr)
			}
		}
	}
	uc.notifier.Notify(ctx, domain.EventReservationRescheduled, *updated, &actor)

	return &Response{Reservation: updated}, nil
}

// load читает бронирование вне транзакции для проверки прав
func (uc *UseCase) load(ctx context.Context, id int64) (*domain.Reservation, error) {
	r, err := uc.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("RescheduleReservation: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("RescheduleReservation: failed to get reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
	}
	return r, nil
}

// mapTxError логирует и приводит ошибку транзакции к ошибке use case
func (uc *UseCase) mapTxError(err error) error {
	if errors.Is(err, txmanager.ErrSerialization) {
		uc.logger.Warn("RescheduleReservation: serialization retries exhausted: %v", err)
		return fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
	}
	if domain.Outcome(err) == domain.OutcomeError {
		uc.logger.Error("RescheduleReservation: %v", err)
		if errors.Is(err, ErrInternal) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
	uc.logger.Warn("RescheduleReservation: rejected: %v", err)
	return err
}

func conflictError(c *scheduling.Conflict) error {
	if c.Scope == domain.ScopeStaff {
		return fmt.Errorf("%w: overlaps reservation id=%d (%s-%s)", ErrStaffNotAvailable, c.With.ID, c.With.StartTime, c.With.EndTime)
	}
	return fmt.Errorf("%w: overlaps reservation id=%d (%s-%s)", ErrBusinessNotAvailable, c.With.ID, c.With.StartTime, c.With.EndTime)
}
