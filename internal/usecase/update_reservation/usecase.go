package update_reservation

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

const operation = "update"

// UseCase use case для частичного обновления бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	access          AccessChecker
	conflicts       ConflictChecker
	hours           HoursResolver
	txManager       TransactionManager
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
		cache:           cache,
		metrics:         metrics,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute применяет патч к бронированию
// Пересечения перепроверяются только если меняются дата, время или сотрудник
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	uc.logger.Info("UpdateReservation: reservation=%d, user=%d, schedule change=%t",
		req.ReservationID, req.UserID, req.Patch.TouchesSchedule())

	defer func() { uc.metrics.IncReservationOutcome(operation, domain.Outcome(err)) }()

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Права
	current, err := uc.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("UpdateReservation: reservation id=%d not found", req.ReservationID)
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("UpdateReservation: failed to get reservation id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
	}
	actor, err := uc.access.ActorFor(ctx, req.UserID, current)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			uc.logger.Warn("UpdateReservation: user=%d has no access to reservation id=%d", req.UserID, req.ReservationID)
			return nil, ErrAccessDenied
		}
		uc.logger.Error("UpdateReservation: access check failed: %v", err)
		return nil, fmt.Errorf("%w: access check failed: %w", ErrInternal, err)
	}
	if actor == domain.ActorCustomer && current.BusinessID != nil && businessOnly(req.Patch) {
		uc.logger.Warn("UpdateReservation: customer=%d tried to change business fields of reservation id=%d",
			req.UserID, req.ReservationID)
		return nil, fmt.Errorf("%w: status, price and staff are set by the business", ErrAccessDenied)
	}

	now := uc.timeProvider.Now()

	var (
		previous domain.Reservation
		updated  *domain.Reservation
	)

	// 3. Сериализуемая транзакция
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		r, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
		}
		previous = *r

		// 3.1. Завершенные и отмененные не меняются
		if r.Status.IsTerminal() {
			return fmt.Errorf("%w: status %s", ErrReservationClosed, r.Status)
		}
		// 3.2. Пакет бронирует весь бизнес, сотрудник не назначается
		if r.IsBundle() && touchesStaff(req.Patch) {
			return fmt.Errorf("%w: bundle id=%d", ErrBundleStaff, *r.BundleID)
		}
		if s := req.Patch.Status; s != nil && *s != r.Status && !r.Status.CanTransitionTo(*s) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, *s)
		}

		next := req.Patch.Apply(*r)
		next.Date = scheduling.DateOnly(next.Date)

		// 3.3. Новое расписание: границы, часы работы, пересечения без учета самого бронирования
		if req.Patch.TouchesSchedule() {
			if err := validateSlot(next, now); err != nil {
				return err
			}
			if err := uc.checkSchedule(txCtx, &next); err != nil {
				return err
			}
		}

		updated, err = uc.reservationRepo.Update(txCtx, &next)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrOverlap) {
				return overlapError(next.StaffID)
			}
			return fmt.Errorf("%w: failed to update reservation: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		err = uc.mapTxError(err)
		return nil, err
	}

	uc.logger.Info("UpdateReservation: reservation id=%d updated by %s", updated.ID, actor)

	// 4. После фиксации: кэш прежнего и нового дня
	if req.Patch.TouchesSchedule() {
		uc.invalidate(ctx, previous.BusinessID, previous.Date)
		if !scheduling.IsSameDay(previous.Date, updated.Date) {
			uc.invalidate(ctx, updated.BusinessID, updated.Date)
		}
	}

	return &Response{Reservation: updated}, nil
}

func (uc *UseCase) checkSchedule(ctx context.Context, r *domain.Reservation) error {
	slot := r.Interval()

	if r.BusinessID != nil {
		hours, err := uc.hours.Resolve(ctx, *r.BusinessID, r.Date)
		if err != nil {
			return fmt.Errorf("%w: failed to resolve open hours: %w", ErrInternal, err)
		}
		if !hours.IsOpen {
			return ErrBusinessClosed
		}
		if !hours.Contains(slot) {
			return fmt.Errorf("%w: open %s-%s", ErrOutsideOpenHours, hours.OpenTime, hours.CloseTime)
		}
	}

	conflict, err := uc.conflicts.Check(ctx, scheduling.QueryFor(r.StaffID, r.BusinessID, r.Date, &r.ID), slot)
	if err != nil {
		return fmt.Errorf("%w: failed to check conflicts: %w", ErrInternal, err)
	}
	if conflict != nil {
		if conflict.Scope == domain.ScopeStaff {
			return fmt.Errorf("%w: overlaps reservation id=%d", ErrStaffNotAvailable, conflict.With.ID)
		}
		return fmt.Errorf("%w: overlaps reservation id=%d", ErrBusinessNotAvailable, conflict.With.ID)
	}
	return nil
}

func (uc *UseCase) invalidate(ctx context.Context, businessID *int64, date time.Time) {
	if businessID == nil {
		return
	}
	if err := uc.cache.InvalidateDay(ctx, *businessID, date); err != nil {
		uc.logger.Warn("UpdateReservation: failed to invalidate slots cache: %v", err)
	}
}

// mapTxError логирует и приводит ошибку транзакции к ошибке use case
func (uc *UseCase) mapTxError(err error) error {
	if errors.Is(err, txmanager.ErrSerialization) {
		uc.logger.Warn("UpdateReservation: serialization retries exhausted: %v", err)
		return fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
	}
	if domain.Outcome(err) == domain.OutcomeError {
		uc.logger.Error("UpdateReservation: %v", err)
		if errors.Is(err, ErrInternal) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
	uc.logger.Warn("UpdateReservation: rejected: %v", err)
	return err
}

func overlapError(staffID *int64) error {
	if staffID != nil {
		return ErrStaffNotAvailable
	}
	return ErrBusinessNotAvailable
}
